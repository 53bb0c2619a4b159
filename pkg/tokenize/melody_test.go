package tokenize

import (
	"errors"
	"slices"
	"testing"
)

func TestMelodyIntervalEncoding(t *testing.T) {
	n := NewMelodyNormalizer(EncodingInterval)
	testCases := []struct {
		name   string
		events []NoteEvent
		want   []int
	}{
		{
			"ascending third then step down",
			[]NoteEvent{{60, 500}, {64, 500}, {62, 250}},
			[]int{4, -2},
		},
		{
			"repeated note",
			[]NoteEvent{{60, 500}, {60, 500}},
			[]int{0},
		},
		{"single note spans no interval", []NoteEvent{{60, 500}}, nil},
		{"empty", nil, nil},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := n.Normalize(tc.events)
			if err != nil {
				t.Fatalf("Normalize error: %v", err)
			}
			if !slices.Equal(got, tc.want) {
				t.Errorf("Normalize = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestMelodyTranspositionInvariance(t *testing.T) {
	n := NewMelodyNormalizer(EncodingInterval)
	melody := []NoteEvent{{60, 500}, {64, 500}, {62, 250}, {67, 1000}}
	base, err := n.Normalize(melody)
	if err != nil {
		t.Fatal(err)
	}
	for _, shift := range []int{-12, -3, 4, 12} {
		shifted := make([]NoteEvent, len(melody))
		for i, ev := range melody {
			shifted[i] = NoteEvent{Pitch: ev.Pitch + shift, Duration: ev.Duration}
		}
		got, err := n.Normalize(shifted)
		if err != nil {
			t.Fatalf("shift %d: %v", shift, err)
		}
		if !slices.Equal(got, base) {
			t.Errorf("shift %d: tokens = %v, want %v", shift, got, base)
		}
	}
}

func TestMelodyPitchClassEncoding(t *testing.T) {
	n := NewMelodyNormalizer(EncodingPitchClass)
	got, err := n.Normalize([]NoteEvent{{60, 500}, {72, 500}, {61, 250}})
	if err != nil {
		t.Fatal(err)
	}
	// Octaves fold away: 60 and 72 are both pitch class 0.
	want := []int{0, 0, 1}
	if !slices.Equal(got, want) {
		t.Errorf("pitch class tokens = %v, want %v", got, want)
	}
}

func TestMelodyValidation(t *testing.T) {
	n := NewMelodyNormalizer(EncodingInterval)
	testCases := []struct {
		name   string
		events []NoteEvent
	}{
		{"pitch below range", []NoteEvent{{-1, 500}}},
		{"pitch above range", []NoteEvent{{128, 500}}},
		{"zero duration", []NoteEvent{{60, 0}}},
		{"negative duration", []NoteEvent{{60, 500}, {64, -10}}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := n.Normalize(tc.events)
			if err == nil {
				t.Fatal("Normalize returned nil error")
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("error type = %T, want *ValidationError", err)
			}
		})
	}
}

func TestParseMelodyEncoding(t *testing.T) {
	testCases := []struct {
		input string
		want  MelodyEncoding
		ok    bool
	}{
		{"interval", EncodingInterval, true},
		{"relative", EncodingInterval, true},
		{"pitch", EncodingPitchClass, true},
		{"Pitch_Class", EncodingPitchClass, true},
		{"absolute", EncodingPitchClass, true},
		{"nope", EncodingInterval, false},
	}
	for _, tc := range testCases {
		got, ok := ParseMelodyEncoding(tc.input)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseMelodyEncoding(%q) = (%v, %v), want (%v, %v)", tc.input, got, ok, tc.want, tc.ok)
		}
	}
}
