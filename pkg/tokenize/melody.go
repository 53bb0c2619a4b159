package tokenize

import (
	"fmt"
	"strings"
)

// NoteEvent is one note as delivered by the external MIDI collaborator:
// a MIDI pitch number and a duration in ticks. The normalizer never parses
// raw MIDI bytes itself.
type NoteEvent struct {
	Pitch    int
	Duration int
}

// MelodyEncoding selects how a MelodyNormalizer turns note events into
// tokens. The encoding is fixed per normalizer instance; mixing encodings
// inside one trie would silently break prefix matching.
type MelodyEncoding int

const (
	// EncodingInterval emits the signed semitone delta between consecutive
	// notes. A transposed melody yields the same sequence, which is what
	// "continue this melody" queries want.
	EncodingInterval MelodyEncoding = iota
	// EncodingPitchClass emits each note's absolute pitch class (0..11),
	// for callers that do want key-sensitive matching.
	EncodingPitchClass
)

func (e MelodyEncoding) String() string {
	if e == EncodingPitchClass {
		return "pitch"
	}
	return "interval"
}

// ParseMelodyEncoding maps a config string to a MelodyEncoding.
func ParseMelodyEncoding(s string) (MelodyEncoding, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "interval", "intervals", "relative":
		return EncodingInterval, true
	case "pitch", "pitchclass", "pitch_class", "absolute":
		return EncodingPitchClass, true
	}
	return EncodingInterval, false
}

// MelodyNormalizer converts ordered note events into token sequences.
type MelodyNormalizer struct {
	enc MelodyEncoding
}

// NewMelodyNormalizer creates a normalizer with the given encoding.
func NewMelodyNormalizer(enc MelodyEncoding) *MelodyNormalizer {
	return &MelodyNormalizer{enc: enc}
}

// Encoding returns the encoding this normalizer was built with.
func (n *MelodyNormalizer) Encoding() MelodyEncoding {
	return n.enc
}

// Normalize converts events into the configured token sequence. Empty event
// lists normalize to an empty sequence; in interval mode a single note does
// too, since one note spans no interval. A pitch outside the MIDI range or
// a non-positive duration returns a *ValidationError.
func (n *MelodyNormalizer) Normalize(events []NoteEvent) ([]int, error) {
	for i, ev := range events {
		if ev.Pitch < 0 || ev.Pitch > 127 {
			return nil, &ValidationError{
				Input:  fmt.Sprintf("note %d", i),
				Reason: fmt.Sprintf("pitch %d outside MIDI range 0..127", ev.Pitch),
			}
		}
		if ev.Duration <= 0 {
			return nil, &ValidationError{
				Input:  fmt.Sprintf("note %d", i),
				Reason: fmt.Sprintf("duration %d is not positive", ev.Duration),
			}
		}
	}
	if len(events) == 0 {
		return nil, nil
	}
	if n.enc == EncodingPitchClass {
		toks := make([]int, len(events))
		for i, ev := range events {
			toks[i] = ev.Pitch % 12
		}
		return toks, nil
	}
	toks := make([]int, 0, len(events)-1)
	for i := 1; i < len(events); i++ {
		toks = append(toks, events[i].Pitch-events[i-1].Pitch)
	}
	return toks, nil
}
