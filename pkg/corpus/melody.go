package corpus

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/bastiangx/seqserve/pkg/tokenize"
	"github.com/charmbracelet/log"
)

// Pitch bounds for corpus melodies, the playable piano range. Queries may
// use the full MIDI range; corpus rows outside this band are suspect data.
const (
	MinCorpusPitch = 21
	MaxCorpusPitch = 108
)

// Melody is a named note sequence as loaded from a corpus file. The engine
// indexes it by its token sequence and hands the whole Melody back to
// callers, who decide what to do with it (display, playback, etc).
type Melody struct {
	Name  string
	Notes []tokenize.NoteEvent
}

// Valid reports whether the melody satisfies the corpus invariants:
// a name, at least one note, pitches within the corpus range, positive
// durations.
func (m *Melody) Valid() bool {
	if m.Name == "" || len(m.Notes) == 0 {
		return false
	}
	for _, n := range m.Notes {
		if n.Pitch < MinCorpusPitch || n.Pitch > MaxCorpusPitch || n.Duration <= 0 {
			return false
		}
	}
	return true
}

// LoadMelodies reads a melody CSV where each row is a name followed by
// pitch,duration pairs. A blank cell ends the row's notes early; the rest of
// the row is ignored. Rows that fail the corpus invariants are skipped with
// a warning.
func LoadMelodies(path string) ([]*Melody, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open melody corpus %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var melodies []*Melody
	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read melody corpus %s: %w", path, err)
		}
		row++
		if len(record) == 0 {
			continue
		}
		melody, perr := parseMelodyRow(record)
		if perr != nil {
			log.Warnf("Skipping row %d of %s: %v", row, path, perr)
			continue
		}
		if !melody.Valid() {
			log.Warnf("Skipping row %d of %s: notes outside corpus range", row, path)
			continue
		}
		melodies = append(melodies, melody)
	}
	log.Debugf("Loaded %d melodies from %s", len(melodies), path)
	return melodies, nil
}

// parseMelodyRow turns one CSV record into a Melody, truncating at the
// first blank cell.
func parseMelodyRow(record []string) (*Melody, error) {
	name := record[0]
	if name == "" {
		return nil, fmt.Errorf("missing melody name")
	}
	cells := record[1:]
	for i, cell := range cells {
		if cell == "" {
			cells = cells[:i]
			break
		}
	}
	if len(cells)%2 != 0 {
		return nil, fmt.Errorf("odd number of note cells for %q", name)
	}
	notes := make([]tokenize.NoteEvent, 0, len(cells)/2)
	for i := 0; i < len(cells); i += 2 {
		pitch, err := strconv.Atoi(cells[i])
		if err != nil {
			return nil, fmt.Errorf("bad pitch %q for %q", cells[i], name)
		}
		dur, err := strconv.Atoi(cells[i+1])
		if err != nil {
			return nil, fmt.Errorf("bad duration %q for %q", cells[i+1], name)
		}
		notes = append(notes, tokenize.NoteEvent{Pitch: pitch, Duration: dur})
	}
	if len(notes) == 0 {
		return nil, fmt.Errorf("no notes for %q", name)
	}
	return &Melody{Name: name, Notes: notes}, nil
}
