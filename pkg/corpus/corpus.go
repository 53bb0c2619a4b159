// Package corpus loads completion corpora from disk: plain text files with
// one entry per line, weighted sentence CSVs, and melody CSVs. All file work
// happens here, before anything reaches the normalizers, so the engines
// never block on I/O.
package corpus

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
)

// SentenceEntry is one row of a sentence CSV: the raw sentence and the
// weight recorded alongside it. Weights are carried through for reporting;
// suggestion order is prefix-match order, not weight order.
type SentenceEntry struct {
	Text   string
	Weight float64
}

// LoadLines reads a plain text corpus, one entry per line. Blank lines are
// skipped; sanitization is the engine's job.
func LoadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open text corpus %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read text corpus %s: %w", path, err)
	}
	log.Debugf("Loaded %d lines from %s", len(lines), path)
	return lines, nil
}

// LoadSentences reads a CSV corpus where each row is a sentence followed by
// a positive weight. Rows with a missing or unparsable weight are skipped
// with a warning rather than failing the whole load.
func LoadSentences(path string) ([]SentenceEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sentence corpus %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var entries []SentenceEntry
	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read sentence corpus %s: %w", path, err)
		}
		row++
		if len(record) < 2 {
			log.Warnf("Skipping row %d of %s: expected sentence,weight", row, path)
			continue
		}
		weight, err := strconv.ParseFloat(record[1], 64)
		if err != nil || weight <= 0 {
			log.Warnf("Skipping row %d of %s: bad weight %q", row, path, record[1])
			continue
		}
		entries = append(entries, SentenceEntry{Text: record[0], Weight: weight})
	}
	log.Debugf("Loaded %d sentences from %s", len(entries), path)
	return entries, nil
}
