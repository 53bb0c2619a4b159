package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bastiangx/seqserve/internal/logger"
	"github.com/bastiangx/seqserve/pkg/corpus"
	"github.com/bastiangx/seqserve/pkg/suggest"
	"github.com/bastiangx/seqserve/pkg/tokenize"
	"github.com/charmbracelet/log"
)

// MelodyInputHandler reads melodic prefixes from stdin and prints matching
// melodies. Two input forms are accepted per line:
//
//	60:500 64:500 67:500    pitch:duration note events
//	+4 -2 0                 already-encoded tokens
//
// Note events go through the engine's normalizer; bare tokens are handed to
// the trie as-is.
type MelodyInputHandler struct {
	engine       suggest.MelodySuggester
	log          *log.Logger
	suggestLimit int
}

// NewMelodyInputHandler handles initialization of the MelodyInputHandler
func NewMelodyInputHandler(engine suggest.MelodySuggester, limit int) *MelodyInputHandler {
	return &MelodyInputHandler{
		engine:       engine,
		log:          logger.New("seqserve"),
		suggestLimit: limit,
	}
}

// Start begins the interface loop, one melodic prefix per line.
func (h *MelodyInputHandler) Start() error {
	h.log.Print("SeqServe melody CLI")
	reader := bufio.NewReader(os.Stdin)
	h.log.Print("enter notes as pitch:duration pairs (60:500 64:500) or raw tokens (+4 -2), Ctrl+C to exit:")

	for {
		h.log.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		h.handleInput(line)
	}
}

// handleInput parses one melodic prefix and prints the matching melodies.
func (h *MelodyInputHandler) handleInput(line string) {
	start := time.Now()

	var found []melodyResult
	if strings.Contains(line, ":") {
		events, err := parseNoteEvents(line)
		if err != nil {
			h.log.Errorf("Bad note input: %v", err)
			return
		}
		results, err := h.engine.Suggest(events, h.suggestLimit)
		if err != nil {
			h.log.Errorf("Suggest failed: %v", err)
			return
		}
		found = wrapResults(results)
	} else {
		toks, err := parseTokens(line)
		if err != nil {
			h.log.Errorf("Bad token input: %v", err)
			return
		}
		found = wrapResults(h.engine.SuggestTokens(toks, h.suggestLimit))
	}
	elapsed := time.Since(start)
	h.log.Debugf("Took [ %v ] for input '%s'", elapsed, line)

	if len(found) == 0 {
		h.log.Warnf("No melodies match: '%s'", line)
		return
	}

	h.log.Printf("Found %d melodies:", len(found))
	for i, m := range found {
		clName := fmt.Sprintf("\033[38;5;75m%s\033[0m", m.name)
		h.log.Printf("%2d. %-32s (%d notes)", i+1, clName, m.noteCount)
	}
}

type melodyResult struct {
	name      string
	noteCount int
}

func wrapResults(results []*corpus.Melody) []melodyResult {
	out := make([]melodyResult, len(results))
	for i, m := range results {
		out[i] = melodyResult{name: m.Name, noteCount: len(m.Notes)}
	}
	return out
}

// parseNoteEvents parses "60:500 64:500" style input.
func parseNoteEvents(line string) ([]tokenize.NoteEvent, error) {
	fields := strings.Fields(line)
	events := make([]tokenize.NoteEvent, 0, len(fields))
	for _, field := range fields {
		pitchStr, durStr, ok := strings.Cut(field, ":")
		if !ok {
			return nil, fmt.Errorf("expected pitch:duration, got %q", field)
		}
		pitch, err := strconv.Atoi(pitchStr)
		if err != nil {
			return nil, fmt.Errorf("bad pitch %q", pitchStr)
		}
		dur, err := strconv.Atoi(durStr)
		if err != nil {
			return nil, fmt.Errorf("bad duration %q", durStr)
		}
		events = append(events, tokenize.NoteEvent{Pitch: pitch, Duration: dur})
	}
	return events, nil
}

// parseTokens parses "+4 -2 0" style input.
func parseTokens(line string) ([]int, error) {
	fields := strings.Fields(line)
	toks := make([]int, 0, len(fields))
	for _, field := range fields {
		tok, err := strconv.Atoi(strings.TrimPrefix(field, "+"))
		if err != nil {
			return nil, fmt.Errorf("bad token %q", field)
		}
		toks = append(toks, tok)
	}
	return toks, nil
}
