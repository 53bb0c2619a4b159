// Package cli handles cmd line input and suggestions for DBG and testing various features
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bastiangx/seqserve/internal/logger"
	"github.com/bastiangx/seqserve/internal/utils"
	"github.com/bastiangx/seqserve/pkg/suggest"
	"github.com/charmbracelet/log"
)

// TextInputHandler processes user input from stdin, providing text
// suggestions. It accepts flags to control behavior such as minimum and
// maximum prefix length, suggestion limits, and filtering options.
type TextInputHandler struct {
	engine          suggest.TextSuggester
	log             *log.Logger
	minPrefixLength int
	maxPrefixLength int
	suggestLimit    int
	noFilter        bool
}

// NewTextInputHandler handles initialization of the TextInputHandler with basic parameters
func NewTextInputHandler(engine suggest.TextSuggester, minLength, maxLength, limit int, noFilter bool) *TextInputHandler {
	return &TextInputHandler{
		engine:          engine,
		log:             logger.New("seqserve"),
		minPrefixLength: minLength,
		maxPrefixLength: maxLength,
		suggestLimit:    limit,
		noFilter:        noFilter,
	}
}

// Start begins the interface loop.
// It continuously prompts for input, reads a line from stdin,
// and passes the trimmed input to handleInput() for processing.
// Loop terminates if an error occurs while reading from stdin
func (h *TextInputHandler) Start() error {
	h.log.Print("SeqServe text CLI")
	reader := bufio.NewReader(os.Stdin)
	h.log.Print("type a prefix and press Enter to see the suggestions (Ctrl+C to exit):")

	for {
		h.log.Print("> ")
		prefix, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		prefix = strings.TrimSpace(prefix)
		if prefix == "" {
			continue
		}
		h.handleInput(prefix)
	}
}

// handleInput processes a single prefix to generate suggestions.
// It validates the prefix's length and content, then asks the engine for
// suggestions. Results are formatted and printed to the log.
func (h *TextInputHandler) handleInput(prefix string) {
	if len(prefix) < h.minPrefixLength {
		h.log.Errorf("Prefix too short: %s", prefix)
		return
	}
	if len(prefix) > h.maxPrefixLength {
		h.log.Errorf("Prefix too long: %s", prefix)
		return
	}

	// input filtering by default (unless --no-filter flag is used)
	if !h.noFilter {
		if !utils.IsValidQuery(prefix) {
			h.log.Warnf("No suggestions found for prefix: '%s' (filtered out)", prefix)
			return
		}
	} else {
		h.log.Debug("Input filtering disabled - querying all entries")
	}

	start := time.Now()
	h.log.Debug("Processing request for", "prefix", prefix)

	results, err := h.engine.Suggest(prefix, h.suggestLimit)
	if err != nil {
		h.log.Errorf("Suggest failed for '%s': %v", prefix, err)
		return
	}
	elapsed := time.Since(start)
	h.log.Debugf("Took [ %v ] for prefix '%s'", elapsed, prefix)

	if len(results) == 0 {
		h.log.Warnf("No suggestions found for prefix: '%s'", prefix)
		return
	}

	h.log.Printf("Found %d suggestions for prefix '%s':", len(results), prefix)
	filter := utils.NewEchoFilter(prefix)
	shown := 0
	for _, value := range results {
		if !filter.ShouldShow(value) {
			continue
		}
		shown++
		clValue := fmt.Sprintf("\033[38;5;75m%s\033[0m", value)
		h.log.Printf("%2d. %s", shown, clValue)
	}
	h.log.Debugf("Engine holds %s entries", utils.FormatWithCommas(h.engine.Len()))
}
