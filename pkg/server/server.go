package server

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/seqserve/internal/utils"
	"github.com/bastiangx/seqserve/pkg/config"
	"github.com/bastiangx/seqserve/pkg/corpus"
	"github.com/bastiangx/seqserve/pkg/suggest"
	"github.com/bastiangx/seqserve/pkg/tokenize"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server handles the IPC for sequence completions. Requests are decoded
// from the reader and answered on the writer one at a time; the engines
// handle their own locking, so a synchronous loop is all that is needed.
type Server struct {
	text   suggest.TextSuggester
	melody suggest.MelodySuggester
	cfg    *config.Config
	dec    *msgpack.Decoder
	enc    *msgpack.Encoder
}

// NewServer creates a completion server using stdin/stdout for IPC.
func NewServer(text suggest.TextSuggester, melody suggest.MelodySuggester, cfg *config.Config) *Server {
	return NewServerWithIO(text, melody, cfg, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a completion server on explicit streams.
func NewServerWithIO(text suggest.TextSuggester, melody suggest.MelodySuggester, cfg *config.Config, r io.Reader, w io.Writer) *Server {
	return &Server{
		text:   text,
		melody: melody,
		cfg:    cfg,
		dec:    msgpack.NewDecoder(r),
		enc:    msgpack.NewEncoder(w),
	}
}

// Start begins the request loop. It returns nil when the input stream ends.
func (s *Server) Start() error {
	log.Debug("Starting server")

	// Signal that the server is ready
	s.send(StatusResponse{Status: "ready"})

	for {
		var request Request
		if err := s.dec.Decode(&request); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			log.Errorf("Decoding request: %v", err)
			return err
		}
		s.handleRequest(request)
	}
}

// handleRequest dispatches one decoded request.
func (s *Server) handleRequest(request Request) {
	switch request.Action {
	case "", "complete":
		switch request.Mode {
		case "", "text":
			s.handleText(request)
		case "melody":
			s.handleMelody(request)
		default:
			s.sendError(request.ID, fmt.Sprintf("Unknown mode: %s", request.Mode), 400)
		}
	case "get_info":
		s.send(InfoResponse{
			ID:     request.ID,
			Status: "ok",
			Text:   s.text.Stats(),
			Melody: s.melody.Stats(),
		})
	case "health":
		s.send(StatusResponse{ID: request.ID, Status: "ok"})
	default:
		s.sendError(request.ID, fmt.Sprintf("Unknown action: %s", request.Action), 400)
	}
}

// handleText processes a text completion request. Prefix length bounds come
// from config and count characters, not bytes; an unmatched prefix is a
// normal empty response.
func (s *Server) handleText(request Request) {
	prefix := request.Prefix

	runes := utf8.RuneCountInString(prefix)
	if runes < s.cfg.Server.MinPrefix {
		s.sendError(request.ID, fmt.Sprintf("Prefix must be at least %d characters", s.cfg.Server.MinPrefix), 400)
		log.Debug("Prefix too short in request")
		return
	}
	if runes > s.cfg.Server.MaxPrefix {
		s.sendError(request.ID, fmt.Sprintf("Prefix exceeds maximum length of %d characters", s.cfg.Server.MaxPrefix), 400)
		log.Debug("Prefix too long in request")
		return
	}
	// A prefix of only punctuation or spaces normalizes to nothing and
	// would enumerate the whole trie; a min_prefix bound rejects it here.
	if s.cfg.Server.MinPrefix > 0 && !utils.HasIndexableChars(prefix) {
		s.sendError(request.ID, "Prefix has no completable characters", 400)
		log.Debug("Prefix normalizes to empty in request")
		return
	}

	start := time.Now()
	results, err := s.text.Suggest(prefix, s.clampLimit(request.Limit))
	elapsed := time.Since(start)
	if err != nil {
		s.sendError(request.ID, err.Error(), 400)
		return
	}

	ranks := utils.CreateRankList(len(results))
	suggestions := make([]Suggestion, len(results))
	for i, value := range results {
		suggestions[i] = Suggestion{Value: value, Rank: ranks[i]}
	}

	s.send(CompletionResponse{
		ID:          request.ID,
		Suggestions: suggestions,
		Count:       len(suggestions),
		TimeTaken:   elapsed.Microseconds(),
	})
}

// handleMelody processes a melody completion request, from raw note events
// when present, otherwise from an already-encoded token prefix.
func (s *Server) handleMelody(request Request) {
	limit := s.clampLimit(request.Limit)
	start := time.Now()

	var melodies []*suggestMelody
	if len(request.Notes) > 0 {
		events := make([]tokenize.NoteEvent, len(request.Notes))
		for i, n := range request.Notes {
			events[i] = tokenize.NoteEvent{Pitch: n[0], Duration: n[1]}
		}
		found, err := s.melody.Suggest(events, limit)
		if err != nil {
			s.sendError(request.ID, err.Error(), 400)
			return
		}
		melodies = wrapMelodies(found)
	} else {
		melodies = wrapMelodies(s.melody.SuggestTokens(request.Tokens, limit))
	}
	elapsed := time.Since(start)

	ranks := utils.CreateRankList(len(melodies))
	suggestions := make([]Suggestion, len(melodies))
	for i, m := range melodies {
		suggestions[i] = Suggestion{Value: m.name, Rank: ranks[i], Notes: m.notes}
	}

	s.send(CompletionResponse{
		ID:          request.ID,
		Suggestions: suggestions,
		Count:       len(suggestions),
		TimeTaken:   elapsed.Microseconds(),
	})
}

// clampLimit applies the config default and ceiling to a requested limit.
func (s *Server) clampLimit(limit int) int {
	if limit < 1 || limit > s.cfg.Server.MaxLimit {
		return s.cfg.Server.MaxLimit
	}
	return limit
}

// send encodes one response onto the stream.
func (s *Server) send(response any) {
	if err := s.enc.Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
	}
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) {
	s.send(CompletionError{ID: id, Error: message, Code: code})
}

// suggestMelody pairs a melody name with its wire-format notes.
type suggestMelody struct {
	name  string
	notes [][2]int
}

func wrapMelodies(found []*corpus.Melody) []*suggestMelody {
	out := make([]*suggestMelody, len(found))
	for i, m := range found {
		notes := make([][2]int, len(m.Notes))
		for j, n := range m.Notes {
			notes[j] = [2]int{n.Pitch, n.Duration}
		}
		out[i] = &suggestMelody{name: m.Name, notes: notes}
	}
	return out
}
