/*
Package server implements msgpack IPC for sequence completion services.

The server provides a minimal interface for text and melody completion using
msgpack serialization over stdin/stdout.

Messages are processed synchronously with timing info included in responses.

# IPC

The server operates on a request response model where clients send structured
messages via stdin and receive responses through stdout. Each message carries
an ID the response echoes back.

Text completion requests use this structure:

	{"id": "req_001", "m": "text", "p": "what a", "l": 24}

Melody completion requests send either raw note events as [pitch, duration]
pairs, normalized by the engine's own encoding:

	{"id": "req_002", "m": "melody", "n": [[60, 500], [64, 500]], "l": 8}

or an already-encoded token prefix (signed intervals for interval engines,
pitch classes for pitch-class engines):

	{"id": "req_003", "m": "melody", "iv": [4, -2]}

The server responds with suggestions in the engine's deterministic traversal
order, ranked by position:

	{"id": "req_001", "s": [{"v": "what a wonderful world", "r": 1}], "c": 1, "t": 145}

Melody suggestions carry the full note sequence so the caller can hand it to
a player; the server itself never renders audio.

Stats requests report engine and cache counters:

	{"id": "info_01", "action": "get_info"}

Malformed requests produce an error message with a status code; an
unmatched prefix is a normal empty result, never an error.
*/
package server

// Request is the envelope for every incoming message. An empty action means
// completion; Mode selects the engine, defaulting to text.
type Request struct {
	ID     string   `msgpack:"id"`
	Action string   `msgpack:"action,omitempty"` // "", "complete", "get_info", "health"
	Mode   string   `msgpack:"m,omitempty"`      // "text" (default) or "melody"
	Prefix string   `msgpack:"p,omitempty"`
	Tokens []int    `msgpack:"iv,omitempty"`
	Notes  [][2]int `msgpack:"n,omitempty"`
	Limit  int      `msgpack:"l,omitempty"`
}

// Suggestion is one completion candidate. Notes is only set for melody
// results.
type Suggestion struct {
	Value string   `msgpack:"v"`
	Rank  uint16   `msgpack:"r"`
	Notes [][2]int `msgpack:"n,omitempty"`
}

// CompletionResponse answers a completion request. TimeTaken is in
// microseconds.
type CompletionResponse struct {
	ID          string       `msgpack:"id"`
	Suggestions []Suggestion `msgpack:"s"`
	Count       int          `msgpack:"c"`
	TimeTaken   int64        `msgpack:"t"`
}

// InfoResponse answers a get_info request with engine counters.
type InfoResponse struct {
	ID     string         `msgpack:"id"`
	Status string         `msgpack:"status"`
	Text   map[string]int `msgpack:"text,omitempty"`
	Melody map[string]int `msgpack:"melody,omitempty"`
}

// StatusResponse reports readiness and health.
type StatusResponse struct {
	ID     string `msgpack:"id,omitempty"`
	Status string `msgpack:"status"`
}

// CompletionError holds basic error information for failed requests
type CompletionError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
