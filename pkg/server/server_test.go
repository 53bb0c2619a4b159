package server

import (
	"bytes"
	"testing"

	"github.com/bastiangx/seqserve/pkg/config"
	"github.com/bastiangx/seqserve/pkg/corpus"
	"github.com/bastiangx/seqserve/pkg/suggest"
	"github.com/bastiangx/seqserve/pkg/tokenize"
	"github.com/vmihailenco/msgpack/v5"
)

// runRequests feeds encoded requests through a server backed by a small
// corpus and returns a decoder over everything it wrote.
func runRequests(t *testing.T, requests ...Request) *msgpack.Decoder {
	t.Helper()
	return runRequestsWithConfig(t, config.DefaultConfig(), requests...)
}

func runRequestsWithConfig(t *testing.T, cfg *config.Config, requests ...Request) *msgpack.Decoder {
	t.Helper()

	text := suggest.NewTextEngine(tokenize.ModeChar)
	if _, err := text.Build([]string{"cat", "car", "dog"}); err != nil {
		t.Fatal(err)
	}
	melody := suggest.NewMelodyEngine(tokenize.EncodingInterval)
	if err := melody.Add(&corpus.Melody{
		Name:  "songA",
		Notes: []tokenize.NoteEvent{{Pitch: 60, Duration: 500}, {Pitch: 64, Duration: 500}, {Pitch: 62, Duration: 250}},
	}); err != nil {
		t.Fatal(err)
	}

	var in, out bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	for _, request := range requests {
		if err := enc.Encode(request); err != nil {
			t.Fatal(err)
		}
	}

	srv := NewServerWithIO(text, melody, cfg, &in, &out)
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	dec := msgpack.NewDecoder(&out)
	var ready StatusResponse
	if err := dec.Decode(&ready); err != nil {
		t.Fatalf("decoding ready message: %v", err)
	}
	if ready.Status != "ready" {
		t.Fatalf("first message status = %q, want ready", ready.Status)
	}
	return dec
}

func TestServerTextCompletion(t *testing.T) {
	dec := runRequests(t, Request{ID: "req_001", Prefix: "ca", Limit: 10})

	var response CompletionResponse
	if err := dec.Decode(&response); err != nil {
		t.Fatal(err)
	}
	if response.ID != "req_001" {
		t.Errorf("response ID = %q, want req_001", response.ID)
	}
	if response.Count != 2 || len(response.Suggestions) != 2 {
		t.Fatalf("got %d suggestions, want 2: %+v", len(response.Suggestions), response.Suggestions)
	}
	if response.Suggestions[0].Value != "car" || response.Suggestions[1].Value != "cat" {
		t.Errorf("suggestions = %+v, want car then cat", response.Suggestions)
	}
	if response.Suggestions[0].Rank != 1 || response.Suggestions[1].Rank != 2 {
		t.Errorf("ranks = %d,%d, want positional 1,2", response.Suggestions[0].Rank, response.Suggestions[1].Rank)
	}
}

func TestServerTextNoMatch(t *testing.T) {
	dec := runRequests(t, Request{ID: "req_002", Mode: "text", Prefix: "zz"})

	var response CompletionResponse
	if err := dec.Decode(&response); err != nil {
		t.Fatal(err)
	}
	// An unmatched prefix is an empty result, not an error.
	if response.Count != 0 {
		t.Errorf("Count = %d for unmatched prefix, want 0", response.Count)
	}
}

func TestServerPrefixTooLong(t *testing.T) {
	long := make([]byte, 0, 128)
	for i := 0; i < 70; i++ {
		long = append(long, 'a')
	}
	dec := runRequests(t, Request{ID: "req_003", Prefix: string(long)})

	var cerr CompletionError
	if err := dec.Decode(&cerr); err != nil {
		t.Fatal(err)
	}
	if cerr.ID != "req_003" || cerr.Code != 400 {
		t.Errorf("error = %+v, want ID req_003 code 400", cerr)
	}
}

func TestServerPrefixBoundsCountRunes(t *testing.T) {
	// "crème" is 5 characters but 6 bytes; a 5-character ceiling must
	// still admit it.
	cfg := config.DefaultConfig()
	cfg.Server.MaxPrefix = 5
	dec := runRequestsWithConfig(t, cfg, Request{ID: "req_runes", Prefix: "crème"})

	var response CompletionResponse
	if err := dec.Decode(&response); err != nil {
		t.Fatal(err)
	}
	if response.ID != "req_runes" {
		t.Errorf("response ID = %q, want req_runes (got an error instead?)", response.ID)
	}
	if response.Count != 0 {
		t.Errorf("Count = %d for unmatched prefix, want 0", response.Count)
	}
}

func TestServerRejectsUnindexablePrefix(t *testing.T) {
	// "!" satisfies the length bound but normalizes to nothing; letting it
	// through would enumerate the whole trie.
	dec := runRequests(t, Request{ID: "req_punct", Prefix: "!"})

	var cerr CompletionError
	if err := dec.Decode(&cerr); err != nil {
		t.Fatal(err)
	}
	if cerr.ID != "req_punct" || cerr.Code != 400 {
		t.Errorf("error = %+v, want ID req_punct code 400", cerr)
	}
}

func TestServerMelodyCompletionFromNotes(t *testing.T) {
	// songA transposed up a tone; interval encoding still matches.
	dec := runRequests(t, Request{
		ID:    "req_004",
		Mode:  "melody",
		Notes: [][2]int{{62, 300}, {66, 300}},
	})

	var response CompletionResponse
	if err := dec.Decode(&response); err != nil {
		t.Fatal(err)
	}
	if response.Count != 1 {
		t.Fatalf("Count = %d, want 1: %+v", response.Count, response.Suggestions)
	}
	s := response.Suggestions[0]
	if s.Value != "songA" {
		t.Errorf("suggestion value = %q, want songA", s.Value)
	}
	// The response carries the stored notes, not the query's.
	if len(s.Notes) != 3 || s.Notes[0] != [2]int{60, 500} {
		t.Errorf("suggestion notes = %v, want the full stored sequence", s.Notes)
	}
}

func TestServerMelodyCompletionFromTokens(t *testing.T) {
	dec := runRequests(t, Request{ID: "req_005", Mode: "melody", Tokens: []int{4, -2}})

	var response CompletionResponse
	if err := dec.Decode(&response); err != nil {
		t.Fatal(err)
	}
	if response.Count != 1 || response.Suggestions[0].Value != "songA" {
		t.Errorf("response = %+v, want songA", response.Suggestions)
	}
}

func TestServerGetInfo(t *testing.T) {
	dec := runRequests(t, Request{ID: "info_01", Action: "get_info"})

	var info InfoResponse
	if err := dec.Decode(&info); err != nil {
		t.Fatal(err)
	}
	if info.Status != "ok" {
		t.Errorf("status = %q, want ok", info.Status)
	}
	if info.Text["totalEntries"] != 3 {
		t.Errorf("text totalEntries = %d, want 3", info.Text["totalEntries"])
	}
	if info.Melody["totalEntries"] != 1 {
		t.Errorf("melody totalEntries = %d, want 1", info.Melody["totalEntries"])
	}
}

func TestServerUnknownAction(t *testing.T) {
	dec := runRequests(t, Request{ID: "bad_01", Action: "explode"})

	var cerr CompletionError
	if err := dec.Decode(&cerr); err != nil {
		t.Fatal(err)
	}
	if cerr.Code != 400 {
		t.Errorf("code = %d, want 400", cerr.Code)
	}
}

func TestServerMultipleRequests(t *testing.T) {
	dec := runRequests(t,
		Request{ID: "a", Prefix: "do"},
		Request{ID: "b", Action: "health"},
	)

	var first CompletionResponse
	if err := dec.Decode(&first); err != nil {
		t.Fatal(err)
	}
	if first.ID != "a" || first.Count != 1 {
		t.Errorf("first response = %+v, want ID a with 1 suggestion", first)
	}
	var second StatusResponse
	if err := dec.Decode(&second); err != nil {
		t.Fatal(err)
	}
	if second.ID != "b" || second.Status != "ok" {
		t.Errorf("second response = %+v, want ID b status ok", second)
	}
}
