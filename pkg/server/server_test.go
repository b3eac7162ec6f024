package server

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/bastiangx/hotserve/pkg/config"
	"github.com/bastiangx/hotserve/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func newSession(t *testing.T) *suggest.Session {
	t.Helper()
	s, err := suggest.New(
		[]string{"i love you", "island", "ironman", "i love leetcode"},
		[]int{5, 3, 2, 2},
	)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

// run feeds reqs to a fresh server and returns the raw responses.
func run(t *testing.T, session suggest.IAutocompleter, reqs ...Request) []msgpack.RawMessage {
	t.Helper()
	var in bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	for _, r := range reqs {
		if err := enc.Encode(r); err != nil {
			t.Fatal(err)
		}
	}
	var out bytes.Buffer
	if err := NewServerWithIO(session, config.DefaultConfig(), &in, &out).Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	var responses []msgpack.RawMessage
	dec := msgpack.NewDecoder(&out)
	for {
		var raw msgpack.RawMessage
		if err := dec.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			t.Fatal(err)
		}
		responses = append(responses, raw)
	}
	if len(responses) != len(reqs) {
		t.Fatalf("got %d responses for %d requests", len(responses), len(reqs))
	}
	return responses
}

func decode[T any](t *testing.T, raw msgpack.RawMessage) T {
	t.Helper()
	var v T
	if err := msgpack.Unmarshal(raw, &v); err != nil {
		t.Fatal(err)
	}
	return v
}

func words(r CompletionResponse) []string {
	out := make([]string, len(r.Suggestions))
	for i, s := range r.Suggestions {
		out[i] = s.Sentence
	}
	return out
}

func TestServerKeystrokes(t *testing.T) {
	session := newSession(t)
	responses := run(t, session,
		Request{ID: "1", Action: ActionInput, Char: "i"},
		Request{ID: "2", Action: ActionInput, Char: " "},
		Request{ID: "3", Action: ActionInput, Char: "a"},
		Request{ID: "4", Action: ActionInput, Char: "#"},
		Request{ID: "5", Action: ActionComplete, Prefix: "i a"},
	)

	first := decode[CompletionResponse](t, responses[0])
	if first.ID != "1" || first.Count != 3 || first.Pending != "i" {
		t.Errorf("first response = %+v", first)
	}
	want := []string{"i love you", "island", "i love leetcode"}
	for i, w := range words(first) {
		if w != want[i] || first.Suggestions[i].Rank != uint16(i+1) {
			t.Errorf("suggestion %d = %+v, want %q rank %d", i, first.Suggestions[i], want[i], i+1)
		}
	}

	second := decode[CompletionResponse](t, responses[1])
	if second.Count != 2 || second.Pending != "i " {
		t.Errorf("second response = %+v", second)
	}

	commit := decode[CompletionResponse](t, responses[3])
	if !commit.Committed || commit.Count != 0 || commit.Pending != "" {
		t.Errorf("commit response = %+v", commit)
	}

	learned := decode[CompletionResponse](t, responses[4])
	if learned.Count != 1 || learned.Suggestions[0].Sentence != "i a" || learned.Suggestions[0].Frequency != 1 {
		t.Errorf("complete after commit = %+v", learned)
	}
}

func TestServerErrors(t *testing.T) {
	session := newSession(t)
	responses := run(t, session,
		Request{ID: "a", Action: ActionInput, Char: "i"},
		Request{ID: "b", Action: ActionInput, Char: "X"},
		Request{ID: "c", Action: ActionInput, Char: "ab"},
		Request{ID: "d", Action: ActionComplete},
		Request{ID: "e", Action: "explode"},
		Request{ID: "f", Action: ActionComplete, Prefix: "I"},
	)

	for _, i := range []int{1, 2, 3, 4, 5} {
		e := decode[CompletionError](t, responses[i])
		if e.Code != 400 || e.Error == "" {
			t.Errorf("response %d = %+v, want a 400 error", i, e)
		}
	}
	if session.Pending() != "i" {
		t.Errorf("rejected keystrokes changed pending input to %q", session.Pending())
	}
}

func TestServerResetAndStats(t *testing.T) {
	session := newSession(t)
	responses := run(t, session,
		Request{ID: "1", Action: ActionInput, Char: "i"},
		Request{ID: "2", Action: ActionReset},
		Request{ID: "3", Action: ActionStats},
	)

	reset := decode[StatusResponse](t, responses[1])
	if reset.Status != "ok" || session.Pending() != "" {
		t.Errorf("reset = %+v, pending %q", reset, session.Pending())
	}
	stats := decode[StatusResponse](t, responses[2])
	if stats.Stats["sentences"] != 4 || stats.Stats["keystrokes"] != 1 {
		t.Errorf("stats = %+v", stats.Stats)
	}
}

func TestServerEmptyInput(t *testing.T) {
	var out bytes.Buffer
	if err := NewServerWithIO(newSession(t), nil, &bytes.Buffer{}, &out).Start(); err != nil {
		t.Errorf("empty input returned %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("wrote %d bytes for no requests", out.Len())
	}
}

func TestServerCorruptStream(t *testing.T) {
	in := bytes.NewBuffer([]byte{0xc1})
	var out bytes.Buffer
	if err := NewServerWithIO(newSession(t), nil, in, &out).Start(); err == nil {
		t.Error("corrupt stream did not fail")
	}
	e := decode[CompletionError](t, out.Bytes())
	if e.Code != 400 {
		t.Errorf("error response = %+v", e)
	}
}

func TestServerTerminatorOnEmptyInputCommitsNothing(t *testing.T) {
	session := newSession(t)
	responses := run(t, session,
		Request{ID: "1", Action: ActionInput, Char: "#"},
		Request{ID: "2", Action: ActionInput, Char: "z"},
		Request{ID: "3", Action: ActionInput, Char: "#"},
	)

	empty := decode[CompletionResponse](t, responses[0])
	if empty.Committed {
		t.Errorf("empty terminator reported a commit: %+v", empty)
	}
	real := decode[CompletionResponse](t, responses[2])
	if !real.Committed {
		t.Errorf("terminator after \"z\" reported no commit: %+v", real)
	}
	if session.Stats()["commits"] != 1 {
		t.Errorf("commits = %d, want 1", session.Stats()["commits"])
	}
}
