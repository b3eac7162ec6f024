/*
Package server implements msgpack IPC for sentence completion sessions.

The server reads a stream of msgpack maps from stdin and answers each with one
map on stdout. Requests are processed synchronously against a single session,
so clients serving several users run one server process per user.

# IPC

Every request carries an ID and an action. Keystrokes use the "input" action:

	{"id": "1", "a": "input", "ch": "i"}

The response holds up to three ranked sentences, the pending input and the
time taken in microseconds:

	{"id": "1", "s": [{"s": "i love you", "r": 1}, {"s": "island", "r": 2}], "c": 2, "p": "i", "t": 14}

Sending the terminator "#" commits the pending sentence and returns an empty list.

Other actions:

	{"id": "2", "a": "complete", "p": "i lo"}   // rank a prefix, pending input untouched
	{"id": "3", "a": "reset"}                   // discard pending input
	{"id": "4", "a": "stats"}                   // session counters

Failures are answered with CompletionError:

	{"id": "1", "e": "input after \"i\": invalid character: 'I'", "c": 400}
*/
package server

// Request actions.
const (
	ActionInput    = "input"
	ActionComplete = "complete"
	ActionReset    = "reset"
	ActionStats    = "stats"
)

// Request is the single request envelope.
type Request struct {
	ID     string `msgpack:"id"`
	Action string `msgpack:"a"`
	Char   string `msgpack:"ch,omitempty"`
	Prefix string `msgpack:"p,omitempty"`
}

// CompletionSuggestion - minimal suggestion response
type CompletionSuggestion struct {
	Sentence  string `msgpack:"s"`
	Rank      uint16 `msgpack:"r"`
	Frequency uint64 `msgpack:"f,omitempty"`
}

// CompletionResponse answers input and complete requests
type CompletionResponse struct {
	ID          string                 `msgpack:"id"`
	Suggestions []CompletionSuggestion `msgpack:"s"`
	Count       int                    `msgpack:"c"`
	Pending     string                 `msgpack:"p"`
	Committed   bool                   `msgpack:"k,omitempty"`
	TimeTaken   int64                  `msgpack:"t"`
}

// StatusResponse answers reset and stats requests
type StatusResponse struct {
	ID     string         `msgpack:"id"`
	Status string         `msgpack:"status"`
	Stats  map[string]int `msgpack:"stats,omitempty"`
}

// CompletionError holds basic error information for failed requests
type CompletionError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
