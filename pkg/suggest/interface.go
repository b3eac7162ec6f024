// Package suggest drives the keystroke protocol on top of the sentence trie:
// it accumulates typed characters, ranks completions and learns committed sentences.
package suggest

// IAutocompleter defines the interface for sentence completion sessions
type IAutocompleter interface {
	// Input feeds one keystroke; the terminator commits the pending sentence
	Input(c rune) ([]string, error)

	// Complete ranks completions of prefix without touching pending input
	Complete(prefix string) ([]Suggestion, error)

	// Pending returns the characters typed since the last terminator
	Pending() string

	// Reset discards the pending input
	Reset()

	// Stats returns statistics about the session
	Stats() map[string]int
}
