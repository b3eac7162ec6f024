package trie

import "fmt"

const (
	// AlphabetSize covers 'a'..'z' plus the space character.
	AlphabetSize = 27
	// MaxSentenceLength is the expected upper bound on a sentence.
	MaxSentenceLength = 200

	spaceIndex = AlphabetSize - 1
)

// Index maps a supported character to its child slot.
// Letters map to 0..25 and the space maps to 26.
func Index(c rune) (int, error) {
	switch {
	case c == ' ':
		return spaceIndex, nil
	case c >= 'a' && c <= 'z':
		return int(c - 'a'), nil
	}
	return -1, fmt.Errorf("%w: %q", ErrInvalidCharacter, c)
}

// Char is the inverse of Index.
func Char(i int) rune {
	if i == spaceIndex {
		return ' '
	}
	return rune('a' + i)
}

// IsSupported reports whether c belongs to the alphabet.
func IsSupported(c rune) bool {
	return c == ' ' || (c >= 'a' && c <= 'z')
}

// validate checks every character of s and returns the slot path.
func validate(s string) ([]int, error) {
	path := make([]int, 0, len(s))
	for pos, c := range s {
		idx, err := Index(c)
		if err != nil {
			return nil, fmt.Errorf("%w at position %d", err, pos)
		}
		path = append(path, idx)
	}
	return path, nil
}
