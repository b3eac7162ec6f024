package trie

import "errors"

var (
	// ErrInvalidCharacter is returned for characters outside 'a'..'z' and space.
	ErrInvalidCharacter = errors.New("invalid character")
	// ErrInvalidWeight is returned for insert weights below 1.
	ErrInvalidWeight = errors.New("invalid weight")
	// ErrSentenceTooLong is returned when an enforced length bound is exceeded.
	ErrSentenceTooLong = errors.New("sentence too long")
)

// ErrEmptySentence is returned when inserting a sentence with no characters.
var ErrEmptySentence = errors.New("empty sentence")
