package suggest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bastiangx/hotserve/pkg/trie"
	"github.com/charmbracelet/log"
)

const (
	// Terminator ends the pending sentence and commits it.
	Terminator = '#'
	// MaxSuggestions is the default number of ranked results per keystroke.
	MaxSuggestions = 3
	// DefaultCacheSize is the default number of memoized prefixes.
	DefaultCacheSize = 1024
)

// ErrLengthMismatch is returned when sentences and weights differ in length.
var ErrLengthMismatch = errors.New("sentences and weights differ in length")

// Suggestion is a ranked sentence with its frequency.
type Suggestion struct {
	Sentence  string
	Frequency uint64
}

// Options tune a Session. The zero value is not usable; start from DefaultOptions.
type Options struct {
	MaxSuggestions    int
	MaxSentenceLength int
	EnforceMaxLength  bool
	Ranking           string
	CacheSize         int
}

// DefaultOptions returns the reference settings.
func DefaultOptions() Options {
	return Options{
		MaxSuggestions:    MaxSuggestions,
		MaxSentenceLength: trie.MaxSentenceLength,
		EnforceMaxLength:  true,
		Ranking:           RankBucket,
		CacheSize:         DefaultCacheSize,
	}
}

// Session owns a trie and the keystrokes typed since the last terminator.
// It is not safe for concurrent use.
type Session struct {
	trie     *trie.Trie
	input    strings.Builder
	ranker   Ranker
	cache    *HotCache
	opts     Options
	commits  int
	strokes  int
	rejected int
}

// New builds a session from a corpus using DefaultOptions.
func New(sentences []string, weights []int) (*Session, error) {
	return NewWithOptions(sentences, weights, DefaultOptions())
}

// NewWithOptions builds a session from a corpus. Each sentence is inserted
// with its weight; the first invalid entry aborts construction.
func NewWithOptions(sentences []string, weights []int, opts Options) (*Session, error) {
	if len(sentences) != len(weights) {
		return nil, fmt.Errorf("%w: %d sentences, %d weights", ErrLengthMismatch, len(sentences), len(weights))
	}
	ranker, err := NewRanker(opts.Ranking)
	if err != nil {
		return nil, err
	}
	if opts.MaxSuggestions < 1 {
		opts.MaxSuggestions = MaxSuggestions
	}
	if opts.MaxSentenceLength < 1 {
		opts.MaxSentenceLength = trie.MaxSentenceLength
	}

	t := trie.New()
	if opts.EnforceMaxLength {
		t = trie.NewWithLimit(opts.MaxSentenceLength)
	}
	for i, s := range sentences {
		if err := t.Insert(s, weights[i]); err != nil {
			return nil, fmt.Errorf("corpus entry %d: %w", i, err)
		}
	}

	s := &Session{
		trie:   t,
		ranker: ranker,
		opts:   opts,
	}
	if opts.CacheSize > 0 {
		s.cache = NewHotCache(opts.CacheSize)
	}
	log.Debugf("Session ready: sentences=[%d], nodes=[%d], ranking=[%s]",
		t.Len(), t.Stats()["nodes"], opts.Ranking)
	return s, nil
}

// Input feeds one keystroke. The terminator commits the pending sentence
// with weight 1 and returns an empty list. Any other character extends the
// pending query and returns its ranked completions. A rejected character
// leaves the pending input unchanged.
func (s *Session) Input(c rune) ([]string, error) {
	s.strokes++
	if c == Terminator {
		return []string{}, s.commit()
	}

	if !trie.IsSupported(c) {
		s.rejected++
		_, err := trie.Index(c)
		return nil, fmt.Errorf("input after %q: %w", s.input.String(), err)
	}
	if s.opts.EnforceMaxLength && s.input.Len()+1 > s.opts.MaxSentenceLength {
		s.rejected++
		return nil, fmt.Errorf("%w: pending input at %d characters", trie.ErrSentenceTooLong, s.input.Len())
	}
	s.input.WriteRune(c)

	suggestions, err := s.Complete(s.input.String())
	if err != nil {
		return nil, err
	}
	return sentences(suggestions), nil
}

// Complete ranks the completions of prefix.
func (s *Session) Complete(prefix string) ([]Suggestion, error) {
	if s.cache != nil && prefix != "" {
		if cached, ok := s.cache.Get(prefix); ok {
			return cached, nil
		}
	}
	candidates, err := s.trie.Collect(prefix)
	if err != nil {
		return nil, err
	}
	ranked := s.ranker.Rank(candidates, s.opts.MaxSuggestions)
	if s.cache != nil && prefix != "" {
		s.cache.Put(prefix, ranked)
	}
	return ranked, nil
}

// Pending returns the characters typed since the last terminator.
func (s *Session) Pending() string { return s.input.String() }

// Reset discards the pending input without committing it.
func (s *Session) Reset() { s.input.Reset() }

// Frequency returns the stored frequency of an exact sentence.
func (s *Session) Frequency(sentence string) (uint64, bool) {
	return s.trie.Lookup(sentence)
}

// Stats returns trie, keystroke and cache counters.
func (s *Session) Stats() map[string]int {
	stats := s.trie.Stats()
	stats["commits"] = s.commits
	stats["keystrokes"] = s.strokes
	stats["rejected"] = s.rejected
	stats["maxSuggestions"] = s.opts.MaxSuggestions
	if s.cache != nil {
		for k, v := range s.cache.Stats() {
			stats[k] = v
		}
	}
	return stats
}

// commit inserts the pending sentence with weight 1. An empty pending
// input commits nothing.
func (s *Session) commit() error {
	sentence := s.input.String()
	s.input.Reset()
	if sentence == "" {
		return nil
	}
	if err := s.trie.Insert(sentence, 1); err != nil {
		return err
	}
	s.commits++
	if s.cache != nil {
		s.refreshCache(sentence)
	}
	log.Debugf("Committed '%s'", sentence)
	return nil
}

// refreshCache reranks the cached prefixes of a committed sentence. Only its
// frequency changed, so the new top k is drawn from the old top k plus the
// sentence itself.
func (s *Session) refreshCache(sentence string) {
	freq, _ := s.trie.Lookup(sentence)
	s.cache.Refresh(sentence, func(cached []Suggestion) []Suggestion {
		candidates := make([]trie.Candidate, 0, len(cached)+1)
		for _, c := range cached {
			if c.Sentence != sentence {
				candidates = append(candidates, trie.Candidate{Sentence: c.Sentence, Frequency: c.Frequency})
			}
		}
		candidates = append(candidates, trie.Candidate{Sentence: sentence, Frequency: freq})
		return s.ranker.Rank(candidates, s.opts.MaxSuggestions)
	})
}

func sentences(suggestions []Suggestion) []string {
	out := make([]string, len(suggestions))
	for i, sg := range suggestions {
		out[i] = sg.Sentence
	}
	return out
}
