// Package trie implements the fixed-alphabet prefix tree that stores sentence frequencies.
package trie

import "fmt"

// Node is one character transition. A terminal node marks the end of at
// least one inserted sentence and carries its accumulated frequency.
type Node struct {
	children  [AlphabetSize]*Node
	terminal  bool
	frequency uint64
}

// Terminal reports whether a sentence ends at n.
func (n *Node) Terminal() bool { return n.terminal }

// Frequency is the sum of all insert weights that ended at n.
func (n *Node) Frequency() uint64 { return n.frequency }

// Child returns the child in slot i, or nil.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= AlphabetSize {
		return nil
	}
	return n.children[i]
}

// Candidate is a sentence found under a prefix with its frequency.
type Candidate struct {
	Sentence  string
	Frequency uint64
}

// Trie owns the root node. It is not safe for concurrent use.
type Trie struct {
	root      *Node
	sentences int
	nodes     int
	maxLength int
}

// New returns an empty trie with no length bound.
func New() *Trie {
	return &Trie{root: &Node{}, nodes: 1}
}

// NewWithLimit returns an empty trie rejecting sentences longer than maxLength.
// A maxLength of zero or less disables the bound.
func NewWithLimit(maxLength int) *Trie {
	t := New()
	t.maxLength = maxLength
	return t
}

// Root exposes the root node for read-only traversal.
func (t *Trie) Root() *Node { return t.root }

// MaxLength returns the enforced bound, 0 when advisory.
func (t *Trie) MaxLength() int { return t.maxLength }

// Insert adds weight to the frequency of sentence, creating missing nodes.
// The sentence is validated in full first so a rejected call never mutates the tree.
func (t *Trie) Insert(sentence string, weight int) error {
	if weight < 1 {
		return fmt.Errorf("%w: %d for %q", ErrInvalidWeight, weight, sentence)
	}
	if sentence == "" {
		return ErrEmptySentence
	}
	if err := t.checkLength(len(sentence)); err != nil {
		return err
	}
	path, err := validate(sentence)
	if err != nil {
		return fmt.Errorf("insert %q: %w", sentence, err)
	}

	current := t.root
	for _, idx := range path {
		if current.children[idx] == nil {
			current.children[idx] = &Node{}
			t.nodes++
		}
		current = current.children[idx]
	}
	if !current.terminal {
		current.terminal = true
		t.sentences++
	}
	current.frequency += uint64(weight)
	return nil
}

// Lookup returns the frequency of an exact sentence.
func (t *Trie) Lookup(sentence string) (uint64, bool) {
	node := t.find(sentence)
	if node == nil || !node.terminal {
		return 0, false
	}
	return node.frequency, true
}

// frame is one pending visit of the traversal stack: the node, the length of
// the sentence spelled at it, and the character on the edge leading to it.
type frame struct {
	node  *Node
	depth int
	char  byte
}

// Collect returns every sentence starting with prefix, the prefix itself
// included when it was inserted. Order is by slot index, depth first.
func (t *Trie) Collect(prefix string) ([]Candidate, error) {
	if _, err := validate(prefix); err != nil {
		return nil, fmt.Errorf("collect %q: %w", prefix, err)
	}
	start := t.find(prefix)
	if start == nil {
		return []Candidate{}, nil
	}

	var candidates []Candidate
	floor := len(prefix)
	buf := make([]byte, floor, floor+MaxSentenceLength)
	copy(buf, prefix)

	stack := make([]frame, 0, MaxSentenceLength)
	stack = append(stack, frame{node: start, depth: floor})
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.depth > floor {
			buf = append(buf[:f.depth-1], f.char)
		}
		if f.node.terminal {
			candidates = append(candidates, Candidate{
				Sentence:  string(buf[:f.depth]),
				Frequency: f.node.frequency,
			})
		}
		for i := AlphabetSize - 1; i >= 0; i-- {
			if child := f.node.children[i]; child != nil {
				stack = append(stack, frame{node: child, depth: f.depth + 1, char: byte(Char(i))})
			}
		}
	}
	if candidates == nil {
		return []Candidate{}, nil
	}
	return candidates, nil
}

// Stats returns the number of distinct sentences and allocated nodes.
func (t *Trie) Stats() map[string]int {
	return map[string]int{
		"sentences": t.sentences,
		"nodes":     t.nodes,
	}
}

// Len returns the number of distinct sentences stored.
func (t *Trie) Len() int { return t.sentences }

func (t *Trie) checkLength(n int) error {
	if t.maxLength > 0 && n > t.maxLength {
		return fmt.Errorf("%w: %d > %d", ErrSentenceTooLong, n, t.maxLength)
	}
	return nil
}

// find walks s without validating; unsupported characters simply miss.
func (t *Trie) find(s string) *Node {
	current := t.root
	for _, c := range s {
		idx, err := Index(c)
		if err != nil {
			return nil
		}
		current = current.children[idx]
		if current == nil {
			return nil
		}
	}
	return current
}
