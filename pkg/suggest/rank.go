package suggest

import (
	"fmt"
	"sort"

	"github.com/bastiangx/hotserve/pkg/trie"
)

// Ranking strategies accepted by NewRanker.
const (
	RankBucket  = "bucket"
	RankBounded = "bounded"
)

// Ranker selects the k best candidates ordered by frequency descending,
// then sentence ascending.
type Ranker interface {
	Rank(candidates []trie.Candidate, k int) []Suggestion
}

// NewRanker returns the ranker registered under name.
func NewRanker(name string) (Ranker, error) {
	switch name {
	case RankBucket, "":
		return BucketRanker{}, nil
	case RankBounded:
		return BoundedRanker{}, nil
	}
	return nil, fmt.Errorf("unknown ranking strategy %q", name)
}

// bucket groups sentences sharing one frequency.
type bucket struct {
	frequency uint64
	sentences []string
}

// drain walks buckets in the given order, sorting each bucket's sentences
// and taking them until k suggestions are collected.
func drain(buckets []*bucket, k int) []Suggestion {
	result := make([]Suggestion, 0, k)
	for _, b := range buckets {
		sort.Strings(b.sentences)
		take := min(k-len(result), len(b.sentences))
		for _, s := range b.sentences[:take] {
			result = append(result, Suggestion{Sentence: s, Frequency: b.frequency})
		}
		if len(result) == k {
			break
		}
	}
	return result
}

// BucketRanker rebuilds a frequency -> sentences map from every candidate.
type BucketRanker struct{}

func (BucketRanker) Rank(candidates []trie.Candidate, k int) []Suggestion {
	if k <= 0 {
		return []Suggestion{}
	}
	byFreq := make(map[uint64]*bucket)
	for _, c := range candidates {
		b, ok := byFreq[c.Frequency]
		if !ok {
			b = &bucket{frequency: c.Frequency}
			byFreq[c.Frequency] = b
		}
		b.sentences = append(b.sentences, c.Sentence)
	}

	buckets := make([]*bucket, 0, len(byFreq))
	for _, b := range byFreq {
		buckets = append(buckets, b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].frequency > buckets[j].frequency
	})
	return drain(buckets, k)
}

// BoundedRanker keeps only the buckets of the k highest frequencies seen so far.
// Ties with a retained frequency always join its bucket, so no candidate the
// full rescan would return is dropped: every one of the top k sentences has
// one of the k highest distinct frequencies.
type BoundedRanker struct{}

func (BoundedRanker) Rank(candidates []trie.Candidate, k int) []Suggestion {
	if k <= 0 {
		return []Suggestion{}
	}
	// kept is ordered by frequency descending; kept[len-1] is the minimum.
	kept := make([]*bucket, 0, k+1)
	for _, c := range candidates {
		pos := sort.Search(len(kept), func(i int) bool {
			return kept[i].frequency <= c.Frequency
		})
		if pos < len(kept) && kept[pos].frequency == c.Frequency {
			kept[pos].sentences = append(kept[pos].sentences, c.Sentence)
			continue
		}
		if len(kept) == k && pos == len(kept) {
			continue
		}
		kept = append(kept, nil)
		copy(kept[pos+1:], kept[pos:])
		kept[pos] = &bucket{frequency: c.Frequency, sentences: []string{c.Sentence}}
		if len(kept) > k {
			kept = kept[:k]
		}
	}
	return drain(kept, k)
}
