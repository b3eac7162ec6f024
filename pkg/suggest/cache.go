package suggest

import (
	"math"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// HotCache memoizes ranked suggestions per prefix.
// Keys live in a patricia trie so a committed sentence can drop every
// cached prefix of itself in one walk.
type HotCache struct {
	hotTrie     *patricia.Trie
	accessTime  map[string]int64
	accessCount int64
	hits        int
	misses      int
	maxEntries  int
}

// NewHotCache returns a cache holding at most maxEntries prefixes.
func NewHotCache(maxEntries int) *HotCache {
	return &HotCache{
		hotTrie:    patricia.NewTrie(),
		accessTime: make(map[string]int64, maxEntries),
		maxEntries: maxEntries,
	}
}

// Get returns the cached suggestions for prefix.
func (hc *HotCache) Get(prefix string) ([]Suggestion, bool) {
	item := hc.hotTrie.Get(patricia.Prefix(prefix))
	if item == nil {
		hc.misses++
		return nil, false
	}
	hc.hits++
	hc.markAccessed(prefix)
	cached := item.([]Suggestion)
	out := make([]Suggestion, len(cached))
	copy(out, cached)
	return out, true
}

// Put stores suggestions for prefix, evicting the least recently used entry when full.
func (hc *HotCache) Put(prefix string, suggestions []Suggestion) {
	if hc.maxEntries <= 0 {
		return
	}
	if _, exists := hc.accessTime[prefix]; !exists && len(hc.accessTime) >= hc.maxEntries {
		hc.evictLRU()
	}
	stored := make([]Suggestion, len(suggestions))
	copy(stored, suggestions)
	hc.hotTrie.Set(patricia.Prefix(prefix), stored)
	hc.markAccessed(prefix)
}

// Refresh rewrites every cached prefix of sentence with rerank. Those are
// the only prefixes whose ranking can change when sentence gains frequency.
func (hc *HotCache) Refresh(sentence string, rerank func(cached []Suggestion) []Suggestion) int {
	var stale []string
	err := hc.hotTrie.VisitPrefixes(patricia.Prefix(sentence), func(p patricia.Prefix, _ patricia.Item) error {
		stale = append(stale, string(p))
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting cached prefixes of %q: %v", sentence, err)
	}
	for _, key := range stale {
		cached := hc.hotTrie.Get(patricia.Prefix(key)).([]Suggestion)
		hc.hotTrie.Set(patricia.Prefix(key), rerank(cached))
	}
	if len(stale) > 0 {
		log.Debugf("Refreshed %d cached prefixes of '%s'", len(stale), sentence)
	}
	return len(stale)
}

// Len returns the number of cached prefixes.
func (hc *HotCache) Len() int { return len(hc.accessTime) }

// Stats returns occupancy and hit counters.
func (hc *HotCache) Stats() map[string]int {
	return map[string]int{
		"cacheEntries": len(hc.accessTime),
		"maxEntries":   hc.maxEntries,
		"cacheHits":    hc.hits,
		"cacheMisses":  hc.misses,
	}
}

func (hc *HotCache) markAccessed(prefix string) {
	hc.accessCount++
	hc.accessTime[prefix] = hc.accessCount
}

func (hc *HotCache) evictLRU() {
	var oldest string
	var oldestTime int64 = math.MaxInt64
	for prefix, t := range hc.accessTime {
		if t < oldestTime {
			oldestTime = t
			oldest = prefix
		}
	}
	if oldestTime == math.MaxInt64 {
		return
	}
	hc.hotTrie.Delete(patricia.Prefix(oldest))
	delete(hc.accessTime, oldest)
	log.Debugf("Evicted prefix '%s' from hot cache", oldest)
}
