package flashcards

import (
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/sakif/flashcard-studio/internal/model"
)

// Cache maps raw submitted text to its extracted flashcards, so identical
// submissions never pay for a second model call.
//
// CONCURRENCY CONTRACT:
// The original design left concurrent first requests for the same text
// racing — both would call the model and last-write-wins on the entry. This
// implementation tightens that to at-most-one in-flight computation per key:
// concurrent misses on the same text share a single compute call via
// singleflight. Requests for different keys never block each other.
//
// The cache is unbounded and never evicts. Sustained distinct-input load
// grows it without limit — a known property of the design, accepted rather
// than mitigated.
type Cache struct {
	mu      sync.RWMutex
	entries map[string][]model.Flashcard
	group   singleflight.Group
}

// NewCache creates an empty flashcard cache.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string][]model.Flashcard),
	}
}

// GetOrCreate returns the cached flashcards for text, computing and storing
// them on a miss.
//
// Only non-empty results are stored: an empty extraction is returned to the
// caller but leaves no entry behind, so the next identical submission tries
// the model again. A compute error is propagated and caches nothing.
//
// Callers must treat the returned slice as read-only — on a hit it is the
// stored entry itself, not a copy. Truncating a response to a requested
// count happens by re-slicing at the call site and never touches the entry.
func (c *Cache) GetOrCreate(text string, compute func() ([]model.Flashcard, error)) ([]model.Flashcard, error) {
	if cards, ok := c.get(text); ok {
		return cards, nil
	}

	v, err, _ := c.group.Do(text, func() (any, error) {
		// A concurrent caller may have stored the entry while we waited
		// for the flight slot.
		if cards, ok := c.get(text); ok {
			return cards, nil
		}

		cards, err := compute()
		if err != nil {
			return nil, err
		}
		if len(cards) > 0 {
			c.set(text, cards)
		}
		return cards, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]model.Flashcard), nil
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) get(text string) ([]model.Flashcard, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cards, ok := c.entries[text]
	return cards, ok
}

func (c *Cache) set(text string, cards []model.Flashcard) {
	c.mu.Lock()
	c.entries[text] = cards
	c.mu.Unlock()
}
