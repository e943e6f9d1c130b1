// Package relay implements the single-slot, per-visitor flash store that
// carries a routing tag plus an optional payload from a POST handler to the
// GET request that follows its redirect.
package relay

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/allegro/bigcache/v3"
)

// Entry is what one visitor has pending: a routing tag and an optional
// payload of validated form fields or an error message.
type Entry struct {
	Tag     string            `json:"tag"`
	Payload map[string]string `json:"payload,omitempty"`
}

// Store holds at most one pending Entry per visitor. Stash overwrites
// (last-write-wins, no queue); Take consumes. Entries that are never taken
// fall out of the cache after the TTL.
type Store struct {
	mu    sync.Mutex
	cache *bigcache.BigCache
}

// New creates a Store whose entries expire after ttl.
func New(ttl time.Duration) (*Store, error) {
	cache, err := bigcache.New(context.Background(), bigcache.DefaultConfig(ttl))
	if err != nil {
		return nil, err
	}
	return &Store{cache: cache}, nil
}

// Stash records the pending entry for a visitor, replacing any existing one.
func (s *Store) Stash(visitorID, tag string, payload map[string]string) error {
	buf, err := json.Marshal(Entry{Tag: tag, Payload: payload})
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Set(visitorID, buf)
}

// Take reads and removes the pending entry for a visitor. The second return
// value is false when no entry is pending; consumption is single-shot, so a
// second Take without an intervening Stash reports empty.
func (s *Store) Take(visitorID string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf, err := s.cache.Get(visitorID)
	if err != nil {
		// ErrEntryNotFound and cache faults both read as an empty slot; the
		// caller falls back to the default page either way.
		return Entry{}, false
	}
	s.cache.Delete(visitorID)

	var e Entry
	if err := json.Unmarshal(buf, &e); err != nil {
		return Entry{}, false
	}
	return e, true
}

// Close releases the underlying cache.
func (s *Store) Close() error {
	return s.cache.Close()
}
