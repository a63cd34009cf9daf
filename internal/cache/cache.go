// Package cache provides the in-memory TTL store for extracted video records.
package cache

import (
	"sync"
	"time"

	"tokgrab/pkg/models"
)

// TTL is the fixed lifetime of a cache entry. Entries older than this are
// treated as absent and removed on the next lookup.
const TTL = time.Hour

type entry struct {
	record   models.VideoRecord
	storedAt time.Time
}

// Store maps source URLs to extracted records. Expiry is lazy: there is no
// background sweep, expired entries are evicted when read.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Put inserts or overwrites the record for key, stamped with the current time.
func (s *Store) Put(key string, record models.VideoRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = entry{record: record, storedAt: s.now()}
}

// Get returns the live record for key. An entry older than TTL is deleted
// and reported as absent.
func (s *Store) Get(key string) (models.VideoRecord, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return models.VideoRecord{}, false
	}

	if s.now().Sub(e.storedAt) > TTL {
		s.mu.Lock()
		// Re-check under the write lock: a concurrent Put may have
		// refreshed the entry since the read above.
		if cur, ok := s.entries[key]; ok && s.now().Sub(cur.storedAt) > TTL {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return models.VideoRecord{}, false
	}

	return e.record, true
}

// Len returns the number of stored entries, expired or not.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
