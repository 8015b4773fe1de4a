package chat

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

type sessionEntry struct {
	mu      sync.Mutex // held while a reply is streaming
	session Session
}

// SessionStore keeps chat sessions by ID with a sliding TTL and a bounded
// number of entries.
type SessionStore struct {
	cache    *ristretto.Cache[string, *sessionEntry]
	ttl      time.Duration
	mu       sync.Mutex           // serializes get-or-create
	lastUsed map[string]time.Time // guarded by mu
	capacity int
}

// NewSessionStore creates a store holding at most maxSessions sessions,
// each evicted after ttl without use.
func NewSessionStore(maxSessions int64, ttl time.Duration) (*SessionStore, error) {
	if maxSessions <= 0 {
		return nil, fmt.Errorf("max sessions must be positive, got %d", maxSessions)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive, got %s", ttl)
	}

	// Cost counts sessions, not bytes
	cache, err := ristretto.NewCache(&ristretto.Config[string, *sessionEntry]{
		NumCounters:        maxSessions * 10,
		MaxCost:            maxSessions,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create session cache: %w", err)
	}

	return &SessionStore{
		cache:    cache,
		ttl:      ttl,
		lastUsed: make(map[string]time.Time, maxSessions),
		capacity: int(maxSessions),
	}, nil
}

// getOrCreate returns the session stored under id, calling create on a miss.
// created reports whether a new session was opened.
func (s *SessionStore) getOrCreate(ctx context.Context, id string, create func(context.Context) (Session, error)) (*sessionEntry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.cache.Get(id); ok {
		s.touch(id, entry)
		return entry, false, nil
	}

	session, err := create(ctx)
	if err != nil {
		return nil, false, err
	}

	entry := &sessionEntry{session: session}
	s.touch(id, entry)
	return entry, true, nil
}

// touch (re)stores the entry so its TTL restarts. The cache's admission
// policy may refuse a new key when full; the least recently used session is
// then dropped to make room, so a fresh session is always kept.
func (s *SessionStore) touch(id string, entry *sessionEntry) {
	now := time.Now()
	for {
		if !s.cache.SetWithTTL(id, entry, 1, s.ttl) {
			log.Printf("[CHAT] Session %s was not cached", id)
			return
		}
		s.cache.Wait()
		if _, ok := s.cache.Get(id); ok {
			s.lastUsed[id] = now
			s.pruneEvicted()
			return
		}
		if !s.evictOldest(id, now) {
			log.Printf("[CHAT] Session %s was not admitted", id)
			return
		}
	}
}

// evictOldest drops the least recently used session other than keep, along
// with any session past its TTL. It reports whether anything was dropped.
func (s *SessionStore) evictOldest(keep string, now time.Time) bool {
	var (
		oldest   string
		oldestAt time.Time
		dropped  bool
	)
	for id, at := range s.lastUsed {
		if id == keep {
			continue
		}
		if now.Sub(at) > s.ttl {
			s.forget(id)
			dropped = true
			continue
		}
		if oldest == "" || at.Before(oldestAt) {
			oldest, oldestAt = id, at
		}
	}
	if oldest != "" {
		s.forget(oldest)
		dropped = true
	}
	return dropped
}

// pruneEvicted drops bookkeeping for sessions the cache evicted on its own.
func (s *SessionStore) pruneEvicted() {
	if len(s.lastUsed) <= s.capacity {
		return
	}
	for id := range s.lastUsed {
		if _, ok := s.cache.Get(id); !ok {
			delete(s.lastUsed, id)
		}
	}
}

func (s *SessionStore) forget(id string) {
	delete(s.lastUsed, id)
	s.cache.Del(id)
}

// Close stops the cache's background goroutines.
func (s *SessionStore) Close() {
	s.cache.Close()
}
