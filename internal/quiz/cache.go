package quiz

import (
	"context"
	"sync"
	"time"

	"github.com/saulo-duarte/learnpath-lambda/internal/config"
	util "github.com/saulo-duarte/learnpath-lambda/internal/utils"
)

const DefaultCacheTTL = 2 * time.Hour

// Store holds generated quizzes by cache key. Get returns nil, nil when the
// key is absent or its entry has expired.
type Store interface {
	Get(ctx context.Context, key string) (*Entry, error)
	Put(ctx context.Context, entry *Entry) error
}

func IsExpired(e *Entry, now time.Time, ttl time.Duration) bool {
	return now.Sub(e.CreatedAt) > ttl
}

type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*Entry

	ttl        time.Duration
	maxEntries int
	clock      util.Clock
}

// NewMemoryStore returns a process-local store. maxEntries <= 0 means unbounded.
func NewMemoryStore(ttl time.Duration, maxEntries int, clock util.Clock) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if clock == nil {
		clock = util.SystemClock{}
	}
	return &MemoryStore{
		entries:    make(map[string]*Entry),
		ttl:        ttl,
		maxEntries: maxEntries,
		clock:      clock,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (*Entry, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	if IsExpired(e, s.clock.Now(), s.ttl) {
		s.mu.Lock()
		if cur, ok := s.entries[key]; ok && cur == e {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, nil
	}
	return e, nil
}

func (s *MemoryStore) Put(_ context.Context, entry *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[entry.Key]; !exists && s.maxEntries > 0 && len(s.entries) >= s.maxEntries {
		s.evictOldestLocked()
	}
	s.entries[entry.Key] = entry
	return nil
}

func (s *MemoryStore) evictOldestLocked() {
	var oldestKey string
	var oldest time.Time
	for k, e := range s.entries {
		if oldestKey == "" || e.CreatedAt.Before(oldest) {
			oldestKey, oldest = k, e.CreatedAt
		}
	}
	if oldestKey != "" {
		delete(s.entries, oldestKey)
	}
}

// Sweep drops every expired entry and reports how many were removed.
func (s *MemoryStore) Sweep() int {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for k, e := range s.entries {
		if IsExpired(e, now, s.ttl) {
			delete(s.entries, k)
			removed++
		}
	}
	return removed
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *MemoryStore) RunJanitor(ctx context.Context, interval time.Duration) {
	runJanitor(ctx, interval, func(context.Context) (int64, error) {
		return int64(s.Sweep()), nil
	})
}

// runJanitor calls sweep on every tick until ctx is done.
func runJanitor(ctx context.Context, interval time.Duration, sweep func(context.Context) (int64, error)) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sweep(ctx)
			if err != nil {
				config.WithContext(ctx).WithError(err).Warn("Failed to sweep expired quizzes")
				continue
			}
			if n > 0 {
				config.WithContext(ctx).WithField("removed", n).Debug("Swept expired quizzes")
			}
		}
	}
}
