package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/aleister1102/zoneshift/internal/common"
	"github.com/aleister1102/zoneshift/internal/common/timeutils"
)

type memoryItem struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore is an in-process Store. Expiry is evaluated against the
// injected clock on read.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]memoryItem
	clock timeutils.Clock
}

// NewMemoryStore builds a MemoryStore. A nil clock uses the system clock.
func NewMemoryStore(clock timeutils.Clock) *MemoryStore {
	return &MemoryStore{
		items: make(map[string]memoryItem),
		clock: timeutils.OrSystem(clock),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string, dest any) error {
	s.mu.RLock()
	item, ok := s.items[key]
	s.mu.RUnlock()

	if !ok {
		return common.ErrCacheMiss
	}
	if !item.expiresAt.IsZero() && !s.clock.Now().Before(item.expiresAt) {
		s.mu.Lock()
		if current, still := s.items[key]; still && current.expiresAt.Equal(item.expiresAt) {
			delete(s.items, key)
		}
		s.mu.Unlock()
		return common.ErrCacheMiss
	}
	return json.Unmarshal(item.data, dest)
}

// Set stores value under key. A non-positive ttl never expires.
func (s *MemoryStore) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return common.WrapErrorf(err, "encode cache value %q", key)
	}

	item := memoryItem{data: data}
	if ttl > 0 {
		item.expiresAt = s.clock.Now().Add(ttl)
	}

	s.mu.Lock()
	s.items[key] = item
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
	return nil
}
