package offline

import (
	"context"
	"sort"
	"sync"
)

// MemoryStorage keeps caches in process memory
type MemoryStorage struct {
	mu     sync.RWMutex
	caches map[string]map[string]*CachedResponse
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{caches: make(map[string]map[string]*CachedResponse)}
}

func (s *MemoryStorage) Get(_ context.Context, cacheName, key string) (*CachedResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.caches[cacheName][key]
	if !ok {
		return nil, ErrCacheMiss
	}
	return entry, nil
}

func (s *MemoryStorage) Put(_ context.Context, cacheName, key string, entry *CachedResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cache, ok := s.caches[cacheName]
	if !ok {
		cache = make(map[string]*CachedResponse)
		s.caches[cacheName] = cache
	}
	cache[key] = entry
	return nil
}

func (s *MemoryStorage) CacheNames(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.caches))
	for name := range s.caches {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *MemoryStorage) DeleteCache(_ context.Context, cacheName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.caches, cacheName)
	return nil
}
