// Package memory contains a simple in-memory ttl storage for cached responses.
package memory

import (
	"sync"
	"time"
)

type item struct {
	content   []byte
	expiresAt time.Time
}

// Storage ...
type Storage struct {
	mu sync.RWMutex
	m  map[string]item
}

// NewStorage creates new instance of Storage.
func NewStorage() *Storage {
	return &Storage{
		m: make(map[string]item),
	}
}

// Get returns stored content or nil if it is absent or expired.
func (s *Storage) Get(key string) []byte {
	s.mu.RLock()
	v, ok := s.m[key]
	s.mu.RUnlock()

	if !ok {
		return nil
	}

	if time.Now().After(v.expiresAt) {
		s.mu.Lock()
		delete(s.m, key)
		s.mu.Unlock()

		return nil
	}

	return v.content
}

// Set stores content for the given duration.
func (s *Storage) Set(key string, content []byte, duration time.Duration) {
	s.mu.Lock()
	s.m[key] = item{
		content:   content,
		expiresAt: time.Now().Add(duration),
	}
	s.mu.Unlock()
}
