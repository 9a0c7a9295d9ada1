package storage

import (
	"sync"

	c "Jackhammer/common"
)

type Storage struct {
	kv map[string][]byte
	mu sync.RWMutex
}

func NewStorage() *Storage {
	return &Storage{
		kv: make(map[string][]byte),
	}
}

func (s *Storage) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.kv[key]
	return val, ok
}

func (s *Storage) Set(key string, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kv[key] = append([]byte{}, value...)
}

func (s *Storage) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.kv, key)
}

func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.kv)
}

// Load stores every pair, later pairs overwriting earlier ones.
func (s *Storage) Load(pairs []c.Pair[string, string]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range pairs {
		s.kv[p.First] = []byte(p.Second)
	}
}
