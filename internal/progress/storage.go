package progress

import (
	"errors"
	"sync"
)

// Storage is an origin-scoped key-value medium holding the serialized record.
type Storage interface {
	Load(key string) (value string, found bool, err error)
	Save(key, value string) error
}

var (
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrQuotaExceeded      = errors.New("storage quota exceeded")
)

// MemoryStorage keeps values in a map. Reads and writes can be made to fail
// to exercise the store's fallback paths.
type MemoryStorage struct {
	mu        sync.Mutex
	values    map[string]string
	readErr   error
	writeErr  error
	saveCalls int
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (s *MemoryStorage) Load(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.readErr != nil {
		return "", false, s.readErr
	}
	value, ok := s.values[key]
	return value, ok, nil
}

func (s *MemoryStorage) Save(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.saveCalls++
	if s.writeErr != nil {
		return s.writeErr
	}
	s.values[key] = value
	return nil
}

// Put stores a raw value, bypassing the failure switches.
func (s *MemoryStorage) Put(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

func (s *MemoryStorage) Raw(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.values[key]
	return value, ok
}

func (s *MemoryStorage) FailReads(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readErr = err
}

func (s *MemoryStorage) FailWrites(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeErr = err
}

func (s *MemoryStorage) SaveCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveCalls
}
