package adminsdk

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// Storage keys for the persisted session. Other authenticated views read
// these same keys, so they are part of the external contract.
const (
	StorageKeyToken   = "adminToken"
	StorageKeyProfile = "adminUser"
)

// ErrKeyNotFound reports a Get for a key that has never been stored.
var ErrKeyNotFound = errors.New("adminsdk: storage key not found")

// Storage is the client-local persistence capability. Put is batched so
// related keys (token and profile) land together or not at all.
type Storage interface {
	Get(key string) (string, error)
	Put(entries map[string]string) error
	Delete(keys ...string) error
}

// FileStorage persists keys as a single JSON document on disk. Writes go
// through a temp file and rename so a crash mid-write never leaves a partial
// document behind.
type FileStorage struct {
	path string

	mu sync.Mutex
}

// NewFileStorage returns storage backed by the JSON document at path. The
// parent directory is created on the first write.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

func (s *FileStorage) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return "", err
	}

	value, ok := data[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return value, nil
}

func (s *FileStorage) Put(entries map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return err
	}

	for k, v := range entries {
		data[k] = v
	}
	return s.save(data)
}

func (s *FileStorage) Delete(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return err
	}

	for _, k := range keys {
		delete(data, k)
	}
	return s.save(data)
}

func (s *FileStorage) load() (map[string]string, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, err
	}

	data := make(map[string]string)
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return data, nil
}

func (s *FileStorage) save(data map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// MemoryStorage is an in-memory Storage for tests.
type MemoryStorage struct {
	mu   sync.Mutex
	data map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string]string)}
}

func (s *MemoryStorage) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.data[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return value, nil
}

func (s *MemoryStorage) Put(entries map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, v := range entries {
		s.data[k] = v
	}
	return nil
}

func (s *MemoryStorage) Delete(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, k := range keys {
		delete(s.data, k)
	}
	return nil
}

// Len reports how many keys are stored. Test helper.
func (s *MemoryStorage) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}
