package kv

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileStore keeps one JSON file per key under a data directory. It mirrors
// the browser-local-storage model of the reference client: single writer,
// whole document replaced on every save.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore creates the data directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, encodeKey(key)+".json")
}

func (s *FileStore) Get(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	return doc, err
}

func (s *FileStore) Put(key string, doc []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Write to a temp file and rename so readers never observe a torn
	// snapshot after a crash mid-write.
	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, doc, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path(key))
}

func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *FileStore) List(prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	var keys []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		key := decodeKey(strings.TrimSuffix(name, ".json"))
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (s *FileStore) Close() error { return nil }

// encodeKey makes a snapshot key safe to use as a file name.
func encodeKey(key string) string {
	return strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(key)
}

func decodeKey(name string) string {
	// Keys used by the application never contain the replaced characters,
	// so decoding is the identity.
	return name
}
