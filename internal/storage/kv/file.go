package kv

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rohmanhakim/wikicurious/pkg/fileutil"
)

// FileStore keeps every key in one JSON object on disk. Each Put rewrites
// the whole file through a temp file and rename.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) (*FileStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, &StoreError{Message: "path is required", Cause: ErrCauseOpenFailure, Backend: BackendFile}
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := fileutil.EnsureDir(dir); err != nil {
			return nil, &StoreError{Message: err.Error(), Cause: ErrCauseOpenFailure, Backend: BackendFile}
		}
	}
	return &FileStore{path: filepath.Clean(path)}, nil
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return "", false, err
	}
	value, ok := entries[key]
	return value, ok, nil
}

func (s *FileStore) Put(ctx context.Context, key string, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		var storeErr *StoreError
		if !errors.As(err, &storeErr) || storeErr.Cause != ErrCauseCorruptStore {
			return err
		}
		// A corrupt file is replaced rather than blocking every write.
		entries = map[string]string{}
	}
	entries[key] = value

	data, mErr := json.MarshalIndent(entries, "", "  ")
	if mErr != nil {
		return &StoreError{Message: mErr.Error(), Cause: ErrCauseWriteFailure, Backend: BackendFile}
	}
	if wErr := fileutil.WriteFileAtomic(s.path, data, 0o644); wErr != nil {
		return &StoreError{Message: wErr.Error(), Retryable: true, Cause: ErrCauseWriteFailure, Backend: BackendFile}
	}
	return nil
}

func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, &StoreError{Message: err.Error(), Retryable: true, Cause: ErrCauseReadFailure, Backend: BackendFile}
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return map[string]string{}, nil
	}
	entries := map[string]string{}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, &StoreError{Message: err.Error(), Cause: ErrCauseCorruptStore, Backend: BackendFile}
	}
	return entries, nil
}
