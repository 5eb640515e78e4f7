package saved

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/rohmanhakim/wikicurious/internal/metadata"
	"github.com/rohmanhakim/wikicurious/internal/storage/kv"
)

// DefaultKey is the store key holding the JSON-encoded saved titles.
const DefaultKey = "savedArticles"

/*
Manager owns the saved topic list.

  - The list is ordered by the time each title was first saved.
  - Titles are unique. Duplicates found in stored content are dropped,
    the first occurrence wins.
  - Malformed stored content reads as an empty list everywhere.
  - A failed store read reads as an empty list for Titles and IsSaved, but
    fails ToggleSave and Remove without writing.
  - Every mutation is a read-modify-write under one lock, so concurrent
    toggles within a process never lose an update.
*/
type Manager struct {
	mu           sync.Mutex
	store        kv.Store
	key          string
	metadataSink metadata.MetadataSink
	logger       *slog.Logger
}

func NewManager(store kv.Store, key string, metadataSink metadata.MetadataSink, logger *slog.Logger) *Manager {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		store:        store,
		key:          key,
		metadataSink: metadataSink,
		logger:       logger,
	}
}

// Titles returns the saved titles in list order.
func (m *Manager) Titles(ctx context.Context) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	titles, _ := m.load(ctx)
	return titles
}

func (m *Manager) IsSaved(ctx context.Context, title string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	titles, _ := m.load(ctx)
	return indexOf(titles, title) >= 0
}

// ToggleSave removes title when present and appends it otherwise. It returns
// the new saved state. When the list cannot be read nothing is written and
// the error is returned with false.
func (m *Manager) ToggleSave(ctx context.Context, title string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	titles, err := m.load(ctx)
	if err != nil {
		return false, err
	}
	if i := indexOf(titles, title); i >= 0 {
		titles = append(titles[:i], titles[i+1:]...)
		if err := m.persist(ctx, titles); err != nil {
			return true, err
		}
		return false, nil
	}
	titles = append(titles, title)
	if err := m.persist(ctx, titles); err != nil {
		return false, err
	}
	return true, nil
}

// Remove drops title from the list. Removing an unsaved title is a no-op.
func (m *Manager) Remove(ctx context.Context, title string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	titles, err := m.load(ctx)
	if err != nil {
		return err
	}
	i := indexOf(titles, title)
	if i < 0 {
		return nil
	}
	return m.persist(ctx, append(titles[:i], titles[i+1:]...))
}

// load returns the stored titles. Malformed content, including a corrupt
// store, is an empty list with no error. Any other read failure is returned
// alongside an empty list.
func (m *Manager) load(ctx context.Context) ([]string, error) {
	raw, ok, err := m.store.Get(ctx, m.key)
	if err != nil {
		m.recordStoreError("Manager.load", err)
		var storeErr *kv.StoreError
		if errors.As(err, &storeErr) && storeErr.Cause == kv.ErrCauseCorruptStore {
			m.warnMalformed(err)
			return []string{}, nil
		}
		return []string{}, err
	}
	if !ok {
		return []string{}, nil
	}

	var stored []string
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		m.warnMalformed(err)
		return []string{}, nil
	}
	return dedupe(stored), nil
}

func (m *Manager) warnMalformed(err error) {
	m.logger.Warn("saved list is malformed, treating as empty",
		slog.String("key", m.key),
		slog.String("error", err.Error()),
	)
}

func (m *Manager) persist(ctx context.Context, titles []string) error {
	if titles == nil {
		titles = []string{}
	}
	data, err := json.Marshal(titles)
	if err != nil {
		return err
	}
	if err := m.store.Put(ctx, m.key, string(data)); err != nil {
		m.recordStoreError("Manager.persist", err)
		return err
	}
	m.metadataSink.RecordArtifact(
		metadata.ArtifactSavedList,
		m.key,
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrStore, m.key),
		},
	)
	return nil
}

func (m *Manager) recordStoreError(action string, err error) {
	cause := metadata.CauseStorageFailure
	var storeErr *kv.StoreError
	if errors.As(err, &storeErr) {
		cause = kv.MetadataCause(storeErr)
	} else if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		cause = metadata.CauseCancelled
	}
	m.metadataSink.RecordError(
		time.Now(),
		"saved",
		action,
		cause,
		err.Error(),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrStore, m.key),
		},
	)
}

func indexOf(titles []string, title string) int {
	for i, t := range titles {
		if t == title {
			return i
		}
	}
	return -1
}

func dedupe(titles []string) []string {
	seen := make(map[string]struct{}, len(titles))
	out := make([]string, 0, len(titles))
	for _, t := range titles {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
