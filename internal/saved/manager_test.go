package saved_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rohmanhakim/wikicurious/internal/metadata"
	"github.com/rohmanhakim/wikicurious/internal/saved"
	"github.com/rohmanhakim/wikicurious/internal/storage/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	mu      sync.Mutex
	values  map[string]string
	getErr  error
	putErr  error
	putSeen int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: map[string]string{}}
}

func (s *memoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return "", false, s.getErr
	}
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *memoryStore) Put(_ context.Context, key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putSeen++
	if s.putErr != nil {
		return s.putErr
	}
	s.values[key] = value
	return nil
}

func (s *memoryStore) Close() error { return nil }

func newManager(store kv.Store) *saved.Manager {
	return saved.NewManager(store, saved.DefaultKey, &metadata.NoopSink{}, nil)
}

func TestManager_EmptyOnFirstUse(t *testing.T) {
	m := newManager(newMemoryStore())
	ctx := context.Background()

	assert.Empty(t, m.Titles(ctx))
	assert.False(t, m.IsSaved(ctx, "Paris"))
}

func TestManager_ToggleTwiceRestores(t *testing.T) {
	store := newMemoryStore()
	m := newManager(store)
	ctx := context.Background()

	state, err := m.ToggleSave(ctx, "Paris")
	require.NoError(t, err)
	assert.True(t, state)
	assert.True(t, m.IsSaved(ctx, "Paris"))
	assert.Equal(t, `["Paris"]`, store.values[saved.DefaultKey])

	state, err = m.ToggleSave(ctx, "Paris")
	require.NoError(t, err)
	assert.False(t, state)
	assert.False(t, m.IsSaved(ctx, "Paris"))
	assert.Equal(t, `[]`, store.values[saved.DefaultKey])
}

func TestManager_PreservesInsertionOrder(t *testing.T) {
	m := newManager(newMemoryStore())
	ctx := context.Background()

	for _, title := range []string{"Tokyo", "Cairo", "Rome"} {
		_, err := m.ToggleSave(ctx, title)
		require.NoError(t, err)
	}
	_, err := m.ToggleSave(ctx, "Cairo")
	require.NoError(t, err)
	_, err = m.ToggleSave(ctx, "Cairo")
	require.NoError(t, err)

	assert.Equal(t, []string{"Tokyo", "Rome", "Cairo"}, m.Titles(ctx))
}

func TestManager_MalformedContentFailsSoft(t *testing.T) {
	for name, raw := range map[string]string{
		"not json":     "{oops",
		"wrong shape":  `{"Paris":true}`,
		"mixed values": `["Paris", 3]`,
	} {
		t.Run(name, func(t *testing.T) {
			store := newMemoryStore()
			store.values[saved.DefaultKey] = raw
			m := newManager(store)
			ctx := context.Background()

			assert.Empty(t, m.Titles(ctx))
			state, err := m.ToggleSave(ctx, "Paris")
			require.NoError(t, err)
			assert.True(t, state)
			assert.Equal(t, []string{"Paris"}, m.Titles(ctx))
		})
	}
}

func TestManager_DropsStoredDuplicates(t *testing.T) {
	store := newMemoryStore()
	store.values[saved.DefaultKey] = `["Rome","Paris","Rome"]`
	m := newManager(store)
	ctx := context.Background()

	assert.Equal(t, []string{"Rome", "Paris"}, m.Titles(ctx))

	state, err := m.ToggleSave(ctx, "Rome")
	require.NoError(t, err)
	assert.False(t, state)
	assert.Equal(t, []string{"Paris"}, m.Titles(ctx))
}

func TestManager_Remove(t *testing.T) {
	store := newMemoryStore()
	store.values[saved.DefaultKey] = `["Rome","Paris"]`
	m := newManager(store)
	ctx := context.Background()

	require.NoError(t, m.Remove(ctx, "Rome"))
	assert.Equal(t, []string{"Paris"}, m.Titles(ctx))

	writes := store.putSeen
	require.NoError(t, m.Remove(ctx, "Nowhere"))
	assert.Equal(t, writes, store.putSeen)
}

func TestManager_StoreFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("unreadable store reads as empty", func(t *testing.T) {
		store := newMemoryStore()
		store.getErr = errors.New("disk gone")
		m := newManager(store)
		assert.Empty(t, m.Titles(ctx))
	})

	t.Run("failed write keeps previous state", func(t *testing.T) {
		store := newMemoryStore()
		store.putErr = &kv.StoreError{Cause: kv.ErrCauseWriteFailure, Backend: kv.BackendFile}
		m := newManager(store)

		state, err := m.ToggleSave(ctx, "Paris")
		require.Error(t, err)
		assert.False(t, state)
		assert.False(t, m.IsSaved(ctx, "Paris"))
	})
}

func TestManager_ReadFailureNeverOverwritesList(t *testing.T) {
	ctx := context.Background()
	seeded := `["Paris","Rome","Kyoto"]`

	tests := []struct {
		name   string
		mutate func(m *saved.Manager) error
	}{
		{
			name: "toggle",
			mutate: func(m *saved.Manager) error {
				state, err := m.ToggleSave(ctx, "Tokyo")
				assert.False(t, state)
				return err
			},
		},
		{
			name: "remove",
			mutate: func(m *saved.Manager) error {
				return m.Remove(ctx, "Rome")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemoryStore()
			store.values[saved.DefaultKey] = seeded
			m := newManager(store)

			store.getErr = errors.New("read timeout")
			err := tt.mutate(m)
			store.getErr = nil

			require.Error(t, err)
			assert.Zero(t, store.putSeen)
			assert.Equal(t, seeded, store.values[saved.DefaultKey])
			assert.Equal(t, []string{"Paris", "Rome", "Kyoto"}, m.Titles(ctx))
		})
	}
}

func TestManager_CorruptStoreIsReplacedOnToggle(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	store.getErr = &kv.StoreError{Cause: kv.ErrCauseCorruptStore, Backend: kv.BackendFile}
	m := newManager(store)

	state, err := m.ToggleSave(ctx, "Paris")
	require.NoError(t, err)
	assert.True(t, state)
	assert.Equal(t, `["Paris"]`, store.values[saved.DefaultKey])
}

func TestManager_ConcurrentTogglesKeepEveryTitle(t *testing.T) {
	store, err := kv.NewFileStore(filepath.Join(t.TempDir(), "store.json"))
	require.NoError(t, err)
	m := newManager(store)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.ToggleSave(ctx, fmt.Sprintf("Topic %d", i))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, m.Titles(ctx), 20)
}
