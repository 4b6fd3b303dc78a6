package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/retrorevive/internal/client/repositories/storage"
	"github.com/dmitrijs2005/retrorevive/internal/logging"

	_ "modernc.org/sqlite"
)

const testKey = "notes"

type note struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

func (n note) Key() string { return n.ID }

func setupSQLite(t *testing.T) *storage.SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE local_storage (key TEXT PRIMARY KEY, value BLOB NOT NULL);`)
	require.NoError(t, err)
	return storage.NewSQLiteStore(db)
}

func backends(t *testing.T) map[string]storage.Store {
	return map[string]storage.Store{
		"sqlite": setupSQLite(t),
		"memory": storage.NewMemoryStore(),
	}
}

func TestBlobStore_AppendKeepsInsertionOrder(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := NewBlobStore[note](kv, testKey, logging.Nop())

			for _, id := range []string{"c", "a", "b"} {
				require.NoError(t, s.Append(ctx, note{ID: id, Text: "t-" + id}))
			}

			got, err := s.GetAll(ctx)
			require.NoError(t, err)
			assert.Equal(t, []note{{"c", "t-c"}, {"a", "t-a"}, {"b", "t-b"}}, got)
		})
	}
}

func TestBlobStore_GetAllEmptyIsNonNil(t *testing.T) {
	s := NewBlobStore[note](storage.NewMemoryStore(), testKey, logging.Nop())

	got, err := s.GetAll(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestBlobStore_DuplicateRejectedAndCollectionUnchanged(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := NewBlobStore[note](kv, testKey, logging.Nop())

			require.NoError(t, s.Append(ctx, note{ID: "r1", Text: "first"}))
			before, err := kv.Get(ctx, testKey)
			require.NoError(t, err)

			err = s.Append(ctx, note{ID: "r1", Text: "second"})
			require.ErrorIs(t, err, ErrDuplicateKey)

			after, err := kv.Get(ctx, testKey)
			require.NoError(t, err)
			assert.Equal(t, before, after, "rejected append must not touch the blob")
		})
	}
}

func TestBlobStore_EmptyKeyRejected(t *testing.T) {
	s := NewBlobStore[note](storage.NewMemoryStore(), testKey, logging.Nop())
	require.ErrorIs(t, s.Append(context.Background(), note{}), ErrEmptyKey)
}

func TestBlobStore_RemoveByID(t *testing.T) {
	ctx := context.Background()
	s := NewBlobStore[note](storage.NewMemoryStore(), testKey, logging.Nop())
	require.NoError(t, s.Append(ctx, note{ID: "a"}))
	require.NoError(t, s.Append(ctx, note{ID: "b"}))

	removed, err := s.RemoveByID(ctx, "a")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = s.RemoveByID(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, removed)

	got, err := s.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []note{{ID: "b"}}, got)
}

func TestBlobStore_ClearIdempotent(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryStore()
	s := NewBlobStore[note](kv, testKey, logging.Nop())
	require.NoError(t, s.Append(ctx, note{ID: "a"}))

	require.NoError(t, s.Clear(ctx))
	require.NoError(t, s.Clear(ctx))

	raw, err := kv.Get(ctx, testKey)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestBlobStore_UnreadableBlobIsEmpty(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "garbage", raw: "{not json"},
		{name: "object", raw: `{"id":"r1"}`},
		{name: "null", raw: "null"},
		{name: "wrong element type", raw: `[1,2,3]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			kv := storage.NewMemoryStore()
			require.NoError(t, kv.Set(ctx, testKey, []byte(tt.raw)))
			s := NewBlobStore[note](kv, testKey, logging.Nop())

			got, err := s.GetAll(ctx)
			require.NoError(t, err)
			assert.Equal(t, []note{}, got)

			require.NoError(t, s.Append(ctx, note{ID: "fresh"}))
			got, err = s.GetAll(ctx)
			require.NoError(t, err)
			assert.Equal(t, []note{{ID: "fresh"}}, got)
		})
	}
}

func TestBlobStore_ConcurrentAppendsAreNotLost(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := NewBlobStore[note](kv, testKey, logging.Nop())

			const n = 20
			var wg sync.WaitGroup
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					assert.NoError(t, s.Append(ctx, note{ID: fmt.Sprintf("id-%02d", i)}))
				}(i)
			}
			wg.Wait()

			got, err := s.GetAll(ctx)
			require.NoError(t, err)
			assert.Len(t, got, n)
		})
	}
}

func TestBlobStore_InterleavedRemoveDoesNotRevertAppend(t *testing.T) {
	ctx := context.Background()
	s := NewBlobStore[note](storage.NewMemoryStore(), testKey, logging.Nop())
	require.NoError(t, s.Append(ctx, note{ID: "a"}))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		assert.NoError(t, s.Append(ctx, note{ID: "b"}))
	}()
	go func() {
		defer wg.Done()
		_, err := s.RemoveByID(ctx, "a")
		assert.NoError(t, err)
	}()
	wg.Wait()

	got, err := s.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []note{{ID: "b"}}, got)
}

type failingStore struct {
	*storage.MemoryStore
	err error
}

func (f failingStore) Get(context.Context, string) ([]byte, error) { return nil, f.err }

func (f failingStore) Update(context.Context, func(context.Context, storage.Repository) error) error {
	return f.err
}

func TestBlobStore_StorageErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	down := errors.New("disk full")
	s := NewBlobStore[note](failingStore{MemoryStore: storage.NewMemoryStore(), err: down}, testKey, logging.Nop())

	_, err := s.GetAll(ctx)
	require.ErrorIs(t, err, down)
	require.ErrorIs(t, s.Append(ctx, note{ID: "x"}), down)
	_, err = s.RemoveByID(ctx, "x")
	require.ErrorIs(t, err, down)
	require.ErrorIs(t, s.Clear(ctx), down)
}
