package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backends returns a fresh instance of every KV implementation.
func backends(t *testing.T) map[string]KV {
	t.Helper()

	sqlite := NewSQLite(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, sqlite.Init())

	badgerKV, err := OpenBadger("", true)
	require.NoError(t, err)

	return map[string]KV{
		"memory": NewMemory(),
		"sqlite": sqlite,
		"badger": badgerKV,
	}
}

func TestKVConformance(t *testing.T) {
	ctx := context.Background()

	for name, kv := range backends(t) {
		kv := kv
		t.Run(name, func(t *testing.T) {
			defer kv.Close()

			_, err := kv.Get(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, kv.Set(ctx, "ns:b", []byte("two")))
			require.NoError(t, kv.Set(ctx, "ns:a", []byte("one")))
			require.NoError(t, kv.Set(ctx, "ns:a", []byte("uno")))
			require.NoError(t, kv.Set(ctx, "other:c", []byte("three")))
			require.NoError(t, kv.Set(ctx, "ns_x", []byte("underscore")))

			v, err := kv.Get(ctx, "ns:a")
			require.NoError(t, err)
			assert.Equal(t, "uno", string(v))

			entries, err := kv.List(ctx, "ns:")
			require.NoError(t, err)
			require.Len(t, entries, 2)
			assert.Equal(t, "ns:a", entries[0].Key)
			assert.Equal(t, "ns:b", entries[1].Key)
			assert.Equal(t, "two", string(entries[1].Value))

			require.NoError(t, kv.Delete(ctx, "ns:a"))
			require.NoError(t, kv.Delete(ctx, "ns:a"))
			_, err = kv.Get(ctx, "ns:a")
			assert.ErrorIs(t, err, ErrNotFound)

			entries, err = kv.List(ctx, "nothing:")
			require.NoError(t, err)
			assert.NotNil(t, entries)
			assert.Empty(t, entries)
		})
	}
}

func TestSQLiteInitCreatesFile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "history.db")
	s := NewSQLite(dbPath)
	require.NoError(t, s.Init())
	defer s.Close()

	_, err := os.Stat(dbPath)
	assert.NoError(t, err)
	assert.True(t, s.Enabled())

	// Second Init is a no-op.
	require.NoError(t, s.Init())
}

func TestSQLiteMigrationsAreIdempotent(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "history.db")

	first := NewSQLite(dbPath)
	require.NoError(t, first.Init())
	require.NoError(t, first.Set(ctx, "k", []byte("v")))
	require.NoError(t, first.Close())

	second := NewSQLite(dbPath)
	require.NoError(t, second.Init())
	defer second.Close()

	v, err := second.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(v))
}

func TestSQLiteGracefulDegradation(t *testing.T) {
	ctx := context.Background()

	// A regular file where the parent directory should be makes Init fail.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	s := NewSQLite(filepath.Join(blocker, "history.db"))
	assert.Error(t, s.Init())
	assert.False(t, s.Enabled())

	assert.NoError(t, s.Set(ctx, "k", []byte("v")))
	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
	entries, err := s.List(ctx, "")
	assert.NoError(t, err)
	assert.Empty(t, entries)
	assert.NoError(t, s.Close())

	disabled := NewSQLiteDisabled()
	assert.NoError(t, disabled.Init())
	assert.False(t, disabled.Enabled())
}

func TestBadgerOnDisk(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	kv, err := OpenBadger(dir, false)
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, "k", []byte("v")))
	require.NoError(t, kv.Close())
	require.NoError(t, kv.Close())

	reopened, err := OpenBadger(dir, false)
	require.NoError(t, err)
	defer reopened.Close()

	v, err := reopened.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(v))
}

func TestBadgerRejectsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	_, err := OpenBadger(file, false)
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	kv, err := Open(BackendMemory, "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryKV{}, kv)

	kv, err = Open(BackendSQLite, filepath.Join(t.TempDir(), "h.db"))
	require.NoError(t, err)
	assert.IsType(t, &SQLiteKV{}, kv)
	kv.Close()

	kv, err = Open(BackendBadger, t.TempDir())
	require.NoError(t, err)
	assert.IsType(t, &BadgerKV{}, kv)
	kv.Close()

	_, err = Open("redis", "")
	assert.Error(t, err)
}

func TestMemoryCopiesValues(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	buf := []byte("abc")
	require.NoError(t, m.Set(ctx, "k", buf))
	buf[0] = 'x'

	v, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(v))
	assert.Equal(t, 1, m.Len())
}
