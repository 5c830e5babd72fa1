package store

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"league-registry/internal/model"
)

func openSQLite(t *testing.T, path string) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(path, SQLiteOptions{})
	require.NoError(t, err)
	return s
}

func backends(t *testing.T) map[string]Store {
	t.Helper()
	mem, err := NewMemoryStore()
	require.NoError(t, err)
	lite := openSQLite(t, filepath.Join(t.TempDir(), "league.db"))
	t.Cleanup(func() { _ = lite.Close() })
	return map[string]Store{"memory": mem, "sqlite": lite}
}

func TestCollectionInsertReturnsPrevious(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			users := s.Users()

			_, existed, err := users.Insert(ctx, 7, model.User{ID: 7, Name: "Ann", Email: "ann@x.com"})
			require.NoError(t, err)
			assert.False(t, existed)

			prev, existed, err := users.Insert(ctx, 7, model.User{ID: 7, Name: "Anna", Email: "ann@x.com"})
			require.NoError(t, err)
			assert.True(t, existed)
			assert.Equal(t, "Ann", prev.Name)

			got, ok, err := users.Get(ctx, 7)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, "Anna", got.Name)

			_, ok, err = users.Get(ctx, 8)
			require.NoError(t, err)
			assert.False(t, ok)

			has, err := users.Contains(ctx, 7)
			require.NoError(t, err)
			assert.True(t, has)
			has, err = users.Contains(ctx, 8)
			require.NoError(t, err)
			assert.False(t, has)
		})
	}
}

func TestCollectionScanAscending(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, id := range []uint64{300, 2, 256, 1, 70000} {
				_, _, err := s.Teams().Insert(ctx, id, model.Team{ID: id, Name: "t"})
				require.NoError(t, err)
			}
			var keys []uint64
			require.NoError(t, s.Teams().Scan(ctx, func(id uint64, team model.Team) bool {
				assert.Equal(t, id, team.ID)
				keys = append(keys, id)
				return true
			}))
			assert.Equal(t, []uint64{1, 2, 256, 300, 70000}, keys)

			keys = nil
			require.NoError(t, s.Teams().Scan(ctx, func(id uint64, _ model.Team) bool {
				keys = append(keys, id)
				return len(keys) < 2
			}))
			assert.Equal(t, []uint64{1, 2}, keys)
		})
	}
}

func TestStringKeyedCollection(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, id := range []string{"b", "a", "c"} {
				_, _, err := s.Leagues().Insert(ctx, id, model.League{ID: id, Name: "league " + id})
				require.NoError(t, err)
			}
			var keys []string
			require.NoError(t, s.Leagues().Scan(ctx, func(id string, _ model.League) bool {
				keys = append(keys, id)
				return true
			}))
			assert.Equal(t, []string{"a", "b", "c"}, keys)

			got, ok, err := s.Leagues().Get(ctx, "b")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, "league b", got.Name)
		})
	}
}

func TestCollectionsAreIndependent(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, _, err := s.Users().Insert(ctx, 1, model.User{ID: 1})
			require.NoError(t, err)
			has, err := s.Teams().Contains(ctx, 1)
			require.NoError(t, err)
			assert.False(t, has)
		})
	}
}

func TestRecordTooLarge(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			huge := model.User{ID: 1, Address: strings.Repeat("x", MaxRecordSize)}
			_, _, err := s.Users().Insert(ctx, 1, huge)
			require.ErrorIs(t, err, ErrRecordTooLarge)

			has, err := s.Users().Contains(ctx, 1)
			require.NoError(t, err)
			assert.False(t, has)
		})
	}
}

func TestSequenceMonotonic(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			seq := s.Sequence()
			peek, err := seq.Peek(ctx)
			require.NoError(t, err)
			assert.Equal(t, uint64(0), peek)

			for want := uint64(0); want < 5; want++ {
				got, err := seq.Next(ctx)
				require.NoError(t, err)
				assert.Equal(t, want, got)
			}

			require.NoError(t, seq.AdvanceTo(ctx, 100))
			got, err := seq.Next(ctx)
			require.NoError(t, err)
			assert.Equal(t, uint64(100), got)

			require.NoError(t, seq.AdvanceTo(ctx, 3))
			got, err = seq.Next(ctx)
			require.NoError(t, err)
			assert.Equal(t, uint64(101), got)
		})
	}
}

func TestSQLiteReopenKeepsRecordsAndSequence(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "league.db")

	s := openSQLite(t, path)
	for i := 0; i < 3; i++ {
		id, err := s.Sequence().Next(ctx)
		require.NoError(t, err)
		_, _, err = s.Matches().Insert(ctx, id, model.Match{ID: id, ScheduledDate: "2024-05-01"})
		require.NoError(t, err)
	}
	require.NoError(t, s.Close())

	s = openSQLite(t, path)
	defer s.Close()

	next, err := s.Sequence().Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), next)

	var ids []uint64
	require.NoError(t, s.Matches().Scan(ctx, func(id uint64, m model.Match) bool {
		assert.Equal(t, "2024-05-01", m.ScheduledDate)
		ids = append(ids, id)
		return true
	}))
	assert.Equal(t, []uint64{0, 1, 2}, ids)
}

func TestSQLiteMigrationsRecorded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "league.db")
	s := openSQLite(t, path)
	defer s.Close()

	var names []string
	require.NoError(t, s.db.Select(&names, `SELECT filename FROM schema_migrations`))
	assert.Equal(t, []string{"0001_init.sql"}, names)
}

func TestMigrationSourceOverrideMissing(t *testing.T) {
	_, err := migrationSource("sqlite", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

func TestKeyEncodingOrder(t *testing.T) {
	a := encodeKey[uint64](255)
	b := encodeKey[uint64](256)
	assert.Negative(t, strings.Compare(string(a), string(b)))
	assert.Equal(t, uint64(256), decodeKey[uint64](b))
	assert.Equal(t, "abc", decodeKey[string](encodeKey("abc")))
}

func TestAtomicallyDiscardsWritesOnError(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			err := s.Atomically(ctx, func(tx Store) error {
				id, err := tx.Sequence().Next(ctx)
				require.NoError(t, err)
				_, _, err = tx.Teams().Insert(ctx, id, model.Team{ID: id, Name: "Eagles"})
				require.NoError(t, err)

				got, ok, err := tx.Teams().Get(ctx, id)
				require.NoError(t, err)
				require.True(t, ok)
				assert.Equal(t, "Eagles", got.Name)
				return boom
			})
			require.ErrorIs(t, err, boom)

			next, err := s.Sequence().Peek(ctx)
			require.NoError(t, err)
			assert.Equal(t, uint64(0), next)
			has, err := s.Teams().Contains(ctx, 0)
			require.NoError(t, err)
			assert.False(t, has)

			require.NoError(t, s.Atomically(ctx, func(tx Store) error {
				id, err := tx.Sequence().Next(ctx)
				if err != nil {
					return err
				}
				_, _, err = tx.Teams().Insert(ctx, id, model.Team{ID: id, Name: "Hawks"})
				return err
			}))
			got, ok, err := s.Teams().Get(ctx, 0)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, "Hawks", got.Name)
		})
	}
}

func TestAtomicallyNestedRunsInline(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Atomically(ctx, func(tx Store) error {
				return tx.Atomically(ctx, func(inner Store) error {
					_, _, err := inner.Users().Insert(ctx, 1, model.User{ID: 1, Name: "Ann"})
					return err
				})
			}))
			has, err := s.Users().Contains(ctx, 1)
			require.NoError(t, err)
			assert.True(t, has)
		})
	}
}

func TestKeysAboveInt64Range(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range []uint64{1 << 63, math.MaxUint64} {
				_, ok, err := s.Teams().Get(ctx, key)
				require.NoError(t, err)
				assert.False(t, ok)
				has, err := s.Teams().Contains(ctx, key)
				require.NoError(t, err)
				assert.False(t, has)
			}
		})
	}

	lite := openSQLite(t, filepath.Join(t.TempDir(), "range.db"))
	defer lite.Close()
	_, _, err := lite.Teams().Insert(ctx, 1<<63, model.Team{Name: "Eagles"})
	require.ErrorIs(t, err, ErrKeyOutOfRange)
}
