package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"league-registry/internal/model"
)

func TestCopyMemoryToSQLite(t *testing.T) {
	ctx := context.Background()
	src, err := NewMemoryStore()
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		id, err := src.Sequence().Next(ctx)
		require.NoError(t, err)
		_, _, err = src.Users().Insert(ctx, id, model.User{ID: id, Name: "u"})
		require.NoError(t, err)
	}
	teamID, err := src.Sequence().Next(ctx)
	require.NoError(t, err)
	_, _, err = src.Teams().Insert(ctx, teamID, model.Team{ID: teamID, Name: "t", Members: []uint64{0}})
	require.NoError(t, err)
	_, _, err = src.Leagues().Insert(ctx, "l1", model.League{ID: "l1", Name: "league"})
	require.NoError(t, err)

	dst := openSQLite(t, filepath.Join(t.TempDir(), "copy.db"))
	defer dst.Close()

	report, err := Copy(ctx, src, dst, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Copied[CollectionUsers])
	assert.Equal(t, 1, report.Copied[CollectionTeams])
	assert.Equal(t, 1, report.Copied[CollectionLeagues])
	assert.Equal(t, uint64(4), report.NextID)

	team, ok, err := dst.Teams().Get(ctx, teamID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []uint64{0}, team.Members)

	next, err := dst.Sequence().Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), next)
}
