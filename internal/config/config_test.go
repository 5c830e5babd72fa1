package config

import (
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"league-registry/internal/league"
)

func TestLoadDefaults(t *testing.T) {
	v := NewViper()
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, BackendMemory, cfg.Backend)
	assert.Equal(t, "restamp", cfg.OwnerOnUpdate)

	opts := cfg.ServiceOptions(nil)
	assert.Equal(t, league.OwnerRestamp, opts.OwnerPolicy)
	assert.Equal(t, league.EmptyListError, opts.ListPolicy)
	assert.NotNil(t, opts.Authorizer)
	assert.False(t, opts.RequireWinnerInMatch)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv(KeyDBPath, "/tmp/league.db")
	t.Setenv(KeyOwnerOnUpdate, "Preserve")
	t.Setenv(KeyEmptyListPolicy, "empty")
	t.Setenv(KeyRequireWinnerInMatch, "true")
	t.Setenv(KeyLogLevel, "debug")

	cfg, err := Load(NewViper())
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.Backend)
	assert.Equal(t, "/tmp/league.db", cfg.DBPath)

	opts := cfg.ServiceOptions(nil)
	assert.Equal(t, league.OwnerPreserve, opts.OwnerPolicy)
	assert.Equal(t, league.EmptyListOK, opts.ListPolicy)
	assert.True(t, opts.RequireWinnerInMatch)
}

func TestDefaultBackend(t *testing.T) {
	assert.Equal(t, BackendPostgres, DefaultBackend("postgres://x", "/tmp/db"))
	assert.Equal(t, BackendSQLite, DefaultBackend("", "/tmp/db"))
	assert.Equal(t, BackendMemory, DefaultBackend("", ""))
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	cfg := Config{
		Backend:         BackendPostgres,
		LogLevel:        "loud",
		OwnerOnUpdate:   "sometimes",
		EmptyListPolicy: "maybe",
		Authorization:   "root",
	}
	err := cfg.Validate()
	require.Error(t, err)

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 5)
	assert.Contains(t, err.Error(), KeyPostgresDSN)
}

func TestRequireCallerIdentity(t *testing.T) {
	assert.Error(t, Config{}.RequireCallerIdentity())
	assert.NoError(t, Config{DevMode: true}.RequireCallerIdentity())
	assert.NoError(t, Config{JWTSecret: "s"}.RequireCallerIdentity())
}
