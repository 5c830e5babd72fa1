package cli

import (
	"fmt"

	"github.com/hashicorp/go-hclog"

	"league-registry/internal/config"
	"league-registry/internal/store"
)

// storeTarget names one store to open.
type storeTarget struct {
	Backend       string
	DBPath        string
	DSN           string
	MigrationsDir string
}

func targetFromConfig(cfg config.Config) storeTarget {
	t := storeTarget{Backend: cfg.Backend, DBPath: cfg.DBPath, DSN: cfg.PostgresDSN}
	switch cfg.Backend {
	case config.BackendSQLite:
		t.MigrationsDir = cfg.DBMigrationsDir
	case config.BackendPostgres:
		t.MigrationsDir = cfg.PostgresMigrationsDir
	}
	return t
}

func openStore(t storeTarget, logger hclog.Logger) (store.Store, error) {
	switch t.Backend {
	case config.BackendMemory:
		return store.NewMemoryStore()
	case config.BackendSQLite:
		return store.NewSQLiteStore(t.DBPath, store.SQLiteOptions{MigrationsDir: t.MigrationsDir, Logger: logger})
	case config.BackendPostgres:
		return store.NewPostgresStore(t.DSN, store.PostgresOptions{MigrationsDir: t.MigrationsDir, Logger: logger})
	}
	return nil, fmt.Errorf("unknown store backend %q", t.Backend)
}
