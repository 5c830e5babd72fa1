package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

// PostgresStore persists every collection in a Postgres database.
type PostgresStore struct {
	*sqlStore
}

// advisoryLockKey names the transaction-scoped lock that serializes
// operations across every process sharing the database.
const advisoryLockKey int64 = 0x6c65616775650001

func lockPostgres(ctx context.Context, tx *sqlx.Tx) error {
	_, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, advisoryLockKey)
	return err
}

type PostgresOptions struct {
	MigrationsDir string
	Logger        hclog.Logger
}

func NewPostgresStore(dsn string, opts PostgresOptions) (*PostgresStore, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("postgres dsn is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	db, err := sqlx.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	migrations, err := migrationSource("postgres", opts.MigrationsDir)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := applyMigrations(db, migrations, logger); err != nil {
		_ = db.Close()
		return nil, err
	}
	logger.Info("opened postgres store")
	return &PostgresStore{sqlStore: newSQLStore(db, nil, lockPostgres)}, nil
}
