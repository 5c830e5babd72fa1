package store

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// SQLiteStore persists every collection in a single SQLite file.
type SQLiteStore struct {
	*sqlStore
}

type SQLiteOptions struct {
	MigrationsDir string
	Logger        hclog.Logger
}

var sqlitePragmas = []string{
	"journal_mode(WAL)",
	"synchronous(FULL)",
	"busy_timeout(5000)",
	"foreign_keys(ON)",
}

// sqliteDSN applies the pragmas to every connection the driver opens and
// makes transactions begin IMMEDIATE, so the write lock is held from the
// first statement. Other processes wait on busy_timeout.
func sqliteDSN(path string) string {
	q := url.Values{}
	for _, pragma := range sqlitePragmas {
		q.Add("_pragma", pragma)
	}
	q.Set("_txlock", "immediate")
	return path + "?" + q.Encode()
}

func NewSQLiteStore(path string, opts SQLiteOptions) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	db, err := sqlx.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection serializes writers within the process.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	migrations, err := migrationSource("sqlite", opts.MigrationsDir)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := applyMigrations(db, migrations, logger); err != nil {
		_ = db.Close()
		return nil, err
	}
	logger.Info("opened sqlite store", "path", path)
	return &SQLiteStore{sqlStore: newSQLStore(db, nil, nil)}, nil
}
