package store

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/jmoiron/sqlx"
)

//go:embed migrations
var embeddedMigrations embed.FS

// migrationSource returns the override directory when set, otherwise the
// embedded migrations for the dialect.
func migrationSource(dialect, overrideDir string) (fs.FS, error) {
	if dir := strings.TrimSpace(overrideDir); dir != "" {
		if _, err := os.Stat(dir); err != nil {
			return nil, fmt.Errorf("migrations dir: %w", err)
		}
		return os.DirFS(dir), nil
	}
	sub, err := fs.Sub(embeddedMigrations, path.Join("migrations", dialect))
	if err != nil {
		return nil, fmt.Errorf("embedded migrations for %s: %w", dialect, err)
	}
	return sub, nil
}

func applyMigrations(db *sqlx.DB, migrations fs.FS, logger hclog.Logger) error {
	if err := ensureMigrationsTable(db); err != nil {
		return err
	}
	applied, err := loadAppliedMigrations(db)
	if err != nil {
		return err
	}
	entries, err := fs.ReadDir(migrations, ".")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if name := entry.Name(); strings.HasSuffix(name, ".sql") {
			files = append(files, name)
		}
	}
	sort.Strings(files)
	for _, filename := range files {
		if applied[filename] {
			continue
		}
		content, err := fs.ReadFile(migrations, filename)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", filename, err)
		}
		if strings.TrimSpace(string(content)) == "" {
			continue
		}
		if err := applyMigration(db, filename, string(content)); err != nil {
			return fmt.Errorf("apply migration %s: %w", filename, err)
		}
		logger.Info("applied migration", "file", filename)
	}
	return nil
}

func ensureMigrationsTable(db *sqlx.DB) error {
	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS schema_migrations (
  filename TEXT PRIMARY KEY,
  installed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`)
	if err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	return nil
}

func loadAppliedMigrations(db *sqlx.DB) (map[string]bool, error) {
	var names []string
	if err := db.Select(&names, `SELECT filename FROM schema_migrations`); err != nil {
		return nil, fmt.Errorf("load schema_migrations: %w", err)
	}
	applied := make(map[string]bool, len(names))
	for _, name := range names {
		applied[name] = true
	}
	return applied, nil
}

func applyMigration(db *sqlx.DB, filename, sqlContent string) error {
	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("begin migration tx: %w", err)
	}
	if _, err := tx.Exec(sqlContent); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.Exec(tx.Rebind(`INSERT INTO schema_migrations (filename) VALUES (?)`), filename); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration tx: %w", err)
	}
	return nil
}
