package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/jmoiron/sqlx"

	"league-registry/internal/model"
)

const sequenceName = "global"

// sqlRunner is satisfied by both *sqlx.DB and *sqlx.Tx.
type sqlRunner interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	Rebind(query string) string
}

// sqlStore holds the collection and sequence code shared by the SQLite and
// Postgres backends. Queries are written with ? placeholders and rebound per driver.
type sqlStore struct {
	db   *sqlx.DB
	// tx is set on the view passed to Atomically.
	tx   *sqlx.Tx
	// lock takes the store-wide lock inside a transaction. SQLite needs none
	// because its transactions begin IMMEDIATE.
	lock func(ctx context.Context, tx *sqlx.Tx) error

	users       *sqlCollection[uint64, model.User]
	teams       *sqlCollection[uint64, model.Team]
	matches     *sqlCollection[uint64, model.Match]
	referees    *sqlCollection[uint64, model.Referee]
	tournaments *sqlCollection[uint64, model.Tournament]
	leagues     *sqlCollection[string, model.League]
}

func newSQLStore(db *sqlx.DB, tx *sqlx.Tx, lock func(context.Context, *sqlx.Tx) error) *sqlStore {
	s := &sqlStore{db: db, tx: tx, lock: lock}
	s.users = &sqlCollection[uint64, model.User]{st: s, table: CollectionUsers}
	s.teams = &sqlCollection[uint64, model.Team]{st: s, table: CollectionTeams}
	s.matches = &sqlCollection[uint64, model.Match]{st: s, table: CollectionMatches}
	s.referees = &sqlCollection[uint64, model.Referee]{st: s, table: CollectionReferees}
	s.tournaments = &sqlCollection[uint64, model.Tournament]{st: s, table: CollectionTournaments}
	s.leagues = &sqlCollection[string, model.League]{st: s, table: CollectionLeagues}
	return s
}

func (s *sqlStore) Sequence() Sequence                          { return &sqlSequence{st: s} }
func (s *sqlStore) Users() Collection[uint64, model.User]       { return s.users }
func (s *sqlStore) Teams() Collection[uint64, model.Team]       { return s.teams }
func (s *sqlStore) Matches() Collection[uint64, model.Match]    { return s.matches }
func (s *sqlStore) Referees() Collection[uint64, model.Referee] { return s.referees }
func (s *sqlStore) Tournaments() Collection[uint64, model.Tournament] {
	return s.tournaments
}
func (s *sqlStore) Leagues() Collection[string, model.League] { return s.leagues }

// Close releases the database. It does nothing on a transaction view.
func (s *sqlStore) Close() error {
	if s.db == nil || s.tx != nil {
		return nil
	}
	return s.db.Close()
}

func (s *sqlStore) Atomically(ctx context.Context, fn func(tx Store) error) error {
	if s.tx != nil {
		return fn(s)
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if s.lock != nil {
		if err := s.lock(ctx, tx); err != nil {
			return fmt.Errorf("lock store: %w", err)
		}
	}
	if err := fn(newSQLStore(s.db, tx, s.lock)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *sqlStore) runner() sqlRunner {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

// inTx runs fn in the view's transaction, or in a new one.
func (s *sqlStore) inTx(ctx context.Context, fn func(q sqlRunner) error) error {
	if s.tx != nil {
		return fn(s.tx)
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// sqlKey converts key to a driver argument. Both dialects store ids as signed
// 64-bit integers, so larger uint64 keys cannot exist in a table.
func sqlKey[K Key](key K) (any, bool) {
	switch v := any(key).(type) {
	case uint64:
		if v > math.MaxInt64 {
			return nil, false
		}
		return int64(v), true
	case string:
		return v, true
	}
	return nil, false
}

type sqlRow[K Key] struct {
	ID   K      `db:"id"`
	Body string `db:"body"`
}

type sqlCollection[K Key, V any] struct {
	st    *sqlStore
	table string
}

func (c *sqlCollection[K, V]) Get(ctx context.Context, key K) (V, bool, error) {
	var zero V
	arg, ok := sqlKey(key)
	if !ok {
		return zero, false, nil
	}
	q := c.st.runner()
	var row sqlRow[K]
	err := q.GetContext(ctx, &row, q.Rebind(`SELECT id, body FROM `+c.table+` WHERE id = ?`), arg)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, fmt.Errorf("get %s: %w", c.table, err)
	}
	rec, err := decodeRecord[V](c.table, []byte(row.Body))
	if err != nil {
		return zero, false, err
	}
	return rec, true, nil
}

func (c *sqlCollection[K, V]) Insert(ctx context.Context, key K, rec V) (V, bool, error) {
	var prev V
	arg, ok := sqlKey(key)
	if !ok {
		return prev, false, fmt.Errorf("insert %s: %w: %v", c.table, ErrKeyOutOfRange, key)
	}
	body, err := encodeRecord(c.table, rec)
	if err != nil {
		return prev, false, err
	}

	existed := false
	err = c.st.inTx(ctx, func(q sqlRunner) error {
		var old sqlRow[K]
		err := q.GetContext(ctx, &old, q.Rebind(`SELECT id, body FROM `+c.table+` WHERE id = ?`), arg)
		switch {
		case errors.Is(err, sql.ErrNoRows):
		case err != nil:
			return fmt.Errorf("insert %s: %w", c.table, err)
		default:
			if prev, err = decodeRecord[V](c.table, []byte(old.Body)); err != nil {
				return err
			}
			existed = true
		}

		_, err = q.ExecContext(ctx, q.Rebind(`INSERT INTO `+c.table+` (id, body) VALUES (?, ?)
			ON CONFLICT (id) DO UPDATE SET body = excluded.body`), arg, string(body))
		if err != nil {
			return fmt.Errorf("insert %s: %w", c.table, err)
		}
		return nil
	})
	if err != nil {
		var zero V
		return zero, false, err
	}
	return prev, existed, nil
}

func (c *sqlCollection[K, V]) Contains(ctx context.Context, key K) (bool, error) {
	arg, ok := sqlKey(key)
	if !ok {
		return false, nil
	}
	q := c.st.runner()
	var n int
	err := q.GetContext(ctx, &n, q.Rebind(`SELECT COUNT(*) FROM `+c.table+` WHERE id = ?`), arg)
	if err != nil {
		return false, fmt.Errorf("contains %s: %w", c.table, err)
	}
	return n > 0, nil
}

func (c *sqlCollection[K, V]) Scan(ctx context.Context, fn func(key K, rec V) bool) error {
	// Rows are read in full first so fn may call back into the store.
	var rows []sqlRow[K]
	if err := c.st.runner().SelectContext(ctx, &rows, `SELECT id, body FROM `+c.table+` ORDER BY id ASC`); err != nil {
		return fmt.Errorf("scan %s: %w", c.table, err)
	}
	for _, row := range rows {
		rec, err := decodeRecord[V](c.table, []byte(row.Body))
		if err != nil {
			return err
		}
		if !fn(row.ID, rec) {
			return nil
		}
	}
	return nil
}

type sqlSequence struct {
	st *sqlStore
}

func (s *sqlSequence) Next(ctx context.Context) (uint64, error) {
	q := s.st.runner()
	var id uint64
	err := q.GetContext(ctx, &id, q.Rebind(`UPDATE id_counter SET next_value = next_value + 1
		WHERE name = ? RETURNING next_value - 1`), sequenceName)
	if err != nil {
		return 0, fmt.Errorf("next id: %w", err)
	}
	return id, nil
}

func (s *sqlSequence) Peek(ctx context.Context) (uint64, error) {
	q := s.st.runner()
	var next uint64
	err := q.GetContext(ctx, &next, q.Rebind(`SELECT next_value FROM id_counter WHERE name = ?`), sequenceName)
	if err != nil {
		return 0, fmt.Errorf("peek id: %w", err)
	}
	return next, nil
}

func (s *sqlSequence) AdvanceTo(ctx context.Context, next uint64) error {
	if next > math.MaxInt64 {
		return fmt.Errorf("advance sequence: %w: %d", ErrKeyOutOfRange, next)
	}
	q := s.st.runner()
	_, err := q.ExecContext(ctx, q.Rebind(`UPDATE id_counter SET next_value = ?
		WHERE name = ? AND next_value < ?`), int64(next), sequenceName, int64(next))
	if err != nil {
		return fmt.Errorf("advance sequence: %w", err)
	}
	return nil
}
