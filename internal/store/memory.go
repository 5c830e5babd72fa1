package store

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/hashicorp/go-memdb"

	"league-registry/internal/model"
)

const (
	memIndexID      = "id"
	memSequence     = "sequence"
	memSequenceName = "global"
)

// MemoryStore keeps every collection in a go-memdb table. Records are held in
// encoded form so callers never share memory with stored values. Nothing
// survives the process.
type MemoryStore struct {
	db  *memdb.MemDB
	// txn is set on the view passed to Atomically.
	txn *memdb.Txn

	users       *memCollection[uint64, model.User]
	teams       *memCollection[uint64, model.Team]
	matches     *memCollection[uint64, model.Match]
	referees    *memCollection[uint64, model.Referee]
	tournaments *memCollection[uint64, model.Tournament]
	leagues     *memCollection[string, model.League]
}

type memRecord struct {
	Key  []byte
	Body []byte
}

// keyIndexer indexes memRecord.Key. Keys are compared bytewise, so uint64 keys
// encoded big-endian iterate in ascending numeric order.
type keyIndexer struct{}

func (keyIndexer) FromObject(obj interface{}) (bool, []byte, error) {
	rec, ok := obj.(*memRecord)
	if !ok {
		return false, nil, fmt.Errorf("unexpected object %T", obj)
	}
	if len(rec.Key) == 0 {
		return false, nil, nil
	}
	return true, terminate(rec.Key), nil
}

func (keyIndexer) FromArgs(args ...interface{}) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("must provide only a single argument")
	}
	key, ok := args[0].([]byte)
	if !ok {
		return nil, fmt.Errorf("argument must be []byte: %#v", args[0])
	}
	return terminate(key), nil
}

func terminate(key []byte) []byte {
	out := make([]byte, 0, len(key)+1)
	out = append(out, key...)
	return append(out, '\x00')
}

func memSchema() *memdb.DBSchema {
	tables := make(map[string]*memdb.TableSchema, len(Collections)+1)
	for _, name := range append([]string{memSequence}, Collections...) {
		tables[name] = &memdb.TableSchema{
			Name: name,
			Indexes: map[string]*memdb.IndexSchema{
				memIndexID: {Name: memIndexID, Unique: true, Indexer: keyIndexer{}},
			},
		}
	}
	return &memdb.DBSchema{Tables: tables}
}

func NewMemoryStore() (*MemoryStore, error) {
	db, err := memdb.NewMemDB(memSchema())
	if err != nil {
		return nil, fmt.Errorf("create memdb: %w", err)
	}
	return newMemoryStore(db, nil), nil
}

func newMemoryStore(db *memdb.MemDB, txn *memdb.Txn) *MemoryStore {
	s := &MemoryStore{db: db, txn: txn}
	s.users = &memCollection[uint64, model.User]{st: s, table: CollectionUsers}
	s.teams = &memCollection[uint64, model.Team]{st: s, table: CollectionTeams}
	s.matches = &memCollection[uint64, model.Match]{st: s, table: CollectionMatches}
	s.referees = &memCollection[uint64, model.Referee]{st: s, table: CollectionReferees}
	s.tournaments = &memCollection[uint64, model.Tournament]{st: s, table: CollectionTournaments}
	s.leagues = &memCollection[string, model.League]{st: s, table: CollectionLeagues}
	return s
}

// Atomically holds the memdb write transaction for the whole of fn, which
// excludes every other writer. The transaction is aborted when fn fails.
func (s *MemoryStore) Atomically(_ context.Context, fn func(tx Store) error) error {
	if s.txn != nil {
		return fn(s)
	}
	txn := s.db.Txn(true)
	defer txn.Abort()
	if err := fn(newMemoryStore(s.db, txn)); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

func (s *MemoryStore) read() *memdb.Txn {
	if s.txn != nil {
		return s.txn
	}
	return s.db.Txn(false)
}

// write runs fn in the view's transaction, or in a new one.
func (s *MemoryStore) write(fn func(txn *memdb.Txn) error) error {
	if s.txn != nil {
		return fn(s.txn)
	}
	txn := s.db.Txn(true)
	defer txn.Abort()
	if err := fn(txn); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

func (s *MemoryStore) Sequence() Sequence                          { return (*memSequenceTable)(s) }
func (s *MemoryStore) Users() Collection[uint64, model.User]       { return s.users }
func (s *MemoryStore) Teams() Collection[uint64, model.Team]       { return s.teams }
func (s *MemoryStore) Matches() Collection[uint64, model.Match]    { return s.matches }
func (s *MemoryStore) Referees() Collection[uint64, model.Referee] { return s.referees }
func (s *MemoryStore) Tournaments() Collection[uint64, model.Tournament] {
	return s.tournaments
}
func (s *MemoryStore) Leagues() Collection[string, model.League] { return s.leagues }

func (s *MemoryStore) Close() error { return nil }

type memCollection[K Key, V any] struct {
	st    *MemoryStore
	table string
}

func (c *memCollection[K, V]) Get(_ context.Context, key K) (V, bool, error) {
	var zero V
	raw, err := c.st.read().First(c.table, memIndexID, encodeKey(key))
	if err != nil {
		return zero, false, fmt.Errorf("get %s: %w", c.table, err)
	}
	if raw == nil {
		return zero, false, nil
	}
	rec, err := decodeRecord[V](c.table, raw.(*memRecord).Body)
	if err != nil {
		return zero, false, err
	}
	return rec, true, nil
}

func (c *memCollection[K, V]) Insert(_ context.Context, key K, rec V) (V, bool, error) {
	var prev V
	body, err := encodeRecord(c.table, rec)
	if err != nil {
		return prev, false, err
	}

	existed := false
	err = c.st.write(func(txn *memdb.Txn) error {
		raw, err := txn.First(c.table, memIndexID, encodeKey(key))
		if err != nil {
			return fmt.Errorf("insert %s: %w", c.table, err)
		}
		if raw != nil {
			if prev, err = decodeRecord[V](c.table, raw.(*memRecord).Body); err != nil {
				return err
			}
			existed = true
		}
		if err := txn.Insert(c.table, &memRecord{Key: encodeKey(key), Body: body}); err != nil {
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

func (c *memCollection[K, V]) Contains(_ context.Context, key K) (bool, error) {
	raw, err := c.st.read().First(c.table, memIndexID, encodeKey(key))
	if err != nil {
		return false, fmt.Errorf("contains %s: %w", c.table, err)
	}
	return raw != nil, nil
}

func (c *memCollection[K, V]) Scan(_ context.Context, fn func(key K, rec V) bool) error {
	it, err := c.st.read().Get(c.table, memIndexID)
	if err != nil {
		return fmt.Errorf("scan %s: %w", c.table, err)
	}
	// Entries are collected first so fn may write through the same transaction.
	var entries []*memRecord
	for obj := it.Next(); obj != nil; obj = it.Next() {
		entries = append(entries, obj.(*memRecord))
	}
	for _, entry := range entries {
		rec, err := decodeRecord[V](c.table, entry.Body)
		if err != nil {
			return err
		}
		if !fn(decodeKey[K](entry.Key), rec) {
			return nil
		}
	}
	return nil
}

type memSequenceTable MemoryStore

func (s *memSequenceTable) Next(_ context.Context) (uint64, error) {
	var next uint64
	err := (*MemoryStore)(s).write(func(txn *memdb.Txn) error {
		var err error
		if next, err = s.current(txn); err != nil {
			return err
		}
		return s.store(txn, next+1)
	})
	if err != nil {
		return 0, err
	}
	return next, nil
}

func (s *memSequenceTable) Peek(_ context.Context) (uint64, error) {
	return s.current((*MemoryStore)(s).read())
}

func (s *memSequenceTable) AdvanceTo(_ context.Context, next uint64) error {
	return (*MemoryStore)(s).write(func(txn *memdb.Txn) error {
		current, err := s.current(txn)
		if err != nil {
			return err
		}
		if current >= next {
			return nil
		}
		return s.store(txn, next)
	})
}

func (s *memSequenceTable) current(txn *memdb.Txn) (uint64, error) {
	raw, err := txn.First(memSequence, memIndexID, []byte(memSequenceName))
	if err != nil {
		return 0, fmt.Errorf("read sequence: %w", err)
	}
	if raw == nil {
		return 0, nil
	}
	return binary.BigEndian.Uint64(raw.(*memRecord).Body), nil
}

func (s *memSequenceTable) store(txn *memdb.Txn, next uint64) error {
	body := make([]byte, 8)
	binary.BigEndian.PutUint64(body, next)
	if err := txn.Insert(memSequence, &memRecord{Key: []byte(memSequenceName), Body: body}); err != nil {
		return fmt.Errorf("write sequence: %w", err)
	}
	return nil
}
