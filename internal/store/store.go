package store

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"league-registry/internal/model"
)

// Collection names. Each one is an independently persisted region.
const (
	CollectionUsers       = "users"
	CollectionTeams       = "teams"
	CollectionMatches     = "matches"
	CollectionReferees    = "referees"
	CollectionTournaments = "tournaments"
	CollectionLeagues     = "leagues"
)

var Collections = []string{
	CollectionUsers,
	CollectionTeams,
	CollectionMatches,
	CollectionReferees,
	CollectionTournaments,
	CollectionLeagues,
}

// MaxRecordSize bounds the encoded size of a single record.
const MaxRecordSize = 8 << 10

var ErrRecordTooLarge = errors.New("record exceeds maximum size")

// ErrKeyOutOfRange is returned when a SQL backend is asked to store a numeric
// key it cannot represent.
var ErrKeyOutOfRange = errors.New("key out of range")

type Key interface {
	uint64 | string
}

// Collection is a durable mapping from key to record. Insert is durable before it returns.
type Collection[K Key, V any] interface {
	Get(ctx context.Context, key K) (V, bool, error)
	// Insert stores rec under key and returns the previous record, if any.
	Insert(ctx context.Context, key K, rec V) (V, bool, error)
	Contains(ctx context.Context, key K) (bool, error)
	// Scan visits records in ascending key order until fn returns false.
	Scan(ctx context.Context, fn func(key K, rec V) bool) error
}

// Sequence hands out store-wide identifiers. It never rewinds.
type Sequence interface {
	Next(ctx context.Context) (uint64, error)
	// Peek returns the value the next call to Next will return.
	Peek(ctx context.Context) (uint64, error)
	// AdvanceTo raises the sequence so that Next returns at least next.
	AdvanceTo(ctx context.Context, next uint64) error
}

type Store interface {
	// Atomically runs fn against a view of the store that holds a store-wide
	// lock, shared by every process using the same database. Writes made
	// through the view are applied only if fn returns nil. Calling
	// Atomically on the view runs fn directly.
	Atomically(ctx context.Context, fn func(tx Store) error) error

	Sequence() Sequence

	Users() Collection[uint64, model.User]
	Teams() Collection[uint64, model.Team]
	Matches() Collection[uint64, model.Match]
	Referees() Collection[uint64, model.Referee]
	Tournaments() Collection[uint64, model.Tournament]
	Leagues() Collection[string, model.League]

	Close() error
}

func encodeRecord(collection string, rec any) ([]byte, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode %s record: %w", collection, err)
	}
	if len(data) > MaxRecordSize {
		return nil, fmt.Errorf("encode %s record: %w (%d > %d bytes)", collection, ErrRecordTooLarge, len(data), MaxRecordSize)
	}
	return data, nil
}

func decodeRecord[V any](collection string, data []byte) (V, error) {
	var rec V
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, fmt.Errorf("decode %s record: %w", collection, err)
	}
	return rec, nil
}

// encodeKey produces an order-preserving byte form of a key.
func encodeKey[K Key](key K) []byte {
	switch v := any(key).(type) {
	case uint64:
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, v)
		return buf
	case string:
		return []byte(v)
	}
	return nil
}

func decodeKey[K Key](data []byte) K {
	var key K
	switch any(key).(type) {
	case uint64:
		return any(binary.BigEndian.Uint64(data)).(K)
	case string:
		return any(string(data)).(K)
	}
	return key
}
