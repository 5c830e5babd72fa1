package league

import (
	"context"

	"league-registry/internal/store"
)

// collect scans c in key order and keeps the records accepted by keep.
func collect[K store.Key, V any](ctx context.Context, c store.Collection[K, V], keep func(V) bool) ([]V, error) {
	out := []V{}
	err := c.Scan(ctx, func(_ K, rec V) bool {
		if keep == nil || keep(rec) {
			out = append(out, rec)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// find returns the first record in key order accepted by match.
func find[K store.Key, V any](ctx context.Context, c store.Collection[K, V], match func(V) bool) (V, bool, error) {
	var found V
	var ok bool
	err := c.Scan(ctx, func(_ K, rec V) bool {
		if match(rec) {
			found, ok = rec, true
			return false
		}
		return true
	})
	return found, ok, err
}

// list applies the empty-list policy to a collected result.
func list[K store.Key, V any](ctx context.Context, s *Service, c store.Collection[K, V], keep func(V) bool, emptyMsg string) ([]V, error) {
	out, err := collect(ctx, c, keep)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 && s.listPolicy == EmptyListError {
		return nil, notFound("%s", emptyMsg)
	}
	return out, nil
}
