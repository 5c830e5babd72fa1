package store

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
)

// CopyReport counts the records written per collection.
type CopyReport struct {
	Copied map[string]int
	// NextID is the sequence value the destination was advanced to.
	NextID uint64
}

// Copy writes every record of src into dst under the same key and raises the
// destination sequence to the source's next value. Records that fail to write
// are skipped and reported together in the returned error; a failure to read
// src stops the copy.
func Copy(ctx context.Context, src, dst Store, logger hclog.Logger) (CopyReport, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	report := CopyReport{Copied: make(map[string]int, len(Collections))}
	var failures *multierror.Error

	c := copier{report: &report, failures: &failures, logger: logger}
	if err := copyCollection(ctx, c, CollectionUsers, src.Users(), dst.Users()); err != nil {
		return report, err
	}
	if err := copyCollection(ctx, c, CollectionTeams, src.Teams(), dst.Teams()); err != nil {
		return report, err
	}
	if err := copyCollection(ctx, c, CollectionMatches, src.Matches(), dst.Matches()); err != nil {
		return report, err
	}
	if err := copyCollection(ctx, c, CollectionReferees, src.Referees(), dst.Referees()); err != nil {
		return report, err
	}
	if err := copyCollection(ctx, c, CollectionTournaments, src.Tournaments(), dst.Tournaments()); err != nil {
		return report, err
	}
	if err := copyCollection(ctx, c, CollectionLeagues, src.Leagues(), dst.Leagues()); err != nil {
		return report, err
	}

	next, err := src.Sequence().Peek(ctx)
	if err != nil {
		return report, err
	}
	if err := dst.Sequence().AdvanceTo(ctx, next); err != nil {
		return report, err
	}
	report.NextID = next
	logger.Info("copy finished", "next_id", next)
	return report, failures.ErrorOrNil()
}

type copier struct {
	report   *CopyReport
	failures **multierror.Error
	logger   hclog.Logger
}

func copyCollection[K Key, V any](ctx context.Context, c copier, name string, src, dst Collection[K, V]) error {
	type entry struct {
		key K
		rec V
	}
	var entries []entry
	if err := src.Scan(ctx, func(key K, rec V) bool {
		entries = append(entries, entry{key: key, rec: rec})
		return true
	}); err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	for _, e := range entries {
		if _, _, err := dst.Insert(ctx, e.key, e.rec); err != nil {
			*c.failures = multierror.Append(*c.failures, fmt.Errorf("%s %v: %w", name, e.key, err))
			continue
		}
		c.report.Copied[name]++
	}
	c.logger.Info("copied collection", "collection", name, "records", c.report.Copied[name])
	return nil
}
