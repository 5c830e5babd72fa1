package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"league-registry/internal/config"
	"league-registry/internal/store"
)

// MigrateOptions holds flags for the migrate command.
type MigrateOptions struct {
	*RootOptions
	From storeTarget
	To   storeTarget
}

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MigrateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Copy every collection from one store to another",
		Long: `Copy every record from a source store into a destination store, keeping
record ids, then advance the destination id sequence past the source's.

The source defaults to the configured store.

Example:
  league-registry migrate --to-backend postgres --to-dsn postgres://localhost/league
  league-registry migrate --from-backend sqlite --from-db ./old.db --to-backend sqlite --to-db ./new.db`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := runMigrate(cmd.Context(), opts)
			for _, name := range store.Collections {
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %d\n", name, report.Copied[name])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "next id      %d\n", report.NextID)
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.From.Backend, "from-backend", "", "source backend (defaults to the configured backend)")
	f.StringVar(&opts.From.DBPath, "from-db", "", "source SQLite path")
	f.StringVar(&opts.From.DSN, "from-dsn", "", "source Postgres DSN")
	f.StringVar(&opts.To.Backend, "to-backend", "", "destination backend (required)")
	f.StringVar(&opts.To.DBPath, "to-db", "", "destination SQLite path")
	f.StringVar(&opts.To.DSN, "to-dsn", "", "destination Postgres DSN")
	_ = cmd.MarkFlagRequired("to-backend")

	return cmd
}

func runMigrate(ctx context.Context, opts *MigrateOptions) (store.CopyReport, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger.Named("migrate")

	from := opts.From
	if from.Backend == "" {
		from = targetFromConfig(opts.Config)
	}
	if from.Backend == config.BackendMemory || opts.To.Backend == config.BackendMemory {
		return store.CopyReport{}, errors.New("migrate needs durable stores on both sides")
	}
	if from == opts.To {
		return store.CopyReport{}, errors.New("source and destination are the same store")
	}

	src, err := openStore(from, logger.Named("source"))
	if err != nil {
		return store.CopyReport{}, fmt.Errorf("open source: %w", err)
	}
	defer src.Close()
	dst, err := openStore(opts.To, logger.Named("destination"))
	if err != nil {
		return store.CopyReport{}, fmt.Errorf("open destination: %w", err)
	}
	defer dst.Close()

	return store.Copy(ctx, src, dst, logger)
}
