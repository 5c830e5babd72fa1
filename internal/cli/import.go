package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"league-registry/internal/league"
)

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	*RootOptions
	Caller string
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <fixtures.yaml>",
		Short: "Create records from a YAML fixtures file",
		Long: `Create users, teams, matches and results from a YAML file. Every record
goes through the same checks as the API; rejected records are listed and
skipped.

Example:
  league-registry import --db ./league.db fixtures.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := runImport(cmd.Context(), opts, args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "users %d, teams %d, members %d, coaches %d, matches %d, results %d\n",
				report.Users, report.Teams, report.Members, report.Coaches, report.Matches, report.Results)
			return err
		},
	}

	cmd.Flags().StringVar(&opts.Caller, "caller", "", "principal used for records without an owner (overrides the file)")

	return cmd
}

func runImport(ctx context.Context, opts *ImportOptions, path string) (ImportReport, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	f, err := os.Open(path)
	if err != nil {
		return ImportReport{}, err
	}
	defer f.Close()

	fx, err := LoadFixtures(f)
	if err != nil {
		return ImportReport{}, err
	}
	if opts.Caller != "" {
		fx.Caller = opts.Caller
	}
	if fx.Caller == "" {
		fx.Caller = string(league.Anonymous)
	}

	st, err := openStore(targetFromConfig(opts.Config), opts.Logger.Named("store"))
	if err != nil {
		return ImportReport{}, err
	}
	defer st.Close()

	service := league.NewService(st, opts.Config.ServiceOptions(opts.Logger.Named("league")))
	return ApplyFixtures(ctx, service, fx)
}
