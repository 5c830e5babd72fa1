package cli

import (
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"league-registry/internal/config"
)

// RootOptions holds state shared by every command. Config and Logger are
// populated before a subcommand runs.
type RootOptions struct {
	Viper  *viper.Viper
	Config config.Config
	Logger hclog.Logger
}

// NewRootCommand creates the root command of the league registry CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{Viper: config.NewViper()}

	cmd := &cobra.Command{
		Use:   "league-registry",
		Short: "League and sport records registry",
		Long: `Keeps users, teams, matches, referees, tournaments and leagues in a
durable store and enforces the rules that tie them together.

Settings come from the environment (and .env / .env.local files), overridden
by flags.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadDotEnv()
			cfg, err := config.Load(opts.Viper)
			if err != nil {
				return err
			}
			opts.Config = cfg
			opts.Logger = cfg.Logger("league-registry")
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("backend", "", "store backend (memory|sqlite|postgres)")
	flags.String("db", "", "path to the SQLite database")
	flags.String("dsn", "", "Postgres connection string")
	flags.String("log-level", "", "log level (trace|debug|info|warn|error)")
	flags.Bool("log-json", false, "log in JSON format")
	bindFlag(opts.Viper, cmd, config.KeyStoreBackend, "backend")
	bindFlag(opts.Viper, cmd, config.KeyDBPath, "db")
	bindFlag(opts.Viper, cmd, config.KeyPostgresDSN, "dsn")
	bindFlag(opts.Viper, cmd, config.KeyLogLevel, "log-level")
	bindFlag(opts.Viper, cmd, config.KeyLogJSON, "log-json")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))

	return cmd
}

func bindFlag(v *viper.Viper, cmd *cobra.Command, key, flag string) {
	f := cmd.PersistentFlags().Lookup(flag)
	if f == nil {
		f = cmd.Flags().Lookup(flag)
	}
	_ = v.BindPFlag(key, f)
}
