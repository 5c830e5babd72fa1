// Package config loads runtime settings from the environment, .env files and
// command line flags.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"league-registry/internal/league"
)

// Environment keys.
const (
	KeyAddr                  = "ADDR"
	KeyStoreBackend          = "STORE_BACKEND"
	KeyDBPath                = "DB_PATH"
	KeyDBMigrationsDir       = "DB_MIGRATIONS_DIR"
	KeyPostgresDSN           = "POSTGRES_DSN"
	KeyPostgresMigrationsDir = "POSTGRES_MIGRATIONS_DIR"
	KeyJWTSecret             = "JWT_SECRET"
	KeyDevMode               = "DEV_MODE"
	KeyLogLevel              = "LOG_LEVEL"
	KeyLogJSON               = "LOG_JSON"
	KeyOwnerOnUpdate         = "OWNER_ON_UPDATE"
	KeyEmptyListPolicy       = "EMPTY_LIST_POLICY"
	KeyAuthorization         = "AUTHORIZATION"
	KeyRequireWinnerInMatch  = "REQUIRE_WINNER_IN_MATCH"
)

const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

type Config struct {
	Addr string

	Backend               string
	DBPath                string
	DBMigrationsDir       string
	PostgresDSN           string
	PostgresMigrationsDir string

	JWTSecret string
	DevMode   bool

	LogLevel string
	LogJSON  bool

	OwnerOnUpdate        string
	EmptyListPolicy      string
	Authorization        string
	RequireWinnerInMatch bool
}

// LoadDotEnv reads .env and .env.local when running outside Lambda. Missing
// files are ignored.
func LoadDotEnv() {
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		return
	}
	for _, name := range []string{".env", ".env.local"} {
		_ = godotenv.Load(name)
	}
}

// NewViper returns a viper instance reading the environment with defaults set.
func NewViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault(KeyAddr, ":8080")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyOwnerOnUpdate, "restamp")
	v.SetDefault(KeyEmptyListPolicy, "error")
	v.SetDefault(KeyAuthorization, "allow-all")
	return v
}

// Load builds a Config from v and validates it.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Addr:                  strings.TrimSpace(v.GetString(KeyAddr)),
		Backend:               strings.ToLower(strings.TrimSpace(v.GetString(KeyStoreBackend))),
		DBPath:                strings.TrimSpace(v.GetString(KeyDBPath)),
		DBMigrationsDir:       strings.TrimSpace(v.GetString(KeyDBMigrationsDir)),
		PostgresDSN:           strings.TrimSpace(v.GetString(KeyPostgresDSN)),
		PostgresMigrationsDir: strings.TrimSpace(v.GetString(KeyPostgresMigrationsDir)),
		JWTSecret:             v.GetString(KeyJWTSecret),
		DevMode:               v.GetBool(KeyDevMode),
		LogLevel:              strings.TrimSpace(v.GetString(KeyLogLevel)),
		LogJSON:               v.GetBool(KeyLogJSON),
		OwnerOnUpdate:         strings.ToLower(strings.TrimSpace(v.GetString(KeyOwnerOnUpdate))),
		EmptyListPolicy:       strings.ToLower(strings.TrimSpace(v.GetString(KeyEmptyListPolicy))),
		Authorization:         strings.ToLower(strings.TrimSpace(v.GetString(KeyAuthorization))),
		RequireWinnerInMatch:  v.GetBool(KeyRequireWinnerInMatch),
	}
	if cfg.Backend == "" {
		cfg.Backend = DefaultBackend(cfg.PostgresDSN, cfg.DBPath)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DefaultBackend picks postgres when a DSN is set, sqlite when a path is set,
// and memory otherwise.
func DefaultBackend(dsn, dbPath string) string {
	switch {
	case dsn != "":
		return BackendPostgres
	case dbPath != "":
		return BackendSQLite
	}
	return BackendMemory
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var result *multierror.Error

	switch c.Backend {
	case BackendMemory:
	case BackendSQLite:
		if c.DBPath == "" {
			result = multierror.Append(result, fmt.Errorf("%s is required for the sqlite backend", KeyDBPath))
		}
	case BackendPostgres:
		if c.PostgresDSN == "" {
			result = multierror.Append(result, fmt.Errorf("%s is required for the postgres backend", KeyPostgresDSN))
		}
	default:
		result = multierror.Append(result, fmt.Errorf("%s: unknown backend %q", KeyStoreBackend, c.Backend))
	}
	if hclog.LevelFromString(c.LogLevel) == hclog.NoLevel {
		result = multierror.Append(result, fmt.Errorf("%s: unknown level %q", KeyLogLevel, c.LogLevel))
	}
	if _, err := c.ownerPolicy(); err != nil {
		result = multierror.Append(result, err)
	}
	if _, err := c.listPolicy(); err != nil {
		result = multierror.Append(result, err)
	}
	if _, err := c.authorizer(); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

// RequireCallerIdentity fails when no way of identifying HTTP callers is configured.
func (c Config) RequireCallerIdentity() error {
	if !c.DevMode && c.JWTSecret == "" {
		return fmt.Errorf("%s is required unless %s is set", KeyJWTSecret, KeyDevMode)
	}
	return nil
}

func (c Config) ownerPolicy() (league.OwnerPolicy, error) {
	switch c.OwnerOnUpdate {
	case "restamp":
		return league.OwnerRestamp, nil
	case "preserve":
		return league.OwnerPreserve, nil
	}
	return 0, fmt.Errorf("%s: expected restamp or preserve, got %q", KeyOwnerOnUpdate, c.OwnerOnUpdate)
}

func (c Config) listPolicy() (league.ListPolicy, error) {
	switch c.EmptyListPolicy {
	case "error":
		return league.EmptyListError, nil
	case "empty":
		return league.EmptyListOK, nil
	}
	return 0, fmt.Errorf("%s: expected error or empty, got %q", KeyEmptyListPolicy, c.EmptyListPolicy)
}

func (c Config) authorizer() (league.Authorizer, error) {
	switch c.Authorization {
	case "allow-all":
		return league.AllowAll, nil
	case "owner-only":
		return league.OwnerOnly, nil
	}
	return nil, fmt.Errorf("%s: expected allow-all or owner-only, got %q", KeyAuthorization, c.Authorization)
}

// ServiceOptions translates the policy settings for league.NewService. The
// config must have passed Validate.
func (c Config) ServiceOptions(logger hclog.Logger) league.Options {
	owner, _ := c.ownerPolicy()
	list, _ := c.listPolicy()
	authz, _ := c.authorizer()
	return league.Options{
		OwnerPolicy:          owner,
		ListPolicy:           list,
		Authorizer:           authz,
		RequireWinnerInMatch: c.RequireWinnerInMatch,
		Logger:               logger,
	}
}

// Logger builds the root logger.
func (c Config) Logger(name string) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      hclog.LevelFromString(c.LogLevel),
		JSONFormat: c.LogJSON,
		Output:     os.Stderr,
	})
}
