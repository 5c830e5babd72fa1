package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/spf13/cobra"

	"league-registry/internal/config"
	"league-registry/internal/league"
	"league-registry/internal/web"
)

const shutdownTimeout = 10 * time.Second

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the registry over HTTP",
		Long: `Serve the registry as a JSON API.

When AWS_LAMBDA_FUNCTION_NAME is set the API runs behind the Lambda proxy
adapter instead of listening on ADDR.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().String("addr", "", "listen address")
	cmd.Flags().Bool("dev", false, "trust the X-Caller header and enable /dev routes")
	bindFlag(rootOpts.Viper, cmd, config.KeyAddr, "addr")
	bindFlag(rootOpts.Viper, cmd, config.KeyDevMode, "dev")

	return cmd
}

func runServe(ctx context.Context, opts *ServeOptions) error {
	cfg, logger := opts.Config, opts.Logger
	if err := cfg.RequireCallerIdentity(); err != nil {
		return err
	}

	st, err := openStore(targetFromConfig(cfg), logger.Named("store"))
	if err != nil {
		return err
	}
	defer st.Close()

	service := league.NewService(st, cfg.ServiceOptions(logger.Named("league")))
	server := web.NewServer(service, web.Options{
		JWTSecret: cfg.JWTSecret,
		DevMode:   cfg.DevMode,
		Logger:    logger.Named("web"),
	})
	handler := server.Routes()

	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		logger.Info("starting in lambda mode")
		lambda.Start(httpadapter.New(handler).ProxyWithContext)
		return nil
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr, "backend", cfg.Backend, "dev", cfg.DevMode)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
