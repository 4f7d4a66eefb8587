package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"rcpro-configurator/internal/config"
	"rcpro-configurator/internal/configurator"
	"rcpro-configurator/internal/observability"
	"rcpro-configurator/internal/pricing"
	"rcpro-configurator/internal/quote"
	"rcpro-configurator/internal/server"
	"rcpro-configurator/internal/web"
)

func serveCmd(loadConfig func() (config.Config, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web configurator",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}

	cmd.Flags().String("addr", ":8080", "listen address")
	cmd.Flags().Bool("telemetry", false, "export traces, metrics and logs over OTLP")
	return cmd
}

func serve(ctx context.Context, cfg config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// Logger
	if err := observability.InitLogger(cfg.Log.Debug, logOutputs(cfg.Log)...); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer observability.SyncLogger()

	// Tracing, metrics and logs
	telemetryShutdown, err := initTelemetry(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer telemetryShutdown(context.WithoutCancel(ctx))

	catalog, policy, err := quoteSetup(cfg)
	if err != nil {
		return err
	}
	client := pricing.NewClient(cfg.Pricing.URL, cfg.Pricing.APIKey, cfg.Pricing.Timeout)

	sessions := web.NewSessions(func() *configurator.Controller {
		return configurator.NewController(client, cfg.Profile, catalog, policy)
	}, cfg.Server.SessionTTL, cfg.Server.MaxSessions)

	// Router
	router := server.NewRouter(web.NewHandler(sessions))

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		observability.Logger.Info("server started",
			zap.String("addr", cfg.Server.Addr),
			zap.String("pricing_url", cfg.Pricing.URL),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	return waitForShutdown(srv, errCh, cfg.Server.ShutdownTimeout)
}

func waitForShutdown(srv *http.Server, errCh <-chan error, timeout time.Duration) error {

	stop := make(chan os.Signal, 1)

	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-stop:
	}

	observability.Logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	return srv.Shutdown(ctx)
}

// quoteSetup resolves the cover catalog and stale-response policy.
func quoteSetup(cfg config.Config) (*quote.Catalog, configurator.StalePolicy, error) {
	policy, err := cfg.StalePolicy()
	if err != nil {
		return nil, 0, err
	}

	if cfg.Quote.Catalog == "" {
		return quote.DefaultCatalog(), policy, nil
	}
	catalog, err := quote.LoadCatalog(cfg.Quote.Catalog)
	if err != nil {
		return nil, 0, err
	}
	return catalog, policy, nil
}

func logOutputs(cfg config.LogConfig) []string {
	if cfg.File == "" {
		return nil
	}
	return []string{cfg.File}
}
