// Package main provides the hisdash command: the dashboard API server and offline
// report and export tools over the same pipeline.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"hisdash/internal/config"
	"hisdash/internal/dashboard"
	"hisdash/internal/logger"
	"hisdash/internal/server"
	"hisdash/internal/source"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "hisdash",
		Short:         "HIS billing analytics dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to YAML config file")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(cmd)
			if err != nil {
				return err
			}

			return runServer(cmd.Context(), cfg, log)
		},
	}
}

func runServer(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	session, cleanup, err := newSession(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	// Startup sources are best effort; the API can still accept uploads.
	for _, src := range cfg.GetEnabledSources() {
		if _, err := session.Load(ctx, src.Spec()); err != nil {
			log.Error("failed to load startup source", "source", src.Name, "error", err.Error())
		}
	}

	srv := server.New(session, cfg.Dashboard.Server, log)

	errCh := make(chan error, 1)

	go func() {
		addr := ":" + strconv.Itoa(cfg.Dashboard.Server.Port)
		if err := srv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("server stopped")

	return nil
}

// setup loads the config named by --config and builds the logger it describes.
func setup(cmd *cobra.Command) (*config.Config, *logger.Logger, error) {
	path, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}

	log := logger.NewLoggerWithWriter(cfg.Dashboard.Logging.Level, cfg.Dashboard.Logging.Format, os.Stderr)

	return cfg, log, nil
}

// newSession wires the source client, connecting to the database only when one is configured.
func newSession(ctx context.Context, cfg *config.Config, log *logger.Logger) (*dashboard.Session, func(), error) {
	var (
		pg      *source.PostgresSource
		cleanup = func() {}
	)

	if db := cfg.Dashboard.Database; db.URL != "" {
		pool, err := source.NewPool(ctx, db.URL, db.MaxConns, db.MinConns)
		if err != nil {
			return nil, nil, err
		}

		log.Info("connected to database")

		pg = source.NewPostgresSource(pool)
		cleanup = pool.Close
	}

	fetch := cfg.Dashboard.Fetch
	client := source.NewClientWithDeps(source.NewScraperWithConfig(fetch.GetTimeout(), fetch.MaxBodyMB), pg)

	return dashboard.NewSession(client, cfg.AnalysisOptions(), log), cleanup, nil
}
