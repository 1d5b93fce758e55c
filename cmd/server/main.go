package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/diewo77/nexusmanager/internal/config"
	"github.com/diewo77/nexusmanager/internal/db"
	"github.com/diewo77/nexusmanager/internal/logging"
	"github.com/diewo77/nexusmanager/internal/metrics"
	"github.com/diewo77/nexusmanager/internal/services"
	"github.com/diewo77/nexusmanager/internal/store"
)

func main() {
	// Load environment variables from .env file
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "nexusmanager",
		Short:         "Client, contract and support-hour ledger server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
	root.AddCommand(serveCmd(), initDBCmd(), balanceCmd())
	return root
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func initDBCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-db",
		Short: "Create or migrate the database schema and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := bootstrap()
			if err != nil {
				return err
			}
			defer env.Close()
			if err := db.Migrate(env.db, env.cfg); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			env.logger.Info().Msg("database initialized")
			return nil
		},
	}
}

func balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance <client-id>",
		Short: "Print the hour balance of a client as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 0)
			if err != nil || id == 0 {
				return fmt.Errorf("invalid client id %q", args[0])
			}
			env, err := bootstrap()
			if err != nil {
				return err
			}
			defer env.Close()
			svc := services.New(store.New(env.db, store.WithLogger(env.logger)))
			b, err := svc.Clients.Balance(cmd.Context(), uint(id))
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(b)
		},
	}
}

type environment struct {
	cfg    *config.Config
	logger zerolog.Logger
	db     *gorm.DB
	closer io.Closer
}

func (e *environment) Close() {
	if sqlDB, err := e.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = e.closer.Close()
}

// bootstrap loads configuration and opens the logger and the database.
func bootstrap() (*environment, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger, closer := logging.New(cfg.Log, os.Stdout)
	dbConn, err := db.Open(cfg.Database, logger)
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &environment{cfg: cfg, logger: logger, db: dbConn, closer: closer}, nil
}

func serve(ctx context.Context) error {
	env, err := bootstrap()
	if err != nil {
		return err
	}
	defer env.Close()
	cfg, logger := env.cfg, env.logger

	// SQLite has no separate migration step in development.
	if cfg.App.Migrations || cfg.Database.Driver == config.DriverSQLite {
		if err := db.Migrate(env.db, cfg); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		logger.Info().Msg("migrations completed")
	}

	m := metrics.New(true)
	st := store.New(env.db, store.WithLogger(logger), store.WithObserver(m))
	app := NewApp(st, m, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      app,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.Server.Port).Bool("dev", cfg.App.Dev).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-quit:
		logger.Info().Msg("shutdown signal received")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("error during shutdown")
	}
	logger.Info().Msg("server stopped gracefully")
	return nil
}
