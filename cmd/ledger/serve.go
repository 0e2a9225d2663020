package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/spice-ledger/internal/api"
	"github.com/Veraticus/spice-ledger/internal/auth"
	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/config"
	"github.com/Veraticus/spice-ledger/internal/ledger"
	"github.com/Veraticus/spice-ledger/internal/service"
	"github.com/Veraticus/spice-ledger/internal/storage"
)

// startupRetry covers another process holding the database lock while we migrate.
var startupRetry = common.RetryOptions{
	MaxAttempts:  5,
	InitialDelay: 200 * time.Millisecond,
	MaxDelay:     2 * time.Second,
	Multiplier:   2,
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the ledger HTTP API",
		Long: `Start the HTTP API. Records are kept in memory unless storage.driver
is set to sqlite, in which case storage.dsn names the database file.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "listen address (overrides server.addr)")
	cmd.Flags().String("storage", "", "storage driver: memory or sqlite (overrides storage.driver)")
	cmd.Flags().String("dsn", "", "sqlite database path (overrides storage.dsn)")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	v := viper.GetViper()
	bindOverride(cmd, v, "addr", "server.addr")
	bindOverride(cmd, v, "storage", "storage.driver")
	bindOverride(cmd, v, "dsn", "storage.dsn")

	cfg, err := config.Load(v)
	if err != nil {
		return common.NewUserError("invalid configuration", err)
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return common.NewUserError("failed to open storage", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("failed to close storage", "error", closeErr)
		}
	}()

	handler := buildHandler(cfg, store)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("ledger listening", "addr", cfg.Server.Addr, "storage", cfg.Storage.Driver, "metrics", cfg.Metrics)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	slog.Info("shutting down server", "timeout", cfg.Server.ShutdownTimeout)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

// openStore builds the record store named by cfg.Storage.
func openStore(ctx context.Context, cfg *config.Config) (service.RecordStore, error) {
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		var db *storage.SQLiteStorage
		err := common.WithRetry(ctx, func() error {
			opened, err := openSQLite(ctx, cfg.Storage.DSN)
			if err != nil {
				if storage.IsTransient(err) {
					return err
				}
				return common.Permanent(err)
			}
			db = opened
			return nil
		}, startupRetry)
		if err != nil {
			return nil, err
		}
		return db, nil
	case config.DriverMemory:
		users := make([]string, 0, len(cfg.Users))
		for name := range cfg.Users {
			users = append(users, name)
		}
		return storage.NewMemoryStorage(users...), nil
	default:
		return nil, fmt.Errorf("%w: unknown storage driver %q", common.ErrInvalidConfig, cfg.Storage.Driver)
	}
}

func openSQLite(ctx context.Context, dsn string) (*storage.SQLiteStorage, error) {
	db, err := storage.NewSQLiteStorage(dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

// buildHandler wires the services behind the HTTP API.
func buildHandler(cfg *config.Config, store service.RecordStore) http.Handler {
	var opts []ledger.Option
	var metrics *api.Metrics
	if cfg.Metrics {
		metrics = api.NewMetrics()
		opts = append(opts, ledger.WithObserver(metrics.RecordObserver()))
	}

	records := ledger.NewRecordService(store, opts...)
	accounts := ledger.NewAccountBook()
	authenticator := auth.NewBasicAuthenticator(cfg.Server.Realm, cfg.Users)

	server := api.NewServer(records, accounts, authenticator)
	server.SetVersion(version)
	if metrics != nil {
		server.EnableMetrics(metrics)
	}
	return server.Handler()
}

func bindOverride(cmd *cobra.Command, v *viper.Viper, flag, key string) {
	f := cmd.Flags().Lookup(flag)
	if f != nil && f.Changed {
		v.Set(key, f.Value.String())
	}
}
