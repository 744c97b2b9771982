package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/journeydemo/internal/adapter/driven/alloy"
	boltadapter "github.com/ericfisherdev/journeydemo/internal/adapter/driven/bolt"
	"github.com/ericfisherdev/journeydemo/internal/adapter/driven/envfile"
	"github.com/ericfisherdev/journeydemo/internal/adapter/driven/memory"
	sqliteadapter "github.com/ericfisherdev/journeydemo/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/journeydemo/internal/adapter/driving/http"
	"github.com/ericfisherdev/journeydemo/internal/application"
	"github.com/ericfisherdev/journeydemo/internal/config"
	"github.com/ericfisherdev/journeydemo/internal/domain/port/driven"
	"github.com/ericfisherdev/journeydemo/internal/logger"
)

// app holds the wired services shared by every command.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    driven.SettingsStore
	events   *httphandler.EventHub
	resolver *application.ConfigResolver
	history  *application.HistoryService
	prefs    *application.PreferencesService
	gateway  *application.ProxyGateway
	closers  []func() error
}

// withApp loads configuration, wires the application, runs fn and releases
// everything afterwards.
func withApp(cmd *cobra.Command, fn func(*app) error) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()
	return fn(a)
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, err
	}

	out, closeLog, err := logger.OpenFile(cfg.LogFile)
	if err != nil {
		return nil, err
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat, out)
	slog.SetDefault(log)
	a := &app{cfg: cfg, logger: log, closers: []func() error{closeLog}}

	log.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"storage", cfg.StorageDriver,
		"db_path", cfg.DBPath,
		"config_file", cfg.ConfigFile,
		"dev_mode", cfg.DevMode,
	)

	store, err := openStore(cmd.Context(), cfg)
	if err != nil {
		a.close()
		return nil, err
	}
	a.store = store
	a.closers = append([]func() error{store.Close}, a.closers...)

	a.events = httphandler.NewEventHub(log)
	env := envfile.NewSource(cfg.EnvFile, cfg.DevMode)
	a.resolver = application.NewConfigResolver(store, env)
	a.history = application.NewHistoryService(store)
	a.prefs = application.NewPreferencesService(store, a.events)

	upstream := &http.Client{Timeout: cfg.UpstreamTimeout}
	a.gateway = application.NewProxyGateway(alloy.NewClient(upstream), store, a.resolver, a.prefs, a.history, cfg.DashboardURL)
	return a, nil
}

// openStore opens the settings store selected by storage_driver.
func openStore(ctx context.Context, cfg *config.Config) (driven.SettingsStore, error) {
	switch cfg.StorageDriver {
	case config.DriverMemory:
		slog.Warn("memory storage selected, settings are lost on exit")
		return memory.NewStore(), nil

	case config.DriverBolt:
		store, err := boltadapter.Open(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		slog.Info("bolt store opened", "path", cfg.DBPath)
		return store, nil

	default:
		key, err := cfg.EncryptionKey()
		if err != nil {
			return nil, err
		}
		if key == nil {
			slog.Info("no secret key configured, settings are stored in plaintext")
		}

		db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
		if err != nil {
			return nil, err
		}
		slog.Info("database opened", "path", db.Path())

		if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		slog.Info("migrations complete")
		return sqliteadapter.NewSettingsRepo(db, key), nil
	}
}

func (a *app) close() {
	for _, fn := range a.closers {
		if err := fn(); err != nil {
			slog.Error("error during cleanup", "error", err)
		}
	}
}
