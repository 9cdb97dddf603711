package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"gorm.io/gorm"

	"colorledger/internal/config"
	"colorledger/internal/db"
	"colorledger/internal/db/mock"
	"colorledger/internal/ledger"
	applog "colorledger/internal/log"
	"colorledger/internal/server"
	"colorledger/internal/spreadsheet"
)

type serverLifecycle interface {
	Start() error
	Stop() error
}

var (
	loadConfigFunc      = config.Load
	setLogLevelFunc     = applog.SetLevel
	setLogFormatFunc    = applog.SetFormat
	newMockDatabaseFunc = mock.New
	configureDatabase   = db.Configure
	newServerFunc       = func(cfg server.Config) (serverLifecycle, error) {
		return server.New(cfg)
	}
	subscribeShutdownSig = func() (<-chan os.Signal, func()) {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT)
		return ch, func() { signal.Stop(ch) }
	}
)

func main() {
	os.Exit(run(context.Background()))
}

func run(ctx context.Context) int {
	cfg, err := loadConfigFunc()
	if err != nil {
		applog.Error(ctx, "failed to load configuration", "error", err)
		return 1
	}

	if err := setLogFormatFunc(cfg.Logging.Format); err != nil {
		applog.Error(ctx, "invalid log format", "error", err, "format", cfg.Logging.Format)
		return 1
	}
	if err := setLogLevelFunc(cfg.Logging.Level); err != nil {
		applog.Error(ctx, "invalid log level", "error", err, "level", cfg.Logging.Level)
		return 1
	}

	database, err := openDatabase(ctx, cfg.Database)
	if err != nil {
		applog.Error(ctx, "failed to configure database", "error", err)
		return 1
	}
	defer func() {
		if err := db.Close(database); err != nil {
			applog.Warn(ctx, "closing database failed", "error", err)
		}
	}()

	svc, err := ledger.New(database, ledger.Options{
		Book:         cfg.Import.Book,
		WipeCodeHash: cfg.Admin.WipeCodeHash,
		ReadFile:     spreadsheet.ReadFile,
	})
	if err != nil {
		applog.Error(ctx, "failed to create ledger", "error", err)
		return 1
	}

	if migrated, err := svc.MigrateLegacyJSON(ctx, cfg.Import.LegacyJSON); err != nil {
		applog.Error(ctx, "legacy migration failed", "error", err, "path", cfg.Import.LegacyJSON)
		return 1
	} else if migrated > 0 {
		applog.Info(ctx, "legacy formulas migrated", "count", migrated)
	}

	svc.Reload(ctx)
	applog.Info(ctx, "ledger loaded", "formulas", len(svc.Snapshot().Formulas), "book", svc.Book())

	srv, err := newServerFunc(server.Config{
		Addr: cfg.Server.Addr,
		Session: server.SessionConfig{
			Lifetime:     cfg.Session.Lifetime,
			CookieName:   cfg.Session.CookieName,
			CookieDomain: cfg.Session.CookieDomain,
			CookieSecure: cfg.Session.CookieSecure,
		},
		Ledger: svc,
		Locale: cfg.Import.Locale,
	})
	if err != nil {
		applog.Error(ctx, "failed to create server", "error", err)
		return 1
	}

	errCh := make(chan error, 1)
	go func() {
		applog.Info(ctx, "starting http server", "addr", cfg.Server.Addr)
		errCh <- srv.Start()
	}()

	shutdown, unsubscribe := subscribeShutdownSig()
	defer unsubscribe()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			applog.Error(ctx, "server encountered an error", "error", err)
			return 1
		}
		return 0
	case sig := <-shutdown:
		applog.Info(ctx, "shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		applog.Info(ctx, "context cancelled, shutting down")
	}

	if err := srv.Stop(); err != nil {
		applog.Error(ctx, "graceful shutdown failed", "error", err)
		return 1
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		applog.Error(ctx, "server stopped with error", "error", err)
		return 1
	}

	applog.Info(ctx, "server stopped")
	return 0
}

func openDatabase(ctx context.Context, cfg config.DatabaseConfig) (*gorm.DB, error) {
	if cfg.UseMock {
		applog.Info(ctx, "using mock database")
		return newMockDatabaseFunc(ctx)
	}
	return configureDatabase(cfg)
}
