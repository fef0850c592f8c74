// Package app wires configuration, storage, and services together.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
	"github.com/bobmcallan/folio/internal/services/auth"
	"github.com/bobmcallan/folio/internal/services/ledger"
	"github.com/bobmcallan/folio/internal/services/notify"
	"github.com/bobmcallan/folio/internal/storage/badger"
	"github.com/bobmcallan/folio/internal/storage/surrealdb"
)

// App holds all initialized services and storage. It is the shared core used
// by cmd/folio-server and by tests.
type App struct {
	Config        *common.Config
	Logger        *common.Logger
	CacheStore    *badger.Store
	Cache         interfaces.LedgerCache
	Remote        interfaces.RemoteStore
	Notifier      interfaces.Notifier
	AuthService   interfaces.AuthService
	LedgerService interfaces.LedgerService
	StartupTime   time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes config, logger, storage, and services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	binDir := getBinaryDir()

	// Config resolution: provided path, FOLIO_CONFIG, binary dir, dev fallback
	if configPath == "" {
		configPath = os.Getenv("FOLIO_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "folio.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/folio.toml"
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if config.Storage.Cache.Path != "" && !filepath.IsAbs(config.Storage.Cache.Path) {
		config.Storage.Cache.Path = filepath.Join(binDir, config.Storage.Cache.Path)
	}

	logger := common.NewLogger(config.Logging.Level)

	cacheStore, err := badger.NewStore(logger, config.Storage.Cache.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize local cache: %w", err)
	}
	cache := badger.NewLedgerCache(cacheStore, logger)

	// Remote connectivity is optional at startup: a session can run against
	// the local cache alone, with pushes reported as failed until the remote
	// comes back.
	var remote interfaces.RemoteStore
	remote, err = surrealdb.NewRemoteStore(logger, config)
	if err != nil {
		logger.Warn().Err(err).Msg("Remote store unavailable, running local-only")
		remote = &unavailableRemote{err: err}
	}

	notifier := notify.NewCenter(logger, config.Notify.GetDismissAfter())
	authService := auth.NewService(config, logger)
	ledgerService := ledger.NewService(cache, remote, notifier, logger)

	logger.Info().
		Str("version", common.GetFullVersion()).
		Str("cache", config.Storage.Cache.Path).
		Msg("Folio initialized")

	return &App{
		Config:        config,
		Logger:        logger,
		CacheStore:    cacheStore,
		Cache:         cache,
		Remote:        remote,
		Notifier:      notifier,
		AuthService:   authService,
		LedgerService: ledgerService,
		StartupTime:   time.Now(),
	}, nil
}

// Close shuts down services and storage in dependency order.
func (a *App) Close() {
	if svc, ok := a.LedgerService.(*ledger.Service); ok {
		svc.Close()
	}
	if c, ok := a.Notifier.(*notify.Center); ok {
		c.Close()
	}
	if a.Remote != nil {
		a.Remote.Close()
	}
	if a.CacheStore != nil {
		a.CacheStore.Close()
	}
}

// unavailableRemote stands in for the remote store when the connection could
// not be established at startup. Pulls report no remote data so the login
// path falls back to the local cache; pushes fail with the original cause.
type unavailableRemote struct {
	err error
}

func (r *unavailableRemote) Push(_ context.Context, _ string, _ models.Ledger) error {
	return fmt.Errorf("remote store unavailable: %w", r.err)
}

func (r *unavailableRemote) Pull(_ context.Context, _ string) (models.Ledger, error) {
	return nil, models.ErrNoRemoteData
}

func (r *unavailableRemote) Close() error { return nil }
