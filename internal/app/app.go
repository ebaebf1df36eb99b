// Package app assembles the ledger's application context: one store
// connection, the services built on it and the HTTP router that serves them.
// Everything is constructed explicitly by New and released by Close.
package app

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/dig"
	"gorm.io/gorm"

	"dispend/internal/config"
	"dispend/internal/database"
	"dispend/internal/handlers"
	"dispend/internal/logger"
	"dispend/internal/services"
)

// App is a constructed application context.
type App struct {
	Config  *config.Config
	Manager *database.Manager
	Router  *gin.Engine
}

// Options tune how New prepares the store.
type Options struct {
	// Database overrides the connection settings derived from Config.
	Database *database.Config
	// SkipSeed leaves an empty categories table empty.
	SkipSeed bool
}

// New opens the store, applies pending migrations, seeds default categories
// into an empty store and wires services and handlers into a router.
func New(cfg *config.Config, opts Options) (*App, error) {
	c := dig.New()

	var opened *database.Manager
	openManager := func(dbCfg *database.Config) (*database.Manager, error) {
		mgr, err := openStore(dbCfg, opts.SkipSeed)
		opened = mgr
		return mgr, err
	}

	if err := provideAll(c, cfg, opts, openManager); err != nil {
		return nil, fmt.Errorf("wire application: %w", err)
	}

	var app *App
	err := c.Invoke(func(mgr *database.Manager, router *gin.Engine) {
		app = &App{Config: cfg, Manager: mgr, Router: router}
	})
	if err != nil {
		if opened != nil {
			_ = opened.Close()
		}
		return nil, fmt.Errorf("build application: %w", dig.RootCause(err))
	}
	return app, nil
}

// Close releases the store connection.
func (a *App) Close() error {
	if a == nil || a.Manager == nil {
		return nil
	}
	return a.Manager.Close()
}

func provideAll(c *dig.Container, cfg *config.Config, opts Options, openManager func(*database.Config) (*database.Manager, error)) error {
	constructors := []any{
		func() *config.Config { return cfg },
		func(cfg *config.Config) (*time.Location, error) { return cfg.Location() },
		func(cfg *config.Config) *database.Config {
			if opts.Database != nil {
				return opts.Database
			}
			return database.NewConfig(cfg)
		},
		openManager,
		func(mgr *database.Manager) *gorm.DB { return mgr.DB() },

		// Services
		func(db *gorm.DB, cfg *config.Config) services.AccountServicer {
			return services.NewAccountService(db, cfg.DefaultCurrency)
		},
		services.NewCategoryService,
		services.NewTransactionService,
		func(db *gorm.DB, cfg *config.Config, loc *time.Location) services.BudgetServicer {
			return services.NewBudgetService(db, cfg.DefaultCurrency, loc)
		},
		services.NewReportService,
		services.NewAuditService,
		func(mgr *database.Manager, cfg *config.Config) services.MaintenanceServicer {
			return services.NewMaintenanceService(mgr, cfg.BackupDir)
		},
		func(cfg *config.Config) services.SessionServicer {
			return services.NewSessionService(cfg.AuthPassphraseHash)
		},

		// Handlers
		handlers.NewAccountHandler,
		handlers.NewCategoryHandler,
		handlers.NewTransactionHandler,
		handlers.NewBudgetHandler,
		handlers.NewReportHandler,
		handlers.NewAppHandler,
		func(svc services.SessionServicer, cfg *config.Config) *handlers.SessionHandler {
			return handlers.NewSessionHandler(svc, []byte(cfg.JWTSecret), cfg.JWTExpirationDur)
		},

		NewRouter,
	}
	for _, ctor := range constructors {
		if err := c.Provide(ctor); err != nil {
			return err
		}
	}
	return nil
}

func openStore(dbCfg *database.Config, skipSeed bool) (*database.Manager, error) {
	log := logger.Get()

	mgr, err := database.NewManager(dbCfg)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if err := mgr.RunMigrations(); err != nil {
		_ = mgr.Close()
		return nil, fmt.Errorf("migrate store: %w", err)
	}
	if !skipSeed {
		n, err := database.SeedCategories(mgr.DB())
		if err != nil {
			_ = mgr.Close()
			return nil, fmt.Errorf("seed categories: %w", err)
		}
		if n > 0 {
			log.Infow("Seeded default categories", "count", n)
		}
	}

	log.Infow("Store ready", "driver", mgr.Driver())
	return mgr, nil
}
