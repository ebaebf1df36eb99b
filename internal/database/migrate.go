package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"dispend/internal/config"
	"dispend/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// RunMigrations applies every pending migration in ascending version order.
func (m *Manager) RunMigrations() error {
	logger.Get().Info("Running database migrations...")

	err := m.withMigrator(func(mig *migrate.Migrate) error {
		return mig.Up()
	})
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Get().Info("Database migrations completed successfully")
	return nil
}

// MigrateDown rolls back the given number of migrations. A non-positive
// count rolls back all of them.
func (m *Manager) MigrateDown(steps int) error {
	err := m.withMigrator(func(mig *migrate.Migrate) error {
		if steps <= 0 {
			return mig.Down()
		}
		return mig.Steps(-steps)
	})
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("rollback failed: %w", err)
	}
	return nil
}

// MigrationVersion reports the applied schema version and whether the last
// migration left the schema dirty.
func (m *Manager) MigrationVersion() (version uint, dirty bool, err error) {
	err = m.withMigrator(func(mig *migrate.Migrate) error {
		version, dirty, err = mig.Version()
		return err
	})
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

// withMigrator runs fn against a migrator bound to a dedicated connection,
// since closing the migrator also closes its database handle.
func (m *Manager) withMigrator(fn func(*migrate.Migrate) error) error {
	mig, err := m.newMigrator()
	if err != nil {
		return err
	}
	defer func() {
		srcErr, dbErr := mig.Close()
		if srcErr != nil {
			logger.Get().Warnf("migrate source close error: %v", srcErr)
		}
		if dbErr != nil {
			logger.Get().Warnf("migrate database close error: %v", dbErr)
		}
	}()
	return fn(mig)
}

func (m *Manager) newMigrator() (*migrate.Migrate, error) {
	dir := "migrations/sqlite"
	if m.cfg.Driver == config.DriverPostgres {
		dir = "migrations/postgres"
	}
	src, err := iofs.New(migrationsFS, dir)
	if err != nil {
		return nil, fmt.Errorf("create iofs source: %w", err)
	}

	if m.cfg.Driver == config.DriverPostgres {
		mig, err := migrate.NewWithSourceInstance("iofs", src, m.cfg.MigrationURL())
		if err != nil {
			return nil, fmt.Errorf("failed to create migrate instance: %w", err)
		}
		return mig, nil
	}

	conn, err := sql.Open("sqlite3", m.cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open migration database: %w", err)
	}
	driver, err := sqlite3.WithInstance(conn, &sqlite3.Config{})
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("create sqlite driver: %w", err)
	}
	mig, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return mig, nil
}
