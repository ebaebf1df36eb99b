package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"dispend/internal/config"
	"dispend/internal/logger"
)

// ErrBackupUnsupported is returned when the active driver has no file to copy.
var ErrBackupUnsupported = errors.New("backup is only supported for the sqlite driver")

// Backup writes a consistent copy of the SQLite store into dir and returns
// the path of the new file.
func (m *Manager) Backup(ctx context.Context, dir string, at time.Time) (string, error) {
	if m.cfg.Driver != config.DriverSQLite || m.cfg.InMemory {
		return "", ErrBackupUnsupported
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("dispend-backup-%s.db", at.UTC().Format("2006-01-02T15-04-05")))
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("backup %s already exists", path)
	}

	if err := m.db.WithContext(ctx).Exec("VACUUM INTO ?", path).Error; err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}

	logger.Get().Infow("Database backup written", "path", path)
	return path, nil
}
