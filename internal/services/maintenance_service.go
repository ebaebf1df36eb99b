package services

import (
	"context"
	"errors"
	"time"

	"dispend/internal/database"
	apperrors "dispend/internal/errors"
)

// maintenanceService runs store maintenance tasks.
type maintenanceService struct {
	mgr       *database.Manager
	backupDir string
}

// NewMaintenanceService creates a new MaintenanceServicer writing backups to backupDir.
func NewMaintenanceService(mgr *database.Manager, backupDir string) MaintenanceServicer {
	return &maintenanceService{mgr: mgr, backupDir: backupDir}
}

// Backup writes a timestamped copy of the store and returns its path.
func (s *maintenanceService) Backup() (string, error) {
	path, err := s.mgr.Backup(context.Background(), s.backupDir, time.Now())
	if err != nil {
		if errors.Is(err, database.ErrBackupUnsupported) {
			return "", apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
		}
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return path, nil
}
