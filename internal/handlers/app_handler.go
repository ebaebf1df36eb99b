package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"dispend/internal/services"
)

// AppHandler handles application-level maintenance and health requests.
type AppHandler struct {
	db                 *gorm.DB
	maintenanceService services.MaintenanceServicer
	auditService       services.AuditServicer
}

// NewAppHandler creates a new AppHandler.
func NewAppHandler(db *gorm.DB, maintenanceService services.MaintenanceServicer, auditService services.AuditServicer) *AppHandler {
	return &AppHandler{db: db, maintenanceService: maintenanceService, auditService: auditService}
}

// BackupResponse carries the path of a written backup.
type BackupResponse struct {
	Path string `json:"path"`
}

// Health reports whether the store is reachable.
// @Summary     Health check
// @Tags        app
// @Produce     json
// @Success     200 {object} map[string]string "Healthy"
// @Failure     503 {object} map[string]string "Store unreachable"
// @Router      /health [get]
func (h *AppHandler) Health(c *gin.Context) {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Backup writes a copy of the store to the backup directory.
// @Summary     Back up the store
// @Tags        app
// @Produce     json
// @Security    BearerAuth
// @Success     201 {object} BackupResponse "Backup written"
// @Failure     400 {object} ErrorResponse "Backups unsupported for this store"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /app/backup [post]
func (h *AppHandler) Backup(c *gin.Context) {
	path, err := h.maintenanceService.Backup()
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(services.AuditActionBackup, "app", "", c.ClientIP(), map[string]any{"path": path})

	c.JSON(http.StatusCreated, BackupResponse{Path: path})
}
