package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "dispend/internal/errors"
	"dispend/internal/middleware"
	"dispend/internal/services"
)

// SessionHandler exchanges the owner passphrase for a session token.
type SessionHandler struct {
	sessionService services.SessionServicer
	secret         []byte
	ttl            time.Duration
}

// NewSessionHandler creates a new SessionHandler signing tokens with secret.
func NewSessionHandler(sessionService services.SessionServicer, secret []byte, ttl time.Duration) *SessionHandler {
	return &SessionHandler{sessionService: sessionService, secret: secret, ttl: ttl}
}

// SessionRequest represents the session request payload
type SessionRequest struct {
	Passphrase string `json:"passphrase" binding:"required,max=256"`
}

// SessionResponse carries a bearer token and its expiry.
type SessionResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
}

// CreateSession handles opening a session
// @Summary     Open a session
// @Description Exchange the configured passphrase for a bearer token. Only available when a passphrase is configured.
// @Tags        session
// @Accept      json
// @Produce     json
// @Param       request body SessionRequest true "Owner passphrase"
// @Success     200 {object} SessionResponse "Session token"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid passphrase"
// @Failure     404 {object} ErrorResponse "Authentication not configured"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /session [post]
func (h *SessionHandler) CreateSession(c *gin.Context) {
	if !h.sessionService.Enabled() {
		respondWithError(c, apperrors.ErrAuthNotConfigured)
		return
	}

	var req SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	if err := h.sessionService.VerifyPassphrase(req.Passphrase); err != nil {
		respondWithError(c, err)
		return
	}

	token, expiresAt, err := middleware.GenerateSessionToken(h.secret, h.ttl)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.JSON(http.StatusOK, SessionResponse{
		Token:     token,
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
	})
}
