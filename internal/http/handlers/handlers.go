package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/med-repair-dash/backend/internal/auth"
	"github.com/med-repair-dash/backend/internal/db"
	"github.com/med-repair-dash/backend/internal/events"
	"github.com/med-repair-dash/backend/internal/realtime"
	"github.com/med-repair-dash/backend/internal/service"
)

type Handler struct {
	Store     *db.Store
	Tokens    *auth.TokenService
	Hub       *realtime.Hub
	Events    *events.Producer
	Validator *validator.Validate
	Logger    zerolog.Logger
}

func (h *Handler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	if err := h.Store.Ping(ctx); err != nil {
		writeError(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database unavailable", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// writeDomainError maps lifecycle/authorization/store errors onto the HTTP
// envelope. Anything unrecognized is a 500.
func (h *Handler) writeDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrForbidden):
		writeError(c, http.StatusForbidden, "FORBIDDEN", "Action not permitted for this role", nil)
	case errors.Is(err, service.ErrInvalidTransition):
		writeError(c, http.StatusConflict, "INVALID_TRANSITION", "Transition not allowed from the current state", nil)
	case errors.Is(err, service.ErrTechnicianRequired):
		writeError(c, http.StatusBadRequest, "TECHNICIAN_REQUIRED", "Assignment requires a technician; use the assign endpoint", nil)
	case errors.Is(err, service.ErrTechnicianNotValidated):
		writeError(c, http.StatusUnprocessableEntity, "TECHNICIAN_NOT_VALIDATED", "Technician is not validated", nil)
	case errors.Is(err, db.ErrDuplicate):
		writeError(c, http.StatusConflict, "DUPLICATE", "Resource already exists", nil)
	case errors.Is(err, pgx.ErrNoRows):
		writeError(c, http.StatusNotFound, "NOT_FOUND", "Resource not found", nil)
	default:
		h.Logger.Error().Err(err).Msg("request failed")
		writeError(c, http.StatusInternalServerError, "INTERNAL", "Unexpected error", nil)
	}
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid id", nil)
		return uuid.Nil, false
	}
	return id, true
}
