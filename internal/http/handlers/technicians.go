package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/med-repair-dash/backend/internal/http/middleware"
	"github.com/med-repair-dash/backend/internal/service"
)

func (h *Handler) ListTechnicians(c *gin.Context) {
	if !service.Can(middleware.Actor(c), service.ActionListTechnicians) {
		h.writeDomainError(c, service.ErrForbidden)
		return
	}
	technicians, err := h.Store.ListTechnicians(c.Request.Context())
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"technicians": technicians})
}

type validateTechnicianRequest struct {
	Validated *bool `json:"validated" validate:"required"`
}

// ValidateTechnician toggles is_validated: true approves, false suspends.
func (h *Handler) ValidateTechnician(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req validateTechnicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid body", nil)
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}

	if !service.Can(middleware.Actor(c), service.ActionValidateTechnician) {
		h.writeDomainError(c, service.ErrForbidden)
		return
	}
	updated, err := h.Store.SetTechnicianValidated(c.Request.Context(), id, *req.Validated)
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
