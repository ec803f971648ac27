package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/med-repair-dash/backend/internal/http/middleware"
	"github.com/med-repair-dash/backend/internal/models"
	"github.com/med-repair-dash/backend/internal/service"
)

type interventionRequest struct {
	WorkDone        string `json:"work_done" validate:"required"`
	PartsReplaced   string `json:"parts_replaced"`
	DurationMinutes *int   `json:"duration_minutes" validate:"omitempty,gt=0"`
	SignatureData   string `json:"signature_data"`
}

// CreateIntervention files the technician's completion report. One report per
// ticket; a second attempt is a conflict.
func (h *Handler) CreateIntervention(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req interventionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid body", nil)
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}

	actor := middleware.Actor(c)
	ticket, err := h.Store.GetTicket(c.Request.Context(), id)
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	if err := service.CheckInterventionReport(actor, ticket); err != nil {
		h.writeDomainError(c, err)
		return
	}

	iv := models.Intervention{
		TicketID:        ticket.ID,
		TechnicianID:    actor.ID,
		WorkDone:        req.WorkDone,
		DurationMinutes: req.DurationMinutes,
	}
	if req.PartsReplaced != "" {
		iv.PartsReplaced = &req.PartsReplaced
	}
	if req.SignatureData != "" {
		iv.SignatureData = &req.SignatureData
	}
	if err := h.Store.CreateIntervention(c.Request.Context(), &iv); err != nil {
		h.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, iv)
}

func (h *Handler) GetIntervention(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ticket, err := h.Store.GetTicket(c.Request.Context(), id)
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	if !service.CanViewTicket(middleware.Actor(c), ticket) {
		h.writeDomainError(c, service.ErrForbidden)
		return
	}
	iv, err := h.Store.GetInterventionByTicket(c.Request.Context(), ticket.ID)
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, iv)
}
