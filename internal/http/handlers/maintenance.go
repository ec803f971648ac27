package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/med-repair-dash/backend/internal/http/middleware"
	"github.com/med-repair-dash/backend/internal/models"
	"github.com/med-repair-dash/backend/internal/service"
)

type createMaintenanceRequest struct {
	DeviceName      string `json:"device_name" validate:"required"`
	DeviceModel     string `json:"device_model"`
	SerialNumber    string `json:"serial_number"`
	MaintenanceType string `json:"maintenance_type" validate:"required"`
	Description     string `json:"description" validate:"required"`
}

func (h *Handler) CreateMaintenance(c *gin.Context) {
	actor := middleware.Actor(c)
	if !service.Can(actor, service.ActionCreateMaintenance) {
		h.writeDomainError(c, service.ErrForbidden)
		return
	}

	var req createMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid body", nil)
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}

	m := models.MaintenanceRequest{
		HospitalID:      actor.ID,
		DeviceName:      req.DeviceName,
		MaintenanceType: req.MaintenanceType,
		Description:     req.Description,
	}
	if req.DeviceModel != "" {
		m.DeviceModel = &req.DeviceModel
	}
	if req.SerialNumber != "" {
		m.SerialNumber = &req.SerialNumber
	}
	if err := h.Store.CreateMaintenance(c.Request.Context(), &m); err != nil {
		h.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *Handler) ListMaintenance(c *gin.Context) {
	actor := middleware.Actor(c)
	switch actor.Role {
	case models.RoleAdmin:
		requests, err := h.Store.ListMaintenance(c.Request.Context(), nil)
		if err != nil {
			h.writeDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"maintenance_requests": requests})
	case models.RoleHospital:
		hospitalID := actor.ID
		requests, err := h.Store.ListMaintenance(c.Request.Context(), &hospitalID)
		if err != nil {
			h.writeDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"maintenance_requests": requests})
	default:
		c.JSON(http.StatusOK, gin.H{"maintenance_requests": []models.MaintenanceRequest{}})
	}
}

func (h *Handler) GetMaintenance(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	m, err := h.Store.GetMaintenance(c.Request.Context(), id)
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	if !service.CanViewMaintenance(middleware.Actor(c), m) {
		h.writeDomainError(c, service.ErrForbidden)
		return
	}
	c.JSON(http.StatusOK, m)
}

type scheduleMaintenanceRequest struct {
	Cost                float64 `json:"cost" validate:"required,gt=0"`
	NextMaintenanceDate string  `json:"next_maintenance_date" validate:"required,datetime=2006-01-02"`
}

// ScheduleMaintenance prices and dates a pending request: pending → scheduled,
// admin only.
func (h *Handler) ScheduleMaintenance(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req scheduleMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid body", nil)
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}
	nextDate, err := time.Parse("2006-01-02", req.NextMaintenanceDate)
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid next_maintenance_date", nil)
		return
	}

	actor := middleware.Actor(c)
	m, err := h.Store.GetMaintenance(c.Request.Context(), id)
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	if err := service.CheckMaintenanceTransition(actor, m, models.MaintenanceScheduled); err != nil {
		h.writeDomainError(c, err)
		return
	}

	updated, err := h.Store.ScheduleMaintenance(c.Request.Context(), m.ID, req.Cost, nextDate)
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) CompleteMaintenance(c *gin.Context) {
	h.maintenanceTransition(c, models.MaintenanceCompleted)
}

func (h *Handler) CancelMaintenance(c *gin.Context) {
	h.maintenanceTransition(c, models.MaintenanceCancelled)
}

func (h *Handler) maintenanceTransition(c *gin.Context, to models.MaintenanceStatus) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	actor := middleware.Actor(c)
	m, err := h.Store.GetMaintenance(c.Request.Context(), id)
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	if err := service.CheckMaintenanceTransition(actor, m, to); err != nil {
		h.writeDomainError(c, err)
		return
	}
	updated, err := h.Store.UpdateMaintenanceStatus(c.Request.Context(), m.ID, to)
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
