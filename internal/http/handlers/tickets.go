package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/med-repair-dash/backend/internal/events"
	"github.com/med-repair-dash/backend/internal/http/middleware"
	"github.com/med-repair-dash/backend/internal/models"
	"github.com/med-repair-dash/backend/internal/service"
)

type createTicketRequest struct {
	DeviceName   string `json:"device_name" validate:"required"`
	DeviceModel  string `json:"device_model"`
	SerialNumber string `json:"serial_number"`
	Symptoms     string `json:"symptoms" validate:"required"`
	Priority     string `json:"priority" validate:"required,oneof=low medium high urgent"`
	TicketType   string `json:"ticket_type" validate:"required,oneof=consultation quote intervention"`
}

// @Summary Create a ticket
// @Description Hospitals file a consultation, quote, or intervention request. New tickets start at status received.
// @Tags tickets
// @Accept json
// @Produce json
// @Param body body createTicketRequest true "ticket"
// @Success 201 {object} models.Ticket
// @Failure 403 {object} map[string]any
// @Router /api/tickets [post]
func (h *Handler) CreateTicket(c *gin.Context) {
	actor := middleware.Actor(c)
	if !service.Can(actor, service.ActionCreateTicket) {
		h.writeDomainError(c, service.ErrForbidden)
		return
	}

	var req createTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid body", nil)
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}

	ticket := models.Ticket{
		HospitalID: actor.ID,
		DeviceName: req.DeviceName,
		Symptoms:   req.Symptoms,
		Priority:   models.Priority(req.Priority),
		TicketType: models.TicketType(req.TicketType),
	}
	if req.DeviceModel != "" {
		ticket.DeviceModel = &req.DeviceModel
	}
	if req.SerialNumber != "" {
		ticket.SerialNumber = &req.SerialNumber
	}

	if err := h.Store.CreateTicket(c.Request.Context(), &ticket); err != nil {
		h.writeDomainError(c, err)
		return
	}
	h.Events.PublishAsync(events.TicketCreated, ticket)
	c.JSON(http.StatusCreated, ticket)
}

// @Summary List tickets
// @Description Role-scoped: hospitals see their own tickets, technicians their assignments, admins everything.
// @Tags tickets
// @Produce json
// @Param status query string false "status filter"
// @Param type query string false "ticket type filter"
// @Success 200 {object} map[string]any
// @Router /api/tickets [get]
func (h *Handler) ListTickets(c *gin.Context) {
	actor := middleware.Actor(c)
	scope := service.ScopeTickets(actor)

	status := c.Query("status")
	if status != "" && !models.TicketStatus(status).Valid() {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid status filter", nil)
		return
	}
	ticketType := c.Query("type")
	if ticketType != "" && !models.TicketType(ticketType).Valid() {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid type filter", nil)
		return
	}

	tickets, err := h.Store.ListTickets(c.Request.Context(), scope, status, ticketType, queryInt(c, "limit"), queryInt(c, "offset"))
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tickets": tickets})
}

func (h *Handler) GetTicket(c *gin.Context) {
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
	c.JSON(http.StatusOK, ticket)
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=received processing assigned working resolved closed"`
}

// @Summary Transition a ticket
// @Description Moves the ticket through its lifecycle; the transition table decides which role may drive which edge.
// @Tags tickets
// @Accept json
// @Produce json
// @Param id path string true "ticket id"
// @Param body body updateStatusRequest true "target status"
// @Success 200 {object} models.Ticket
// @Failure 403 {object} map[string]any
// @Failure 409 {object} map[string]any
// @Router /api/tickets/{id}/status [post]
func (h *Handler) UpdateTicketStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req updateStatusRequest
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
	if !service.CanViewTicket(actor, ticket) {
		h.writeDomainError(c, service.ErrForbidden)
		return
	}

	to := models.TicketStatus(req.Status)
	effects, err := service.CheckTransition(actor, ticket, to)
	if err != nil {
		h.writeDomainError(c, err)
		return
	}

	updated, sysMsg, err := h.Store.TransitionTicket(c.Request.Context(), ticket.ID, ticket.Status, to, effects, actor.ID)
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	if sysMsg != nil {
		h.Hub.Publish(*sysMsg)
	}
	h.Events.PublishAsync(events.TicketStatusChanged, updated)
	c.JSON(http.StatusOK, updated)
}

type assignRequest struct {
	TechnicianID string `json:"technician_id" validate:"required,uuid"`
}

func (h *Handler) AssignTechnician(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid body", nil)
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}
	technicianID := uuid.MustParse(req.TechnicianID)

	actor := middleware.Actor(c)
	ticket, err := h.Store.GetTicket(c.Request.Context(), id)
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	technician, err := h.Store.GetProfile(c.Request.Context(), technicianID)
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	if err := service.CheckAssignment(actor, ticket, technician); err != nil {
		h.writeDomainError(c, err)
		return
	}

	updated, err := h.Store.AssignTechnician(c.Request.Context(), ticket.ID, technician.ID)
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	h.Events.PublishAsync(events.TicketAssigned, updated)
	c.JSON(http.StatusOK, updated)
}

// RequestIntervention converts a resolved consultation/quote back to received
// with type intervention and appends the system message. This is the
// hospital's "accept the quote, send a technician" action.
func (h *Handler) RequestIntervention(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	actor := middleware.Actor(c)
	ticket, err := h.Store.GetTicket(c.Request.Context(), id)
	if err != nil {
		h.writeDomainError(c, err)
		return
	}

	effects, err := service.CheckTransition(actor, ticket, models.StatusReceived)
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	updated, sysMsg, err := h.Store.TransitionTicket(c.Request.Context(), ticket.ID, ticket.Status, models.StatusReceived, effects, actor.ID)
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	if sysMsg != nil {
		h.Hub.Publish(*sysMsg)
	}
	h.Events.PublishAsync(events.TicketStatusChanged, updated)
	c.JSON(http.StatusOK, updated)
}

func queryInt(c *gin.Context, name string) int {
	if v := c.Query(name); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			return parsed
		}
	}
	return 0
}
