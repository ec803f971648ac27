package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/med-repair-dash/backend/internal/http/middleware"
	"github.com/med-repair-dash/backend/internal/models"
	"github.com/med-repair-dash/backend/internal/service"
)

func (h *Handler) ListMessages(c *gin.Context) {
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
	messages, err := h.Store.ListMessages(c.Request.Context(), ticket.ID)
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

type postMessageRequest struct {
	Message string `json:"message" validate:"required"`
}

func (h *Handler) PostMessage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req postMessageRequest
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

	m := models.TicketMessage{
		TicketID: ticket.ID,
		SenderID: actor.ID,
		Message:  req.Message,
	}
	if err := h.Store.CreateMessage(c.Request.Context(), &m); err != nil {
		h.writeDomainError(c, err)
		return
	}
	h.Hub.Publish(m)
	c.JSON(http.StatusCreated, m)
}

// StreamMessages pushes new thread messages over SSE. The subscription is
// released when the client disconnects; a reconnecting client re-lists the
// thread to recover anything missed while away.
func (h *Handler) StreamMessages(c *gin.Context) {
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

	ch, cancel := h.Hub.Subscribe(ticket.ID)
	defer cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case m, open := <-ch:
			if !open {
				return false
			}
			c.SSEvent("message", m)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
