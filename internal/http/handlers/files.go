package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/med-repair-dash/backend/internal/http/middleware"
	"github.com/med-repair-dash/backend/internal/models"
	"github.com/med-repair-dash/backend/internal/service"
)

func (h *Handler) ListFiles(c *gin.Context) {
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
	files, err := h.Store.ListFiles(c.Request.Context(), ticket.ID)
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"files": files})
}

type registerFileRequest struct {
	FileName string `json:"file_name" validate:"required"`
	FileURL  string `json:"file_url" validate:"required,url"`
	FileType string `json:"file_type"`
}

// RegisterFile records attachment metadata; the bytes live in external
// storage referenced by file_url.
func (h *Handler) RegisterFile(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req registerFileRequest
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

	f := models.TicketFile{
		TicketID:   ticket.ID,
		FileName:   req.FileName,
		FileURL:    req.FileURL,
		UploadedBy: actor.ID,
	}
	if req.FileType != "" {
		f.FileType = &req.FileType
	}
	if err := h.Store.CreateFile(c.Request.Context(), &f); err != nil {
		h.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, f)
}
