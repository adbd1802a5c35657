package handlers

import (
	"net/http"

	"github.com/Brettk80/new2025/internal/models"
	"github.com/Brettk80/new2025/internal/services"
	"github.com/Brettk80/new2025/internal/supabase"
	"github.com/gin-gonic/gin"
)

// RecipientsHandler serves the address book and the block list.
type RecipientsHandler struct {
	base
	recipients *services.RecipientService
}

func NewRecipientsHandler(client *supabase.Client, profiles *services.ProfileService, recipients *services.RecipientService) *RecipientsHandler {
	return &RecipientsHandler{
		base:       base{client: client, profiles: profiles},
		recipients: recipients,
	}
}

func (h *RecipientsHandler) List(c *gin.Context) {
	s, ok := h.scope(c)
	if !ok {
		return
	}
	rows, err := h.recipients.List(s.client, s.user.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.RecipientsResponse{Recipients: rows})
}

func (h *RecipientsHandler) Create(c *gin.Context) {
	s, ok := h.scope(c)
	if !ok {
		return
	}
	var req models.CreateRecipientRequest
	if !bindJSON(c, &req) {
		return
	}
	row, err := h.recipients.Create(s.client, s.user.ID, req.FaxNumber, req.ToHeader)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, row)
}

func (h *RecipientsHandler) Delete(c *gin.Context) {
	s, ok := h.scope(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.recipients.Delete(s.client, s.user.ID, id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipientsHandler) ListBlocked(c *gin.Context) {
	s, ok := h.scope(c)
	if !ok {
		return
	}
	entries, err := h.recipients.ListBlocked(s.client, s.user.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.BlockListResponse{Entries: entries})
}

func (h *RecipientsHandler) Block(c *gin.Context) {
	s, ok := h.scope(c)
	if !ok {
		return
	}
	var req models.BlockNumberRequest
	if !bindJSON(c, &req) {
		return
	}
	entry, err := h.recipients.Block(s.client, s.user.ID, req.FaxNumber, req.Reason, req.Source)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *RecipientsHandler) Unblock(c *gin.Context) {
	s, ok := h.scope(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.recipients.Unblock(s.client, s.user.ID, id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
