package handlers

import (
	"net/http"

	"github.com/Brettk80/new2025/internal/middleware"
	"github.com/Brettk80/new2025/internal/models"
	"github.com/Brettk80/new2025/internal/services"
	"github.com/Brettk80/new2025/internal/supabase"
	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	base
}

func NewProfileHandler(client *supabase.Client, profiles *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{base: base{client: client, profiles: profiles}}
}

func (h *ProfileHandler) Me(c *gin.Context) {
	s, ok := h.scope(c)
	if !ok {
		return
	}
	email := s.user.Email
	if email == "" {
		email = middleware.Email(c)
	}
	c.JSON(http.StatusOK, models.MeResponse{Profile: s.user, Email: email})
}

func (h *ProfileHandler) Update(c *gin.Context) {
	s, ok := h.scope(c)
	if !ok {
		return
	}
	var req models.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.CompanyName == nil && req.Phone == nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "nothing to update"})
		return
	}

	user, err := h.profiles.UpdateDetails(s.client, s.user.ID, req.CompanyName, req.Phone)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MeResponse{Profile: user, Email: user.Email})
}
