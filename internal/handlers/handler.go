package handlers

import (
	"errors"
	"net/http"

	"github.com/Brettk80/new2025/internal/middleware"
	"github.com/Brettk80/new2025/internal/models"
	"github.com/Brettk80/new2025/internal/services"
	"github.com/Brettk80/new2025/internal/supabase"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// base is embedded by every handler that acts on behalf of the caller.
type base struct {
	client   *supabase.Client
	profiles *services.ProfileService
}

// requestScope carries the user-scoped platform client and the caller's profile row.
type requestScope struct {
	client *supabase.Client
	user   models.User
}

// scope builds a client that carries the caller's JWT, so row level
// security applies, and resolves the caller's profile, creating it on first
// use. On failure the response has already been written.
func (b *base) scope(c *gin.Context) (requestScope, bool) {
	authID, err := uuid.Parse(middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "invalid user id"})
		return requestScope{}, false
	}

	client, err := b.client.WithSubject(middleware.UserID(c)).WithToken(middleware.AccessToken(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to create client",
			Message: err.Error(),
		})
		return requestScope{}, false
	}

	user, err := b.profiles.Ensure(client, authID, middleware.Email(c))
	if err != nil {
		writeError(c, err)
		return requestScope{}, false
	}
	return requestScope{client: client, user: user}, true
}

func parseID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return false
	}
	return true
}

// writeError maps service and platform errors to a status code.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrNotFound), errors.Is(err, supabase.ErrNoData):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrInvalidFaxNumber),
		errors.Is(err, services.ErrUnsupportedFileType),
		errors.Is(err, services.ErrEmptyFile),
		errors.Is(err, services.ErrNoDocuments),
		errors.Is(err, services.ErrNoRecipients),
		errors.Is(err, services.ErrDuplicateDocument),
		errors.Is(err, supabase.ErrUnknownColumn):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrAllRecipientsBlocked):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrNotCancellable):
		status = http.StatusConflict
	}

	resp := models.ErrorResponse{Error: err.Error()}
	var platformErr *supabase.Error
	if errors.As(err, &platformErr) {
		resp = models.ErrorResponse{Error: platformErr.Message, Message: platformErr.Err.Error()}
		if status == http.StatusInternalServerError {
			status = platformStatus(platformErr.Code())
		}
	}
	c.JSON(status, resp)
}

// platformStatus maps a Postgres or PostgREST error code to the status the
// caller should see. Anything unrecognised is the platform's fault.
func platformStatus(code string) int {
	switch {
	case code == "23505":
		return http.StatusConflict
	case code == "23503", code == "23502", code == "23514", code == "22P02":
		return http.StatusBadRequest
	case code == "42501":
		return http.StatusForbidden
	case code == "PGRST116":
		return http.StatusNotFound
	case code == "PGRST301", code == "PGRST302":
		return http.StatusUnauthorized
	default:
		return http.StatusBadGateway
	}
}
