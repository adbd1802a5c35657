package handlers

import (
	"net/http"

	"github.com/Brettk80/new2025/internal/models"
	"github.com/Brettk80/new2025/internal/services"
	"github.com/Brettk80/new2025/internal/supabase"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/supabase-community/gotrue-go/types"
)

type AuthHandler struct {
	base
	redirectURL string
}

func NewAuthHandler(client *supabase.Client, profiles *services.ProfileService, redirectURL string) *AuthHandler {
	return &AuthHandler{
		base:        base{client: client, profiles: profiles},
		redirectURL: redirectURL,
	}
}

// SignUp registers the user with GoTrue and creates the matching users row.
// Without auto-confirm there is no session yet and the row is written with
// the anon client.
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req models.Credentials
	if !bindJSON(c, &req) {
		return
	}

	resp, err := supabase.NewAuthClient(h.client).SignUp(req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	authUser := resp.User
	if authUser.ID == uuid.Nil {
		authUser = resp.Session.User
	}

	client := h.client
	var session *models.SessionResponse
	if resp.Session.AccessToken != "" {
		client, err = h.client.WithSubject(authUser.ID.String()).WithToken(resp.Session.AccessToken)
		if err != nil {
			writeError(c, err)
			return
		}
		s := sessionResponse(resp.Session)
		session = &s
	}

	profile, err := h.profiles.Ensure(client, authUser.ID, req.Email)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.SignUpResponse{Profile: profile, Session: session})
}

func (h *AuthHandler) SignIn(c *gin.Context) {
	var req models.Credentials
	if !bindJSON(c, &req) {
		return
	}

	session, err := supabase.NewAuthClient(h.client).SignIn(req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "invalid credentials", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, sessionResponse(*session))
}

// OAuth returns the provider authorize URL, e.g. /auth/oauth/google.
func (h *AuthHandler) OAuth(c *gin.Context) {
	redirect := c.DefaultQuery("redirect_to", h.redirectURL)
	url := supabase.NewAuthClient(h.client).AuthorizeURL(c.Param("provider"), redirect)
	c.JSON(http.StatusOK, models.AuthorizeURLResponse{URL: url})
}

func (h *AuthHandler) SignOut(c *gin.Context) {
	s, ok := h.scope(c)
	if !ok {
		return
	}
	if err := supabase.NewAuthClient(s.client).SignOut(); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func sessionResponse(s types.Session) models.SessionResponse {
	return models.SessionResponse{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		TokenType:    s.TokenType,
		ExpiresIn:    s.ExpiresIn,
		ExpiresAt:    s.ExpiresAt,
		UserID:       s.User.ID,
		Email:        s.User.Email,
	}
}
