package handlers

import (
	"net/http"

	"github.com/Brettk80/new2025/internal/models"
	"github.com/Brettk80/new2025/internal/supabase"
	"github.com/gin-gonic/gin"
)

// HealthHandler reports liveness and whether real Supabase credentials are configured.
func HealthHandler(client *supabase.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		state := "configured"
		if client.IsPlaceholder() {
			state = "placeholder"
		}
		c.JSON(http.StatusOK, models.HealthResponse{
			Status:   "ok",
			Supabase: state,
		})
	}
}
