package handlers

import (
	"net/http"
	"strconv"

	"github.com/Brettk80/new2025/internal/middleware"
	"github.com/Brettk80/new2025/internal/models"
	"github.com/Brettk80/new2025/internal/notify"
	"github.com/gin-gonic/gin"
)

const defaultNotificationLimit = 20

type NotificationsHandler struct {
	feed *notify.Feed
}

func NewNotificationsHandler(feed *notify.Feed) *NotificationsHandler {
	return &NotificationsHandler{feed: feed}
}

// Recent returns the caller's newest notifications first; ?limit=N caps the
// count. Failure details stay in the server log.
func (h *NotificationsHandler) Recent(c *gin.Context) {
	limit := defaultNotificationLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid limit"})
			return
		}
		limit = n
	}

	subject := middleware.UserID(c)
	if subject == "" {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "missing user"})
		return
	}

	recent := h.feed.Recent(subject, limit)
	items := make([]models.NotificationItem, 0, len(recent))
	for _, n := range recent {
		items = append(items, models.NotificationItem{
			Level:     n.Level,
			Message:   n.Message,
			CreatedAt: n.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, models.NotificationsResponse{Notifications: items})
}
