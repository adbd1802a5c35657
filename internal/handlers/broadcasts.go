package handlers

import (
	"io"
	"net/http"

	"github.com/Brettk80/new2025/internal/models"
	"github.com/Brettk80/new2025/internal/services"
	"github.com/Brettk80/new2025/internal/supabase"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// eventBuffer bounds delivery changes queued for a slow SSE client; extra changes are dropped.
const eventBuffer = 64

type BroadcastsHandler struct {
	base
	broadcasts *services.BroadcastService
	logger     *zap.Logger
}

func NewBroadcastsHandler(client *supabase.Client, profiles *services.ProfileService, broadcasts *services.BroadcastService, logger *zap.Logger) *BroadcastsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BroadcastsHandler{
		base:       base{client: client, profiles: profiles},
		broadcasts: broadcasts,
		logger:     logger,
	}
}

func (h *BroadcastsHandler) List(c *gin.Context) {
	s, ok := h.scope(c)
	if !ok {
		return
	}
	rows, err := h.broadcasts.List(s.client, s.user.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.BroadcastsResponse{Broadcasts: rows})
}

func (h *BroadcastsHandler) Create(c *gin.Context) {
	s, ok := h.scope(c)
	if !ok {
		return
	}
	var req models.CreateBroadcastRequest
	if !bindJSON(c, &req) {
		return
	}

	detail, err := h.broadcasts.Create(s.client, s.user, services.CreateBroadcast{
		DocumentIDs:   req.DocumentIDs,
		RecipientIDs:  req.RecipientIDs,
		BillingCode:   req.BillingCode,
		ScheduledTime: req.ScheduledTime,
		TestFaxNumber: req.TestFaxNumber,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, broadcastResponse(detail))
}

func (h *BroadcastsHandler) Get(c *gin.Context) {
	s, ok := h.scope(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	detail, err := h.broadcasts.Get(s.client, s.user.ID, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, broadcastResponse(detail))
}

func (h *BroadcastsHandler) Deliveries(c *gin.Context) {
	s, ok := h.scope(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	rows, err := h.broadcasts.Deliveries(s.client, s.user.ID, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.DeliveriesResponse{Deliveries: rows})
}

func (h *BroadcastsHandler) Cancel(c *gin.Context) {
	s, ok := h.scope(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	row, err := h.broadcasts.Cancel(s.client, s.user.ID, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

// Events streams delivery status changes for one broadcast as server-sent
// events until the client goes away or the realtime channel closes.
func (h *BroadcastsHandler) Events(c *gin.Context) {
	s, ok := h.scope(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if _, err := h.broadcasts.Get(s.client, s.user.ID, id); err != nil {
		writeError(c, err)
		return
	}

	changes := make(chan supabase.ChangePayload, eventBuffer)
	ctx := c.Request.Context()
	sub, err := h.broadcasts.WatchDeliveries(ctx, supabase.NewRealtimeClient(s.client), id, func(p supabase.ChangePayload) {
		select {
		case changes <- p:
		default:
			h.logger.Warn("dropping delivery change for slow client",
				zap.String("broadcast_id", id.String()),
			)
		}
	})
	if err != nil {
		writeError(c, err)
		return
	}
	defer sub.Close()

	c.Stream(func(w io.Writer) bool {
		select {
		case p := <-changes:
			c.SSEvent("delivery", p)
			return true
		case <-sub.Done():
			// changes that arrived before the channel closed still go out
			for {
				select {
				case p := <-changes:
					c.SSEvent("delivery", p)
				default:
					return false
				}
			}
		case <-ctx.Done():
			return false
		}
	})
}

func broadcastResponse(d services.BroadcastDetail) models.BroadcastResponse {
	return models.BroadcastResponse{
		Broadcast: d.Broadcast,
		Documents: d.Documents,
		Blocked:   d.Blocked,
	}
}
