package models

import (
	"time"

	"github.com/Brettk80/new2025/internal/notify"
	"github.com/google/uuid"
)

type HealthResponse struct {
	Status   string `json:"status"`
	Supabase string `json:"supabase"`
}

type SessionResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int       `json:"expires_in"`
	ExpiresAt    int64     `json:"expires_at"`
	UserID       uuid.UUID `json:"user_id"`
	Email        string    `json:"email"`
}

type SignUpResponse struct {
	Profile User `json:"profile"`
	// Session is empty when the project requires email confirmation.
	Session *SessionResponse `json:"session,omitempty"`
}

type AuthorizeURLResponse struct {
	URL string `json:"url"`
}

type MeResponse struct {
	Profile User   `json:"profile"`
	Email   string `json:"email"`
}

type DocumentsResponse struct {
	Documents []FaxDocument `json:"documents"`
}

type RecipientsResponse struct {
	Recipients []FaxRecipient `json:"recipients"`
}

type BlockListResponse struct {
	Entries []BlockListEntry `json:"entries"`
}

type BroadcastsResponse struct {
	Broadcasts []FaxBroadcast `json:"broadcasts"`
}

type BroadcastResponse struct {
	Broadcast FaxBroadcast           `json:"broadcast"`
	Documents []FaxBroadcastDocument `json:"documents"`
	Blocked   []uuid.UUID            `json:"blocked_recipient_ids,omitempty"`
}

type DeliveriesResponse struct {
	Deliveries []FaxDeliveryStatus `json:"deliveries"`
}

// NotificationItem is a notification as shown to its user, without the
// underlying error text.
type NotificationItem struct {
	Level     notify.Level `json:"level"`
	Message   string       `json:"message"`
	CreatedAt time.Time    `json:"created_at"`
}

type NotificationsResponse struct {
	Notifications []NotificationItem `json:"notifications"`
}
