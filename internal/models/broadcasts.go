package models

import (
	"time"

	"github.com/google/uuid"
)

// Broadcast statuses written by this service. The delivery side may use others.
const (
	BroadcastStatusDraft     = "draft"
	BroadcastStatusScheduled = "scheduled"
	BroadcastStatusCancelled = "cancelled"

	DeliveryStatusPending = "pending"
)

type FaxBroadcast struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	Status        string     `json:"status"`
	BillingCode   *string    `json:"billing_code"`
	ScheduledTime *time.Time `json:"scheduled_time"`
	TestFaxNumber *string    `json:"test_fax_number"`
	TestFaxStatus *string    `json:"test_fax_status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type FaxBroadcastInsert struct {
	ID            *uuid.UUID `json:"id,omitempty"`
	UserID        uuid.UUID  `json:"user_id"`
	Status        string     `json:"status"`
	BillingCode   *string    `json:"billing_code,omitempty"`
	ScheduledTime *time.Time `json:"scheduled_time,omitempty"`
	TestFaxNumber *string    `json:"test_fax_number,omitempty"`
	TestFaxStatus *string    `json:"test_fax_status,omitempty"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

type FaxBroadcastUpdate struct {
	ID            *uuid.UUID `json:"id,omitempty"`
	UserID        *uuid.UUID `json:"user_id,omitempty"`
	Status        *string    `json:"status,omitempty"`
	BillingCode   *string    `json:"billing_code,omitempty"`
	ScheduledTime *time.Time `json:"scheduled_time,omitempty"`
	TestFaxNumber *string    `json:"test_fax_number,omitempty"`
	TestFaxStatus *string    `json:"test_fax_status,omitempty"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

// FaxBroadcastDocument links a document into a broadcast at SequenceOrder.
type FaxBroadcastDocument struct {
	BroadcastID   uuid.UUID `json:"broadcast_id"`
	DocumentID    uuid.UUID `json:"document_id"`
	SequenceOrder int       `json:"sequence_order"`
	CreatedAt     time.Time `json:"created_at"`
}

type FaxBroadcastDocumentInsert struct {
	BroadcastID   uuid.UUID  `json:"broadcast_id"`
	DocumentID    uuid.UUID  `json:"document_id"`
	SequenceOrder int        `json:"sequence_order"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
}

type FaxBroadcastDocumentUpdate struct {
	BroadcastID   *uuid.UUID `json:"broadcast_id,omitempty"`
	DocumentID    *uuid.UUID `json:"document_id,omitempty"`
	SequenceOrder *int       `json:"sequence_order,omitempty"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
}

// FaxDeliveryStatus is the per-recipient outcome of a broadcast.
type FaxDeliveryStatus struct {
	ID           uuid.UUID  `json:"id"`
	BroadcastID  uuid.UUID  `json:"broadcast_id"`
	RecipientID  uuid.UUID  `json:"recipient_id"`
	Status       string     `json:"status"`
	ErrorMessage *string    `json:"error_message"`
	DeliveryTime *time.Time `json:"delivery_time"`
	RetryCount   int        `json:"retry_count"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type FaxDeliveryStatusInsert struct {
	ID           *uuid.UUID `json:"id,omitempty"`
	BroadcastID  uuid.UUID  `json:"broadcast_id"`
	RecipientID  uuid.UUID  `json:"recipient_id"`
	Status       string     `json:"status"`
	ErrorMessage *string    `json:"error_message,omitempty"`
	DeliveryTime *time.Time `json:"delivery_time,omitempty"`
	RetryCount   *int       `json:"retry_count,omitempty"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

type FaxDeliveryStatusUpdate struct {
	ID           *uuid.UUID `json:"id,omitempty"`
	BroadcastID  *uuid.UUID `json:"broadcast_id,omitempty"`
	RecipientID  *uuid.UUID `json:"recipient_id,omitempty"`
	Status       *string    `json:"status,omitempty"`
	ErrorMessage *string    `json:"error_message,omitempty"`
	DeliveryTime *time.Time `json:"delivery_time,omitempty"`
	RetryCount   *int       `json:"retry_count,omitempty"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}
