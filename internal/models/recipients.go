package models

import (
	"time"

	"github.com/google/uuid"
)

type FaxRecipient struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	FaxNumber string    `json:"fax_number"`
	ToHeader  *string   `json:"to_header"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type FaxRecipientInsert struct {
	ID        *uuid.UUID `json:"id,omitempty"`
	UserID    uuid.UUID  `json:"user_id"`
	FaxNumber string     `json:"fax_number"`
	ToHeader  *string    `json:"to_header,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type FaxRecipientUpdate struct {
	ID        *uuid.UUID `json:"id,omitempty"`
	UserID    *uuid.UUID `json:"user_id,omitempty"`
	FaxNumber *string    `json:"fax_number,omitempty"`
	ToHeader  *string    `json:"to_header,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// BlockListEntry is a fax number the owner must never send to.
type BlockListEntry struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	FaxNumber string    `json:"fax_number"`
	Reason    *string   `json:"reason"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

type BlockListEntryInsert struct {
	ID        *uuid.UUID `json:"id,omitempty"`
	UserID    uuid.UUID  `json:"user_id"`
	FaxNumber string     `json:"fax_number"`
	Reason    *string    `json:"reason,omitempty"`
	Source    string     `json:"source"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

type BlockListEntryUpdate struct {
	ID        *uuid.UUID `json:"id,omitempty"`
	UserID    *uuid.UUID `json:"user_id,omitempty"`
	FaxNumber *string    `json:"fax_number,omitempty"`
	Reason    *string    `json:"reason,omitempty"`
	Source    *string    `json:"source,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// Block list sources.
const (
	BlockSourceManual = "manual"
	BlockSourceOptOut = "opt_out"
	BlockSourceImport = "import"
)
