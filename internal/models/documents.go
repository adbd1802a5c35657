package models

import (
	"time"

	"github.com/google/uuid"
)

// FaxDocument is an uploaded file that can be attached to broadcasts.
// FilePath is the object path inside the documents storage bucket.
type FaxDocument struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	FileName  string    `json:"file_name"`
	FilePath  string    `json:"file_path"`
	PageCount int       `json:"page_count"`
	FileSize  int64     `json:"file_size"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type FaxDocumentInsert struct {
	ID        *uuid.UUID `json:"id,omitempty"`
	UserID    uuid.UUID  `json:"user_id"`
	FileName  string     `json:"file_name"`
	FilePath  string     `json:"file_path"`
	PageCount int        `json:"page_count"`
	FileSize  int64      `json:"file_size"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type FaxDocumentUpdate struct {
	ID        *uuid.UUID `json:"id,omitempty"`
	UserID    *uuid.UUID `json:"user_id,omitempty"`
	FileName  *string    `json:"file_name,omitempty"`
	FilePath  *string    `json:"file_path,omitempty"`
	PageCount *int       `json:"page_count,omitempty"`
	FileSize  *int64     `json:"file_size,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}
