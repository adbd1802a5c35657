package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the application profile row linked to an auth user through AuthID.
type User struct {
	ID          uuid.UUID `json:"id"`
	AuthID      uuid.UUID `json:"auth_id"`
	Email       string    `json:"email"`
	CompanyName *string   `json:"company_name"`
	Phone       *string   `json:"phone"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type UserInsert struct {
	ID          *uuid.UUID `json:"id,omitempty"`
	AuthID      uuid.UUID  `json:"auth_id"`
	Email       string     `json:"email"`
	CompanyName *string    `json:"company_name,omitempty"`
	Phone       *string    `json:"phone,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

type UserUpdate struct {
	ID          *uuid.UUID `json:"id,omitempty"`
	AuthID      *uuid.UUID `json:"auth_id,omitempty"`
	Email       *string    `json:"email,omitempty"`
	CompanyName *string    `json:"company_name,omitempty"`
	Phone       *string    `json:"phone,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}
