package models

import (
	"time"

	"github.com/google/uuid"
)

type Credentials struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type UpdateProfileRequest struct {
	CompanyName *string `json:"company_name"`
	Phone       *string `json:"phone"`
}

type CreateRecipientRequest struct {
	FaxNumber string  `json:"fax_number" binding:"required"`
	ToHeader  *string `json:"to_header"`
}

type BlockNumberRequest struct {
	FaxNumber string  `json:"fax_number" binding:"required"`
	Reason    *string `json:"reason"`
	// Source defaults to manual.
	Source string `json:"source" binding:"omitempty,oneof=manual opt_out import"`
}

type CreateBroadcastRequest struct {
	// DocumentIDs are faxed in the order given.
	DocumentIDs   []uuid.UUID `json:"document_ids" binding:"required,min=1"`
	RecipientIDs  []uuid.UUID `json:"recipient_ids" binding:"required,min=1"`
	BillingCode   *string     `json:"billing_code"`
	ScheduledTime *time.Time  `json:"scheduled_time"`
	TestFaxNumber *string     `json:"test_fax_number"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
