package domain

import (
	"time"

	"github.com/focitech/focitech-backend/internal/store"
)

const Table = "inquiries"

type Status string

const (
	StatusPending   Status = "pending"
	StatusResponded Status = "responded"
	StatusResolved  Status = "resolved"
	StatusSpam      Status = "spam"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusResponded, StatusResolved, StatusSpam:
		return true
	}
	return false
}

type Inquiry struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Subject   string     `json:"subject"`
	Message   string     `json:"message"`
	Phone     *string    `json:"phone"`
	Company   *string    `json:"company"`
	Status    Status     `json:"status"`
	Notes     *string    `json:"notes"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type CreateInquiryRequest struct {
	Name    string  `json:"name" validate:"required,min=2,max=100"`
	Email   string  `json:"email" validate:"required,email"`
	Subject string  `json:"subject" validate:"required,min=3,max=200"`
	Message string  `json:"message" validate:"required,min=2,max=2000"`
	Phone   *string `json:"phone" validate:"omitempty,phone"`
	Company *string `json:"company" validate:"omitempty,max=100"`
}

func (r CreateInquiryRequest) Record() store.Record {
	return store.Record{
		"name":    r.Name,
		"email":   r.Email,
		"subject": r.Subject,
		"message": r.Message,
		"phone":   r.Phone,
		"company": r.Company,
		"status":  string(StatusPending),
	}
}

// UpdateInquiryRequest is the admin triage update.
type UpdateInquiryRequest struct {
	Status *string `json:"status" validate:"omitempty,oneof=pending responded resolved spam"`
	Notes  *string `json:"notes" validate:"omitempty,max=1000"`
}

func (r UpdateInquiryRequest) Patch() store.Record {
	p := store.Record{}
	if r.Status != nil {
		p["status"] = *r.Status
	}
	if r.Notes != nil {
		p["notes"] = *r.Notes
	}
	return p
}

type ListFilter struct {
	Status Status
	Search string
	From   *time.Time
	To     *time.Time
}
