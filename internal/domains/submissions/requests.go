package submissions

import (
	"strings"
	"time"
)

type ContactRequest struct {
	Name        string      `json:"name" validate:"required,max=120"`
	Email       string      `json:"email" validate:"required,email,max=254"`
	Phone       string      `json:"phone" validate:"omitempty,max=32"`
	Company     string      `json:"company" validate:"omitempty,max=160"`
	CompanySize CompanySize `json:"company_size" validate:"omitempty,known"`
	Topic       Topic       `json:"topic" validate:"required,known"`
	Interests   []Feature   `json:"interests" validate:"omitempty,max=20,dive,known"`
	Message     string      `json:"message" validate:"required,max=5000"`
	Locale      Locale      `json:"locale" validate:"omitempty,known"`
}

func (r *ContactRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Company = strings.TrimSpace(r.Company)
	r.Message = strings.TrimSpace(r.Message)
}

// ConfirmationRequest asks for the acknowledgement email sent back to a visitor.
type ConfirmationRequest struct {
	Name   string `json:"name" validate:"required,max=120"`
	Email  string `json:"email" validate:"required,email,max=254"`
	Topic  Topic  `json:"topic" validate:"omitempty,known"`
	Locale Locale `json:"locale" validate:"omitempty,known"`
}

func (r *ConfirmationRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
}

type PartnerApplicationRequest struct {
	Name        string           `json:"name" validate:"required,max=120"`
	Email       string           `json:"email" validate:"required,email,max=254"`
	Phone       string           `json:"phone" validate:"omitempty,max=32"`
	Company     string           `json:"company" validate:"required,max=160"`
	Website     string           `json:"website" validate:"omitempty,url,max=2048"`
	PartnerType PartnerType      `json:"partner_type" validate:"required,known"`
	Regions     []Region         `json:"regions" validate:"required,min=1,max=10,dive,known"`
	Services    []PartnerService `json:"services" validate:"omitempty,max=10,dive,known"`
	ClientRange ClientRange      `json:"client_range" validate:"omitempty,known"`
	Message     string           `json:"message" validate:"omitempty,max=5000"`
	Locale      Locale           `json:"locale" validate:"omitempty,known"`
}

func (r *PartnerApplicationRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Company = strings.TrimSpace(r.Company)
	r.Website = strings.TrimSpace(r.Website)
	r.Message = strings.TrimSpace(r.Message)
}

// SubmissionResponse is returned once the email has been handed to the mail provider.
type SubmissionResponse struct {
	ID          string    `json:"id"`
	Status      string    `json:"status"`
	SubmittedAt time.Time `json:"submitted_at"`
}
