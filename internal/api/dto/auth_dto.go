package dto

import (
	"time"

	"github.com/campus-kit/helpdesk/internal/domain"
)

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AccountResponse is the public view of a signed-in account.
type AccountResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Email       string             `json:"email"`
	Role        domain.AccountRole `json:"role"`
	Department  string             `json:"department,omitempty"`
	StudentID   string             `json:"student_id,omitempty"`
	ContactInfo string             `json:"contact_info,omitempty"`
	Phone       string             `json:"phone,omitempty"`
}

// UpdateProfileRequest payload. Omitted fields are left unchanged.
type UpdateProfileRequest struct {
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	Department  *string `json:"department"`
	StudentID   *string `json:"student_id"`
	ContactInfo *string `json:"contact_info"`
	Phone       *string `json:"phone"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Account   AccountResponse `json:"account"`
}
