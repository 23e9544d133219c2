package dto

import (
	"strings"
	"time"

	"github.com/prohmpiriya/interview-qa/internal/domain"
	"github.com/prohmpiriya/interview-qa/pkg/validation"
)

// RegisterRequest represents registration request
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,max=72"` // bcrypt ignores bytes past 72
}

// Normalize trims the name and canonicalizes the email
func (r *RegisterRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = normalizeEmail(r.Email)
}

func (r *RegisterRequest) Validate() error {
	return validation.Get().Struct(r)
}

// LoginRequest represents login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Normalize() {
	r.Email = normalizeEmail(r.Email)
}

func (r *LoginRequest) Validate() error {
	return validation.Get().Struct(r)
}

// RegisterResponse represents registration response
type RegisterResponse struct {
	UserID string `json:"userId"`
}

// LoginResponse is the body of a successful login. The token itself only
// travels in the Set-Cookie header.
type LoginResponse struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// UserResponse represents user data in response
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewUserResponse maps a user, leaving out the password hash
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
