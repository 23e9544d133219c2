package dto

import (
	"strings"
	"testing"
	"time"

	"github.com/prohmpiriya/interview-qa/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRequest_Validate(t *testing.T) {
	tests := []struct {
		name  string
		req   RegisterRequest
		field string
	}{
		{"valid", RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "secret"}, ""},
		{"short name", RegisterRequest{Name: " A ", Email: "ada@example.com", Password: "secret"}, "name"},
		{"bad email", RegisterRequest{Name: "Ada", Email: "ada@", Password: "secret"}, "email"},
		{"short password", RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "12345"}, "password"},
		{"long password", RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: strings.Repeat("p", 73)}, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.req
			r.Normalize()
			err := r.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			assert.Contains(t, fieldErrors(t, err), tt.field)
		})
	}
}

func TestRegisterRequest_NormalizeEmail(t *testing.T) {
	r := RegisterRequest{Name: "  Ada Lovelace ", Email: "  Ada@Example.COM "}
	r.Normalize()

	assert.Equal(t, "Ada Lovelace", r.Name)
	assert.Equal(t, "ada@example.com", r.Email)
}

func TestLoginRequest_Validate(t *testing.T) {
	r := LoginRequest{Email: " ADA@example.com", Password: ""}
	r.Normalize()

	fields := fieldErrors(t, r.Validate())
	assert.Equal(t, "is required", fields["password"])
	assert.Equal(t, "ada@example.com", r.Email)

	r.Password = "x"
	require.NoError(t, r.Validate())
}

func TestNewUserResponse(t *testing.T) {
	now := time.Now()
	resp := NewUserResponse(&domain.User{ID: "u1", Name: "Ada", Email: "ada@example.com", PasswordHash: "hash", CreatedAt: now})

	assert.Equal(t, UserResponse{ID: "u1", Name: "Ada", Email: "ada@example.com", CreatedAt: now}, resp)
}
