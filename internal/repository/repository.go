package repository

import (
	"context"
	"errors"
	"time"

	"github.com/prohmpiriya/interview-qa/internal/domain"
	"github.com/prohmpiriya/interview-qa/internal/filter"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrDuplicateID    = errors.New("duplicate id")
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create fails with ErrDuplicateEmail when the email is taken
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// GetByEmail matches case-insensitively
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// QuestionRepository defines the interface for question data access
type QuestionRepository interface {
	Create(ctx context.Context, q *domain.Question) error
	// CreateMany inserts all questions or none
	CreateMany(ctx context.Context, qs []*domain.Question) error
	GetByID(ctx context.Context, id string) (*domain.Question, error)
	// List returns matching questions in query order. Never nil.
	List(ctx context.Context, query filter.Query) ([]*domain.Question, error)
	// Update applies patch atomically and returns the stored result
	Update(ctx context.Context, id string, patch *domain.QuestionPatch, now time.Time) (*domain.Question, error)
	Delete(ctx context.Context, id string) error
}
