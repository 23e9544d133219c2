package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/prohmpiriya/interview-qa/internal/domain"
	"github.com/prohmpiriya/interview-qa/internal/filter"
)

// MemoryUserRepository is an in-process UserRepository
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

// NewMemoryUserRepository creates an empty MemoryUserRepository
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]*domain.User)}
}

func (r *MemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return ErrDuplicateEmail
		}
	}
	if _, ok := r.users[user.ID]; ok {
		return ErrDuplicateID
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *MemoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *MemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

// MemoryQuestionRepository is an in-process QuestionRepository that
// evaluates filter queries with filter.Query.Apply
type MemoryQuestionRepository struct {
	mu        sync.RWMutex
	questions map[string]*domain.Question
}

// NewMemoryQuestionRepository creates an empty MemoryQuestionRepository
func NewMemoryQuestionRepository() *MemoryQuestionRepository {
	return &MemoryQuestionRepository{questions: make(map[string]*domain.Question)}
}

func (r *MemoryQuestionRepository) Create(ctx context.Context, q *domain.Question) error {
	return r.CreateMany(ctx, []*domain.Question{q})
}

func (r *MemoryQuestionRepository) CreateMany(ctx context.Context, qs []*domain.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]struct{}, len(qs))
	for _, q := range qs {
		if _, ok := r.questions[q.ID]; ok {
			return ErrDuplicateID
		}
		if _, ok := seen[q.ID]; ok {
			return ErrDuplicateID
		}
		seen[q.ID] = struct{}{}
	}
	for _, q := range qs {
		r.questions[q.ID] = q.Clone()
	}
	return nil
}

func (r *MemoryQuestionRepository) GetByID(ctx context.Context, id string) (*domain.Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q, ok := r.questions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return q.Clone(), nil
}

func (r *MemoryQuestionRepository) List(ctx context.Context, query filter.Query) ([]*domain.Question, error) {
	r.mu.RLock()
	all := make([]*domain.Question, 0, len(r.questions))
	for _, q := range r.questions {
		all = append(all, q.Clone())
	}
	r.mu.RUnlock()

	return query.Apply(all), nil
}

func (r *MemoryQuestionRepository) Update(ctx context.Context, id string, patch *domain.QuestionPatch, now time.Time) (*domain.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	q, ok := r.questions[id]
	if !ok {
		return nil, ErrNotFound
	}
	patch.Apply(q, now)
	return q.Clone(), nil
}

func (r *MemoryQuestionRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.questions[id]; !ok {
		return ErrNotFound
	}
	delete(r.questions, id)
	return nil
}

var (
	_ UserRepository     = (*PostgresUserRepository)(nil)
	_ UserRepository     = (*MemoryUserRepository)(nil)
	_ QuestionRepository = (*PostgresQuestionRepository)(nil)
	_ QuestionRepository = (*MemoryQuestionRepository)(nil)
)
