package service

import (
	"context"
	"errors"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/prohmpiriya/interview-qa/internal/domain"
)

// mockPublisher records published events
type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, eventType domain.QuestionEventType, actorID string, ids ...string) error {
	args := m.Called(ctx, eventType, actorID, ids)
	return args.Error(0)
}

func (m *mockPublisher) Close() error {
	return m.Called().Error(0)
}

var errBoom = errors.New("boom")

var fixedNow = time.Date(2024, 6, 1, 9, 30, 0, 123456789, time.UTC)

func clock() time.Time { return fixedNow }
