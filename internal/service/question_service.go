package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/prohmpiriya/interview-qa/internal/domain"
	"github.com/prohmpiriya/interview-qa/internal/dto"
	"github.com/prohmpiriya/interview-qa/internal/events"
	"github.com/prohmpiriya/interview-qa/internal/filter"
	"github.com/prohmpiriya/interview-qa/internal/repository"
	"github.com/prohmpiriya/interview-qa/internal/token"
	"github.com/prohmpiriya/interview-qa/pkg/logger"
	"github.com/prohmpiriya/interview-qa/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// QuestionServiceConfig holds optional collaborators for QuestionService
type QuestionServiceConfig struct {
	Publisher events.Publisher
	Logger    *logger.Logger
	Now       func() time.Time
}

// QuestionService defines the interface for question operations
type QuestionService interface {
	List(ctx context.Context, query filter.Query) ([]*domain.Question, error)
	Get(ctx context.Context, id string) (*domain.Question, error)
	Create(ctx context.Context, req *dto.CreateQuestionRequest) (*domain.Question, error)
	// BulkCreate stores every question or none, keeping request order
	BulkCreate(ctx context.Context, req *dto.BulkCreateQuestionsRequest) ([]*domain.Question, error)
	Update(ctx context.Context, id string, req *dto.UpdateQuestionRequest) (*domain.Question, error)
	Delete(ctx context.Context, id string) error
}

type questionService struct {
	repo      repository.QuestionRepository
	publisher events.Publisher
	log       *logger.Logger
	now       func() time.Time
}

// NewQuestionService creates a new QuestionService
func NewQuestionService(repo repository.QuestionRepository, config *QuestionServiceConfig) QuestionService {
	if config == nil {
		config = &QuestionServiceConfig{}
	}
	s := &questionService{
		repo:      repo,
		publisher: config.Publisher,
		log:       config.Logger,
		now:       config.Now,
	}
	if s.publisher == nil {
		s.publisher = events.NewNoOpPublisher()
	}
	if s.log == nil {
		s.log = logger.Get()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *questionService) List(ctx context.Context, query filter.Query) (qs []*domain.Question, err error) {
	ctx, span := telemetry.StartSpan(ctx, "service.question.list",
		attribute.Int("filter.conditions", len(query.Predicate.Conditions)),
		attribute.Bool("order.desc", query.Order.Desc),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	qs, err = s.repo.List(ctx, query)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("result.count", len(qs)))
	return qs, nil
}

func (s *questionService) Get(ctx context.Context, id string) (q *domain.Question, err error) {
	ctx, span := telemetry.StartSpan(ctx, "service.question.get", attribute.String("question_id", id))
	defer func() { telemetry.EndSpan(span, err) }()

	q, err = s.repo.GetByID(ctx, id)
	return q, mapNotFound(err)
}

func (s *questionService) Create(ctx context.Context, req *dto.CreateQuestionRequest) (q *domain.Question, err error) {
	ctx, span := telemetry.StartSpan(ctx, "service.question.create")
	defer func() { telemetry.EndSpan(span, err) }()

	q = req.ToQuestion()
	q.ID = uuid.New().String()
	q.CreatedAt = s.timestamp()
	q.UpdatedAt = q.CreatedAt

	if err := s.repo.Create(ctx, q); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("question_id", q.ID))
	s.publish(ctx, domain.QuestionEventCreated, q.ID)
	return q, nil
}

func (s *questionService) BulkCreate(ctx context.Context, req *dto.BulkCreateQuestionsRequest) (qs []*domain.Question, err error) {
	ctx, span := telemetry.StartSpan(ctx, "service.question.bulk_create",
		attribute.Int("count", len(req.Questions)))
	defer func() { telemetry.EndSpan(span, err) }()

	qs = req.ToQuestions()
	base := s.timestamp()
	ids := make([]string, 0, len(qs))
	for i, q := range qs {
		q.ID = uuid.New().String()
		// one microsecond apart so listing keeps request order
		q.CreatedAt = base.Add(time.Duration(i) * time.Microsecond)
		q.UpdatedAt = q.CreatedAt
		ids = append(ids, q.ID)
	}

	if err := s.repo.CreateMany(ctx, qs); err != nil {
		return nil, err
	}

	s.publish(ctx, domain.QuestionEventBulkCreated, ids...)
	return qs, nil
}

func (s *questionService) Update(ctx context.Context, id string, req *dto.UpdateQuestionRequest) (q *domain.Question, err error) {
	ctx, span := telemetry.StartSpan(ctx, "service.question.update", attribute.String("question_id", id))
	defer func() { telemetry.EndSpan(span, err) }()

	q, err = s.repo.Update(ctx, id, req.ToPatch(), s.timestamp())
	if err != nil {
		return nil, mapNotFound(err)
	}

	s.publish(ctx, domain.QuestionEventUpdated, q.ID)
	return q, nil
}

func (s *questionService) Delete(ctx context.Context, id string) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "service.question.delete", attribute.String("question_id", id))
	defer func() { telemetry.EndSpan(span, err) }()

	if err := s.repo.Delete(ctx, id); err != nil {
		return mapNotFound(err)
	}

	s.publish(ctx, domain.QuestionEventDeleted, id)
	return nil
}

// timestamp matches the microsecond precision of timestamptz
func (s *questionService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// publish logs failures instead of returning them
func (s *questionService) publish(ctx context.Context, eventType domain.QuestionEventType, ids ...string) {
	var actor string
	if claims, ok := token.FromContext(ctx); ok {
		actor = claims.SubjectID
	}

	if err := s.publisher.Publish(ctx, eventType, actor, ids...); err != nil {
		s.log.WithContext(ctx).Warn("Failed to publish question event",
			zap.String("event_type", string(eventType)),
			zap.Strings("question_ids", ids),
			zap.Error(err),
		)
	}
}

func mapNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrQuestionNotFound
	}
	return err
}
