package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/prohmpiriya/interview-qa/internal/domain"
	"github.com/prohmpiriya/interview-qa/internal/dto"
	"github.com/prohmpiriya/interview-qa/internal/repository"
	"github.com/prohmpiriya/interview-qa/internal/token"
	"github.com/prohmpiriya/interview-qa/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/crypto/bcrypt"
)

// AuthServiceConfig holds configuration for AuthService
type AuthServiceConfig struct {
	BcryptCost int
	Now        func() time.Time
}

// LoginResult carries the signed token and the claims it asserts
type LoginResult struct {
	Token  string
	Claims *token.Claims
	User   *domain.User
}

// AuthService defines the interface for authentication operations
type AuthService interface {
	// Register creates a user with a bcrypt password hash
	Register(ctx context.Context, req *dto.RegisterRequest) (*domain.User, error)
	// Login checks credentials and issues a token
	Login(ctx context.Context, req *dto.LoginRequest) (*LoginResult, error)
	// GetUser retrieves user by ID
	GetUser(ctx context.Context, id string) (*domain.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	codec    *token.Codec
	config   *AuthServiceConfig
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, codec *token.Codec, config *AuthServiceConfig) AuthService {
	if config == nil {
		config = &AuthServiceConfig{}
	}
	if config.BcryptCost == 0 {
		config.BcryptCost = bcrypt.DefaultCost
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return &authService{
		userRepo: userRepo,
		codec:    codec,
		config:   config,
	}
}

// Register registers a new user
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (user *domain.User, err error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.register")
	defer func() { telemetry.EndSpan(span, err) }()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.config.BcryptCost)
	if err != nil {
		return nil, err
	}

	now := s.config.Now().UTC()
	user = &domain.User{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}

	span.SetAttributes(attribute.String("user_id", user.ID))
	return user, nil
}

// Login authenticates a user. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (res *LoginResult, err error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.login")
	defer func() {
		if errors.Is(err, ErrInvalidCredentials) {
			telemetry.EndSpan(span, nil)
			return
		}
		telemetry.EndSpan(span, err)
	}()

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	signed, claims, err := s.codec.Issue(token.Identity{SubjectID: user.ID, Email: user.Email})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("user_id", user.ID))
	return &LoginResult{Token: signed, Claims: claims, User: user}, nil
}

// GetUser retrieves user by ID
func (s *authService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
