package di

import (
	"errors"
	"fmt"
	"time"

	"github.com/prohmpiriya/interview-qa/internal/events"
	"github.com/prohmpiriya/interview-qa/internal/handler"
	"github.com/prohmpiriya/interview-qa/internal/repository"
	"github.com/prohmpiriya/interview-qa/internal/service"
	"github.com/prohmpiriya/interview-qa/internal/token"
	"github.com/prohmpiriya/interview-qa/pkg/config"
	"github.com/prohmpiriya/interview-qa/pkg/database"
	"github.com/prohmpiriya/interview-qa/pkg/logger"
	"github.com/prohmpiriya/interview-qa/pkg/redis"
)

// Container holds all dependencies of the API
type Container struct {
	Config *config.Config
	Logger *logger.Logger

	// Infrastructure
	DB        *database.PostgresDB
	Redis     *redis.Client
	Publisher events.Publisher
	Codec     *token.Codec

	// Repositories
	UserRepo     repository.UserRepository
	QuestionRepo repository.QuestionRepository

	// Services
	AuthService     service.AuthService
	QuestionService service.QuestionService

	// Handlers
	HealthHandler   *handler.HealthHandler
	AuthHandler     *handler.AuthHandler
	UserHandler     *handler.UserHandler
	QuestionHandler *handler.QuestionHandler
}

// ContainerConfig contains configuration for building the container.
// Repositories default to Postgres on DB when left nil.
type ContainerConfig struct {
	Config    *config.Config
	Logger    *logger.Logger
	DB        *database.PostgresDB
	Redis     *redis.Client
	Publisher events.Publisher

	UserRepo     repository.UserRepository
	QuestionRepo repository.QuestionRepository

	BcryptCost int
	Now        func() time.Time
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *ContainerConfig) (*Container, error) {
	if cfg == nil || cfg.Config == nil {
		return nil, errors.New("container config is required")
	}

	c := &Container{
		Config:    cfg.Config,
		Logger:    cfg.Logger,
		DB:        cfg.DB,
		Redis:     cfg.Redis,
		Publisher: cfg.Publisher,
	}
	if c.Logger == nil {
		c.Logger = logger.Get()
	}
	if c.Publisher == nil {
		c.Publisher = events.NewNoOpPublisher()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	// Initialize repositories
	c.UserRepo = cfg.UserRepo
	c.QuestionRepo = cfg.QuestionRepo
	if c.UserRepo == nil || c.QuestionRepo == nil {
		if c.DB == nil {
			return nil, errors.New("database is required when repositories are not provided")
		}
		if c.UserRepo == nil {
			c.UserRepo = repository.NewPostgresUserRepository(c.DB.Pool())
		}
		if c.QuestionRepo == nil {
			c.QuestionRepo = repository.NewPostgresQuestionRepository(c.DB.Pool())
		}
	}

	opts := []token.Option{token.WithClock(now)}
	if c.Config.JWT.Issuer != "" {
		opts = append(opts, token.WithIssuer(c.Config.JWT.Issuer))
	}
	codec, err := token.NewCodec(c.Config.JWT.Secret, c.Config.JWT.TokenTTL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create token codec: %w", err)
	}
	c.Codec = codec

	// Initialize services
	c.AuthService = service.NewAuthService(c.UserRepo, c.Codec, &service.AuthServiceConfig{
		BcryptCost: cfg.BcryptCost,
		Now:        now,
	})
	c.QuestionService = service.NewQuestionService(c.QuestionRepo, &service.QuestionServiceConfig{
		Publisher: c.Publisher,
		Logger:    c.Logger,
		Now:       now,
	})

	// Initialize handlers
	checks := map[string]handler.HealthChecker{}
	if c.DB != nil {
		checks["postgres"] = c.DB
	}
	if c.Redis != nil {
		checks["redis"] = c.Redis
	}
	c.HealthHandler = handler.NewHealthHandler(checks)
	c.AuthHandler = handler.NewAuthHandler(c.AuthService, handler.CookieConfig{
		Name:   c.Config.Cookie.Name,
		Domain: c.Config.Cookie.Domain,
		Secure: c.Config.Cookie.Secure,
	})
	c.UserHandler = handler.NewUserHandler(c.AuthService)
	c.QuestionHandler = handler.NewQuestionHandler(c.QuestionService)

	return c, nil
}

// Close releases the publisher, redis and the database pool
func (c *Container) Close() {
	if c.Publisher != nil {
		_ = c.Publisher.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.DB != nil {
		c.DB.Close()
	}
}
