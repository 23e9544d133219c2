// Command migrate applies the embedded schema migrations and exits.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prohmpiriya/interview-qa/internal/migrations"
	"github.com/prohmpiriya/interview-qa/pkg/config"
	"github.com/prohmpiriya/interview-qa/pkg/database"
	"github.com/prohmpiriya/interview-qa/pkg/logger"
	"go.uber.org/zap"
)

type pooledDB interface {
	Pool() *pgxpool.Pool
	Close()
}

var (
	connect = func(ctx context.Context, cfg *database.PostgresConfig) (pooledDB, error) {
		return database.NewPostgres(ctx, cfg)
	}
	migrateUp = migrations.Up
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(&logger.Config{
		Level:       cfg.App.LogLevel,
		ServiceName: "interview-qa-migrate",
		Development: cfg.IsDevelopment(),
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := run(ctx, cfg); err != nil {
		appLog.Fatal("Migrations failed", zap.Error(err))
	}
	appLog.Info("Migrations applied")
}

func run(ctx context.Context, cfg *config.Config) error {
	if err := cfg.ValidateDatabase(); err != nil {
		return fmt.Errorf("database configuration missing: %w", err)
	}

	db, err := connect(ctx, &database.PostgresConfig{
		Host:          cfg.Database.Host,
		Port:          cfg.Database.Port,
		User:          cfg.Database.User,
		Password:      cfg.Database.Password,
		Database:      cfg.Database.DBName,
		SSLMode:       cfg.Database.SSLMode,
		MaxConns:      2,
		MaxRetries:    5,
		RetryInterval: 2 * time.Second,
	})
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer db.Close()

	return migrateUp(ctx, db.Pool())
}
