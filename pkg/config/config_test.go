package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnv(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadWithPath_Defaults(t *testing.T) {
	cfg, err := LoadWithPath(writeEnv(t, "DATABASE_HOST=localhost\nDATABASE_DBNAME=interview_qa\n"))
	require.NoError(t, err)

	assert.Equal(t, "interview-qa", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 24*time.Hour, cfg.JWT.TokenTTL)
	assert.Equal(t, "token", cfg.Cookie.Name)
	assert.False(t, cfg.Cookie.Secure)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.NoError(t, cfg.ValidateDatabase())
}

func TestLoadWithPath_Overrides(t *testing.T) {
	cfg, err := LoadWithPath(writeEnv(t, `
APP_ENVIRONMENT=staging
JWT_SECRET=s3cr3t
JWT_TOKEN_TTL=1h
AUTH_COOKIE_NAME=qa_token
AUTH_COOKIE_SECURE=true
KAFKA_BROKERS=k1:9092, k2:9092
SERVER_ALLOW_ORIGINS=https://a.example.com,https://b.example.com
`))
	require.NoError(t, err)

	assert.Equal(t, "s3cr3t", cfg.JWT.Secret)
	assert.Equal(t, time.Hour, cfg.JWT.TokenTTL)
	assert.Equal(t, "qa_token", cfg.Cookie.Name)
	assert.True(t, cfg.Cookie.Secure)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Len(t, cfg.Server.AllowOrigins, 2)
}

func TestLoadWithPath_ProductionRejectsDefaultSecret(t *testing.T) {
	_, err := LoadWithPath(writeEnv(t, "APP_ENVIRONMENT=production\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT secret must be changed")
}

func TestLoadWithPath_ProductionCookieSecureByDefault(t *testing.T) {
	cfg, err := LoadWithPath(writeEnv(t, "APP_ENVIRONMENT=production\nJWT_SECRET=prod-secret\n"))
	require.NoError(t, err)
	assert.True(t, cfg.Cookie.Secure)
	assert.True(t, cfg.IsProduction())
}

func TestValidateDatabase(t *testing.T) {
	cfg := &Config{}
	assert.EqualError(t, cfg.ValidateDatabase(), "DATABASE_HOST is required")

	cfg.Database.Host = "db"
	assert.EqualError(t, cfg.ValidateDatabase(), "DATABASE_DBNAME is required")

	cfg.Database.DBName = "interview_qa"
	assert.NoError(t, cfg.ValidateDatabase())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			App:    AppConfig{Name: "x", Environment: "development"},
			Server: ServerConfig{Port: 8080},
			JWT:    JWTConfig{Secret: "s", TokenTTL: time.Hour},
			Cookie: CookieConfig{Name: "token"},
		}
	}

	require.NoError(t, valid().Validate())

	c := valid()
	c.Server.Port = 70000
	assert.Error(t, c.Validate())

	c = valid()
	c.JWT.TokenTTL = 0
	assert.Error(t, c.Validate())

	c = valid()
	c.Kafka.Enabled = true
	assert.Error(t, c.Validate())
}
