package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("DB_NAME", "club.db")
	t.Setenv("PORT", "8000")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, https://club.example ,")
	t.Setenv("BCRYPT_COST", "4")

	cfg := Load()
	assert.Equal(t, "club.db", cfg.DBName)
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, []string{"http://localhost:3000", "https://club.example"}, cfg.CORSOrigins)
	assert.Equal(t, 4, cfg.BcryptCost)
	assert.Empty(t, cfg.Slack.Token)
}

func TestLoadClient_Defaults(t *testing.T) {
	t.Setenv("CLUBHOUSE_API_URL", "")
	t.Setenv("CLUBHOUSE_TIMEOUT", "")
	t.Setenv("CLUBHOUSE_AUTH_SCHEME", "")

	cfg := LoadClient()
	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, "Bearer", cfg.AuthScheme)
	assert.NotEmpty(t, cfg.SessionFile)
}

func TestLoadClient_Overrides(t *testing.T) {
	t.Setenv("CLUBHOUSE_API_URL", "https://api.club.example")
	t.Setenv("CLUBHOUSE_AUTH_SCHEME", "Token")
	t.Setenv("CLUBHOUSE_RATE_LIMIT", "2.5")
	t.Setenv("CLUBHOUSE_TIMEOUT", "3s")
	t.Setenv("CLUBHOUSE_SESSION_FILE", "/tmp/s.yaml")

	cfg := LoadClient()
	assert.Equal(t, "https://api.club.example", cfg.APIURL)
	assert.Equal(t, "Token", cfg.AuthScheme)
	assert.Equal(t, 2.5, cfg.RateLimit)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, "/tmp/s.yaml", cfg.SessionFile)
}

func TestLoadClient_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("CLUBHOUSE_RATE_LIMIT", "fast")
	t.Setenv("CLUBHOUSE_TIMEOUT", "soon")

	cfg := LoadClient()
	assert.Equal(t, 0.0, cfg.RateLimit)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
}
