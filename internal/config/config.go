package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

const (
	DefaultAPIURL  = "http://127.0.0.1:8000"
	DefaultTimeout = 15 * time.Second
)

// Load reads the server configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	// A helper function to get a required env var. It will fail if the env var is not set.
	getEnv := func(key string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		log.Fatalf("Error: Required environment variable %s is not set.", key)
		return "" // This line is never reached
	}

	cfg := Config{
		DBName: getEnv("DB_NAME"),
		Port:   getEnv("PORT"),
		Slack: SlackConfig{
			Token:     os.Getenv("SLACK_BOT_TOKEN"),
			ChannelID: os.Getenv("SLACK_CHANNEL_ID"),
		},
		Turso: TursoConfig{
			PrimaryURL: os.Getenv("TURSO_PRIMARY_URL"),
			AuthToken:  os.Getenv("TURSO_AUTH_TOKEN"),
		},
		ProjectID:   os.Getenv("GCP_PROJECT"),
		CORSOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		BcryptCost:  intEnv("BCRYPT_COST", 0),
	}
	return cfg
}

// LoadClient reads the CLI configuration. Every setting has a default so the
// CLI works against a local clubd without any environment.
func LoadClient() ClientConfig {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, reading from environment variables")
	}

	cfg := ClientConfig{
		APIURL:      stringEnv("CLUBHOUSE_API_URL", DefaultAPIURL),
		SessionFile: stringEnv("CLUBHOUSE_SESSION_FILE", defaultSessionFile()),
		AuthScheme:  stringEnv("CLUBHOUSE_AUTH_SCHEME", "Bearer"),
		RateLimit:   floatEnv("CLUBHOUSE_RATE_LIMIT", 0),
		Timeout:     durationEnv("CLUBHOUSE_TIMEOUT", DefaultTimeout),
	}
	return cfg
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".clubhouse-session.yaml"
	}
	return filepath.Join(dir, "clubhouse", "session.yaml")
}

func stringEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn("Ignoring invalid integer setting", "key", key, "value", v)
		return def
	}
	return n
}

func floatEnv(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Warn("Ignoring invalid number setting", "key", key, "value", v)
		return def
	}
	return f
}

func durationEnv(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Warn("Ignoring invalid duration setting", "key", key, "value", v)
		return def
	}
	return d
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
