package config

import "time"

// Config holds all configuration for the clubd server.
type Config struct {
	DBName      string
	Port        string
	Slack       SlackConfig
	Turso       TursoConfig
	ProjectID   string
	CORSOrigins []string
	BcryptCost  int
}

type SlackConfig struct {
	Token     string
	ChannelID string
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

// ClientConfig holds the settings of the clubhouse CLI.
type ClientConfig struct {
	APIURL      string
	SessionFile string
	AuthScheme  string
	RateLimit   float64
	Timeout     time.Duration
}
