package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mauv0809/clubhouse/internal/auth"
	"github.com/mauv0809/clubhouse/internal/club"
	"github.com/mauv0809/clubhouse/internal/config"
	"github.com/mauv0809/clubhouse/internal/metrics"
	"github.com/mauv0809/clubhouse/internal/processor"
	"github.com/mauv0809/clubhouse/internal/pubsub"
)

type Server struct {
	Store          club.ClubStore
	Auth           *auth.Service
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Processor      *processor.Processor
	PubSub         pubsub.PubSubClient
	Router         chi.Router
}

// contextKey is a custom type to avoid key collisions in context.
type contextKey string

const (
	userKey  contextKey = "user"
	tokenKey contextKey = "token"
)
