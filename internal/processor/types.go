package processor

import (
	"github.com/jonboulle/clockwork"
	"github.com/mauv0809/clubhouse/internal/metrics"
	"github.com/mauv0809/clubhouse/internal/pubsub"
)

// Processor applies workflow submissions and decisions and fans out their
// side effects: in-app notifications, Slack mirrors, domain events and metrics.
type Processor struct {
	store    Store
	notifier Notifier
	metrics  metrics.Metrics
	pubsub   pubsub.PubSubClient
	clock    clockwork.Clock
}

type contextKey string

const dryRunKey contextKey = "dryRun"
