package processor

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"
	"github.com/mauv0809/clubhouse/internal/club"
	"github.com/mauv0809/clubhouse/internal/metrics"
	"github.com/mauv0809/clubhouse/internal/notifier"
	"github.com/mauv0809/clubhouse/internal/pubsub"
)

// New creates a new Processor.
func New(store Store, notifier Notifier, metrics metrics.Metrics, pubsub pubsub.PubSubClient) *Processor {
	return NewWithClock(store, notifier, metrics, pubsub, clockwork.NewRealClock())
}

// NewWithClock is New with an explicit clock for event timestamps.
func NewWithClock(store Store, notifier Notifier, metrics metrics.Metrics, pubsub pubsub.PubSubClient, clock clockwork.Clock) *Processor {
	return &Processor{
		store:    store,
		notifier: notifier,
		metrics:  metrics,
		pubsub:   pubsub,
		clock:    clock,
	}
}

// WithDryRun marks ctx so that Slack messages and events are logged instead of sent.
func WithDryRun(ctx context.Context, dryRun bool) context.Context {
	return context.WithValue(ctx, dryRunKey, dryRun)
}

// IsDryRun reports whether ctx was marked with WithDryRun.
func IsDryRun(ctx context.Context) bool {
	dryRun, ok := ctx.Value(dryRunKey).(bool)
	return ok && dryRun
}

// notify stores an in-app notification for recipient and mirrors it to Slack.
// Failures are logged; the action that triggered the notification has already happened.
func (p *Processor) notify(ctx context.Context, recipient club.UserRef, kind, title, message string) {
	n, err := p.store.CreateNotification(ctx, recipient.ID, club.Notification{Title: title, Message: message, Type: kind})
	if err != nil {
		log.Error("Failed to create notification", "error", err, "userID", recipient.ID, "title", title)
		return
	}
	if err := p.notifier.SendNotification(ctx, recipient, n, IsDryRun(ctx)); err != nil {
		log.Warn("Failed to mirror notification to Slack", "error", err, "userID", recipient.ID)
	}
}

func (p *Processor) announce(ctx context.Context, d notifier.Decision) {
	if err := p.notifier.SendDecision(ctx, d, IsDryRun(ctx)); err != nil {
		log.Warn("Failed to announce decision", "error", err, "kind", d.Kind, "status", d.Status)
	}
}

func (p *Processor) publish(ctx context.Context, topic pubsub.EventType, entityID int64, status club.Status, actorID int64, remarks string) {
	event := club.Event{
		Type:      string(topic),
		EntityID:  entityID,
		Status:    status,
		ActorID:   actorID,
		Remarks:   remarks,
		Timestamp: p.clock.Now().UTC(),
	}
	if IsDryRun(ctx) {
		log.Info("[Dry Run] Would publish event", "topic", topic, "entityID", entityID, "status", status)
		return
	}
	if err := p.pubsub.SendMessage(ctx, topic, event); err != nil {
		log.Error("Failed to publish event", "error", err, "topic", topic, "entityID", entityID)
	}
}

// transition validates a verdict against the entity's current status and
// counts refused decisions.
func (p *Processor) transition(kind club.Kind, current club.Status, v club.Verdict) (club.Status, error) {
	status, err := club.Transition(kind, current, v)
	if err != nil {
		p.metrics.IncTransitionRejected(string(kind))
		log.Warn("Decision refused", "kind", kind, "current", current, "verdict", v, "error", err)
		return "", err
	}
	return status, nil
}

func (p *Processor) refused(kind club.Kind, err error) error {
	p.metrics.IncTransitionRejected(string(kind))
	return err
}

func (p *Processor) decided(kind club.Kind, status club.Status) {
	p.metrics.IncTransition(string(kind), string(status))
	log.Info("Decision applied", "kind", kind, "status", status)
}

func isAdmin(u club.User) bool {
	return u.Role == club.RoleAdmin
}
