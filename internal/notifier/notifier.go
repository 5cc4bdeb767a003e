package notifier

import (
	"context"

	"github.com/mauv0809/clubhouse/internal/club"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// Mirrors an in-app notification that was just delivered to recipient.
	SendNotification(ctx context.Context, recipient club.UserRef, n club.Notification, dryRun bool) error
	// Announces a decided workflow entity.
	SendDecision(ctx context.Context, d Decision, dryRun bool) error
	// Posts the report of an ended session.
	SendSessionSummary(ctx context.Context, session club.Session, summary club.SessionSummary, dryRun bool) error
}

// Decision describes a terminal transition for announcement.
type Decision struct {
	Kind    club.Kind
	Status  club.Status
	Subject string
	Actor   club.UserRef
	Remarks string
}
