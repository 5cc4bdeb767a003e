package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client *pubsub.Client
}

// logClient is used when no GCP project is configured. It encodes messages
// the same way but only logs them.
type logClient struct{}

// EventType represents the type of event/message sent via pubsub.
// Each event type is published to the topic of the same name.
type EventType string

const (
	EventProposalSubmitted   EventType = "proposal-submitted"
	EventProposalDecided     EventType = "proposal-decided"
	EventAssignmentSubmitted EventType = "assignment-submitted"
	EventAssignmentDecided   EventType = "assignment-decided"
	EventLinkSubmitted       EventType = "link-submitted"
	EventLinkDecided         EventType = "link-decided"
	EventPromotionSubmitted  EventType = "promotion-submitted"
	EventPromotionDecided    EventType = "promotion-decided"
	EventAttendanceUploaded  EventType = "attendance-uploaded"
	EventSessionEnded        EventType = "session-ended"
)
