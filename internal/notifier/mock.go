package notifier

import (
	"context"
	"sync"

	"github.com/mauv0809/clubhouse/internal/club"
)

var _ Notifier = (*Mock)(nil)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies
	SendNotificationFunc   func(recipient club.UserRef, n club.Notification) error
	SendDecisionFunc       func(d Decision) error
	SendSessionSummaryFunc func(session club.Session, summary club.SessionSummary) error

	// Call records
	SendNotificationCalls []struct {
		Recipient    club.UserRef
		Notification club.Notification
	}
	SendDecisionCalls       []Decision
	SendSessionSummaryCalls []club.SessionSummary
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendNotificationCalls = nil
	m.SendDecisionCalls = nil
	m.SendSessionSummaryCalls = nil
}

func (m *Mock) SendNotification(ctx context.Context, recipient club.UserRef, n club.Notification, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendNotificationCalls = append(m.SendNotificationCalls, struct {
		Recipient    club.UserRef
		Notification club.Notification
	}{recipient, n})
	if m.SendNotificationFunc != nil {
		return m.SendNotificationFunc(recipient, n)
	}
	return nil
}

func (m *Mock) SendDecision(ctx context.Context, d Decision, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendDecisionCalls = append(m.SendDecisionCalls, d)
	if m.SendDecisionFunc != nil {
		return m.SendDecisionFunc(d)
	}
	return nil
}

func (m *Mock) SendSessionSummary(ctx context.Context, session club.Session, summary club.SessionSummary, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendSessionSummaryCalls = append(m.SendSessionSummaryCalls, summary)
	if m.SendSessionSummaryFunc != nil {
		return m.SendSessionSummaryFunc(session, summary)
	}
	return nil
}
