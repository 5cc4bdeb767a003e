package metrics

import "sync"

var _ Metrics = (*Mock)(nil)

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                  sync.Mutex
	submitted           map[string]int
	transitions         map[string]int
	transitionsRejected map[string]int
	attendanceUpdated   int
	attendanceFailed    int
	sessionsEnded       int
	requestDurations    map[string][]float64
	slackNotifSent      int
	slackNotifFailed    int
	startupTime         float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		submitted:           make(map[string]int),
		transitions:         make(map[string]int),
		transitionsRejected: make(map[string]int),
		requestDurations:    make(map[string][]float64),
	}
}

func (m *Mock) IncWorkflowSubmitted(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submitted[kind]++
}

func (m *Mock) IncTransition(kind, status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transitions[kind+"."+status]++
}

func (m *Mock) IncTransitionRejected(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transitionsRejected[kind]++
}

func (m *Mock) ObserveAttendanceRows(updated, failed int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attendanceUpdated += updated
	m.attendanceFailed += failed
}

func (m *Mock) IncSessionsEnded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessionsEnded++
}

func (m *Mock) ObserveRequestDuration(route string, seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestDurations[route] = append(m.requestDurations[route], seconds)
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// Submitted returns how many entities of kind were created.
func (m *Mock) Submitted(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.submitted[kind]
}

// Transitions returns how many transitions of kind ended in status.
func (m *Mock) Transitions(kind, status string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.transitions[kind+"."+status]
}

// TransitionsRejected returns how many decisions on kind were refused.
func (m *Mock) TransitionsRejected(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.transitionsRejected[kind]
}

// AttendanceRows returns the updated and failed row totals.
func (m *Mock) AttendanceRows() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attendanceUpdated, m.attendanceFailed
}

func (m *Mock) SessionsEnded() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionsEnded
}

// RequestCount returns how many requests were observed for route.
func (m *Mock) RequestCount(route string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requestDurations[route])
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}
