package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncWorkflowSubmitted(kind string)
	IncTransition(kind, status string)
	IncTransitionRejected(kind string)
	ObserveAttendanceRows(updated, failed int)
	IncSessionsEnded()
	ObserveRequestDuration(route string, seconds float64)
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}

// MetricsStore persists counters across restarts.
type MetricsStore interface {
	Increment(key string)
	GetAll() (map[string]int, error)
}
