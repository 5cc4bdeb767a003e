package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
type Service struct {
	WorkflowSubmitted   *prometheus.CounterVec
	Transitions         *prometheus.CounterVec
	TransitionsRejected *prometheus.CounterVec
	AttendanceRows      *prometheus.CounterVec
	SessionsEnded       prometheus.Counter
	RequestDuration     *prometheus.HistogramVec
	SlackNotifSent      prometheus.Counter
	SlackNotifFailed    prometheus.Counter
	StartupTimeSeconds  prometheus.Gauge

	counters MetricsStore
}
