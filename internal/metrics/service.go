package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		WorkflowSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clubhouse_workflow_submitted_total",
			Help: "The total number of workflow entities created, by kind.",
		}, []string{"kind"}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clubhouse_transitions_total",
			Help: "The total number of applied status transitions, by kind and resulting status.",
		}, []string{"kind", "status"}),
		TransitionsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clubhouse_transitions_rejected_total",
			Help: "The total number of decisions refused because the entity was no longer pending.",
		}, []string{"kind"}),
		AttendanceRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clubhouse_attendance_rows_total",
			Help: "The total number of attendance CSV rows processed, by outcome.",
		}, []string{"outcome"}),
		SessionsEnded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clubhouse_sessions_ended_total",
			Help: "The total number of sessions ended.",
		}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "clubhouse_http_request_duration_seconds",
			Help:    "The duration of API requests, by route pattern.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"route"}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clubhouse_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clubhouse_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "clubhouse_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.WorkflowSubmitted,
		s.Transitions,
		s.TransitionsRejected,
		s.AttendanceRows,
		s.SessionsEnded,
		s.RequestDuration,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

// PersistTo mirrors workflow counters into store so they survive restarts.
func (s *Service) PersistTo(store MetricsStore) *Service {
	s.counters = store
	return s
}

func (s *Service) persist(key string) {
	if s.counters != nil {
		s.counters.Increment(key)
	}
}

func (s *Service) IncWorkflowSubmitted(kind string) {
	s.WorkflowSubmitted.WithLabelValues(kind).Inc()
	s.persist(kind + ".submitted")
}

func (s *Service) IncTransition(kind, status string) {
	s.Transitions.WithLabelValues(kind, status).Inc()
	s.persist(kind + "." + status)
}

func (s *Service) IncTransitionRejected(kind string) {
	s.TransitionsRejected.WithLabelValues(kind).Inc()
}

func (s *Service) ObserveAttendanceRows(updated, failed int) {
	s.AttendanceRows.WithLabelValues("updated").Add(float64(updated))
	s.AttendanceRows.WithLabelValues("failed").Add(float64(failed))
}

func (s *Service) IncSessionsEnded() {
	s.SessionsEnded.Inc()
	s.persist("session.ended")
}

func (s *Service) ObserveRequestDuration(route string, seconds float64) {
	s.RequestDuration.WithLabelValues(route).Observe(seconds)
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
