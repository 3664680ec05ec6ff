package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// Service is the Prometheus-backed Metrics implementation.
type Service struct {
	ClaimsAccepted     prometheus.Counter
	ClaimsRejected     *prometheus.CounterVec
	RemindersArmed     prometheus.Counter
	RemindersFired     prometheus.Counter
	RemindersCancelled prometheus.Counter
	SlackNotifSent     prometheus.Counter
	SlackNotifFailed   prometheus.Counter
	StartupTime        prometheus.Gauge
}

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
		ClaimsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchday_claims_accepted_total",
			Help: "The total number of successful schedule claims.",
		}),
		ClaimsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "matchday_claims_rejected_total",
			Help: "The total number of rejected claim attempts, by reason.",
		}, []string{"reason"}),
		RemindersArmed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchday_reminders_armed_total",
			Help: "The total number of reminder timers armed.",
		}),
		RemindersFired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchday_reminders_fired_total",
			Help: "The total number of reminders dispatched.",
		}),
		RemindersCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchday_reminders_cancelled_total",
			Help: "The total number of reminder timers cancelled before firing.",
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchday_slack_notifications_sent_total",
			Help: "The total number of Slack notifications sent successfully.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchday_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "matchday_startup_time_seconds",
			Help: "The time it took the application to start, in seconds.",
		}),
	}

	reg.MustRegister(
		s.ClaimsAccepted,
		s.ClaimsRejected,
		s.RemindersArmed,
		s.RemindersFired,
		s.RemindersCancelled,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTime,
	)
	return s
}

func (s *Service) IncClaimAccepted()             { s.ClaimsAccepted.Inc() }
func (s *Service) IncClaimRejected(reason string) { s.ClaimsRejected.WithLabelValues(reason).Inc() }
func (s *Service) IncReminderArmed()             { s.RemindersArmed.Inc() }
func (s *Service) IncReminderFired()             { s.RemindersFired.Inc() }
func (s *Service) IncReminderCancelled()         { s.RemindersCancelled.Inc() }
func (s *Service) IncSlackNotifSent()            { s.SlackNotifSent.Inc() }
func (s *Service) IncSlackNotifFailed()          { s.SlackNotifFailed.Inc() }
func (s *Service) SetStartupTime(duration float64) { s.StartupTime.Set(duration) }
