package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncClaimAccepted()
	IncClaimRejected(reason string)
	IncReminderArmed()
	IncReminderFired()
	IncReminderCancelled()
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}
