package claim

import "fmt"

// Reason is the closed set of causes for refusing a judge-slot operation.
// Handlers map each reason to its own user-facing message.
type Reason string

const (
	ReasonNotFound         Reason = "not_found"
	ReasonBusy             Reason = "busy"
	ReasonUnauthorized     Reason = "unauthorized"
	ReasonAlreadyClaimed   Reason = "already_claimed"
	ReasonCapacityExceeded Reason = "capacity_exceeded"
	ReasonNotHolder        Reason = "not_holder"
)

// Rejection is the error returned when an operation is refused for a
// business reason rather than an infrastructure failure. Detail carries
// reason-specific context: the current holder for ReasonAlreadyClaimed,
// the capacity limit for ReasonCapacityExceeded.
type Rejection struct {
	Reason Reason
	Detail string
}

func (r *Rejection) Error() string {
	if r.Detail != "" {
		return fmt.Sprintf("operation rejected: %s (%s)", r.Reason, r.Detail)
	}
	return fmt.Sprintf("operation rejected: %s", r.Reason)
}

func reject(reason Reason, detail string) *Rejection {
	return &Rejection{Reason: reason, Detail: detail}
}
