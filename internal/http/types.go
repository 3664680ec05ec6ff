package http

import (
	"net/http"

	"github.com/icf-tools/matchday/internal/access"
	"github.com/icf-tools/matchday/internal/claim"
	"github.com/icf-tools/matchday/internal/config"
	"github.com/icf-tools/matchday/internal/judges"
	"github.com/icf-tools/matchday/internal/matchmaking"
	"github.com/icf-tools/matchday/internal/metrics"
	"github.com/icf-tools/matchday/internal/notifier"
	"github.com/icf-tools/matchday/internal/pubsub"
	"github.com/icf-tools/matchday/internal/reminder"
	"github.com/icf-tools/matchday/internal/tournament"
)

type Server struct {
	Store          tournament.Store
	Ledger         *judges.Ledger
	Machine        *claim.Machine
	Scheduler      *reminder.Scheduler
	Matchmaker     *matchmaking.Service
	Authorizer     access.Authorizer
	Notifier       notifier.Notifier
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Router         *http.ServeMux

	pubsub pubsub.PubSubClient
}
