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

func NewServer(
	store tournament.Store,
	ledger *judges.Ledger,
	machine *claim.Machine,
	scheduler *reminder.Scheduler,
	matchmaker *matchmaking.Service,
	authorizer access.Authorizer,
	notifier notifier.Notifier,
	metricsSvc metrics.Metrics,
	metricsHandler http.Handler,
	cfg config.Config,
	pubsubClient pubsub.PubSubClient,
) *Server {
	server := &Server{
		Store:          store,
		Ledger:         ledger,
		Machine:        machine,
		Scheduler:      scheduler,
		Matchmaker:     matchmaker,
		Authorizer:     authorizer,
		Notifier:       notifier,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
		pubsub:         pubsubClient,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// Slash command routes additionally verify the Slack request signature.
	slackVerify := slackVerifyMiddleware(s.Cfg.Slack.SigningSecret)

	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("/clear", Chain(s.ClearStoreHandler(), paramsMiddleware))
	s.Router.Handle("/events", Chain(s.ListEventsHandler(), paramsMiddleware))
	s.Router.Handle("/judges", Chain(s.ListJudgesHandler(), paramsMiddleware))
	s.Router.Handle("/slack/command/event-create", Chain(s.EventCreateCommandHandler(), slackVerify, paramsMiddleware))
	s.Router.Handle("/slack/command/event-delete", Chain(s.EventDeleteCommandHandler(), slackVerify, paramsMiddleware))
	s.Router.Handle("/slack/command/event-list", Chain(s.EventListCommandHandler(), slackVerify, paramsMiddleware))
	s.Router.Handle("/slack/command/take-schedule", Chain(s.TakeScheduleCommandHandler(), slackVerify, paramsMiddleware))
	s.Router.Handle("/slack/command/release-schedule", Chain(s.ReleaseScheduleCommandHandler(), slackVerify, paramsMiddleware))
	s.Router.Handle("/slack/command/exchange-judge", Chain(s.ExchangeJudgeCommandHandler(), slackVerify, paramsMiddleware))
	s.Router.Handle("/slack/command/event-result", Chain(s.EventResultCommandHandler(), slackVerify, paramsMiddleware))
	s.Router.Handle("/slack/command/rules", Chain(s.RulesCommandHandler(), slackVerify, paramsMiddleware))
	s.Router.Handle("/slack/command/team-balance", Chain(s.TeamBalanceCommandHandler(), slackVerify, paramsMiddleware))
	s.Router.Handle("/slack/command/choose", Chain(s.ChooseCommandHandler(), slackVerify, paramsMiddleware))
	s.Router.Handle("/slack/command/match-time", Chain(s.MatchTimeCommandHandler(), slackVerify, paramsMiddleware))
	s.Router.Handle("/slack/command/tie-breaker", Chain(s.TieBreakerCommandHandler(), slackVerify, paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
