package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/icf-tools/matchday/internal/access"
	"github.com/icf-tools/matchday/internal/claim"
	"github.com/icf-tools/matchday/internal/matchmaking"
	"github.com/icf-tools/matchday/internal/pubsub"
	"github.com/icf-tools/matchday/internal/tournament"
	"github.com/slack-go/slack"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) ClearStoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID := r.URL.Query().Get("eventID")
		if eventID != "" {
			log.Info("Received request to clear a specific event", "eventID", eventID)
			if _, err := s.Store.DeleteEvent(eventID); err != nil {
				http.Error(w, "Failed to clear event", http.StatusInternalServerError)
				log.Error("Failed to clear event", "eventID", eventID, "error", err)
				return
			}
			s.Scheduler.Cancel(eventID)
			w.WriteHeader(http.StatusOK)
			fmt.Fprintf(w, "Cleared event %s from store!", eventID)
		} else {
			log.Info("Received request to clear entire store")
			s.Store.Clear()
			s.Scheduler.Stop()
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, "Store cleared!")
			log.Info("Store cleared successfully")
		}
	}
}

func (s *Server) ListEventsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		events, err := s.Store.AllEvents()
		if err != nil {
			http.Error(w, "Failed to get events", http.StatusInternalServerError)
			log.Error("Failed to get events from store", "error", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(events); err != nil {
			log.Error("Failed to encode events to JSON", "error", err)
		}
	}
}

func (s *Server) ListJudgesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(s.Ledger.Snapshot()); err != nil {
			log.Error("Failed to encode judge assignments to JSON", "error", err)
		}
	}
}

// respondWithSlackMsg is a helper to format and write a Slack message as an HTTP response.
func respondWithSlackMsg(w http.ResponseWriter, msg slack.Message) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(msg); err != nil {
		log.Error("Failed to encode slack message to JSON", "error", err)
	}
}

// respondFormatted writes a formatted notifier response back to the slash
// command caller.
func respondFormatted(w http.ResponseWriter, msg any, err error) {
	if err != nil {
		http.Error(w, "Failed to format response", http.StatusInternalServerError)
		log.Error("Failed to format response", "error", err)
		return
	}
	slackMsg, ok := msg.(slack.Message)
	if !ok {
		http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
		log.Error("Failed to cast message to slack.Message")
		return
	}
	respondWithSlackMsg(w, slackMsg)
}

// respondOperationError answers a refused or failed slot operation. Business
// rejections become a 200 with a reason-specific message so Slack shows them
// to the caller; anything else is a plain 500.
func (s *Server) respondOperationError(w http.ResponseWriter, err error) {
	var rej *claim.Rejection
	if errors.As(err, &rej) {
		msg, fmtErr := s.Notifier.FormatRejectionResponse(string(rej.Reason), rej.Detail)
		respondFormatted(w, msg, fmtErr)
		return
	}
	http.Error(w, "Operation failed", http.StatusInternalServerError)
	log.Error("Slot operation failed", "error", err)
}

// parseUserRef strips Slack mention escaping (<@U123|name>) down to the user ID.
func parseUserRef(token string) string {
	token = strings.TrimPrefix(token, "<@")
	token = strings.TrimSuffix(token, ">")
	if i := strings.IndexByte(token, '|'); i >= 0 {
		token = token[:i]
	}
	return token
}

// EventCreateCommandHandler handles the event-create slash command. The text
// is "<@cap1> <@cap2> hour minute day month round tournament...".
func (s *Server) EventCreateCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		actorID := r.FormValue("user_id")
		if !s.Authorizer.HasCapability(r.Context(), actorID, access.CapabilityOrganizer) {
			msg, err := s.Notifier.FormatRejectionResponse(string(claim.ReasonUnauthorized), "")
			respondFormatted(w, msg, err)
			return
		}

		fields := strings.Fields(r.FormValue("text"))
		if len(fields) < 8 {
			http.Error(w, "Usage: @team1-captain @team2-captain hour minute day month round tournament", http.StatusBadRequest)
			return
		}
		nums := make([]int, 5)
		for i, field := range fields[2:7] {
			n, err := strconv.Atoi(field)
			if err != nil {
				http.Error(w, fmt.Sprintf("Expected a number, got %q", field), http.StatusBadRequest)
				return
			}
			nums[i] = n
		}

		params := tournament.CreateParams{
			Team1Captain: parseUserRef(fields[0]),
			Team2Captain: parseUserRef(fields[1]),
			Hour:         nums[0],
			Minute:       nums[1],
			Day:          nums[2],
			Month:        nums[3],
			Round:        nums[4],
			Tournament:   strings.Join(fields[7:], " "),
			HostChannel:  r.FormValue("channel_id"),
			CreatedBy:    actorID,
		}

		event, err := s.Store.CreateEvent(params)
		if err != nil {
			var vErr *tournament.ValidationError
			if errors.As(err, &vErr) {
				http.Error(w, vErr.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "Failed to create event", http.StatusInternalServerError)
			log.Error("Failed to create event", "error", err)
			return
		}

		isDryRun := isDryRunFromContext(r)
		s.Scheduler.Arm(event)
		if err := s.Notifier.SendMatchScheduled(event, isDryRun); err != nil {
			log.Error("Failed to announce scheduled match", "event_id", event.ID, "error", err)
		}
		if err := s.pubsub.SendMessage(pubsub.EventMatchScheduled, event); err != nil {
			log.Error("Failed to publish scheduled match", "event_id", event.ID, "error", err)
		}

		msg, err := s.Notifier.FormatEventCreatedResponse(event)
		respondFormatted(w, msg, err)
	}
}

// EventDeleteCommandHandler handles the event-delete slash command. The text
// is the event ID.
func (s *Server) EventDeleteCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		eventID := strings.TrimSpace(r.FormValue("text"))
		if eventID == "" {
			http.Error(w, "Event ID is required.", http.StatusBadRequest)
			return
		}

		event, err := s.Machine.Delete(r.Context(), eventID, r.FormValue("user_id"))
		if err != nil {
			s.respondOperationError(w, err)
			return
		}

		msg, err := s.Notifier.FormatEventDeletedResponse(event)
		respondFormatted(w, msg, err)
	}
}

// EventListCommandHandler handles the event-list slash command.
func (s *Server) EventListCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		events, err := s.Store.AllEvents()
		if err != nil {
			http.Error(w, "Failed to get events", http.StatusInternalServerError)
			log.Error("Failed to get events from store", "error", err)
			return
		}
		msg, err := s.Notifier.FormatEventListResponse(events)
		respondFormatted(w, msg, err)
	}
}

// TakeScheduleCommandHandler handles the take-schedule slash command. The
// text is the event ID; the caller becomes the judge if the slot is free.
func (s *Server) TakeScheduleCommandHandler() http.HandlerFunc {
	return s.slotCommandHandler(s.Machine.Claim)
}

// ReleaseScheduleCommandHandler handles the release-schedule slash command.
func (s *Server) ReleaseScheduleCommandHandler() http.HandlerFunc {
	return s.slotCommandHandler(s.Machine.Release)
}

// ExchangeJudgeCommandHandler handles the exchange-judge slash command. The
// text is "<event id> <@old judge> <@new judge>"; only organizers may order
// the handover.
func (s *Server) ExchangeJudgeCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		fields := strings.Fields(r.FormValue("text"))
		if len(fields) != 3 {
			http.Error(w, "Usage: event-id @old-judge @new-judge", http.StatusBadRequest)
			return
		}
		eventID := fields[0]
		oldJudgeID := parseUserRef(fields[1])
		newJudgeID := parseUserRef(fields[2])

		event, err := s.Machine.Exchange(r.Context(), eventID, oldJudgeID, newJudgeID, r.FormValue("user_id"), isDryRunFromContext(r))
		if err != nil {
			s.respondOperationError(w, err)
			return
		}

		msg, err := s.Notifier.FormatEventListResponse([]*tournament.Event{event})
		respondFormatted(w, msg, err)
	}
}

// slotCommandHandler is the shared shape of the claim and release commands:
// event ID in the text, actor from the form, a formatted event list entry on
// success and a reason-specific message on rejection.
func (s *Server) slotCommandHandler(op func(ctx context.Context, eventID, actorID string, dryRun bool) (*tournament.Event, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		eventID := strings.TrimSpace(r.FormValue("text"))
		if eventID == "" {
			http.Error(w, "Event ID is required.", http.StatusBadRequest)
			return
		}

		event, err := op(r.Context(), eventID, r.FormValue("user_id"), isDryRunFromContext(r))
		if err != nil {
			s.respondOperationError(w, err)
			return
		}

		msg, err := s.Notifier.FormatEventListResponse([]*tournament.Event{event})
		respondFormatted(w, msg, err)
	}
}

// EventResultCommandHandler handles the event-result slash command. The text
// is "winner | winner score | loser | loser score | tournament | round [| remarks]".
func (s *Server) EventResultCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		actorID := r.FormValue("user_id")
		if !s.Authorizer.HasCapability(r.Context(), actorID, access.CapabilityOrganizer) {
			msg, err := s.Notifier.FormatRejectionResponse(string(claim.ReasonUnauthorized), "")
			respondFormatted(w, msg, err)
			return
		}

		parts := strings.Split(r.FormValue("text"), "|")
		if len(parts) < 6 {
			http.Error(w, "Usage: winner | winner score | loser | loser score | tournament | round [| remarks]", http.StatusBadRequest)
			return
		}
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		winnerScore, err := strconv.Atoi(parts[1])
		if err != nil {
			http.Error(w, fmt.Sprintf("Invalid winner score %q", parts[1]), http.StatusBadRequest)
			return
		}
		loserScore, err := strconv.Atoi(parts[3])
		if err != nil {
			http.Error(w, fmt.Sprintf("Invalid loser score %q", parts[3]), http.StatusBadRequest)
			return
		}

		result := &tournament.Result{
			Winner:      parts[0],
			WinnerScore: winnerScore,
			Loser:       parts[2],
			LoserScore:  loserScore,
			Tournament:  parts[4],
			Round:       parts[5],
			Judge:       actorID,
		}
		if len(parts) > 6 {
			result.Remarks = parts[6]
		}

		if err := s.Store.RecordResult(result); err != nil {
			var vErr *tournament.ValidationError
			if errors.As(err, &vErr) {
				http.Error(w, vErr.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "Failed to record result", http.StatusInternalServerError)
			log.Error("Failed to record result", "error", err)
			return
		}

		isDryRun := isDryRunFromContext(r)
		if err := s.Notifier.SendMatchResult(result, isDryRun); err != nil {
			log.Error("Failed to announce result", "error", err)
		}
		if err := s.Notifier.SendStaffReport(result, isDryRun); err != nil {
			log.Error("Failed to send staff report", "error", err)
		}
		if err := s.pubsub.SendMessage(pubsub.EventMatchResult, result); err != nil {
			log.Error("Failed to publish result", "error", err)
		}

		msg, err := s.Notifier.FormatResultRecordedResponse(result)
		respondFormatted(w, msg, err)
	}
}

// RulesCommandHandler handles the rules slash command. An empty text shows
// the current rules; "set <content>" publishes a new version.
func (s *Server) RulesCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		text := strings.TrimSpace(r.FormValue("text"))

		if content, ok := strings.CutPrefix(text, "set "); ok {
			actorID := r.FormValue("user_id")
			if !s.Authorizer.HasCapability(r.Context(), actorID, access.CapabilityOrganizer) {
				msg, err := s.Notifier.FormatRejectionResponse(string(claim.ReasonUnauthorized), "")
				respondFormatted(w, msg, err)
				return
			}
			rules, err := s.Store.SetRules(strings.TrimSpace(content), actorID)
			if err != nil {
				http.Error(w, "Failed to update rules", http.StatusInternalServerError)
				log.Error("Failed to update rules", "error", err)
				return
			}
			msg, err := s.Notifier.FormatRulesResponse(rules)
			respondFormatted(w, msg, err)
			return
		}

		rules, err := s.Store.GetRules()
		if err != nil {
			http.Error(w, "Failed to get rules", http.StatusInternalServerError)
			log.Error("Failed to get rules", "error", err)
			return
		}
		msg, err := s.Notifier.FormatRulesResponse(rules)
		respondFormatted(w, msg, err)
	}
}

// TeamBalanceCommandHandler handles the team-balance slash command. The text
// is a comma-separated list of player levels.
func (s *Server) TeamBalanceCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		levels, err := matchmaking.ParseLevels(r.FormValue("text"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		split, err := s.Matchmaker.BalanceTeams(levels)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		msg, err := s.Notifier.FormatTeamBalanceResponse(split)
		respondFormatted(w, msg, err)
	}
}

// ChooseCommandHandler handles the choose slash command.
func (s *Server) ChooseCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		choice, err := s.Matchmaker.Choose(r.FormValue("text"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		msg, err := s.Notifier.FormatChoiceResponse(choice)
		respondFormatted(w, msg, err)
	}
}

// MatchTimeCommandHandler handles the match-time slash command.
func (s *Server) MatchTimeCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		msg, err := s.Notifier.FormatTimeSlotResponse(s.Matchmaker.RandomTimeSlot())
		respondFormatted(w, msg, err)
	}
}

// TieBreakerCommandHandler handles the tie-breaker slash command. The text
// is "name1 score score ... | name2 score score ..."; names are optional.
func (s *Server) TieBreakerCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		actorID := r.FormValue("user_id")
		if !s.Authorizer.HasCapability(r.Context(), actorID, access.CapabilityOrganizer) {
			msg, err := s.Notifier.FormatRejectionResponse(string(claim.ReasonUnauthorized), "")
			respondFormatted(w, msg, err)
			return
		}

		sides := strings.Split(r.FormValue("text"), "|")
		if len(sides) != 2 {
			http.Error(w, "Usage: [team1 name] scores... | [team2 name] scores...", http.StatusBadRequest)
			return
		}
		name1, scores1, err := parseTieBreakerSide(sides[0])
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		name2, scores2, err := parseTieBreakerSide(sides[1])
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		result := s.Matchmaker.TieBreaker(name1, scores1, name2, scores2)
		msg, err := s.Notifier.FormatTieBreakerResponse(result)
		respondFormatted(w, msg, err)
	}
}

// parseTieBreakerSide parses one team's half of the tie-breaker text. A
// leading non-numeric token is the team name.
func parseTieBreakerSide(side string) (string, []int, error) {
	fields := strings.Fields(side)
	if len(fields) == 0 {
		return "", nil, errors.New("each side needs at least one score")
	}

	name := ""
	if _, err := strconv.Atoi(fields[0]); err != nil {
		name = fields[0]
		fields = fields[1:]
	}

	if len(fields) == 0 {
		return "", nil, fmt.Errorf("no scores given for team %q", name)
	}
	scores := make([]int, 0, len(fields))
	for _, f := range fields {
		score, err := strconv.Atoi(f)
		if err != nil {
			return "", nil, fmt.Errorf("invalid score %q", f)
		}
		scores = append(scores, score)
	}
	return name, scores, nil
}
