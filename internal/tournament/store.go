package tournament

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// New creates a Store backed by the given database and loads the persisted
// events. A load failure is logged and leaves the store empty rather than
// failing startup.
func New(db *sql.DB) Store {
	s := &store{
		db:   db,
		live: make(map[string]*liveState),
	}
	if err := s.warmLive(); err != nil {
		log.Error("Failed to load persisted events, starting with empty store", "error", err)
	}
	return s
}

// warmLive seeds the session state table for every persisted event. Judge
// references are session objects, so every event comes back unclaimed.
func (s *store) warmLive() error {
	rows, err := s.db.Query("SELECT id FROM events")
	if err != nil {
		return err
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			log.Error("Failed to scan event id", "error", err)
			continue
		}
		s.live[id] = &liveState{}
		count++
	}
	log.Info("Loaded scheduled events", "count", count)
	return rows.Err()
}

func validateParams(p CreateParams) error {
	switch {
	case p.Hour < 0 || p.Hour > 23:
		return &ValidationError{Field: "hour", Msg: "must be between 0 and 23"}
	case p.Minute < 0 || p.Minute > 59:
		return &ValidationError{Field: "minute", Msg: "must be between 0 and 59"}
	case p.Day < 1 || p.Day > 31:
		return &ValidationError{Field: "day", Msg: "must be between 1 and 31"}
	case p.Month < 1 || p.Month > 12:
		return &ValidationError{Field: "month", Msg: "must be between 1 and 12"}
	}
	return nil
}

// CreateEvent validates the parameters, assigns a fresh id and persists the
// record. The scheduled time is taken in the current year, UTC.
func (s *store) CreateEvent(params CreateParams) (*Event, error) {
	if err := validateParams(params); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	event := &Event{
		ID:           uuid.NewString(),
		ScheduledAt:  time.Date(now.Year(), time.Month(params.Month), params.Day, params.Hour, params.Minute, 0, 0, time.UTC),
		Round:        params.Round,
		Tournament:   params.Tournament,
		DateLabel:    fmt.Sprintf("%02d/%02d", params.Day, params.Month),
		TimeLabel:    fmt.Sprintf("%02d:%02d UTC", params.Hour, params.Minute),
		Team1Captain: params.Team1Captain,
		Team2Captain: params.Team2Captain,
		HostChannel:  params.HostChannel,
		CreatedBy:    params.CreatedBy,
		CreatedAt:    now,
	}

	_, err := s.db.Exec(`
		INSERT INTO events (id, scheduled_at, round, tournament, date_label, time_label, team1_captain, team2_captain, host_channel, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.ScheduledAt.Format(time.RFC3339), event.Round, event.Tournament,
		event.DateLabel, event.TimeLabel, event.Team1Captain, event.Team2Captain,
		event.HostChannel, event.CreatedBy, event.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to persist event: %w", err)
	}

	s.live[event.ID] = &liveState{}
	log.Info("Created event", "eventID", event.ID, "round", event.Round, "tournament", event.Tournament)
	return event, nil
}

func (s *store) GetEvent(id string) (*Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, scheduled_at, round, tournament, date_label, time_label, team1_captain, team2_captain, host_channel, created_by, created_at
		FROM events WHERE id = ?`, id)
	event, err := s.scanEvent(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read event %s: %w", id, err)
	}
	s.applyLiveLocked(event)
	return event, nil
}

func (s *store) AllEvents() ([]*Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, scheduled_at, round, tournament, date_label, time_label, team1_captain, team2_captain, host_channel, created_by, created_at
		FROM events ORDER BY scheduled_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		event, err := s.scanEvent(rows)
		if err != nil {
			log.Error("Skipping malformed event row", "error", err)
			continue
		}
		s.applyLiveLocked(event)
		events = append(events, event)
	}
	return events, rows.Err()
}

// DeleteEvent removes the record and returns it as it was, including the
// session judge reference so the caller can release ledger entries. The
// caller is responsible for cancelling any armed reminder first.
func (s *store) DeleteEvent(id string) (*Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRow(`
		SELECT id, scheduled_at, round, tournament, date_label, time_label, team1_captain, team2_captain, host_channel, created_by, created_at
		FROM events WHERE id = ?`, id)
	event, err := s.scanEvent(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read event %s: %w", id, err)
	}
	s.applyLiveLocked(event)

	if _, err := s.db.Exec("DELETE FROM events WHERE id = ?", id); err != nil {
		return nil, fmt.Errorf("failed to delete event %s: %w", id, err)
	}
	delete(s.live, id)
	log.Info("Deleted event", "eventID", id)
	return event, nil
}

// SetJudge updates the session judge reference. An empty judgeRef clears it.
func (s *store) SetJudge(id, judgeRef string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.live[id]
	if !ok {
		return ErrNotFound
	}
	state.judgeRef = judgeRef
	return nil
}

func (s *store) SetReminderArmed(id string, armed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.live[id]
	if !ok {
		return ErrNotFound
	}
	state.reminderArmed = armed
	return nil
}

func (s *store) RecordResult(result *Result) error {
	if result.WinnerScore < 0 || result.LoserScore < 0 {
		return &ValidationError{Field: "score", Msg: "cannot be negative"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	if result.RecordedAt.IsZero() {
		result.RecordedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(`
		INSERT INTO results (id, winner, winner_score, loser, loser_score, tournament, round, remarks, judge, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.ID, result.Winner, result.WinnerScore, result.Loser, result.LoserScore,
		result.Tournament, result.Round, result.Remarks, result.Judge,
		result.RecordedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to persist result: %w", err)
	}
	log.Info("Recorded match result", "resultID", result.ID, "winner", result.Winner, "loser", result.Loser)
	return nil
}

func (s *store) AllResults() ([]*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, winner, winner_score, loser, loser_score, tournament, round, remarks, judge, recorded_at
		FROM results ORDER BY recorded_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var results []*Result
	for rows.Next() {
		var r Result
		var remarks sql.NullString
		var recordedAt string
		if err := rows.Scan(&r.ID, &r.Winner, &r.WinnerScore, &r.Loser, &r.LoserScore, &r.Tournament, &r.Round, &remarks, &r.Judge, &recordedAt); err != nil {
			log.Error("Skipping malformed result row", "error", err)
			continue
		}
		r.Remarks = remarks.String
		ts, err := time.Parse(time.RFC3339, recordedAt)
		if err != nil {
			log.Error("Skipping result with malformed timestamp", "resultID", r.ID, "error", err)
			continue
		}
		r.RecordedAt = ts
		results = append(results, &r)
	}
	return results, rows.Err()
}

func (s *store) GetRules() (*Rules, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var r Rules
	var updatedAt string
	err := s.db.QueryRow("SELECT content, version, updated_by, updated_at FROM rules WHERE id = 1").
		Scan(&r.Content, &r.Version, &r.UpdatedBy, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read rules: %w", err)
	}
	ts, err := time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("malformed rules timestamp: %w", err)
	}
	r.UpdatedAt = ts
	return &r, nil
}

func (s *store) SetRules(content, updatedBy string) (*Rules, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	_, err := s.db.Exec(`
		INSERT INTO rules (id, content, version, updated_by, updated_at)
		VALUES (1, ?, 1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			content = excluded.content,
			version = rules.version + 1,
			updated_by = excluded.updated_by,
			updated_at = excluded.updated_at`,
		content, updatedBy, now.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save rules: %w", err)
	}

	var r Rules
	var updatedAt string
	if err := s.db.QueryRow("SELECT content, version, updated_by, updated_at FROM rules WHERE id = 1").
		Scan(&r.Content, &r.Version, &r.UpdatedBy, &updatedAt); err != nil {
		return nil, fmt.Errorf("failed to read back rules: %w", err)
	}
	r.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	log.Info("Updated tournament rules", "version", r.Version, "updatedBy", updatedBy)
	return &r, nil
}

func (s *store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		log.Error("Failed to begin transaction for clearing store", "error", err)
		return
	}
	for _, table := range []string{"events", "results", "rules"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			log.Error("Failed to clear table", "table", table, "error", err)
			tx.Rollback()
			return
		}
	}
	if err := tx.Commit(); err != nil {
		log.Error("Failed to commit transaction for clearing store", "error", err)
		return
	}
	s.live = make(map[string]*liveState)
}

// scanEvent scans a single event row. Rows with malformed timestamps are
// rejected individually so one bad record never poisons a whole load.
func (s *store) scanEvent(scanner interface{ Scan(...any) error }) (*Event, error) {
	var event Event
	var scheduledAt, createdAt string

	err := scanner.Scan(
		&event.ID, &scheduledAt, &event.Round, &event.Tournament,
		&event.DateLabel, &event.TimeLabel, &event.Team1Captain, &event.Team2Captain,
		&event.HostChannel, &event.CreatedBy, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	event.ScheduledAt, err = time.Parse(time.RFC3339, scheduledAt)
	if err != nil {
		return nil, fmt.Errorf("malformed scheduled_at for event %s: %w", event.ID, err)
	}
	event.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("malformed created_at for event %s: %w", event.ID, err)
	}
	return &event, nil
}

func (s *store) applyLiveLocked(event *Event) {
	if state, ok := s.live[event.ID]; ok {
		event.JudgeRef = state.judgeRef
		event.ReminderArmed = state.reminderArmed
	}
}
