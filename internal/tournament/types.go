package tournament

import (
	"database/sql"
	"fmt"
	"sync"
	"time"
)

// store handles all database operations for tournament events.
type store struct {
	db *sql.DB
	mu sync.RWMutex
	// live holds the session-scoped fields of each event. Judge assignments
	// are not persisted; a restart resets every event to unclaimed.
	live map[string]*liveState
}

type liveState struct {
	judgeRef      string
	reminderArmed bool
}

// Event is one scheduled tournament match.
type Event struct {
	ID           string    `json:"id"`
	ScheduledAt  time.Time `json:"scheduled_at"`
	Round        int       `json:"round"`
	Tournament   string    `json:"tournament"`
	DateLabel    string    `json:"date_label"`
	TimeLabel    string    `json:"time_label"`
	Team1Captain string    `json:"team1_captain"`
	Team2Captain string    `json:"team2_captain"`
	HostChannel  string    `json:"host_channel"`
	CreatedBy    string    `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`

	// JudgeRef and ReminderArmed are session-scoped and never written to disk.
	JudgeRef      string `json:"judge_ref,omitempty"`
	ReminderArmed bool   `json:"reminder_armed"`
}

// CreateParams carries the fields of the event-create command.
type CreateParams struct {
	Team1Captain string
	Team2Captain string
	Hour         int
	Minute       int
	Day          int
	Month        int
	Round        int
	Tournament   string
	HostChannel  string
	CreatedBy    string
}

// Result is a recorded match outcome.
type Result struct {
	ID          string    `json:"id"`
	Winner      string    `json:"winner"`
	WinnerScore int       `json:"winner_score"`
	Loser       string    `json:"loser"`
	LoserScore  int       `json:"loser_score"`
	Tournament  string    `json:"tournament"`
	Round       string    `json:"round"`
	Remarks     string    `json:"remarks,omitempty"`
	Judge       string    `json:"judge"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// Rules is the versioned tournament rules document.
type Rules struct {
	Content   string    `json:"content"`
	Version   int       `json:"version"`
	UpdatedBy string    `json:"updated_by"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidationError reports a create parameter outside its valid range.
// It is returned before any state mutation.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}
