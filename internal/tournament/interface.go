package tournament

import "errors"

// ErrNotFound is returned when a referenced event does not exist.
var ErrNotFound = errors.New("event not found")

// Store defines the interface for interacting with tournament data.
type Store interface {
	CreateEvent(params CreateParams) (*Event, error)
	GetEvent(id string) (*Event, error)
	AllEvents() ([]*Event, error)
	DeleteEvent(id string) (*Event, error)
	SetJudge(id, judgeRef string) error
	SetReminderArmed(id string, armed bool) error

	RecordResult(result *Result) error
	AllResults() ([]*Result, error)

	GetRules() (*Rules, error)
	SetRules(content, updatedBy string) (*Rules, error)

	Clear()
}
