package config

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	MigrationsDir string
	Port          string
	Slack         SlackConfig
	Turso         TursoConfig
	ProjectID     string
	JudgeCapacity int
}

type SlackConfig struct {
	Token         string
	SigningSecret string
	// ScheduleChannelID is where new match announcements are posted for
	// judges to claim.
	ScheduleChannelID string
	// ResultsChannelID receives recorded match results.
	ResultsChannelID string
	// ReportsChannelID receives the staff attendance report for each result.
	ReportsChannelID string
	// JudgeGroupID and OrganizerGroupID are the Slack usergroups backing
	// the judge and organizer capabilities.
	JudgeGroupID     string
	OrganizerGroupID string
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}
