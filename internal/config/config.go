package config

import (
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// DefaultJudgeCapacity is the maximum number of concurrent schedule
// assignments a judge may hold unless overridden via JUDGE_CAPACITY.
const DefaultJudgeCapacity = 3

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	// A helper function to get a required env var. It will fail if the env var is not set.
	getEnv := func(key string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		log.Fatalf("Error: Required environment variable %s is not set.", key)
		return "" // This line is never reached
	}

	capacity := DefaultJudgeCapacity
	if raw, ok := os.LookupEnv("JUDGE_CAPACITY"); ok {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			log.Fatalf("Error: JUDGE_CAPACITY must be a positive integer, got %q", raw)
		}
		capacity = parsed
	}

	cfg := Config{
		DBName:        getEnv("DB_NAME"),
		MigrationsDir: "./migrations",
		Port:          getEnv("PORT"),
		Slack: SlackConfig{
			Token:             getEnv("SLACK_BOT_TOKEN"),
			SigningSecret:     getEnv("SLACK_SIGNING_SECRET"),
			ScheduleChannelID: getEnv("SLACK_SCHEDULE_CHANNEL_ID"),
			ResultsChannelID:  getEnv("SLACK_RESULTS_CHANNEL_ID"),
			ReportsChannelID:  getEnv("SLACK_REPORTS_CHANNEL_ID"),
			JudgeGroupID:      getEnv("SLACK_JUDGE_GROUP_ID"),
			OrganizerGroupID:  getEnv("SLACK_ORGANIZER_GROUP_ID"),
		},
		Turso: TursoConfig{
			PrimaryURL: os.Getenv("TURSO_PRIMARY_URL"),
			AuthToken:  os.Getenv("TURSO_AUTH_TOKEN"),
		},
		ProjectID:     getEnv("GCP_PROJECT"),
		JudgeCapacity: capacity,
	}
	return cfg
}
