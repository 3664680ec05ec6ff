package main

import (
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := make(map[string]string)
	required := []string{"TURSO_PRIMARY_URL", "TURSO_AUTH_TOKEN"}

	for _, key := range required {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		} else {
			log.Fatalf("Error: Required environment variable %s is not set.", key)
		}
	}
	return config
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	// Connect directly to the primary database
	dbURL := fmt.Sprintf("%s?authToken=%s", cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"])
	db, err := sql.Open("libsql", dbURL)
	if err != nil {
		log.Fatalf("Failed to open primary database: %s", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to primary database: %s", err)
	}

	log.Info("Successfully connected to the primary database.")

	captains := []string{"U0SEED01", "U0SEED02", "U0SEED03", "U0SEED04", "U0SEED05", "U0SEED06"}
	tournaments := []string{"Winter Cup", "Spring Invitational", "Clan Clash"}

	const batchSize = 50
	const numEvents = 500

	log.Info("Preparing to insert dummy events...", "total", numEvents, "batch_size", batchSize)
	startTime := time.Now()

	tx, err := db.Begin()
	if err != nil {
		log.Fatalf("Failed to begin transaction: %s", err)
	}

	valueStrings := make([]string, 0, batchSize)
	valueArgs := make([]interface{}, 0, batchSize*11) // 11 columns per event

	for i := 0; i < numEvents; i++ {
		scheduledAt := time.Now().Add(time.Duration(rand.Intn(30*24)) * time.Hour).Truncate(time.Minute)
		cap1 := captains[rand.Intn(len(captains))]
		cap2 := captains[rand.Intn(len(captains))]
		for cap2 == cap1 {
			cap2 = captains[rand.Intn(len(captains))]
		}

		valueStrings = append(valueStrings, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
		valueArgs = append(valueArgs,
			uuid.NewString(),
			scheduledAt.Format(time.RFC3339),
			rand.Intn(5)+1,
			tournaments[rand.Intn(len(tournaments))],
			scheduledAt.Format("02/01"),
			scheduledAt.Format("15:04 UTC"),
			cap1,
			cap2,
			"", // host_channel
			"U0SEEDER",
			time.Now().Format(time.RFC3339),
		)

		if (i+1)%batchSize == 0 || (i+1) == numEvents {
			stmt := fmt.Sprintf(`
				INSERT INTO events (id, scheduled_at, round, tournament, date_label, time_label,
					team1_captain, team2_captain, host_channel, created_by, created_at)
				VALUES %s;`, strings.Join(valueStrings, ","))

			_, err := tx.Exec(stmt, valueArgs...)
			if err != nil {
				tx.Rollback()
				log.Fatalf("Failed to execute batch insert: %s", err)
			}

			// Reset for the next batch
			valueStrings = make([]string, 0, batchSize)
			valueArgs = make([]interface{}, 0, batchSize*11)
			log.Info("Inserted batch", "completed", i+1, "total", numEvents)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Fatalf("Failed to commit transaction: %s", err)
	}

	duration := time.Since(startTime)
	log.Info("Successfully inserted all dummy events.", "duration", duration)
}
