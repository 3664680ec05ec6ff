package tournament_test

import (
	"database/sql"
	"testing"
	"time"

	"github.com/icf-tools/matchday/internal/database"
	"github.com/icf-tools/matchday/internal/tournament"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a temporary in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (tournament.Store, *sql.DB, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	store := tournament.New(db)
	return store, db, dbTeardown
}

func validParams() tournament.CreateParams {
	return tournament.CreateParams{
		Team1Captain: "U1CAPTAIN",
		Team2Captain: "U2CAPTAIN",
		Hour:         15,
		Minute:       30,
		Day:          12,
		Month:        10,
		Round:        2,
		Tournament:   "King of the Seas",
		HostChannel:  "C123",
		CreatedBy:    "UORGANIZER",
	}
}

func TestCreateAndGetEvent(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	event, err := store.CreateEvent(validParams())
	require.NoError(t, err)
	require.NotEmpty(t, event.ID)

	got, err := store.GetEvent(event.ID)
	require.NoError(t, err)
	assert.Equal(t, "King of the Seas", got.Tournament)
	assert.Equal(t, 2, got.Round)
	assert.Equal(t, "12/10", got.DateLabel)
	assert.Equal(t, "15:30 UTC", got.TimeLabel)
	assert.Equal(t, "U1CAPTAIN", got.Team1Captain)
	assert.Equal(t, "U2CAPTAIN", got.Team2Captain)
	assert.Equal(t, "C123", got.HostChannel)
	assert.Empty(t, got.JudgeRef)
	assert.False(t, got.ReminderArmed)
	assert.Equal(t, time.UTC, got.ScheduledAt.Location())
	assert.Equal(t, 15, got.ScheduledAt.Hour())
	assert.Equal(t, 30, got.ScheduledAt.Minute())
}

func TestCreateEventValidation(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	cases := []struct {
		name   string
		mutate func(*tournament.CreateParams)
	}{
		{"hour too large", func(p *tournament.CreateParams) { p.Hour = 24 }},
		{"hour negative", func(p *tournament.CreateParams) { p.Hour = -1 }},
		{"minute too large", func(p *tournament.CreateParams) { p.Minute = 60 }},
		{"day zero", func(p *tournament.CreateParams) { p.Day = 0 }},
		{"day too large", func(p *tournament.CreateParams) { p.Day = 32 }},
		{"month zero", func(p *tournament.CreateParams) { p.Month = 0 }},
		{"month too large", func(p *tournament.CreateParams) { p.Month = 13 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			params := validParams()
			tc.mutate(&params)
			_, err := store.CreateEvent(params)
			require.Error(t, err)
			var verr *tournament.ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}

	// Nothing should have been stored.
	events, err := store.AllEvents()
	require.NoError(t, err)
	assert.Len(t, events, 0)
}

func TestGetEventNotFound(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	_, err := store.GetEvent("missing")
	assert.ErrorIs(t, err, tournament.ErrNotFound)
}

func TestSetJudge(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	event, err := store.CreateEvent(validParams())
	require.NoError(t, err)

	require.NoError(t, store.SetJudge(event.ID, "UJUDGE"))
	got, err := store.GetEvent(event.ID)
	require.NoError(t, err)
	assert.Equal(t, "UJUDGE", got.JudgeRef)

	require.NoError(t, store.SetJudge(event.ID, ""))
	got, err = store.GetEvent(event.ID)
	require.NoError(t, err)
	assert.Empty(t, got.JudgeRef)

	assert.ErrorIs(t, store.SetJudge("missing", "UJUDGE"), tournament.ErrNotFound)
}

func TestPersistenceRoundTrip(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()

	var ids []string
	for i := 0; i < 3; i++ {
		params := validParams()
		params.Round = i + 1
		event, err := store.CreateEvent(params)
		require.NoError(t, err)
		ids = append(ids, event.ID)
	}
	// Claim one and arm a reminder: both are session state and must not survive.
	require.NoError(t, store.SetJudge(ids[0], "UJUDGE"))
	require.NoError(t, store.SetReminderArmed(ids[0], true))

	reloaded := tournament.New(db)
	events, err := reloaded.AllEvents()
	require.NoError(t, err)
	require.Len(t, events, 3)

	for _, event := range events {
		assert.Empty(t, event.JudgeRef, "judge references must reset on reload")
		assert.False(t, event.ReminderArmed)
		assert.Equal(t, "King of the Seas", event.Tournament)
		assert.Equal(t, "12/10", event.DateLabel)
		assert.Equal(t, "15:30 UTC", event.TimeLabel)
	}
}

func TestDeleteEvent(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	event, err := store.CreateEvent(validParams())
	require.NoError(t, err)
	require.NoError(t, store.SetJudge(event.ID, "UJUDGE"))

	deleted, err := store.DeleteEvent(event.ID)
	require.NoError(t, err)
	assert.Equal(t, "UJUDGE", deleted.JudgeRef, "deleted record carries the session judge for ledger cleanup")

	_, err = store.GetEvent(event.ID)
	assert.ErrorIs(t, err, tournament.ErrNotFound)

	_, err = store.DeleteEvent(event.ID)
	assert.ErrorIs(t, err, tournament.ErrNotFound)
}

func TestMalformedRowIsSkipped(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()

	_, err := store.CreateEvent(validParams())
	require.NoError(t, err)

	_, err = db.Exec(`
		INSERT INTO events (id, scheduled_at, round, tournament, date_label, time_label, team1_captain, team2_captain, host_channel, created_by, created_at)
		VALUES ('broken', 'not-a-timestamp', 1, 't', 'd', 'tl', 'c1', 'c2', 'C1', 'u', 'also-not-a-timestamp')`)
	require.NoError(t, err)

	events, err := store.AllEvents()
	require.NoError(t, err)
	assert.Len(t, events, 1, "the malformed row is rejected, not the whole load")
}

func TestRecordResult(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	result := &tournament.Result{
		Winner:      "UWINNER",
		WinnerScore: 3,
		Loser:       "ULOSER",
		LoserScore:  1,
		Tournament:  "Summer Cup",
		Round:       "Semi-Final",
		Remarks:     "ggwp",
		Judge:       "UJUDGE",
	}
	require.NoError(t, store.RecordResult(result))
	assert.NotEmpty(t, result.ID)

	results, err := store.AllResults()
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "UWINNER", results[0].Winner)
	assert.Equal(t, 3, results[0].WinnerScore)
	assert.Equal(t, "ggwp", results[0].Remarks)

	err = store.RecordResult(&tournament.Result{Winner: "a", WinnerScore: -1, Loser: "b"})
	var verr *tournament.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestRules(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	rules, err := store.GetRules()
	require.NoError(t, err)
	assert.Nil(t, rules)

	rules, err = store.SetRules("no flaming", "UORGANIZER")
	require.NoError(t, err)
	assert.Equal(t, 1, rules.Version)
	assert.Equal(t, "no flaming", rules.Content)

	rules, err = store.SetRules("no flaming, be on time", "UORGANIZER")
	require.NoError(t, err)
	assert.Equal(t, 2, rules.Version)

	got, err := store.GetRules()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "no flaming, be on time", got.Content)
	assert.Equal(t, "UORGANIZER", got.UpdatedBy)
}
