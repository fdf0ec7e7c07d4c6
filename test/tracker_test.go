//go:build integration_test || all_tests

package test

import (
	"context"
	"path/filepath"
	"time"

	"github.com/5con/fittrack/internal/tracker"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestTracker_SyncsWithServer() {
	t := s.T()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := tracker.OpenStore(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)
	tr := tracker.New(tracker.NewClient(serverEndpoint, tracker.NewHTTPClient(5*time.Second)), store)

	u, err := tr.Register(ctx, gofakeit.Email(), "pw-123", tracker.Profile{
		HeightCm: 188,
		WeightKg: 92,
		Sport:    "football",
		Level:    "advanced",
		Position: "LB",
	})
	require.NoError(t, err)

	week, err := tr.CurrentWeek(ctx)
	require.NoError(t, err)
	assert.Equal(t, tracker.SourceServer, week.Source)
	require.Len(t, week.Days, 7)
	assert.Equal(t, tracker.WeekKey(time.Now()), week.Days[0].Date)
	assert.NotEmpty(t, week.Tips)
	assert.Equal(t, 7, s.countPlanDays(u.ID))

	// the profile changes and the server week is regenerated in place
	week, err = tr.SaveProfile(ctx, tracker.Profile{Sport: "tennis", Level: "beginner"})
	require.NoError(t, err)
	assert.Equal(t, tracker.SourceServer, week.Source)
	assert.Equal(t, 7, s.countPlanDays(u.ID))

	require.NoError(t, tr.SetDone(tracker.ISODate(time.Now()), true))
	assert.Equal(t, 1, tr.Streak())
}

func (s *IntegrationTestSuite) TestTracker_UpsertCreatesUserWithoutPassword() {
	t := s.T()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := tracker.NewClient(serverEndpoint, tracker.NewHTTPClient(5*time.Second))
	email := gofakeit.Email()

	created, err := client.UpsertUserFromProfile(ctx, email, tracker.Profile{WeightKg: 70, Sport: "golf", Level: "beginner"})
	require.NoError(t, err)
	assert.Positive(t, created.ID)

	again, err := client.UpsertUserFromProfile(ctx, email, tracker.Profile{WeightKg: 70, Sport: "golf", Level: "advanced"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)

	var level string
	require.NoError(t, s.DB.QueryRow(`SELECT level FROM app_user WHERE id = $1`, created.ID).Scan(&level))
	assert.Equal(t, "advanced", level)

	// no password was ever set
	_, err = client.Login(ctx, email, "")
	assert.Error(t, err)
}
