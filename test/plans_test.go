//go:build integration_test || all_tests

package test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/5con/fittrack/internal/plans"
	"github.com/5con/fittrack/internal/users"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) registerUser(ctx context.Context, in users.Input) *users.User {
	t := s.T()
	resp, body := doJSON(t, ctx, http.MethodPost, "/api/users/register", in)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var registered users.AuthResponse
	require.NoError(t, json.Unmarshal(body, &registered))
	return registered.User
}

func (s *IntegrationTestSuite) TestPlans_GenerateReplacesWeek() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	weight := 80.0
	position := "QB"
	u := s.registerUser(ctx, users.Input{
		Email:    gofakeit.Email(),
		Password: "pw",
		WeightKg: &weight,
		Sport:    "football",
		Level:    "intermediate",
		Position: &position,
	})

	path := fmt.Sprintf("/api/users/%d/plans", u.ID)

	// nothing stored yet; reading must not generate
	resp, body := doJSON(t, ctx, http.MethodGet, path+"?weekStart=2024-01-07", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))
	assert.Equal(t, 0, s.countPlanDays(u.ID))

	var first plans.GeneratedWeek
	resp, body = doJSON(t, ctx, http.MethodPost, path+"/generate?weekStart=2024-01-07", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.NoError(t, json.Unmarshal(body, &first))
	require.Len(t, first.Plan, 7)
	assert.Equal(t, "2024-01-07", first.Plan[0].Date.String())
	assert.Equal(t, "Sun", first.Plan[0].DayName)
	assert.Equal(t, "2024-01-13", first.Plan[6].Date.String())
	assert.Equal(t, "rest", first.Plan[3].Type)
	assert.Equal(t, 2640, first.Advice.Calories)
	assert.Equal(t, 198, first.Advice.Macros.ProteinG)
	assert.Equal(t, 7, s.countPlanDays(u.ID))

	// regenerating the same week replaces it
	var second plans.GeneratedWeek
	resp, body = doJSON(t, ctx, http.MethodPost, path+"/generate?weekStart=2024-01-07", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &second))
	assert.Equal(t, 7, s.countPlanDays(u.ID))
	assert.NotEqual(t, first.Plan[0].ID, second.Plan[0].ID)

	var stored []plans.PlanDay
	resp, body = doJSON(t, ctx, http.MethodGet, path+"?weekStart=2024-01-07", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &stored))
	require.Len(t, stored, 7)
	for i := range stored {
		assert.Equal(t, second.Plan[i].ID, stored[i].ID)
		assert.Equal(t, second.Plan[i].Workout, stored[i].Workout)
	}

	// another week adds its own seven
	resp, _ = doJSON(t, ctx, http.MethodPost, path+"/generate?weekStart=2024-01-14", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 14, s.countPlanDays(u.ID))
}

func (s *IntegrationTestSuite) TestPlans_ConcurrentGenerate() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	u := s.registerUser(ctx, users.Input{Email: gofakeit.Email(), Password: "pw", Sport: "basketball", Level: "advanced"})
	path := fmt.Sprintf("/api/users/%d/plans/generate?weekStart=2024-02-04", u.ID)

	var wg sync.WaitGroup
	codes := make(chan int, 6)
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, _ := doJSON(t, ctx, http.MethodPost, path, nil)
			codes <- resp.StatusCode
		}()
	}
	wg.Wait()
	close(codes)

	for code := range codes {
		assert.Equal(t, http.StatusOK, code)
	}
	assert.Equal(t, 7, s.countPlanDays(u.ID))
}

func (s *IntegrationTestSuite) TestPlans_DeleteUserCascades() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	u := s.registerUser(ctx, users.Input{Email: gofakeit.Email(), Password: "pw", Sport: "golf", Level: "beginner"})
	path := fmt.Sprintf("/api/users/%d/plans", u.ID)

	resp, _ := doJSON(t, ctx, http.MethodPost, path+"/generate?weekStart=2024-01-07", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// warm the week cache
	resp, _ = doJSON(t, ctx, http.MethodGet, path+"?weekStart=2024-01-07", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, ctx, http.MethodDelete, fmt.Sprintf("/api/users/%d", u.ID), nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, 0, s.countPlanDays(u.ID))

	resp, _ = doJSON(t, ctx, http.MethodGet, path+"?weekStart=2024-01-07", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = doJSON(t, ctx, http.MethodPost, path+"/generate", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestPlans_BadInput() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	u := s.registerUser(ctx, users.Input{Email: gofakeit.Email(), Password: "pw", Sport: "golf", Level: "beginner"})

	resp, _ := doJSON(t, ctx, http.MethodGet, fmt.Sprintf("/api/users/%d/plans?weekStart=2024/01/07", u.ID), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, ctx, http.MethodPost, fmt.Sprintf("/api/users/%d/plans/generate?weekStart=yesterday", u.ID), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 0, s.countPlanDays(u.ID))
}

func (s *IntegrationTestSuite) TestTips() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var generic, qb, golf []string
	resp, body := doJSON(t, ctx, http.MethodGet, "/api/tips/football", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &generic))

	resp, body = doJSON(t, ctx, http.MethodGet, "/api/tips/football/qb", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &qb))

	resp, body = doJSON(t, ctx, http.MethodGet, "/api/tips/golf/qb", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &golf))

	assert.NotEmpty(t, generic)
	assert.NotEqual(t, generic, qb)
	assert.NotEqual(t, generic, golf)
}
