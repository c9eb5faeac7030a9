package integration_testing

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/2beens/sportanalytics/internal/auth"
	"github.com/2beens/sportanalytics/internal/gymstats/dashboard"
	"github.com/2beens/sportanalytics/internal/gymstats/refreshlog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) getJSON(req *http.Request, target any) int {
	resp, err := s.httpClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK && target != nil {
		s.Require().NoError(json.NewDecoder(resp.Body).Decode(target))
	}
	return resp.StatusCode
}

func (s *IntegrationTestSuite) TestDashboardOptions() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var options dashboard.Options
	status := s.getJSON(s.newRequest(ctx, http.MethodGet, "/dashboard/options?muscle_group=Jambes"), &options)
	require.Equal(t, http.StatusOK, status)

	assert.Equal(t, []string{"Dos", "Jambes", "Pectoraux"}, options.MuscleGroups)
	assert.Equal(t, "Jambes", options.MuscleGroup)
	assert.Equal(t, []string{"Squat"}, options.Exercises)
	assert.Equal(t, 9, options.Entries)
	assert.Equal(t, 1, options.Dropped)
}

func (s *IntegrationTestSuite) TestDashboardExercise() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var view dashboard.ExerciseView
	status := s.getJSON(s.newRequest(ctx, http.MethodGet, "/dashboard/exercise?exercise=Squat&connect=true"), &view)
	require.Equal(t, http.StatusOK, status)

	assert.Equal(t, "Jambes", view.MuscleGroup)
	assert.Equal(t, 3, view.Summary.Sets)
	assert.Equal(t, 90.0, view.Summary.MaxWeight)
	assert.NotEmpty(t, view.Figure.Traces)

	status = s.getJSON(s.newRequest(ctx, http.MethodGet, "/dashboard/exercise?exercise=Soulevé"), nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func (s *IntegrationTestSuite) TestDashboardRefreshes() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// each dashboard read is one recorded refresh
	status := s.getJSON(s.newRequest(ctx, http.MethodGet, "/dashboard/options"), nil)
	require.Equal(t, http.StatusOK, status)

	status = s.getJSON(s.newRequest(ctx, http.MethodGet, "/dashboard/refreshes"), nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	req := s.newRequest(ctx, http.MethodGet, "/dashboard/refreshes?limit=1")
	req.Header.Set(auth.TokenHeader, s.loginToken(ctx))
	var refreshes []refreshlog.Refresh
	status = s.getJSON(req, &refreshes)
	require.Equal(t, http.StatusOK, status)

	require.Len(t, refreshes, 1)
	assert.Equal(t, "csv", refreshes[0].Source)
	assert.Equal(t, 10, refreshes[0].Fetched)
	assert.Equal(t, 9, refreshes[0].Kept)
	assert.Equal(t, map[string]int{"blank_exercise": 1}, refreshes[0].Dropped)
	assert.False(t, refreshes[0].Failed())

	var count int
	require.NoError(t, s.env.DB.QueryRow(ctx, `SELECT COUNT(*) FROM dashboard_refresh`).Scan(&count))
	assert.GreaterOrEqual(t, count, 1)
}
