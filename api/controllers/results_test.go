package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	testutils "github.com/alex-pricope/election-voting-system/api/controllers/testing"
	"github.com/alex-pricope/election-voting-system/api/models"
	"github.com/alex-pricope/election-voting-system/logging"
	"github.com/alex-pricope/election-voting-system/results"
	"github.com/alex-pricope/election-voting-system/storage"
	"github.com/alex-pricope/election-voting-system/storage/mem"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupResultsTestRouter(t *testing.T, seed bool) (*results.Aggregator, *gin.Engine) {
	t.Helper()
	logging.Log = logrus.New()
	t.Setenv("ADMIN_TOKEN", "secret")

	elections := mem.NewElectionStore()
	positions := mem.NewPositionStore()
	candidates := mem.NewCandidateStore()
	votes := mem.NewVoteStore()
	voters := mem.NewVoterStore()

	if seed {
		ctx := context.Background()
		require.NoError(t, elections.Create(ctx, &storage.Election{
			ID:          1,
			Name:        "Board 2026",
			PeriodStart: 1000,
			PeriodEnd:   2000,
			Status:      storage.ElectionStatusOngoing,
		}))
		require.NoError(t, positions.Create(ctx, &storage.Position{ID: 1, Title: "Chair", IsActive: true}))
		require.NoError(t, candidates.Create(ctx, &storage.Candidate{ID: 11, PositionID: 1, PositionNumber: 1, Name: "Alice", IsActive: true}))
		require.NoError(t, candidates.Create(ctx, &storage.Candidate{ID: 12, PositionID: 1, PositionNumber: 2, Name: "Bob", IsActive: true}))

		for _, code := range []string{"v1", "v2", "v3", "v4"} {
			require.NoError(t, voters.Put(ctx, &storage.Voter{Code: code}))
		}
		for _, v := range []struct {
			voter     string
			candidate int
		}{
			{"v1", 11}, {"v2", 11}, {"v3", 12},
		} {
			require.NoError(t, votes.Create(ctx, &storage.Vote{
				VoterID: v.voter, PositionID: 1, CandidateID: v.candidate, PeriodStart: 1000, PeriodEnd: 2000,
			}))
		}
	}

	aggregator := results.NewAggregator(elections, positions, candidates, votes, voters, 10*time.Millisecond)
	controller := NewResultsController(aggregator)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	controller.RegisterRoutes(r)

	t.Cleanup(aggregator.StopRefresh)
	return aggregator, r
}

func TestGetOverallResults(t *testing.T) {
	_, router := setupResultsTestRouter(t, true)

	res := testutils.PerformRequest(router, http.MethodGet, "/api/results", nil, nil)
	require.Equal(t, http.StatusOK, res.Code, "failed to get results: %s", res.Body.String())

	var overall models.OverallResultsResponse
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &overall))

	assert.Equal(t, 4, overall.TotalVoters)
	assert.Equal(t, 3, overall.TotalVotes)
	assert.Equal(t, 3, overall.DistinctVoters)
	assert.InDelta(t, 75.0, overall.ParticipationRate, 0.0001)
	assert.False(t, overall.Stale)

	require.Len(t, overall.Positions, 1)
	chair := overall.Positions[0]
	require.NotNil(t, chair.Winner)
	assert.Equal(t, 11, chair.Winner.CandidateID)
	assert.False(t, chair.IsTie)
	require.Len(t, chair.Candidates, 2)
	assert.InDelta(t, 66.7, chair.Candidates[0].Percentage, 0.0001)
	assert.InDelta(t, 33.3, chair.Candidates[1].Percentage, 0.0001)
}

func TestGetOverallResultsWithoutElection(t *testing.T) {
	_, router := setupResultsTestRouter(t, false)

	res := testutils.PerformRequest(router, http.MethodGet, "/api/results", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, res.Code)
}

func TestGetPositionResults(t *testing.T) {
	_, router := setupResultsTestRouter(t, true)

	t.Run("known position", func(t *testing.T) {
		res := testutils.PerformRequest(router, http.MethodGet, "/api/results/position/1", nil, nil)
		require.Equal(t, http.StatusOK, res.Code)

		var position models.PositionResultResponse
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &position))
		assert.Equal(t, "Chair", position.Title)
		assert.Equal(t, 3, position.TotalVotes)
	})

	t.Run("unknown position", func(t *testing.T) {
		res := testutils.PerformRequest(router, http.MethodGet, "/api/results/position/99", nil, nil)
		assert.Equal(t, http.StatusNotFound, res.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		res := testutils.PerformRequest(router, http.MethodGet, "/api/results/position/abc", nil, nil)
		assert.Equal(t, http.StatusBadRequest, res.Code)
	})
}

func TestRefreshLifecycle(t *testing.T) {
	aggregator, router := setupResultsTestRouter(t, true)

	t.Run("requires admin token", func(t *testing.T) {
		res := testutils.PerformRequest(router, http.MethodPost, "/api/admin/results/refresh/start", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, res.Code)
	})

	t.Run("start stop cycle", func(t *testing.T) {
		res := testutils.PerformRequest(router, http.MethodPost, "/api/admin/results/refresh/start", nil, testutils.AdminHeaders("secret"))
		require.Equal(t, http.StatusOK, res.Code)

		var state models.RefreshStateResponse
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &state))
		assert.True(t, state.Refreshing)
		assert.True(t, aggregator.Running())

		// Starting again changes nothing
		res = testutils.PerformRequest(router, http.MethodPost, "/api/admin/results/refresh/start", nil, testutils.AdminHeaders("secret"))
		require.Equal(t, http.StatusOK, res.Code)
		assert.True(t, aggregator.Running())

		res = testutils.PerformRequest(router, http.MethodPost, "/api/admin/results/refresh/stop", nil, testutils.AdminHeaders("secret"))
		require.Equal(t, http.StatusOK, res.Code)
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &state))
		assert.False(t, state.Refreshing)
		assert.False(t, aggregator.Running())
	})
}
