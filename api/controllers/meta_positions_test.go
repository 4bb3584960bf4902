package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	testutils "github.com/alex-pricope/election-voting-system/api/controllers/testing"
	"github.com/alex-pricope/election-voting-system/api/models"
	"github.com/alex-pricope/election-voting-system/logging"
	"github.com/alex-pricope/election-voting-system/storage"
	"github.com/alex-pricope/election-voting-system/storage/mem"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPositionTestRouter(t *testing.T) (*mem.PositionStore, *mem.CandidateStore, *gin.Engine) {
	t.Helper()
	logging.Log = logrus.New()
	t.Setenv("ADMIN_TOKEN", "secret")

	positions := mem.NewPositionStore()
	candidates := mem.NewCandidateStore()

	controller := NewPositionMetaController(positions, candidates)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	controller.RegisterRoutes(r)

	return positions, candidates, r
}

func TestPositionCRUD(t *testing.T) {
	_, candidates, router := setupPositionTestRouter(t)

	t.Run("create", func(t *testing.T) {
		req := models.PositionCreateRequest{ID: 1, Title: "Chair", Description: "Leads the board", IsActive: true}
		res := testutils.PerformRequest(router, http.MethodPost, "/api/meta/positions", req, testutils.AdminHeaders("secret"))
		require.Equal(t, http.StatusOK, res.Code, "failed to create position: %s", res.Body.String())
	})

	t.Run("create duplicate", func(t *testing.T) {
		req := models.PositionCreateRequest{ID: 1, Title: "Chair"}
		res := testutils.PerformRequest(router, http.MethodPost, "/api/meta/positions", req, testutils.AdminHeaders("secret"))
		assert.Equal(t, http.StatusConflict, res.Code)
	})

	t.Run("create without title", func(t *testing.T) {
		req := models.PositionCreateRequest{ID: 2}
		res := testutils.PerformRequest(router, http.MethodPost, "/api/meta/positions", req, testutils.AdminHeaders("secret"))
		assert.Equal(t, http.StatusBadRequest, res.Code)
	})

	t.Run("create without token", func(t *testing.T) {
		req := models.PositionCreateRequest{ID: 3, Title: "Secretary"}
		res := testutils.PerformRequest(router, http.MethodPost, "/api/meta/positions", req, nil)
		assert.Equal(t, http.StatusUnauthorized, res.Code)
	})

	t.Run("get includes candidate count", func(t *testing.T) {
		require.NoError(t, candidates.Create(context.Background(), &storage.Candidate{
			ID: 11, PositionID: 1, PositionNumber: 1, Name: "Alice", IsActive: true,
		}))

		res := testutils.PerformRequest(router, http.MethodGet, "/api/meta/positions/1", nil, nil)
		require.Equal(t, http.StatusOK, res.Code)

		var position models.PositionResponse
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &position))
		assert.Equal(t, "Chair", position.Title)
		assert.Equal(t, 1, position.CandidatesCount)
	})

	t.Run("get unknown", func(t *testing.T) {
		res := testutils.PerformRequest(router, http.MethodGet, "/api/meta/positions/99", nil, nil)
		assert.Equal(t, http.StatusNotFound, res.Code)
	})

	t.Run("update", func(t *testing.T) {
		req := models.PositionUpdateRequest{Title: "Chairperson", IsActive: false}
		res := testutils.PerformRequest(router, http.MethodPut, "/api/meta/positions/1", req, testutils.AdminHeaders("secret"))
		require.Equal(t, http.StatusOK, res.Code)

		var position models.PositionResponse
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &position))
		assert.Equal(t, "Chairperson", position.Title)
		assert.False(t, position.IsActive)
	})

	t.Run("list is sorted by id", func(t *testing.T) {
		req := models.PositionCreateRequest{ID: 2, Title: "Treasurer", IsActive: true}
		res := testutils.PerformRequest(router, http.MethodPost, "/api/meta/positions", req, testutils.AdminHeaders("secret"))
		require.Equal(t, http.StatusOK, res.Code)

		res = testutils.PerformRequest(router, http.MethodGet, "/api/meta/positions", nil, nil)
		require.Equal(t, http.StatusOK, res.Code)

		var list []models.PositionResponse
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &list))
		require.Len(t, list, 2)
		assert.Equal(t, 1, list[0].ID)
		assert.Equal(t, 2, list[1].ID)
	})

	t.Run("delete", func(t *testing.T) {
		res := testutils.PerformRequest(router, http.MethodDelete, "/api/meta/positions/2", nil, testutils.AdminHeaders("secret"))
		require.Equal(t, http.StatusOK, res.Code)

		res = testutils.PerformRequest(router, http.MethodGet, "/api/meta/positions/2", nil, nil)
		assert.Equal(t, http.StatusNotFound, res.Code)
	})
}
