package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/alex-pricope/election-voting-system/api/models"
	"github.com/alex-pricope/election-voting-system/api/transport"
	"github.com/alex-pricope/election-voting-system/logging"
	"github.com/alex-pricope/election-voting-system/results"
	"github.com/gin-gonic/gin"
)

type ResultsController struct {
	aggregator *results.Aggregator
}

func NewResultsController(aggregator *results.Aggregator) *ResultsController {
	return &ResultsController{aggregator: aggregator}
}

func (c *ResultsController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/results")
	group.GET("", c.getOverall)
	group.GET("/position/:id", c.getPosition)

	admin := engine.Group("/api/admin/results", transport.AdminAuthMiddleware())
	admin.POST("/refresh/start", c.startRefresh)
	admin.POST("/refresh/stop", c.stopRefresh)
}

// getOverall godoc
// @Summary Get the overall election results
// @Description Returns the cached aggregate, computing it first when no refresh has run yet
// @Tags results
// @Produce json
// @Success 200 {object} models.OverallResultsResponse
// @Failure 503 {object} models.ErrorResponse "No results available yet"
// @Router /api/results [get]
func (c *ResultsController) getOverall(g *gin.Context) {
	snapshot, stale := c.aggregator.Snapshot()
	if snapshot == nil {
		fresh, err := c.aggregator.Refresh(g.Request.Context())
		if err != nil {
			logging.Log.Errorf("RESULTS: on-demand aggregation failed: %v", err)
			g.JSON(http.StatusServiceUnavailable, &models.ErrorResponse{Error: "results are not available yet"})
			return
		}
		snapshot, stale = fresh, false
	}

	g.JSON(http.StatusOK, models.TransformOverallResult(snapshot, stale))
}

// getPosition godoc
// @Summary Get the results for a single position
// @Tags results
// @Produce json
// @Param id path int true "Position ID"
// @Success 200 {object} models.PositionResultResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /api/results/position/{id} [get]
func (c *ResultsController) getPosition(g *gin.Context) {
	id, err := strconv.Atoi(g.Param("id"))
	if err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid position id"})
		return
	}

	snapshot, _ := c.aggregator.Snapshot()
	if snapshot == nil {
		snapshot, err = c.aggregator.Refresh(g.Request.Context())
		if err != nil {
			logging.Log.Errorf("RESULTS: on-demand aggregation failed: %v", err)
			g.JSON(http.StatusServiceUnavailable, &models.ErrorResponse{Error: "results are not available yet"})
			return
		}
	}

	for _, p := range snapshot.Positions {
		if p.PositionID == id {
			g.JSON(http.StatusOK, models.TransformPositionResult(p))
			return
		}
	}
	g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: "no results for this position"})
}

// @Security AdminToken
// startRefresh godoc
// @Summary Start the periodic results refresh
// @Description Idempotent: starting an already-running refresh is a no-op
// @Tags results
// @Produce json
// @Success 200 {object} models.RefreshStateResponse
// @Router /api/admin/results/refresh/start [post]
func (c *ResultsController) startRefresh(g *gin.Context) {
	// The refresh loop outlives the request that started it.
	c.aggregator.StartRefresh(context.Background())
	g.JSON(http.StatusOK, &models.RefreshStateResponse{Refreshing: c.aggregator.Running()})
}

// @Security AdminToken
// stopRefresh godoc
// @Summary Stop the periodic results refresh
// @Description Idempotent: stopping a stopped refresh is a no-op
// @Tags results
// @Produce json
// @Success 200 {object} models.RefreshStateResponse
// @Router /api/admin/results/refresh/stop [post]
func (c *ResultsController) stopRefresh(g *gin.Context) {
	c.aggregator.StopRefresh()
	g.JSON(http.StatusOK, &models.RefreshStateResponse{Refreshing: c.aggregator.Running()})
}
