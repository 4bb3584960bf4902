package controllers

import (
	"errors"
	"net/http"
	"sort"
	"strconv"

	"github.com/alex-pricope/election-voting-system/api/models"
	"github.com/alex-pricope/election-voting-system/api/transport"
	"github.com/alex-pricope/election-voting-system/logging"
	"github.com/alex-pricope/election-voting-system/storage"
	"github.com/gin-gonic/gin"
)

type PositionMetaController struct {
	storage           storage.PositionStorage
	candidatesStorage storage.CandidateStorage
}

func NewPositionMetaController(s storage.PositionStorage, candidateStorage storage.CandidateStorage) *PositionMetaController {
	return &PositionMetaController{storage: s, candidatesStorage: candidateStorage}
}

func (c *PositionMetaController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/meta/positions")

	group.GET("", c.getAll)
	group.GET("/:id", c.get)
	group.POST("", transport.AdminAuthMiddleware(), c.create)
	group.PUT("/:id", transport.AdminAuthMiddleware(), c.update)
	group.DELETE("/:id", transport.AdminAuthMiddleware(), c.delete)
}

// @Summary Get all contested positions
// @Tags Meta/Positions
// @Produce json
// @Success 200 {array} models.PositionResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/meta/positions [get]
func (c *PositionMetaController) getAll(g *gin.Context) {
	positions, err := c.storage.GetAll(g.Request.Context())
	if err != nil {
		logging.Log.Errorf("META: failed to get all positions: %v", err)
		g.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}

	// Sort this so it shows the same for everyone
	sort.SliceStable(positions, func(i, j int) bool {
		return positions[i].ID < positions[j].ID
	})

	responses := make([]models.PositionResponse, 0, len(positions))
	for _, p := range positions {
		responses = append(responses, models.TransformPositionFromStorage(p, c.candidatesCount(g, p.ID)))
	}
	g.JSON(http.StatusOK, responses)
}

// @Summary Get a position by ID
// @Tags Meta/Positions
// @Produce json
// @Param id path int true "Position ID"
// @Success 200 {object} models.PositionResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/meta/positions/{id} [get]
func (c *PositionMetaController) get(g *gin.Context) {
	idStr := g.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		g.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid position id"})
		return
	}
	position, err := c.storage.Get(g.Request.Context(), id)
	if err != nil {
		logging.Log.Errorf("META: failed to get position: %v", err)
		g.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}
	if position == nil {
		g.JSON(http.StatusNotFound, models.ErrorResponse{Error: "position not found"})
		return
	}
	g.JSON(http.StatusOK, models.TransformPositionFromStorage(position, c.candidatesCount(g, id)))
}

// @Security AdminToken
// @Summary Create a new contested position
// @Tags Meta/Positions
// @Accept json
// @Produce json
// @Param position body models.PositionCreateRequest true "Position object"
// @Success 200 {object} models.PositionResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/meta/positions [post]
func (c *PositionMetaController) create(g *gin.Context) {
	var req models.PositionCreateRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		logging.Log.Errorf("META: invalid create position request: %v", err)
		g.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request"})
		return
	}

	if req.Title == "" {
		logging.Log.Errorf("META: invalid create position request: %v", req)
		g.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request empty title"})
		return
	}

	position := &storage.Position{
		ID:          req.ID,
		Title:       req.Title,
		Description: req.Description,
		IsActive:    req.IsActive,
	}

	if err := c.storage.Create(g.Request.Context(), position); err != nil {
		if errors.Is(err, storage.ErrItemWithIDAlreadyExists) {
			logging.Log.Warnf("META: position with ID %d already exists", req.ID)
			g.JSON(http.StatusConflict, models.ErrorResponse{Error: "position with ID already exists"})
			return
		}

		logging.Log.Errorf("META: failed to create position: %v", err)
		g.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}
	g.JSON(http.StatusOK, models.TransformPositionFromStorage(position, 0))
}

// @Security AdminToken
// @Summary Update an existing position
// @Tags Meta/Positions
// @Accept json
// @Produce json
// @Param id path int true "Position ID"
// @Param position body models.PositionUpdateRequest true "Position object"
// @Success 200 {object} models.PositionResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/meta/positions/{id} [put]
func (c *PositionMetaController) update(g *gin.Context) {
	idStr := g.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		g.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid position id"})
		return
	}

	var req models.PositionUpdateRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		logging.Log.Errorf("META: invalid update position request: %v", err)
		g.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request"})
		return
	}

	if req.Title == "" {
		logging.Log.Errorf("META: invalid update position request: %v", req)
		g.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request empty title"})
		return
	}

	position := &storage.Position{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		IsActive:    req.IsActive,
	}

	if err := c.storage.Update(g.Request.Context(), position); err != nil {
		logging.Log.Errorf("META: failed to update position: %v", err)
		g.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}
	g.JSON(http.StatusOK, models.TransformPositionFromStorage(position, c.candidatesCount(g, id)))
}

// @Security AdminToken
// @Summary Delete a position
// @Tags Meta/Positions
// @Produce json
// @Param id path int true "Position ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/meta/positions/{id} [delete]
func (c *PositionMetaController) delete(g *gin.Context) {
	idStr := g.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		g.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid position id"})
		return
	}
	if err := c.storage.Delete(g.Request.Context(), id); err != nil {
		logging.Log.Errorf("META: failed to delete position: %v", err)
		g.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}
	g.JSON(http.StatusOK, gin.H{"message": "position deleted"})
}

func (c *PositionMetaController) candidatesCount(g *gin.Context, positionID int) int {
	candidates, err := c.candidatesStorage.GetByPosition(g.Request.Context(), positionID)
	if err != nil {
		logging.Log.Warnf("META: failed to count candidates for position %d: %v", positionID, err)
		return 0
	}
	return len(candidates)
}
