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

type CandidateMetaController struct {
	storage storage.CandidateStorage
}

func NewCandidateMetaController(s storage.CandidateStorage) *CandidateMetaController {
	return &CandidateMetaController{storage: s}
}

func (c *CandidateMetaController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/meta/candidates")

	group.GET("", c.getAll)
	group.GET("/:id", c.get)
	group.POST("", transport.AdminAuthMiddleware(), c.create)
	group.PUT("/:id", transport.AdminAuthMiddleware(), c.update)
	group.DELETE("/:id", transport.AdminAuthMiddleware(), c.delete)
}

// @Summary Get all candidates
// @Description Optionally filtered by position with ?positionId=
// @Tags Meta/Candidates
// @Produce json
// @Param positionId query int false "Filter by position ID"
// @Success 200 {array} models.CandidateResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/meta/candidates [get]
func (c *CandidateMetaController) getAll(g *gin.Context) {
	var (
		candidates []*storage.Candidate
		err        error
	)

	if positionIDStr := g.Query("positionId"); positionIDStr != "" {
		positionID, convErr := strconv.Atoi(positionIDStr)
		if convErr != nil {
			g.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid position id"})
			return
		}
		candidates, err = c.storage.GetByPosition(g.Request.Context(), positionID)
	} else {
		candidates, err = c.storage.GetAll(g.Request.Context())
	}
	if err != nil {
		logging.Log.Errorf("META: failed to get candidates: %v", err)
		g.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}

	// Ballot order, same for everyone
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].PositionID != candidates[j].PositionID {
			return candidates[i].PositionID < candidates[j].PositionID
		}
		return candidates[i].PositionNumber < candidates[j].PositionNumber
	})

	responses := make([]models.CandidateResponse, 0, len(candidates))
	for _, cand := range candidates {
		responses = append(responses, models.TransformCandidateFromStorage(cand))
	}
	g.JSON(http.StatusOK, responses)
}

// @Summary Get a candidate by ID
// @Tags Meta/Candidates
// @Produce json
// @Param id path int true "Candidate ID"
// @Success 200 {object} models.CandidateResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/meta/candidates/{id} [get]
func (c *CandidateMetaController) get(g *gin.Context) {
	idStr := g.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		g.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid candidate id"})
		return
	}
	candidate, err := c.storage.Get(g.Request.Context(), id)
	if err != nil {
		logging.Log.Errorf("META: failed to get candidate: %v", err)
		g.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}
	if candidate == nil {
		g.JSON(http.StatusNotFound, models.ErrorResponse{Error: "candidate not found"})
		return
	}
	g.JSON(http.StatusOK, models.TransformCandidateFromStorage(candidate))
}

// @Security AdminToken
// @Summary Create a new candidate
// @Tags Meta/Candidates
// @Accept json
// @Produce json
// @Param candidate body models.CandidateCreateRequest true "Candidate object"
// @Success 200 {object} models.CandidateResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/meta/candidates [post]
func (c *CandidateMetaController) create(g *gin.Context) {
	var req models.CandidateCreateRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		logging.Log.Errorf("META: invalid create candidate request: %v", err)
		g.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request"})
		return
	}

	if req.Name == "" || req.PositionID < 1 {
		logging.Log.Errorf("META: invalid create candidate request: %v", req)
		g.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request, missing name or position"})
		return
	}

	candidate := &storage.Candidate{
		ID:             req.ID,
		PositionID:     req.PositionID,
		PositionNumber: req.PositionNumber,
		Name:           req.Name,
		IsActive:       req.IsActive,
		Profile:        req.Profile,
		Vision:         req.Vision,
		Mission:        req.Mission,
		Program:        req.Program,
	}

	if err := c.storage.Create(g.Request.Context(), candidate); err != nil {
		if errors.Is(err, storage.ErrItemWithIDAlreadyExists) {
			logging.Log.Warnf("META: candidate with ID %d already exists", req.ID)
			g.JSON(http.StatusConflict, models.ErrorResponse{Error: "candidate with ID already exists"})
			return
		}

		logging.Log.Errorf("META: failed to create candidate: %v", err)
		g.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}
	g.JSON(http.StatusOK, models.TransformCandidateFromStorage(candidate))
}

// @Security AdminToken
// @Summary Update an existing candidate
// @Tags Meta/Candidates
// @Accept json
// @Produce json
// @Param id path int true "Candidate ID"
// @Param candidate body models.CandidateUpdateRequest true "Candidate object"
// @Success 200 {object} models.CandidateResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/meta/candidates/{id} [put]
func (c *CandidateMetaController) update(g *gin.Context) {
	idStr := g.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		g.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid candidate id"})
		return
	}

	var req models.CandidateUpdateRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		logging.Log.Errorf("META: invalid update candidate request: %v", err)
		g.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request"})
		return
	}

	if req.Name == "" || req.PositionID < 1 {
		logging.Log.Errorf("META: invalid update candidate request: %v", req)
		g.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request, missing name or position"})
		return
	}

	candidate := &storage.Candidate{
		ID:             id,
		PositionID:     req.PositionID,
		PositionNumber: req.PositionNumber,
		Name:           req.Name,
		IsActive:       req.IsActive,
		Profile:        req.Profile,
		Vision:         req.Vision,
		Mission:        req.Mission,
		Program:        req.Program,
	}

	if err := c.storage.Update(g.Request.Context(), candidate); err != nil {
		logging.Log.Errorf("META: failed to update candidate: %v", err)
		g.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}
	g.JSON(http.StatusOK, models.TransformCandidateFromStorage(candidate))
}

// @Security AdminToken
// @Summary Delete a candidate
// @Tags Meta/Candidates
// @Produce json
// @Param id path int true "Candidate ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/meta/candidates/{id} [delete]
func (c *CandidateMetaController) delete(g *gin.Context) {
	idStr := g.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		g.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid candidate id"})
		return
	}
	if err := c.storage.Delete(g.Request.Context(), id); err != nil {
		logging.Log.Errorf("META: failed to delete candidate: %v", err)
		g.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}
	g.JSON(http.StatusOK, gin.H{"message": "candidate deleted"})
}
