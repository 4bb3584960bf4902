package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/alex-pricope/election-voting-system/api/models"
	"github.com/alex-pricope/election-voting-system/api/transport"
	"github.com/alex-pricope/election-voting-system/logging"
	"github.com/alex-pricope/election-voting-system/storage"
	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

type AdminController struct {
	electionsStorage storage.ElectionStorage
	votersStorage    storage.VoterStorage
}

func NewAdminController(electionStorage storage.ElectionStorage, voterStorage storage.VoterStorage) *AdminController {
	return &AdminController{
		electionsStorage: electionStorage,
		votersStorage:    voterStorage,
	}
}

func (c *AdminController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/admin", transport.AdminAuthMiddleware())

	group.GET("/elections", c.listElections)
	group.POST("/elections", c.createElection)
	group.POST("/elections/:id/close", c.closeElection)
	group.GET("/voters", c.listVoters)
	group.POST("/voters", c.registerVoters)
	group.GET("/voters/count", c.countVoters)
	group.DELETE("/voters/:code", c.deleteVoter)
}

// @Security AdminToken
// listElections godoc
// @Summary List all elections
// @Tags admin
// @Produce json
// @Success 200 {array} models.ElectionResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/admin/elections [get]
func (c *AdminController) listElections(g *gin.Context) {
	elections, err := c.electionsStorage.GetAll(g.Request.Context())
	if err != nil {
		logging.Log.Errorf("ADMIN: failed to list elections: %v", err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	responses := make([]models.ElectionResponse, 0, len(elections))
	for _, e := range elections {
		responses = append(responses, models.TransformElectionFromStorage(e))
	}
	logging.Log.Infof("ADMIN: listed %d elections", len(responses))
	g.JSON(http.StatusOK, responses)
}

// @Security AdminToken
// createElection godoc
// @Summary Create a new election
// @Description Rejected while another election is still ongoing
// @Tags admin
// @Accept json
// @Produce json
// @Param request body models.CreateElectionRequest true "Create Election Request"
// @Success 200 {object} models.ElectionResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/admin/elections [post]
func (c *AdminController) createElection(g *gin.Context) {
	var req models.CreateElectionRequest
	if err := g.ShouldBindJSON(&req); err != nil || req.ID < 1 || req.PeriodStart == 0 || req.PeriodEnd == 0 {
		g.JSON(http.StatusBadRequest, gin.H{"error": "invalid request, missing id or period"})
		return
	}
	if req.PeriodEnd <= req.PeriodStart {
		g.JSON(http.StatusBadRequest, gin.H{"error": "period end must be after period start"})
		return
	}

	// At most one ongoing election at any time.
	existing, err := c.electionsStorage.GetAll(g.Request.Context())
	if err != nil {
		logging.Log.Errorf("ADMIN: failed to check existing elections: %v", err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	for _, e := range existing {
		if e.Status == storage.ElectionStatusOngoing {
			g.JSON(http.StatusConflict, gin.H{"error": "an election is already ongoing"})
			return
		}
	}

	election := &storage.Election{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		PeriodStart: req.PeriodStart,
		PeriodEnd:   req.PeriodEnd,
		VotingStart: req.VotingStart,
		VotingEnd:   req.VotingEnd,
		Status:      storage.ElectionStatusOngoing,
		CreatedAt:   time.Now().UTC(),
	}
	if err := c.electionsStorage.Create(g.Request.Context(), election); err != nil {
		if errors.Is(err, storage.ErrItemWithIDAlreadyExists) {
			g.JSON(http.StatusConflict, gin.H{"error": "election with this id already exists"})
			return
		}
		logging.Log.Errorf("ADMIN: failed to create election: %v", err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	logging.Log.Infof("ADMIN: created election %d (%s)", election.ID, election.Name)
	g.JSON(http.StatusOK, models.TransformElectionFromStorage(election))
}

// @Security AdminToken
// closeElection godoc
// @Summary Close an ongoing election
// @Tags admin
// @Produce json
// @Param id path int true "Election ID"
// @Success 200 {object} models.ElectionResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/admin/elections/{id}/close [post]
func (c *AdminController) closeElection(g *gin.Context) {
	id, err := strconv.Atoi(g.Param("id"))
	if err != nil {
		g.JSON(http.StatusBadRequest, gin.H{"error": "invalid election id"})
		return
	}

	election, err := c.electionsStorage.Get(g.Request.Context(), id)
	if err != nil {
		logging.Log.Errorf("ADMIN: failed to get election %d: %v", id, err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if election == nil {
		g.JSON(http.StatusNotFound, gin.H{"error": "election not found"})
		return
	}

	election.Status = storage.ElectionStatusClosed
	if err := c.electionsStorage.Update(g.Request.Context(), election); err != nil {
		logging.Log.Errorf("ADMIN: failed to close election %d: %v", id, err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	logging.Log.Infof("ADMIN: closed election %d", id)
	g.JSON(http.StatusOK, models.TransformElectionFromStorage(election))
}

// @Security AdminToken
// listVoters godoc
// @Summary List all registered voters
// @Tags admin
// @Produce json
// @Success 200 {array} models.VoterResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/admin/voters [get]
func (c *AdminController) listVoters(g *gin.Context) {
	voters, err := c.votersStorage.GetAll(g.Request.Context())
	if err != nil {
		logging.Log.Errorf("ADMIN: failed to list voters: %v", err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	responses := make([]models.VoterResponse, 0, len(voters))
	for _, v := range voters {
		responses = append(responses, models.TransformVoterFromStorage(v))
	}
	logging.Log.Infof("ADMIN: listed %d voters", len(responses))
	g.JSON(http.StatusOK, responses)
}

// @Security AdminToken
// registerVoters godoc
// @Summary Register one or more eligible voters
// @Tags admin
// @Accept json
// @Produce json
// @Param request body models.RegisterVotersRequest true "Register Voters Request"
// @Success 200 {array} models.VoterResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /api/admin/voters [post]
func (c *AdminController) registerVoters(g *gin.Context) {
	var req models.RegisterVotersRequest
	if err := g.ShouldBindJSON(&req); err != nil || req.Count < 1 {
		g.JSON(http.StatusBadRequest, gin.H{"error": "invalid request, missing count"})
		return
	}

	voters := make([]models.VoterResponse, 0, req.Count)
	for i := 0; i < req.Count; i++ {
		name := ""
		if i < len(req.Names) {
			name = req.Names[i]
		}
		voter := &storage.Voter{
			Code:       c.generateVoterCode(),
			Name:       name,
			Registered: time.Now().UTC(),
		}
		if err := c.votersStorage.Put(g.Request.Context(), voter); err == nil {
			logging.Log.Infof("ADMIN: registered voter: %s", voter.Code)
			voters = append(voters, models.TransformVoterFromStorage(voter))
		} else {
			logging.Log.Errorf("ADMIN: failed to register voter: %v", err)
		}
	}

	g.JSON(http.StatusOK, voters)
}

// @Security AdminToken
// countVoters godoc
// @Summary Count the eligible voters
// @Tags admin
// @Produce json
// @Success 200 {object} models.VoterCountResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/admin/voters/count [get]
func (c *AdminController) countVoters(g *gin.Context) {
	count, err := c.votersStorage.Count(g.Request.Context())
	if err != nil {
		logging.Log.Errorf("ADMIN: failed to count voters: %v", err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	g.JSON(http.StatusOK, &models.VoterCountResponse{Count: count})
}

// @Security AdminToken
// deleteVoter godoc
// @Summary Delete a registered voter
// @Tags admin
// @Produce json
// @Param code path string true "Voter code"
// @Success 200 {object} map[string]string
// @Failure 500 {object} models.ErrorResponse
// @Router /api/admin/voters/{code} [delete]
func (c *AdminController) deleteVoter(g *gin.Context) {
	code := g.Param("code")
	if code == "" {
		g.JSON(http.StatusBadRequest, gin.H{"error": "missing code"})
		return
	}
	if err := c.votersStorage.Delete(g.Request.Context(), code); err != nil {
		logging.Log.Errorf("ADMIN: failed to delete voter %s: %v", code, err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	logging.Log.Infof("ADMIN: deleted voter: %s", code)
	g.JSON(http.StatusOK, gin.H{"deleted": code})
}

func (c *AdminController) generateVoterCode() string {
	code, err := gonanoid.Generate(models.Alphabet, 8)
	if err != nil {
		logging.Log.Errorf("ADMIN: failed to generate voter code: %v", err)
		return "ERROR"
	}
	return code
}
