package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/alex-pricope/election-voting-system/api/models"
	"github.com/alex-pricope/election-voting-system/api/transport"
	"github.com/alex-pricope/election-voting-system/logging"
	"github.com/alex-pricope/election-voting-system/storage"
	"github.com/alex-pricope/election-voting-system/voting"
	"github.com/gin-gonic/gin"
)

type VotingController struct {
	electionsStorage  storage.ElectionStorage
	positionsStorage  storage.PositionStorage
	candidatesStorage storage.CandidateStorage
	votesStorage      storage.VoteStorage
}

func NewVotingController(
	electionStorage storage.ElectionStorage,
	positionStorage storage.PositionStorage,
	candidateStorage storage.CandidateStorage,
	voteStorage storage.VoteStorage,
) *VotingController {
	return &VotingController{
		electionsStorage:  electionStorage,
		positionsStorage:  positionStorage,
		candidatesStorage: candidateStorage,
		votesStorage:      voteStorage,
	}
}

func (c *VotingController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/voting", transport.VoterAuthMiddleware())

	group.GET("/session", c.getSession)
	group.GET("/status", c.getStatus)
	group.POST("/vote", c.submitVote)
	group.DELETE("/vote/:positionId", c.removeVote)
}

func (c *VotingController) loadSession(ctx context.Context, voterID string) (*voting.Session, error) {
	session := voting.NewSession(voterID, c.electionsStorage, c.positionsStorage, c.candidatesStorage, c.votesStorage)
	if err := session.Load(ctx); err != nil {
		return nil, err
	}
	return session, nil
}

// getSession godoc
// @Summary Get the voter's ballot for the current election
// @Description Returns positions, candidates, the voter's cast votes, progress and status
// @Tags voting
// @Produce json
// @Success 200 {object} models.VotingSessionResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse "No current election"
// @Failure 500 {object} models.ErrorResponse
// @Router /api/voting/session [get]
func (c *VotingController) getSession(g *gin.Context) {
	session, err := c.loadSession(g.Request.Context(), g.GetString(transport.VoterIDKey))
	if err != nil {
		respondVotingError(g, err)
		return
	}

	g.JSON(http.StatusOK, buildSessionResponse(session))
}

// getStatus godoc
// @Summary Get the voter's voting status
// @Tags voting
// @Produce json
// @Success 200 {object} models.VotingStatusResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/voting/status [get]
func (c *VotingController) getStatus(g *gin.Context) {
	session, err := c.loadSession(g.Request.Context(), g.GetString(transport.VoterIDKey))
	if err != nil {
		respondVotingError(g, err)
		return
	}

	g.JSON(http.StatusOK, models.TransformVotingStatus(session.Status()))
}

// submitVote godoc
// @Summary Cast a vote for a candidate
// @Description Records at most one vote per position per election period
// @Tags voting
// @Accept json
// @Produce json
// @Param vote body models.SubmitVoteRequest true "Vote submission"
// @Success 200 {object} models.VoteResponse
// @Failure 400 {object} models.ErrorResponse "Invalid position or candidate"
// @Failure 401 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse "Duplicate vote or period not active"
// @Failure 500 {object} models.ErrorResponse
// @Router /api/voting/vote [post]
func (c *VotingController) submitVote(g *gin.Context) {
	var req models.SubmitVoteRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request format"})
		return
	}

	session, err := c.loadSession(g.Request.Context(), g.GetString(transport.VoterIDKey))
	if err != nil {
		respondVotingError(g, err)
		return
	}

	vote, err := session.SubmitVote(g.Request.Context(), req.PositionID, req.CandidateID)
	if err != nil {
		respondVotingError(g, err)
		return
	}

	g.JSON(http.StatusOK, models.TransformVoteFromStorage(vote))
}

// removeVote godoc
// @Summary Retract a cast vote
// @Description Only available when the vote ledger supports retraction
// @Tags voting
// @Produce json
// @Param positionId path int true "Position ID"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 501 {object} models.ErrorResponse "Ledger does not support retraction"
// @Router /api/voting/vote/{positionId} [delete]
func (c *VotingController) removeVote(g *gin.Context) {
	positionID, err := strconv.Atoi(g.Param("positionId"))
	if err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid position id"})
		return
	}

	session, err := c.loadSession(g.Request.Context(), g.GetString(transport.VoterIDKey))
	if err != nil {
		respondVotingError(g, err)
		return
	}

	if err := session.RemoveVote(g.Request.Context(), positionID); err != nil {
		respondVotingError(g, err)
		return
	}

	g.JSON(http.StatusOK, &models.MessageResponse{Message: "vote removed"})
}

func buildSessionResponse(session *voting.Session) models.VotingSessionResponse {
	selected := session.SelectedVotes()

	positions := session.ActivePositions()
	ballot := make([]models.BallotPositionResponse, 0, len(positions))
	for _, p := range positions {
		candidates := session.CandidatesFor(p.ID)
		candidateResponses := make([]models.CandidateResponse, 0, len(candidates))
		for _, cand := range candidates {
			candidateResponses = append(candidateResponses, models.TransformCandidateFromStorage(cand))
		}

		entry := models.BallotPositionResponse{
			Position:   models.TransformPositionFromStorage(p, len(candidates)),
			Candidates: candidateResponses,
		}
		if v, ok := selected[p.ID]; ok {
			vr := models.TransformVoteFromStorage(v)
			entry.Vote = &vr
		}
		ballot = append(ballot, entry)
	}

	return models.VotingSessionResponse{
		Election:   models.TransformElectionFromStorage(session.Election()),
		Positions:  ballot,
		Progress:   session.Progress(),
		IsComplete: session.IsComplete(),
		Status:     models.TransformVotingStatus(session.Status()),
	}
}

// respondVotingError maps the voting error taxonomy onto HTTP statuses. A
// duplicate caught by the ledger and one caught locally produce the same
// response.
func respondVotingError(g *gin.Context, err error) {
	switch {
	case errors.Is(err, voting.ErrUnauthenticated):
		g.JSON(http.StatusUnauthorized, &models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, voting.ErrNoActiveElection):
		g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, voting.ErrPeriodNotActive), errors.Is(err, voting.ErrDuplicateVote):
		g.JSON(http.StatusConflict, &models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, voting.ErrInvalidPosition), errors.Is(err, voting.ErrInvalidCandidate):
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, voting.ErrVoteNotFound):
		g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, voting.ErrRetractionUnsupported):
		g.JSON(http.StatusNotImplemented, &models.ErrorResponse{Error: err.Error()})
	default:
		logging.Log.Errorf("VOTING: unexpected error: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "internal error"})
	}
}
