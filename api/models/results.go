package models

import (
	"time"

	"github.com/alex-pricope/election-voting-system/results"
)

type CandidateResultResponse struct {
	CandidateID    int     `json:"candidateId"`
	Name           string  `json:"name"`
	PositionNumber int     `json:"positionNumber"`
	Votes          int     `json:"votes"`
	Percentage     float64 `json:"percentage"`
}

type PositionResultResponse struct {
	PositionID int                       `json:"positionId"`
	Title      string                    `json:"title"`
	TotalVotes int                       `json:"totalVotes"`
	Candidates []CandidateResultResponse `json:"candidates"`
	Winner     *CandidateResultResponse  `json:"winner,omitempty"`
	IsTie      bool                      `json:"isTie"`
	IsComplete bool                      `json:"isComplete"`
}

type OverallResultsResponse struct {
	TotalVoters       int                      `json:"totalVoters"`
	TotalVotes        int                      `json:"totalVotes"`
	DistinctVoters    int                      `json:"distinctVoters"`
	ParticipationRate float64                  `json:"participationRate"`
	Positions         []PositionResultResponse `json:"positions"`
	LastUpdated       time.Time                `json:"lastUpdated"`
	Stale             bool                     `json:"stale"`
}

type RefreshStateResponse struct {
	Refreshing bool `json:"refreshing"`
}

func TransformCandidateResult(c results.CandidateResult) CandidateResultResponse {
	return CandidateResultResponse{
		CandidateID:    c.CandidateID,
		Name:           c.Name,
		PositionNumber: c.PositionNumber,
		Votes:          c.Votes,
		Percentage:     c.Percentage,
	}
}

func TransformPositionResult(p results.PositionResult) PositionResultResponse {
	candidates := make([]CandidateResultResponse, 0, len(p.Candidates))
	for _, c := range p.Candidates {
		candidates = append(candidates, TransformCandidateResult(c))
	}
	r := PositionResultResponse{
		PositionID: p.PositionID,
		Title:      p.Title,
		TotalVotes: p.TotalVotes,
		Candidates: candidates,
		IsTie:      p.IsTie,
		IsComplete: p.IsComplete,
	}
	if p.Winner != nil {
		w := TransformCandidateResult(*p.Winner)
		r.Winner = &w
	}
	return r
}

func TransformOverallResult(o *results.OverallResult, stale bool) OverallResultsResponse {
	positions := make([]PositionResultResponse, 0, len(o.Positions))
	for _, p := range o.Positions {
		positions = append(positions, TransformPositionResult(p))
	}
	return OverallResultsResponse{
		TotalVoters:       o.TotalVoters,
		TotalVotes:        o.TotalVotes,
		DistinctVoters:    o.DistinctVoters,
		ParticipationRate: o.ParticipationRate,
		Positions:         positions,
		LastUpdated:       o.LastUpdated,
		Stale:             stale,
	}
}
