package models

import (
	"time"

	"github.com/alex-pricope/election-voting-system/storage"
	"github.com/alex-pricope/election-voting-system/voting"
)

type SubmitVoteRequest struct {
	PositionID  int `json:"positionId"`
	CandidateID int `json:"candidateId"`
}

type VoteResponse struct {
	PositionID  int       `json:"positionId"`
	CandidateID int       `json:"candidateId"`
	CastAt      time.Time `json:"castAt"`
}

type VotingStatusResponse struct {
	HasVoted      bool   `json:"hasVoted"`
	CanVote       bool   `json:"canVote"`
	VotingPeriod  string `json:"votingPeriod"`
	RemainingTime string `json:"remainingTime,omitempty"`
}

type BallotPositionResponse struct {
	Position   PositionResponse    `json:"position"`
	Candidates []CandidateResponse `json:"candidates"`
	Vote       *VoteResponse       `json:"vote,omitempty"`
}

type VotingSessionResponse struct {
	Election   ElectionResponse         `json:"election"`
	Positions  []BallotPositionResponse `json:"positions"`
	Progress   voting.Progress          `json:"progress"`
	IsComplete bool                     `json:"isComplete"`
	Status     VotingStatusResponse     `json:"status"`
}

func TransformVoteFromStorage(v *storage.Vote) VoteResponse {
	return VoteResponse{
		PositionID:  v.PositionID,
		CandidateID: v.CandidateID,
		CastAt:      v.CastAt,
	}
}

func TransformVotingStatus(s voting.Status) VotingStatusResponse {
	r := VotingStatusResponse{
		HasVoted:     s.HasVoted,
		CanVote:      s.CanVote,
		VotingPeriod: string(s.Period),
	}
	if s.RemainingTime != nil {
		r.RemainingTime = s.RemainingTime.String()
	}
	return r
}
