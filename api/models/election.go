package models

import (
	"time"

	"github.com/alex-pricope/election-voting-system/storage"
)

type CreateElectionRequest struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	PeriodStart int64      `json:"periodStart"`
	PeriodEnd   int64      `json:"periodEnd"`
	VotingStart *time.Time `json:"votingStart,omitempty"`
	VotingEnd   *time.Time `json:"votingEnd,omitempty"`
}

type ElectionResponse struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	PeriodStart int64      `json:"periodStart"`
	PeriodEnd   int64      `json:"periodEnd"`
	VotingStart *time.Time `json:"votingStart,omitempty"`
	VotingEnd   *time.Time `json:"votingEnd,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func TransformElectionFromStorage(e *storage.Election) ElectionResponse {
	return ElectionResponse{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		PeriodStart: e.PeriodStart,
		PeriodEnd:   e.PeriodEnd,
		VotingStart: e.VotingStart,
		VotingEnd:   e.VotingEnd,
		Status:      e.Status,
		CreatedAt:   e.CreatedAt,
	}
}
