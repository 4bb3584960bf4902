package models

import "github.com/alex-pricope/election-voting-system/storage"

type PositionCreateRequest struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	IsActive    bool   `json:"isActive"`
}

type PositionUpdateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	IsActive    bool   `json:"isActive"`
}

type PositionResponse struct {
	ID              int    `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	IsActive        bool   `json:"isActive"`
	CandidatesCount int    `json:"candidatesCount"`
}

func TransformPositionFromStorage(p *storage.Position, candidatesCount int) PositionResponse {
	return PositionResponse{
		ID:              p.ID,
		Title:           p.Title,
		Description:     p.Description,
		IsActive:        p.IsActive,
		CandidatesCount: candidatesCount,
	}
}
