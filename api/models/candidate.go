package models

import "github.com/alex-pricope/election-voting-system/storage"

type CandidateCreateRequest struct {
	ID             int    `json:"id"`
	PositionID     int    `json:"positionId"`
	PositionNumber int    `json:"positionNumber"`
	Name           string `json:"name"`
	IsActive       bool   `json:"isActive"`
	Profile        string `json:"profile,omitempty"`
	Vision         string `json:"vision,omitempty"`
	Mission        string `json:"mission,omitempty"`
	Program        string `json:"program,omitempty"`
}

type CandidateUpdateRequest struct {
	PositionID     int    `json:"positionId"`
	PositionNumber int    `json:"positionNumber"`
	Name           string `json:"name"`
	IsActive       bool   `json:"isActive"`
	Profile        string `json:"profile,omitempty"`
	Vision         string `json:"vision,omitempty"`
	Mission        string `json:"mission,omitempty"`
	Program        string `json:"program,omitempty"`
}

type CandidateResponse struct {
	ID             int    `json:"id"`
	PositionID     int    `json:"positionId"`
	PositionNumber int    `json:"positionNumber"`
	Name           string `json:"name"`
	IsActive       bool   `json:"isActive"`
	Profile        string `json:"profile,omitempty"`
	Vision         string `json:"vision,omitempty"`
	Mission        string `json:"mission,omitempty"`
	Program        string `json:"program,omitempty"`
}

func TransformCandidateFromStorage(c *storage.Candidate) CandidateResponse {
	return CandidateResponse{
		ID:             c.ID,
		PositionID:     c.PositionID,
		PositionNumber: c.PositionNumber,
		Name:           c.Name,
		IsActive:       c.IsActive,
		Profile:        c.Profile,
		Vision:         c.Vision,
		Mission:        c.Mission,
		Program:        c.Program,
	}
}
