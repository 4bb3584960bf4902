package models

import (
	"time"

	"github.com/alex-pricope/election-voting-system/storage"
)

type RegisterVotersRequest struct {
	Count int      `json:"count"`
	Names []string `json:"names,omitempty"`
}

type VoterResponse struct {
	Code       string    `json:"code"`
	Name       string    `json:"name"`
	Registered time.Time `json:"registered"`
}

type VoterCountResponse struct {
	Count int `json:"count"`
}

func TransformVoterFromStorage(v *storage.Voter) VoterResponse {
	return VoterResponse{
		Code:       v.Code,
		Name:       v.Name,
		Registered: v.Registered,
	}
}
