package storage

import (
	"fmt"
	"time"
)

const (
	ElectionStatusUpcoming = "upcoming"
	ElectionStatusOngoing  = "ongoing"
	ElectionStatusClosed   = "closed"
)

type Election struct {
	ID          int        `dynamodbav:"PK" json:"id"`
	Name        string     `dynamodbav:"Name" json:"name"`
	Description string     `dynamodbav:"Description" json:"description"`
	PeriodStart int64      `dynamodbav:"PeriodStart" json:"periodStart"`
	PeriodEnd   int64      `dynamodbav:"PeriodEnd" json:"periodEnd"`
	VotingStart *time.Time `dynamodbav:"VotingStart" json:"votingStart,omitempty"`
	VotingEnd   *time.Time `dynamodbav:"VotingEnd" json:"votingEnd,omitempty"`
	Status      string     `dynamodbav:"Status" json:"status"`
	CreatedAt   time.Time  `dynamodbav:"CreatedAt" json:"createdAt"`
}

type Position struct {
	ID          int    `dynamodbav:"PK" json:"id"`
	Title       string `dynamodbav:"Title" json:"title"`
	Description string `dynamodbav:"Description" json:"description"`
	IsActive    bool   `dynamodbav:"IsActive" json:"isActive"`
}

type Candidate struct {
	ID             int    `dynamodbav:"PK" json:"id"`
	PositionID     int    `dynamodbav:"PositionID" json:"positionId"`
	PositionNumber int    `dynamodbav:"PositionNumber" json:"positionNumber"`
	Name           string `dynamodbav:"Name" json:"name"`
	IsActive       bool   `dynamodbav:"IsActive" json:"isActive"`
	Profile        string `dynamodbav:"Profile" json:"profile,omitempty"`
	Vision         string `dynamodbav:"Vision" json:"vision,omitempty"`
	Mission        string `dynamodbav:"Mission" json:"mission,omitempty"`
	Program        string `dynamodbav:"Program" json:"program,omitempty"`
}

type Vote struct {
	VoterID     string    `dynamodbav:"PK" json:"voterId"`
	SortKey     string    `dynamodbav:"SK" json:"-"` // Unique composite of position/period
	PositionID  int       `dynamodbav:"PositionID" json:"positionId"`
	CandidateID int       `dynamodbav:"CandidateID" json:"candidateId"`
	PeriodStart int64     `dynamodbav:"PeriodStart" json:"periodStart"`
	PeriodEnd   int64     `dynamodbav:"PeriodEnd" json:"periodEnd"`
	CastAt      time.Time `dynamodbav:"CastAt" json:"castAt"`
}

// VoteSortKey builds the range key that makes a vote unique per
// (position, election period) for a given voter.
func VoteSortKey(positionID int, periodStart, periodEnd int64) string {
	return fmt.Sprintf("pos#%d#period#%d#%d", positionID, periodStart, periodEnd)
}

type Voter struct {
	Code       string    `dynamodbav:"PK" json:"code"`
	Name       string    `dynamodbav:"Name" json:"name"`
	Registered time.Time `dynamodbav:"Registered" json:"registered"`
}
