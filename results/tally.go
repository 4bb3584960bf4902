// Package results turns raw vote counts into per-position and overall
// election results.
package results

import (
	"math"
	"sort"
	"time"
)

type CandidateCount struct {
	CandidateID    int
	Name           string
	PositionNumber int
	Count          int
}

type CandidateResult struct {
	CandidateID    int     `json:"candidateId"`
	Name           string  `json:"name"`
	PositionNumber int     `json:"positionNumber"`
	Votes          int     `json:"votes"`
	Percentage     float64 `json:"percentage"`
}

type PositionResult struct {
	PositionID int               `json:"positionId"`
	Title      string            `json:"title"`
	TotalVotes int               `json:"totalVotes"`
	Candidates []CandidateResult `json:"candidates"`
	Winner     *CandidateResult  `json:"winner,omitempty"`
	IsTie      bool              `json:"isTie"`
	IsComplete bool              `json:"isComplete"`
}

type OverallResult struct {
	TotalVoters       int              `json:"totalVoters"`
	TotalVotes        int              `json:"totalVotes"`
	DistinctVoters    int              `json:"distinctVoters"`
	ParticipationRate float64          `json:"participationRate"`
	Positions         []PositionResult `json:"positions"`
	LastUpdated       time.Time        `json:"lastUpdated"`
}

// Tally aggregates raw per-candidate counts for one position. Candidates are
// ranked by votes descending with ballot order as a display tie-break only.
// A winner is declared only when exactly one candidate holds the maximum
// count; a shared maximum is a tie with no winner, never resolved by order.
func Tally(positionID int, title string, counts []CandidateCount, complete bool) PositionResult {
	total := 0
	for _, c := range counts {
		total += c.Count
	}

	candidates := make([]CandidateResult, 0, len(counts))
	for _, c := range counts {
		candidates = append(candidates, CandidateResult{
			CandidateID:    c.CandidateID,
			Name:           c.Name,
			PositionNumber: c.PositionNumber,
			Votes:          c.Count,
			Percentage:     percentage(c.Count, total),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Votes != candidates[j].Votes {
			return candidates[i].Votes > candidates[j].Votes
		}
		return candidates[i].PositionNumber < candidates[j].PositionNumber
	})

	result := PositionResult{
		PositionID: positionID,
		Title:      title,
		TotalVotes: total,
		Candidates: candidates,
		IsComplete: complete,
	}

	if total == 0 || len(candidates) == 0 {
		return result
	}

	maxVotes := candidates[0].Votes
	atMax := 0
	for _, c := range candidates {
		if c.Votes == maxVotes {
			atMax++
		}
	}
	if atMax > 1 {
		result.IsTie = true
	} else {
		winner := candidates[0]
		result.Winner = &winner
	}

	return result
}

// percentage rounds half-up at the tenths digit so results reproduce
// bit-identically across platforms.
func percentage(count, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(count)/float64(total)*1000) / 10
}
