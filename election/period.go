// Package election evaluates where a wall-clock instant falls inside a
// voting window. The evaluation is pure: callers inject now.
package election

import (
	"fmt"
	"time"
)

type Period string

const (
	PeriodUpcoming Period = "upcoming"
	PeriodActive   Period = "active"
	PeriodEnded    Period = "ended"
)

// Remaining is the time left until the window closes, truncated to whole
// days and hours. Never rounded up.
type Remaining struct {
	Days  int `json:"days"`
	Hours int `json:"hours"`
}

func (r Remaining) String() string {
	return fmt.Sprintf("%dd %dh", r.Days, r.Hours)
}

type Evaluation struct {
	Period    Period     `json:"period"`
	Remaining *Remaining `json:"remaining,omitempty"`
}

// EvaluatePeriod maps now against a voting window. A missing bound means the
// window is open-ended and always active. The end bound is inclusive.
func EvaluatePeriod(now time.Time, start, end *time.Time) Evaluation {
	if start == nil || end == nil {
		return Evaluation{Period: PeriodActive}
	}
	if now.Before(*start) {
		return Evaluation{Period: PeriodUpcoming}
	}
	if now.After(*end) {
		return Evaluation{Period: PeriodEnded}
	}

	hours := int(end.Sub(now) / time.Hour)
	return Evaluation{
		Period:    PeriodActive,
		Remaining: &Remaining{Days: hours / 24, Hours: hours % 24},
	}
}
