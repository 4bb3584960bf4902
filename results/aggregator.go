package results

import (
	"context"
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alex-pricope/election-voting-system/election"
	"github.com/alex-pricope/election-voting-system/logging"
	"github.com/alex-pricope/election-voting-system/storage"
)

// Aggregator recomputes the overall election result from the vote ledger,
// either on demand or on a fixed interval. It keeps the last good result
// and marks it stale when a collaborator read fails.
type Aggregator struct {
	elections  storage.ElectionStorage
	positions  storage.PositionStorage
	candidates storage.CandidateStorage
	votes      storage.VoteStorage
	voters     storage.VoterStorage

	interval time.Duration
	now      func() time.Time

	mu         sync.Mutex
	current    *OverallResult
	stale      bool
	running    bool
	generation uint64
	cancel     context.CancelFunc

	inFlight atomic.Bool
}

func NewAggregator(
	elections storage.ElectionStorage,
	positions storage.PositionStorage,
	candidates storage.CandidateStorage,
	votes storage.VoteStorage,
	voters storage.VoterStorage,
	interval time.Duration,
) *Aggregator {
	return &Aggregator{
		elections:  elections,
		positions:  positions,
		candidates: candidates,
		votes:      votes,
		voters:     voters,
		interval:   interval,
		now:        time.Now,
	}
}

// Snapshot returns the last computed result and whether it is stale. The
// result is nil until the first successful refresh.
func (a *Aggregator) Snapshot() (*OverallResult, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current == nil {
		return nil, a.stale
	}
	cp := *a.current
	cp.Positions = make([]PositionResult, len(a.current.Positions))
	for i, p := range a.current.Positions {
		p.Candidates = append([]CandidateResult(nil), p.Candidates...)
		if p.Winner != nil {
			w := *p.Winner
			p.Winner = &w
		}
		cp.Positions[i] = p
	}
	return &cp, a.stale
}

// Refresh recomputes the overall result once. A failed read keeps the
// previous result in place and only flips the stale flag.
func (a *Aggregator) Refresh(ctx context.Context) (*OverallResult, error) {
	a.mu.Lock()
	gen := a.generation
	a.mu.Unlock()

	result, err := a.compute(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()
	// A stop/start cycle after this refresh began invalidates the outcome.
	if a.generation != gen {
		return result, err
	}
	if err != nil {
		a.stale = true
		return nil, err
	}
	a.current = result
	a.stale = false
	return result, nil
}

// StartRefresh begins periodic recomputation. Calling it while running is a
// no-op. Ticks that arrive while a refresh is still in flight are skipped.
func (a *Aggregator) StartRefresh(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.running {
		return
	}
	a.running = true
	a.generation++

	runCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	go a.loop(runCtx)
	logging.Log.Infof("RESULTS: periodic refresh started (every %s)", a.interval)
}

// StopRefresh cancels the refresh loop. Calling it while stopped is a no-op.
func (a *Aggregator) StopRefresh() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.running {
		return
	}
	a.running = false
	a.generation++
	a.cancel()
	a.cancel = nil
	logging.Log.Info("RESULTS: periodic refresh stopped")
}

// Running reports whether the periodic refresh loop is active.
func (a *Aggregator) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}

func (a *Aggregator) loop(ctx context.Context) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !a.inFlight.CompareAndSwap(false, true) {
				logging.Log.Warn("RESULTS: previous refresh still in flight, skipping tick")
				continue
			}
			if _, err := a.Refresh(ctx); err != nil {
				logging.Log.Errorf("RESULTS: refresh failed: %v", err)
			}
			a.inFlight.Store(false)
		}
	}
}

func (a *Aggregator) compute(ctx context.Context) (*OverallResult, error) {
	e, err := a.elections.GetCurrent(ctx)
	if err != nil {
		return nil, err
	}

	eval := election.EvaluatePeriod(a.now(), e.VotingStart, e.VotingEnd)
	complete := eval.Period == election.PeriodEnded || e.Status == storage.ElectionStatusClosed

	positions, err := a.positions.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(positions, func(i, j int) bool { return positions[i].ID < positions[j].ID })

	totalVotes := 0
	positionResults := make([]PositionResult, 0, len(positions))
	for _, p := range positions {
		if !p.IsActive {
			continue
		}

		candidates, err := a.candidates.GetByPosition(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		rawCounts, err := a.votes.CountByPosition(ctx, p.ID, e.PeriodStart, e.PeriodEnd)
		if err != nil {
			return nil, err
		}

		counts := make([]CandidateCount, 0, len(candidates))
		for _, c := range candidates {
			if !c.IsActive {
				continue
			}
			counts = append(counts, CandidateCount{
				CandidateID:    c.ID,
				Name:           c.Name,
				PositionNumber: c.PositionNumber,
				Count:          rawCounts[c.ID],
			})
		}

		pr := Tally(p.ID, p.Title, counts, complete)
		totalVotes += pr.TotalVotes
		positionResults = append(positionResults, pr)
	}

	distinct, err := a.votes.DistinctVoterCount(ctx, e.PeriodStart, e.PeriodEnd)
	if err != nil {
		return nil, err
	}
	eligible, err := a.voters.Count(ctx)
	if err != nil {
		return nil, err
	}

	// Participation counts voters, not ballots: a voter filling four
	// positions still participates once.
	rate := 0.0
	if eligible > 0 {
		rate = math.Round(float64(distinct)/float64(eligible)*1000) / 10
	}

	return &OverallResult{
		TotalVoters:       eligible,
		TotalVotes:        totalVotes,
		DistinctVoters:    distinct,
		ParticipationRate: rate,
		Positions:         positionResults,
		LastUpdated:       a.now().UTC(),
	}, nil
}
