// Package voting orchestrates a single voter's interaction with the current
// election: loading ballot state, submitting votes, and tracking progress.
package voting

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/alex-pricope/election-voting-system/election"
	"github.com/alex-pricope/election-voting-system/logging"
	"github.com/alex-pricope/election-voting-system/storage"
)

type Status struct {
	HasVoted      bool                `json:"hasVoted"`
	CanVote       bool                `json:"canVote"`
	Period        election.Period     `json:"votingPeriod"`
	RemainingTime *election.Remaining `json:"remainingTime,omitempty"`
}

type Progress struct {
	Voted      int     `json:"voted"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// Session holds one voter's view of the current election. It is owned by
// its caller and built per authenticated request; there is no ambient
// shared vote state. The ledger stays the final arbiter of uniqueness, the
// session only serializes its own submissions per position.
type Session struct {
	voterID string
	now     func() time.Time

	elections  storage.ElectionStorage
	positions  storage.PositionStorage
	candidates storage.CandidateStorage
	votes      storage.VoteStorage

	mu         sync.Mutex
	posLocks   map[int]*sync.Mutex
	election   *storage.Election
	evaluation election.Evaluation
	active     []*storage.Position
	byPosition map[int][]*storage.Candidate
	selected   map[int]*storage.Vote
	loaded     bool
}

func NewSession(
	voterID string,
	elections storage.ElectionStorage,
	positions storage.PositionStorage,
	candidates storage.CandidateStorage,
	votes storage.VoteStorage,
) *Session {
	return &Session{
		voterID:    voterID,
		now:        time.Now,
		elections:  elections,
		positions:  positions,
		candidates: candidates,
		votes:      votes,
		posLocks:   map[int]*sync.Mutex{},
		byPosition: map[int][]*storage.Candidate{},
		selected:   map[int]*storage.Vote{},
	}
}

// WithClock replaces the session clock. Tests inject a fixed now.
func (s *Session) WithClock(now func() time.Time) *Session {
	s.now = now
	return s
}

// Load fetches the current election, its active ballot, and the voter's
// already-cast votes for the election period. A closed election is still
// loaded for read-only viewing; submission is gated separately.
func (s *Session) Load(ctx context.Context) error {
	if s.voterID == "" {
		return ErrUnauthenticated
	}

	e, err := s.elections.GetCurrent(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNoActiveElection
		}
		return err
	}

	positions, err := s.positions.GetAll(ctx)
	if err != nil {
		return err
	}

	active := make([]*storage.Position, 0, len(positions))
	byPosition := make(map[int][]*storage.Candidate)
	for _, p := range positions {
		if !p.IsActive {
			continue
		}
		candidates, err := s.candidates.GetByPosition(ctx, p.ID)
		if err != nil {
			return err
		}
		list := make([]*storage.Candidate, 0, len(candidates))
		for _, c := range candidates {
			if c.IsActive {
				list = append(list, c)
			}
		}
		active = append(active, p)
		byPosition[p.ID] = list
	}

	votes, err := s.votes.GetByVoter(ctx, s.voterID, e.PeriodStart, e.PeriodEnd)
	if err != nil {
		return err
	}
	selected := make(map[int]*storage.Vote, len(votes))
	for _, v := range votes {
		selected[v.PositionID] = v
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.election = e
	s.evaluation = election.EvaluatePeriod(s.now(), e.VotingStart, e.VotingEnd)
	s.active = active
	s.byPosition = byPosition
	s.selected = selected
	s.loaded = true
	return nil
}

// SubmitVote validates all preconditions locally, then writes the vote to
// the ledger. Either the vote is durably recorded and reflected in session
// state, or nothing changes. Submissions for the same position are
// serialized; the ledger's uniqueness constraint catches races this session
// cannot see (another tab, another device).
func (s *Session) SubmitVote(ctx context.Context, positionID, candidateID int) (*storage.Vote, error) {
	if s.voterID == "" {
		return nil, ErrUnauthenticated
	}

	s.mu.Lock()
	if !s.loaded || s.election == nil {
		s.mu.Unlock()
		return nil, ErrNoActiveElection
	}
	lock, ok := s.posLocks[positionID]
	if !ok {
		lock = &sync.Mutex{}
		s.posLocks[positionID] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	e := s.election
	eval := election.EvaluatePeriod(s.now(), e.VotingStart, e.VotingEnd)
	s.evaluation = eval

	if e.Status != storage.ElectionStatusOngoing || eval.Period != election.PeriodActive {
		s.mu.Unlock()
		return nil, ErrPeriodNotActive
	}

	var position *storage.Position
	for _, p := range s.active {
		if p.ID == positionID {
			position = p
			break
		}
	}
	if position == nil {
		s.mu.Unlock()
		return nil, ErrInvalidPosition
	}

	var candidate *storage.Candidate
	for _, c := range s.byPosition[positionID] {
		if c.ID == candidateID {
			candidate = c
			break
		}
	}
	if candidate == nil {
		s.mu.Unlock()
		return nil, ErrInvalidCandidate
	}

	if _, voted := s.selected[positionID]; voted {
		s.mu.Unlock()
		return nil, ErrDuplicateVote
	}
	s.mu.Unlock()

	vote := &storage.Vote{
		VoterID:     s.voterID,
		PositionID:  positionID,
		CandidateID: candidateID,
		PeriodStart: e.PeriodStart,
		PeriodEnd:   e.PeriodEnd,
		CastAt:      s.now().UTC(),
	}
	if err := s.votes.Create(ctx, vote); err != nil {
		if errors.Is(err, storage.ErrVoteAlreadyExists) {
			// Lost the race at the ledger. Same answer as the local check.
			return nil, ErrDuplicateVote
		}
		logging.Log.Errorf("SESSION: failed to persist vote for voter %s: %v", s.voterID, err)
		return nil, err
	}

	s.mu.Lock()
	s.selected[positionID] = vote
	s.mu.Unlock()

	logging.Log.Infof("SESSION: voter %s voted for candidate %d on position %d", s.voterID, candidateID, positionID)
	return vote, nil
}

// RemoveVote retracts a cast vote, but only when the ledger itself supports
// retraction. Without ledger support there is no local fallback: a cosmetic
// removal would be undone by the next load and misrepresent the authoritative
// state.
func (s *Session) RemoveVote(ctx context.Context, positionID int) error {
	if s.voterID == "" {
		return ErrUnauthenticated
	}

	retractor, ok := s.votes.(storage.VoteRetractor)
	if !ok {
		return ErrRetractionUnsupported
	}

	s.mu.Lock()
	if !s.loaded || s.election == nil {
		s.mu.Unlock()
		return ErrNoActiveElection
	}
	e := s.election
	eval := election.EvaluatePeriod(s.now(), e.VotingStart, e.VotingEnd)
	if e.Status != storage.ElectionStatusOngoing || eval.Period != election.PeriodActive {
		s.mu.Unlock()
		return ErrPeriodNotActive
	}
	if _, voted := s.selected[positionID]; !voted {
		s.mu.Unlock()
		return ErrVoteNotFound
	}
	s.mu.Unlock()

	if err := retractor.Delete(ctx, s.voterID, positionID, e.PeriodStart, e.PeriodEnd); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrVoteNotFound
		}
		logging.Log.Errorf("SESSION: failed to retract vote for voter %s: %v", s.voterID, err)
		return err
	}

	s.mu.Lock()
	delete(s.selected, positionID)
	s.mu.Unlock()

	logging.Log.Infof("SESSION: voter %s removed vote for position %d", s.voterID, positionID)
	return nil
}

func (s *Session) Election() *storage.Election {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.election
}

func (s *Session) ActivePositions() []*storage.Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*storage.Position(nil), s.active...)
}

func (s *Session) CandidatesFor(positionID int) []*storage.Candidate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*storage.Candidate(nil), s.byPosition[positionID]...)
}

// SelectedVotes returns a copy of the voter's cast votes keyed by position.
func (s *Session) SelectedVotes() map[int]*storage.Vote {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int]*storage.Vote, len(s.selected))
	for k, v := range s.selected {
		out[k] = v
	}
	return out
}

func (s *Session) Progress() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := len(s.active)
	voted := 0
	for _, p := range s.active {
		if _, ok := s.selected[p.ID]; ok {
			voted++
		}
	}
	pct := 0.0
	if total > 0 {
		pct = float64(voted) / float64(total) * 100
	}
	return Progress{Voted: voted, Total: total, Percentage: pct}
}

func (s *Session) IsComplete() bool {
	p := s.Progress()
	return p.Total > 0 && p.Voted == p.Total
}

// Status derives the voter-facing voting status from the loaded election.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	eval := s.evaluation
	if s.election != nil {
		eval = election.EvaluatePeriod(s.now(), s.election.VotingStart, s.election.VotingEnd)
		s.evaluation = eval
	}

	canVote := s.election != nil &&
		s.election.Status == storage.ElectionStatusOngoing &&
		eval.Period == election.PeriodActive &&
		len(s.active) > 0

	return Status{
		HasVoted:      len(s.selected) > 0,
		CanVote:       canVote,
		Period:        eval.Period,
		RemainingTime: eval.Remaining,
	}
}
