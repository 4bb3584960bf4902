// Package mem implements the storage interfaces in memory. It backs unit
// tests and the local development mode, and enforces the same vote
// uniqueness constraint as the DynamoDB conditional write.
package mem

import (
	"context"
	"sync"

	"github.com/alex-pricope/election-voting-system/storage"
)

var _ storage.ElectionStorage = (*ElectionStore)(nil)
var _ storage.PositionStorage = (*PositionStore)(nil)
var _ storage.CandidateStorage = (*CandidateStore)(nil)
var _ storage.VoteStorage = (*VoteStore)(nil)
var _ storage.VoteRetractor = (*VoteStore)(nil)
var _ storage.VoterStorage = (*VoterStore)(nil)

type ElectionStore struct {
	mu        sync.Mutex
	elections map[int]*storage.Election
}

func NewElectionStore() *ElectionStore {
	return &ElectionStore{elections: map[int]*storage.Election{}}
}

func (s *ElectionStore) Get(_ context.Context, id int) (*storage.Election, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.elections[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (s *ElectionStore) GetAll(_ context.Context) ([]*storage.Election, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*storage.Election, 0, len(s.elections))
	for _, e := range s.elections {
		cp := *e
		out = append(out, &cp)
	}
	return out, nil
}

func (s *ElectionStore) GetCurrent(ctx context.Context) (*storage.Election, error) {
	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return storage.PickCurrentElection(all)
}

func (s *ElectionStore) Create(_ context.Context, e *storage.Election) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.elections[e.ID]; exists {
		return storage.ErrItemWithIDAlreadyExists
	}
	cp := *e
	s.elections[e.ID] = &cp
	return nil
}

func (s *ElectionStore) Update(_ context.Context, e *storage.Election) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *e
	s.elections[e.ID] = &cp
	return nil
}

type PositionStore struct {
	mu        sync.Mutex
	positions map[int]*storage.Position
}

func NewPositionStore() *PositionStore {
	return &PositionStore{positions: map[int]*storage.Position{}}
}

func (s *PositionStore) Get(_ context.Context, id int) (*storage.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.positions[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (s *PositionStore) GetAll(_ context.Context) ([]*storage.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*storage.Position, 0, len(s.positions))
	for _, p := range s.positions {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (s *PositionStore) Create(_ context.Context, p *storage.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.positions[p.ID]; exists {
		return storage.ErrItemWithIDAlreadyExists
	}
	cp := *p
	s.positions[p.ID] = &cp
	return nil
}

func (s *PositionStore) Update(_ context.Context, p *storage.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.positions[p.ID] = &cp
	return nil
}

func (s *PositionStore) Delete(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.positions, id)
	return nil
}

type CandidateStore struct {
	mu         sync.Mutex
	candidates map[int]*storage.Candidate
}

func NewCandidateStore() *CandidateStore {
	return &CandidateStore{candidates: map[int]*storage.Candidate{}}
}

func (s *CandidateStore) Get(_ context.Context, id int) (*storage.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.candidates[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (s *CandidateStore) GetAll(_ context.Context) ([]*storage.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*storage.Candidate, 0, len(s.candidates))
	for _, c := range s.candidates {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (s *CandidateStore) GetByPosition(ctx context.Context, positionID int) ([]*storage.Candidate, error) {
	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*storage.Candidate, 0)
	for _, c := range all {
		if c.PositionID == positionID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *CandidateStore) Create(_ context.Context, c *storage.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.candidates[c.ID]; exists {
		return storage.ErrItemWithIDAlreadyExists
	}
	cp := *c
	s.candidates[c.ID] = &cp
	return nil
}

func (s *CandidateStore) Update(_ context.Context, c *storage.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.candidates[c.ID] = &cp
	return nil
}

func (s *CandidateStore) Delete(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.candidates, id)
	return nil
}

// VoteStore keys votes by (PK, SK) exactly like the DynamoDB table and
// rejects duplicates under the lock, so concurrent submissions race on the
// same compare-and-set the production ledger provides.
type VoteStore struct {
	mu    sync.Mutex
	votes map[string]*storage.Vote
}

func NewVoteStore() *VoteStore {
	return &VoteStore{votes: map[string]*storage.Vote{}}
}

func voteKey(voterID, sortKey string) string {
	return voterID + "|" + sortKey
}

func (s *VoteStore) Create(_ context.Context, vote *storage.Vote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	vote.SortKey = storage.VoteSortKey(vote.PositionID, vote.PeriodStart, vote.PeriodEnd)
	key := voteKey(vote.VoterID, vote.SortKey)
	if _, exists := s.votes[key]; exists {
		return storage.ErrVoteAlreadyExists
	}
	cp := *vote
	s.votes[key] = &cp
	return nil
}

func (s *VoteStore) Delete(_ context.Context, voterID string, positionID int, periodStart, periodEnd int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := voteKey(voterID, storage.VoteSortKey(positionID, periodStart, periodEnd))
	if _, exists := s.votes[key]; !exists {
		return storage.ErrNotFound
	}
	delete(s.votes, key)
	return nil
}

func (s *VoteStore) GetAll(_ context.Context) ([]*storage.Vote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*storage.Vote, 0, len(s.votes))
	for _, v := range s.votes {
		cp := *v
		out = append(out, &cp)
	}
	return out, nil
}

func (s *VoteStore) GetByVoter(_ context.Context, voterID string, periodStart, periodEnd int64) ([]*storage.Vote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*storage.Vote, 0)
	for _, v := range s.votes {
		if v.VoterID == voterID && v.PeriodStart == periodStart && v.PeriodEnd == periodEnd {
			cp := *v
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *VoteStore) CountByPosition(_ context.Context, positionID int, periodStart, periodEnd int64) (map[int]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[int]int)
	for _, v := range s.votes {
		if v.PositionID == positionID && v.PeriodStart == periodStart && v.PeriodEnd == periodEnd {
			counts[v.CandidateID]++
		}
	}
	return counts, nil
}

func (s *VoteStore) DistinctVoterCount(_ context.Context, periodStart, periodEnd int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	voters := make(map[string]struct{})
	for _, v := range s.votes {
		if v.PeriodStart == periodStart && v.PeriodEnd == periodEnd {
			voters[v.VoterID] = struct{}{}
		}
	}
	return len(voters), nil
}

type VoterStore struct {
	mu     sync.Mutex
	voters map[string]*storage.Voter
}

func NewVoterStore() *VoterStore {
	return &VoterStore{voters: map[string]*storage.Voter{}}
}

func (s *VoterStore) Get(_ context.Context, code string) (*storage.Voter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.voters[code]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (s *VoterStore) GetAll(_ context.Context) ([]*storage.Voter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*storage.Voter, 0, len(s.voters))
	for _, v := range s.voters {
		cp := *v
		out = append(out, &cp)
	}
	return out, nil
}

func (s *VoterStore) Put(_ context.Context, voter *storage.Voter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *voter
	s.voters[voter.Code] = &cp
	return nil
}

func (s *VoterStore) Delete(_ context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.voters, code)
	return nil
}

func (s *VoterStore) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.voters), nil
}
