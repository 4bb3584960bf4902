package results

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alex-pricope/election-voting-system/logging"
	"github.com/alex-pricope/election-voting-system/storage"
	"github.com/alex-pricope/election-voting-system/storage/mem"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type aggregatorFixture struct {
	elections  *mem.ElectionStore
	positions  *mem.PositionStore
	candidates *mem.CandidateStore
	votes      *mem.VoteStore
	voters     *mem.VoterStore
}

func setupAggregatorFixture(t *testing.T) *aggregatorFixture {
	t.Helper()
	logging.Log = logrus.New()

	f := &aggregatorFixture{
		elections:  mem.NewElectionStore(),
		positions:  mem.NewPositionStore(),
		candidates: mem.NewCandidateStore(),
		votes:      mem.NewVoteStore(),
		voters:     mem.NewVoterStore(),
	}

	ctx := context.Background()
	require.NoError(t, f.elections.Create(ctx, &storage.Election{
		ID:          1,
		Name:        "Board 2026",
		PeriodStart: 1000,
		PeriodEnd:   2000,
		Status:      storage.ElectionStatusOngoing,
	}))
	require.NoError(t, f.positions.Create(ctx, &storage.Position{ID: 1, Title: "Chair", IsActive: true}))
	require.NoError(t, f.positions.Create(ctx, &storage.Position{ID: 2, Title: "Treasurer", IsActive: true}))
	require.NoError(t, f.candidates.Create(ctx, &storage.Candidate{ID: 11, PositionID: 1, PositionNumber: 1, Name: "Alice", IsActive: true}))
	require.NoError(t, f.candidates.Create(ctx, &storage.Candidate{ID: 12, PositionID: 1, PositionNumber: 2, Name: "Bob", IsActive: true}))
	require.NoError(t, f.candidates.Create(ctx, &storage.Candidate{ID: 21, PositionID: 2, PositionNumber: 1, Name: "Carol", IsActive: true}))

	return f
}

func (f *aggregatorFixture) newAggregator(interval time.Duration) *Aggregator {
	return NewAggregator(f.elections, f.positions, f.candidates, f.votes, f.voters, interval)
}

func (f *aggregatorFixture) castVote(t *testing.T, voterID string, positionID, candidateID int) {
	t.Helper()
	err := f.votes.Create(context.Background(), &storage.Vote{
		VoterID:     voterID,
		PositionID:  positionID,
		CandidateID: candidateID,
		PeriodStart: 1000,
		PeriodEnd:   2000,
	})
	require.NoError(t, err)
}

func (f *aggregatorFixture) registerVoters(t *testing.T, codes ...string) {
	t.Helper()
	for _, code := range codes {
		require.NoError(t, f.voters.Put(context.Background(), &storage.Voter{Code: code}))
	}
}

func TestAggregatorRefresh(t *testing.T) {
	f := setupAggregatorFixture(t)
	agg := f.newAggregator(time.Second)

	t.Run("no snapshot before the first refresh", func(t *testing.T) {
		snapshot, stale := agg.Snapshot()
		assert.Nil(t, snapshot)
		assert.False(t, stale)
	})

	t.Run("participation counts voters not ballots", func(t *testing.T) {
		f.registerVoters(t, "v1", "v2", "v3", "v4", "v5", "v6", "v7", "v8", "v9", "v10")

		// 6 of 10 voters each fill both positions: 12 ballots, 60% turnout
		for _, voter := range []string{"v1", "v2", "v3", "v4", "v5", "v6"} {
			f.castVote(t, voter, 1, 11)
			f.castVote(t, voter, 2, 21)
		}

		result, err := agg.Refresh(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 10, result.TotalVoters)
		assert.Equal(t, 12, result.TotalVotes)
		assert.Equal(t, 6, result.DistinctVoters)
		assert.InDelta(t, 60.0, result.ParticipationRate, 0.0001, "summing ballots would report 120%")
	})

	t.Run("per position winners", func(t *testing.T) {
		result, err := agg.Refresh(context.Background())
		require.NoError(t, err)

		require.Len(t, result.Positions, 2)
		chair := result.Positions[0]
		require.NotNil(t, chair.Winner)
		assert.Equal(t, 11, chair.Winner.CandidateID)
		assert.False(t, chair.IsComplete, "voting window is still open")
	})

	t.Run("snapshot returns a copy of the last result", func(t *testing.T) {
		snapshot, stale := agg.Snapshot()
		require.NotNil(t, snapshot)
		assert.False(t, stale)

		snapshot.Positions[0].Title = "mutated"
		snapshot.Positions[0].Candidates[0].Votes = 999
		require.NotNil(t, snapshot.Positions[0].Winner)
		snapshot.Positions[0].Winner.Votes = 999

		fresh, _ := agg.Snapshot()
		assert.Equal(t, "Chair", fresh.Positions[0].Title, "callers must not reach the cached result")
		assert.NotEqual(t, 999, fresh.Positions[0].Candidates[0].Votes, "candidate rows must not alias the cache")
		require.NotNil(t, fresh.Positions[0].Winner)
		assert.NotEqual(t, 999, fresh.Positions[0].Winner.Votes, "the winner must not alias the cache")
	})
}

type failingElectionStorage struct {
	storage.ElectionStorage
}

func (f *failingElectionStorage) GetCurrent(context.Context) (*storage.Election, error) {
	return nil, errors.New("dynamo is down")
}

func TestAggregatorKeepsStaleResultOnFailure(t *testing.T) {
	f := setupAggregatorFixture(t)
	f.registerVoters(t, "v1", "v2")
	f.castVote(t, "v1", 1, 11)

	agg := f.newAggregator(time.Second)
	_, err := agg.Refresh(context.Background())
	require.NoError(t, err)

	broken := NewAggregator(&failingElectionStorage{f.elections}, f.positions, f.candidates, f.votes, f.voters, time.Second)
	_, err = broken.Refresh(context.Background())
	require.Error(t, err)

	// The healthy aggregator keeps serving, the broken one flags stale
	snapshot, stale := agg.Snapshot()
	require.NotNil(t, snapshot)
	assert.False(t, stale)

	_, stale = broken.Snapshot()
	assert.True(t, stale)
}

func TestAggregatorFailureKeepsPreviousResult(t *testing.T) {
	f := setupAggregatorFixture(t)
	f.registerVoters(t, "v1", "v2")
	f.castVote(t, "v1", 1, 11)

	elections := &flakyElectionStorage{ElectionStorage: f.elections}
	agg := NewAggregator(elections, f.positions, f.candidates, f.votes, f.voters, time.Second)

	first, err := agg.Refresh(context.Background())
	require.NoError(t, err)

	elections.fail = true
	_, err = agg.Refresh(context.Background())
	require.Error(t, err)

	snapshot, stale := agg.Snapshot()
	require.NotNil(t, snapshot)
	assert.True(t, stale, "a failed refresh must flag the kept result as stale")
	assert.Equal(t, first.TotalVotes, snapshot.TotalVotes, "last good result must survive the failure")
}

type flakyElectionStorage struct {
	storage.ElectionStorage
	fail bool
}

func (f *flakyElectionStorage) GetCurrent(ctx context.Context) (*storage.Election, error) {
	if f.fail {
		return nil, errors.New("dynamo is down")
	}
	return f.ElectionStorage.GetCurrent(ctx)
}

func TestAggregatorStartStopIdempotent(t *testing.T) {
	f := setupAggregatorFixture(t)
	agg := f.newAggregator(10 * time.Millisecond)

	assert.False(t, agg.Running())

	agg.StartRefresh(context.Background())
	agg.StartRefresh(context.Background())
	assert.True(t, agg.Running(), "double start keeps a single loop")

	agg.StopRefresh()
	assert.False(t, agg.Running())
	agg.StopRefresh()
	assert.False(t, agg.Running(), "double stop is a no-op")
}

// countingElectionStorage counts how often a refresh reads the election,
// which happens exactly once per recomputation.
type countingElectionStorage struct {
	storage.ElectionStorage
	calls atomic.Int64
}

func (c *countingElectionStorage) GetCurrent(ctx context.Context) (*storage.Election, error) {
	c.calls.Add(1)
	return c.ElectionStorage.GetCurrent(ctx)
}

func TestAggregatorDoubleStartKeepsSingleTicker(t *testing.T) {
	f := setupAggregatorFixture(t)
	f.registerVoters(t, "v1", "v2")
	f.castVote(t, "v1", 1, 11)

	elections := &countingElectionStorage{ElectionStorage: f.elections}
	agg := NewAggregator(elections, f.positions, f.candidates, f.votes, f.voters, 20*time.Millisecond)

	agg.StartRefresh(context.Background())
	agg.StartRefresh(context.Background())
	time.Sleep(210 * time.Millisecond)
	agg.StopRefresh()

	// A single 20ms ticker fires about 10 times in 210ms; a leaked second
	// loop would roughly double that.
	recomputations := elections.calls.Load()
	assert.GreaterOrEqual(t, recomputations, int64(3), "the loop should have refreshed at all")
	assert.LessOrEqual(t, recomputations, int64(15), "double start must not run a second loop")
}

func TestAggregatorPeriodicRefresh(t *testing.T) {
	f := setupAggregatorFixture(t)
	f.registerVoters(t, "v1", "v2")
	f.castVote(t, "v1", 1, 11)

	agg := f.newAggregator(10 * time.Millisecond)
	agg.StartRefresh(context.Background())
	defer agg.StopRefresh()

	require.Eventually(t, func() bool {
		snapshot, _ := agg.Snapshot()
		return snapshot != nil
	}, time.Second, 5*time.Millisecond, "loop should publish a result without manual refresh")

	snapshot, stale := agg.Snapshot()
	assert.False(t, stale)
	assert.Equal(t, 1, snapshot.TotalVotes)
}

func TestAggregatorCompleteWhenClosed(t *testing.T) {
	f := setupAggregatorFixture(t)
	ctx := context.Background()

	e, err := f.elections.Get(ctx, 1)
	require.NoError(t, err)
	e.Status = storage.ElectionStatusClosed
	require.NoError(t, f.elections.Update(ctx, e))

	agg := f.newAggregator(time.Second)
	result, err := agg.Refresh(ctx)
	require.NoError(t, err)

	require.NotEmpty(t, result.Positions)
	for _, p := range result.Positions {
		assert.True(t, p.IsComplete, "closed election results are final")
	}
}
