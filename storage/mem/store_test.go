package mem

import (
	"context"
	"sync"
	"testing"

	"github.com/alex-pricope/election-voting-system/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoteStoreUniqueness(t *testing.T) {
	store := NewVoteStore()
	ctx := context.Background()

	vote := func(candidateID int) *storage.Vote {
		return &storage.Vote{
			VoterID:     "v1",
			PositionID:  1,
			CandidateID: candidateID,
			PeriodStart: 1000,
			PeriodEnd:   2000,
		}
	}

	t.Run("duplicate key is rejected", func(t *testing.T) {
		require.NoError(t, store.Create(ctx, vote(11)))

		err := store.Create(ctx, vote(12))
		assert.ErrorIs(t, err, storage.ErrVoteAlreadyExists, "same voter, position and period must collide")
	})

	t.Run("different period is a different key", func(t *testing.T) {
		v := vote(11)
		v.PeriodStart, v.PeriodEnd = 3000, 4000
		assert.NoError(t, store.Create(ctx, v))
	})

	t.Run("different position is a different key", func(t *testing.T) {
		v := vote(11)
		v.PositionID = 2
		assert.NoError(t, store.Create(ctx, v))
	})
}

func TestVoteStoreConcurrentCreate(t *testing.T) {
	store := NewVoteStore()

	const attempts = 32
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = store.Create(context.Background(), &storage.Vote{
				VoterID:     "v1",
				PositionID:  1,
				CandidateID: i,
				PeriodStart: 1000,
				PeriodEnd:   2000,
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded, "the store arbitrates races exactly like the conditional write")
}

func TestVoteStoreQueries(t *testing.T) {
	store := NewVoteStore()
	ctx := context.Background()

	seed := []struct {
		voter     string
		position  int
		candidate int
	}{
		{"v1", 1, 11}, {"v1", 2, 21},
		{"v2", 1, 11},
		{"v3", 1, 12},
	}
	for _, s := range seed {
		require.NoError(t, store.Create(ctx, &storage.Vote{
			VoterID: s.voter, PositionID: s.position, CandidateID: s.candidate,
			PeriodStart: 1000, PeriodEnd: 2000,
		}))
	}
	// A vote from another period must never leak into queries
	require.NoError(t, store.Create(ctx, &storage.Vote{
		VoterID: "v1", PositionID: 1, CandidateID: 12, PeriodStart: 5000, PeriodEnd: 6000,
	}))

	t.Run("by voter", func(t *testing.T) {
		votes, err := store.GetByVoter(ctx, "v1", 1000, 2000)
		require.NoError(t, err)
		assert.Len(t, votes, 2)
	})

	t.Run("counts by position", func(t *testing.T) {
		counts, err := store.CountByPosition(ctx, 1, 1000, 2000)
		require.NoError(t, err)
		assert.Equal(t, map[int]int{11: 2, 12: 1}, counts)
	})

	t.Run("distinct voters", func(t *testing.T) {
		distinct, err := store.DistinctVoterCount(ctx, 1000, 2000)
		require.NoError(t, err)
		assert.Equal(t, 3, distinct)
	})

	t.Run("delete frees the key", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "v1", 1, 1000, 2000))

		err := store.Delete(ctx, "v1", 1, 1000, 2000)
		assert.ErrorIs(t, err, storage.ErrNotFound)

		votes, err := store.GetByVoter(ctx, "v1", 1000, 2000)
		require.NoError(t, err)
		assert.Len(t, votes, 1)
	})
}
