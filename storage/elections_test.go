package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickCurrentElection(t *testing.T) {
	t.Run("ongoing election wins over everything", func(t *testing.T) {
		elections := []*Election{
			{ID: 1, Status: ElectionStatusClosed, PeriodEnd: 9000},
			{ID: 2, Status: ElectionStatusOngoing, PeriodEnd: 2000},
			{ID: 3, Status: ElectionStatusUpcoming, PeriodEnd: 9999},
		}

		current, err := PickCurrentElection(elections)
		require.NoError(t, err)
		assert.Equal(t, 2, current.ID)
	})

	t.Run("falls back to the latest closed election", func(t *testing.T) {
		elections := []*Election{
			{ID: 1, Status: ElectionStatusClosed, PeriodEnd: 1000},
			{ID: 2, Status: ElectionStatusClosed, PeriodEnd: 3000},
			{ID: 3, Status: ElectionStatusClosed, PeriodEnd: 2000},
		}

		current, err := PickCurrentElection(elections)
		require.NoError(t, err)
		assert.Equal(t, 2, current.ID, "results stay viewable for the most recent cycle")
	})

	t.Run("upcoming elections are never current", func(t *testing.T) {
		elections := []*Election{
			{ID: 1, Status: ElectionStatusUpcoming, PeriodEnd: 1000},
		}

		_, err := PickCurrentElection(elections)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("empty listing", func(t *testing.T) {
		_, err := PickCurrentElection(nil)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestVoteSortKey(t *testing.T) {
	key := VoteSortKey(3, 1000, 2000)
	assert.Equal(t, "pos#3#period#1000#2000", key)

	other := VoteSortKey(3, 1000, 2001)
	assert.NotEqual(t, key, other, "a different period must produce a different key")
}
