package repository

import (
	"context"
	"testing"
	"time"

	"clover/domain/entities"
	"clover/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaderboardRepository_TiesOrderByAccountID(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewLeaderboardRepository(testDB.DB)
	ctx := context.Background()
	recent := time.Now().Add(-time.Hour)

	// Inserted out of id order so the tie-break is not an accident of insertion
	for _, id := range []int64{30, 20, 10} {
		testutil.CreateTestAccount(t, testDB.DB, id, 0)
	}
	testutil.SetActivity(t, testDB.DB, 20, 5, 0, &recent)
	testutil.SetActivity(t, testDB.DB, 10, 5, 0, &recent)
	testutil.SetActivity(t, testDB.DB, 30, 3, 0, &recent)

	entries, err := repo.Top(ctx, entities.LeaderboardMetricMessages, nil, 9)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, []int64{10, 20, 30}, []int64{entries[0].AccountID, entries[1].AccountID, entries[2].AccountID})
	assert.Equal(t, []int{1, 2, 3}, []int{entries[0].Rank, entries[1].Rank, entries[2].Rank})
	assert.Equal(t, 5.0, entries[0].Value)
	assert.Equal(t, 3.0, entries[2].Value)
}

func TestLeaderboardRepository_Window(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewLeaderboardRepository(testDB.DB)
	ctx := context.Background()
	now := time.Now()
	old := now.Add(-30 * 24 * time.Hour)
	recent := now.Add(-24 * time.Hour)
	since := now.Add(-7 * 24 * time.Hour)

	testutil.CreateTestAccount(t, testDB.DB, 1, 300)
	testutil.CreateTestAccount(t, testDB.DB, 2, 100)
	testutil.SetActivity(t, testDB.DB, 1, 50, 120, &old)
	testutil.SetActivity(t, testDB.DB, 2, 4, 30.5, &recent)

	entries, err := repo.Top(ctx, entities.LeaderboardMetricVoice, &since, 9)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(2), entries[0].AccountID)
	assert.InDelta(t, 30.5, entries[0].Value, 0.0001)

	// Cash is never windowed
	entries, err = repo.Top(ctx, entities.LeaderboardMetricCash, &since, 9)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(1), entries[0].AccountID)

	entries, err = repo.Top(ctx, entities.LeaderboardMetricMessages, &since, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	_, err = repo.Top(ctx, entities.LeaderboardMetric("karma"), nil, 9)
	assert.ErrorIs(t, err, entities.ErrInvalidArgument)
}

func TestLeaderboardRepository_LargeBalancesKeepExactOrder(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewLeaderboardRepository(testDB.DB)
	ctx := context.Background()

	// Both balances round to the same float64
	const base = int64(1) << 53
	testutil.CreateTestAccount(t, testDB.DB, 1, base)
	testutil.CreateTestAccount(t, testDB.DB, 2, base+1)

	entries, err := repo.Top(ctx, entities.LeaderboardMetricCash, nil, 9)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(2), entries[0].AccountID)
	assert.Equal(t, int64(1), entries[1].AccountID)
}
