package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"clover/domain/entities"
	"clover/domain/events"
	"clover/domain/interfaces"
	"clover/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	leaderboardNow = time.Date(2025, 5, 10, 16, 0, 0, 0, time.UTC)
	windowStart    = leaderboardNow.Add(-DefaultLeaderboardWindow)
	allTime        = (*time.Time)(nil)
)

func newLeaderboardWithMocks() (*leaderboardService, *testhelpers.MockUnitOfWork) {
	uow := testhelpers.NewMockUnitOfWork()
	svc := NewLeaderboardService(&testhelpers.MockUnitOfWorkFactory{UoW: uow}, 0, 0).(*leaderboardService)
	svc.now = func() time.Time { return leaderboardNow }
	return svc, uow
}

func entries(ids ...int64) []entities.LeaderboardEntry {
	out := make([]entities.LeaderboardEntry, len(ids))
	for i, id := range ids {
		out[i] = entities.LeaderboardEntry{Rank: i + 1, AccountID: id, Value: float64(100 - i)}
	}
	return out
}

func expectRankings(uow *testhelpers.MockUnitOfWork) {
	lb := uow.Leaderboard
	lb.On("Top", mock.Anything, entities.LeaderboardMetricMessages, &windowStart, DefaultLeaderboardSize).Return(entries(10, 20, 30), nil)
	lb.On("Top", mock.Anything, entities.LeaderboardMetricVoice, &windowStart, DefaultLeaderboardSize).Return([]entities.LeaderboardEntry{}, nil)
	lb.On("Top", mock.Anything, entities.LeaderboardMetricVoice, allTime, DefaultLeaderboardSize).Return(entries(40), nil)
	lb.On("Top", mock.Anything, entities.LeaderboardMetricCash, allTime, DefaultLeaderboardSize).Return(entries(20, 10), nil)
	lb.On("Top", mock.Anything, entities.LeaderboardMetricXP, allTime, DefaultLeaderboardSize).Return(entries(30), nil)
}

func TestLeaderboardService_Refresh(t *testing.T) {
	ctx := context.Background()
	svc, uow := newLeaderboardWithMocks()
	uow.ExpectCommit()
	expectRankings(uow)

	targets := []*entities.RenderTarget{{Board: entities.LeaderboardBoardChat, ChannelID: 5, MessageID: 6}}
	uow.RenderTargets.On("GetAll", mock.Anything).Return(targets, nil)
	uow.Events.On("Publish", mock.MatchedBy(func(e events.LeaderboardRefreshedEvent) bool {
		return e.Rankings == 4 && len(e.Fallbacks) == 1 && e.Fallbacks[0] == entities.LeaderboardMetricVoice
	})).Return(nil)

	var got []*entities.RenderTarget
	svc.OnRefresh(func(_ context.Context, snapshot *entities.LeaderboardSnapshot, ts []*entities.RenderTarget) {
		got = ts
	})

	_, ok := svc.LastSnapshot()
	assert.False(t, ok)

	snapshot, err := svc.Refresh(ctx)
	require.NoError(t, err)

	assert.Equal(t, leaderboardNow, snapshot.GeneratedAt)
	messages := snapshot.Ranking(entities.LeaderboardMetricMessages)
	require.NotNil(t, messages)
	assert.False(t, messages.AllTime)
	assert.Equal(t, int64(10), messages.Entries[0].AccountID)

	uow.AssertCalled(t, "Begin", mock.MatchedBy(interfaces.IsReadOnlySnapshot))

	voice := snapshot.Ranking(entities.LeaderboardMetricVoice)
	assert.True(t, voice.AllTime, "empty window falls back to all-time")
	assert.Equal(t, int64(40), voice.Entries[0].AccountID)
	assert.False(t, snapshot.Ranking(entities.LeaderboardMetricCash).AllTime)

	assert.Equal(t, targets, got)
	last, ok := svc.LastSnapshot()
	require.True(t, ok)
	assert.Same(t, snapshot, last)
	uow.AssertRepositoryExpectations(t)
}

func TestLeaderboardService_RefreshFailureKeepsLastSnapshot(t *testing.T) {
	ctx := context.Background()
	svc, uow := newLeaderboardWithMocks()
	previous := &entities.LeaderboardSnapshot{GeneratedAt: leaderboardNow.Add(-4 * time.Hour)}
	svc.last = previous
	uow.ExpectRollback()

	uow.Leaderboard.On("Top", mock.Anything, entities.LeaderboardMetricMessages, &windowStart, DefaultLeaderboardSize).
		Return(nil, errors.New("statement timeout"))

	called := false
	svc.OnRefresh(func(context.Context, *entities.LeaderboardSnapshot, []*entities.RenderTarget) { called = true })

	_, err := svc.Refresh(ctx)
	assert.ErrorIs(t, err, entities.ErrStorageFailure)
	assert.False(t, called)

	last, ok := svc.LastSnapshot()
	require.True(t, ok)
	assert.Same(t, previous, last)
}

func TestLeaderboardService_ConcurrentRefreshesCoalesce(t *testing.T) {
	svc, uow := newLeaderboardWithMocks()
	uow.ExpectCommit()

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	uow.Leaderboard.On("Top", mock.Anything, entities.LeaderboardMetricMessages, &windowStart, DefaultLeaderboardSize).
		Run(func(mock.Arguments) {
			once.Do(func() { close(started) })
			<-release
		}).Return(entries(1), nil)
	uow.Leaderboard.On("Top", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(entries(1), nil)
	uow.RenderTargets.On("GetAll", mock.Anything).Return([]*entities.RenderTarget{}, nil)
	uow.Events.On("Publish", mock.Anything).Return(nil)

	var wg sync.WaitGroup
	results := make([]*entities.LeaderboardSnapshot, 2)
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], _ = svc.Refresh(context.Background())
	}()
	<-started

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[1], _ = svc.Refresh(context.Background())
	}()
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	require.NotNil(t, results[0])
	assert.Same(t, results[0], results[1])
	uow.AssertNumberOfCalls(t, "Begin", 1)
}

func TestLeaderboardService_SetRenderTargets(t *testing.T) {
	ctx := context.Background()
	svc, uow := newLeaderboardWithMocks()
	uow.ExpectCommit()

	targets := []*entities.RenderTarget{
		{Board: entities.LeaderboardBoardChat, ChannelID: 1, MessageID: 2},
		{Board: entities.LeaderboardBoardVoice, ChannelID: 1, MessageID: 3},
	}
	uow.RenderTargets.On("GetAll", ctx).Return([]*entities.RenderTarget{}, nil)
	uow.RenderTargets.On("Upsert", ctx, mock.AnythingOfType("*entities.RenderTarget")).Return(nil).Twice()

	require.NoError(t, svc.SetRenderTargets(ctx, targets))
	assert.Equal(t, leaderboardNow, targets[0].UpdatedAt)
	uow.AssertRepositoryExpectations(t)
}

func TestLeaderboardService_SetRenderTargets_AlreadyConfigured(t *testing.T) {
	ctx := context.Background()
	svc, uow := newLeaderboardWithMocks()
	uow.ExpectRollback()

	uow.RenderTargets.On("GetAll", ctx).Return([]*entities.RenderTarget{{Board: entities.LeaderboardBoardChat, ChannelID: 1, MessageID: 2}}, nil)

	err := svc.SetRenderTargets(ctx, []*entities.RenderTarget{{Board: entities.LeaderboardBoardChat, ChannelID: 9, MessageID: 9}})
	assert.ErrorIs(t, err, entities.ErrRenderTargetExists)
	uow.RenderTargets.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestLeaderboardService_SetRenderTargets_Validation(t *testing.T) {
	svc, uow := newLeaderboardWithMocks()

	tests := []struct {
		name    string
		targets []*entities.RenderTarget
	}{
		{"empty", nil},
		{"unknown board", []*entities.RenderTarget{{Board: "stage", ChannelID: 1, MessageID: 1}}},
		{"missing message", []*entities.RenderTarget{{Board: entities.LeaderboardBoardChat, ChannelID: 1}}},
		{"duplicate board", []*entities.RenderTarget{
			{Board: entities.LeaderboardBoardVoice, ChannelID: 1, MessageID: 1},
			{Board: entities.LeaderboardBoardVoice, ChannelID: 1, MessageID: 2},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.SetRenderTargets(context.Background(), tt.targets)
			assert.ErrorIs(t, err, entities.ErrInvalidArgument)
		})
	}
	uow.AssertNotCalled(t, "Begin", mock.Anything)
}

func TestLeaderboardService_ResetAndList(t *testing.T) {
	ctx := context.Background()
	svc, uow := newLeaderboardWithMocks()
	uow.ExpectCommit()

	uow.RenderTargets.On("DeleteAll", ctx).Return(int64(2), nil)
	uow.RenderTargets.On("GetAll", ctx).Return([]*entities.RenderTarget{}, nil)

	require.NoError(t, svc.ResetRenderTargets(ctx))
	targets, err := svc.RenderTargets(ctx)
	require.NoError(t, err)
	assert.Empty(t, targets)
}
