package debugapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"clover/domain/entities"
	"clover/domain/services"
	"clover/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	ledger      *testhelpers.MockLedgerService
	leaderboard *testhelpers.MockLeaderboardService
	gambling    *testhelpers.MockGamblingService
	blackjack   *testhelpers.MockBlackjackService
	claims      *testhelpers.MockClaimService
	voice       *services.VoiceTracker
	router      http.Handler
}

func newFixture() *fixture {
	f := &fixture{
		ledger:      new(testhelpers.MockLedgerService),
		leaderboard: new(testhelpers.MockLeaderboardService),
		gambling:    new(testhelpers.MockGamblingService),
		blackjack:   new(testhelpers.MockBlackjackService),
		claims:      new(testhelpers.MockClaimService),
	}
	f.voice = services.NewVoiceTracker(f.ledger)
	f.router = NewRouter(Dependencies{
		Ledger:      f.ledger,
		Leaderboard: f.leaderboard,
		Voice:       f.voice,
		Gambling:    f.gambling,
		Blackjack:   f.blackjack,
		Claims:      f.claims,
	})
	return f
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	f := newFixture()
	rec := f.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])
}

func TestHealth_Degraded(t *testing.T) {
	router := NewRouter(Dependencies{Health: map[string]HealthCheck{
		"database": func(context.Context) error { return nil },
		"nats":     func(context.Context) error { return errors.New("nats: connection RECONNECTING") },
	}})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "degraded", body["status"])
	checks := body["checks"].(map[string]any)
	assert.Equal(t, "ok", checks["database"])
	assert.Contains(t, checks["nats"], "RECONNECTING")
}

func TestLeaderboard_NoSnapshotYet(t *testing.T) {
	f := newFixture()
	f.leaderboard.On("LastSnapshot").Return(nil, false)

	rec := f.do(http.MethodGet, "/leaderboard", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "no_snapshot", decode(t, rec)["error"])
}

func TestLeaderboard_ServesCachedSnapshot(t *testing.T) {
	f := newFixture()
	snapshot := &entities.LeaderboardSnapshot{
		GeneratedAt: time.Date(2025, 5, 10, 16, 0, 0, 0, time.UTC),
		Rankings: map[entities.LeaderboardMetric]*entities.LeaderboardRanking{
			entities.LeaderboardMetricCash: {
				Metric:  entities.LeaderboardMetricCash,
				Entries: []entities.LeaderboardEntry{{Rank: 1, AccountID: 42, Value: 9000}},
			},
		},
	}
	f.leaderboard.On("LastSnapshot").Return(snapshot, true)

	rec := f.do(http.MethodGet, "/leaderboard", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got entities.LeaderboardSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, int64(42), got.Ranking(entities.LeaderboardMetricCash).Entries[0].AccountID)
}

func TestRefreshLeaderboard_StorageFailure(t *testing.T) {
	f := newFixture()
	f.leaderboard.On("Refresh", mock.Anything).Return(nil, entities.NewStorageError("leaderboard refresh", errors.New("down")))

	rec := f.do(http.MethodPost, "/leaderboard/refresh", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSetRenderTargets(t *testing.T) {
	f := newFixture()
	f.leaderboard.On("SetRenderTargets", mock.Anything, mock.MatchedBy(func(ts []*entities.RenderTarget) bool {
		return len(ts) == 1 && ts[0].Board == entities.LeaderboardBoardVoice && ts[0].MessageID == 55
	})).Return(nil).Once()
	f.leaderboard.On("SetRenderTargets", mock.Anything, mock.Anything).Return(entities.ErrRenderTargetExists)

	body := `[{"board":"voice","channel_id":11,"message_id":55}]`
	rec := f.do(http.MethodPut, "/leaderboard/targets", body)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(http.MethodPut, "/leaderboard/targets", body)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(http.MethodPut, "/leaderboard/targets", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResetRenderTargets(t *testing.T) {
	f := newFixture()
	f.leaderboard.On("ResetRenderTargets", mock.Anything).Return(nil)

	rec := f.do(http.MethodDelete, "/leaderboard/targets", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	f.leaderboard.AssertExpectations(t)
}

func TestAccount(t *testing.T) {
	f := newFixture()
	f.ledger.On("GetAccount", mock.Anything, int64(42)).Return(&entities.Account{ID: 42, Cash: 1500}, nil)
	f.ledger.On("GetAccount", mock.Anything, int64(43)).Return(nil, entities.ErrAccountNotFound)

	rec := f.do(http.MethodGet, "/accounts/42", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1500), decode(t, rec)["Cash"])

	rec = f.do(http.MethodGet, "/accounts/43", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(http.MethodGet, "/accounts/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistory_Limit(t *testing.T) {
	f := newFixture()
	f.ledger.On("History", mock.Anything, int64(42), maxHistoryLimit).Return([]*entities.BalanceHistory{}, nil)

	rec := f.do(http.MethodGet, "/accounts/42/history?limit=5000", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodGet, "/accounts/42/history?limit=-1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	f.ledger.AssertNumberOfCalls(t, "History", 1)
}

func TestMemberJoined(t *testing.T) {
	f := newFixture()
	f.ledger.On("EnsureAccount", mock.Anything, int64(42)).Return(true, nil).Once()
	f.ledger.On("EnsureAccount", mock.Anything, int64(42)).Return(false, nil)

	rec := f.do(http.MethodPost, "/accounts/42", "")
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, true, decode(t, rec)["created"])

	rec = f.do(http.MethodPost, "/accounts/42", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMemberLeft_StopsVoiceTracking(t *testing.T) {
	f := newFixture()
	f.ledger.On("RemoveAccount", mock.Anything, int64(42)).Return(nil)

	rec := f.do(http.MethodPost, "/accounts/42/voice/join", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodDelete, "/accounts/42", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, f.voice.Active())

	// shutdown flush and a late leave must not bring the account back
	f.voice.LeaveAll(context.Background())
	rec = f.do(http.MethodPost, "/accounts/42/voice/leave", "")
	require.Equal(t, http.StatusOK, rec.Code)

	f.ledger.AssertCalled(t, "RemoveAccount", mock.Anything, int64(42))
	f.ledger.AssertNotCalled(t, "RecordVoiceMinutes", mock.Anything, mock.Anything, mock.Anything)
}

func TestMemberLeft_UnknownAccount(t *testing.T) {
	f := newFixture()
	f.ledger.On("RemoveAccount", mock.Anything, int64(43)).Return(entities.ErrAccountNotFound)

	rec := f.do(http.MethodDelete, "/accounts/43", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestActivityHooks(t *testing.T) {
	f := newFixture()
	f.ledger.On("RecordMessage", mock.Anything, int64(42)).Return(nil)

	rec := f.do(http.MethodPost, "/accounts/42/messages", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(http.MethodPost, "/accounts/42/voice/join", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decode(t, rec)["active"])

	f.ledger.On("RecordVoiceMinutes", mock.Anything, int64(42), mock.AnythingOfType("float64")).Return(int64(0), nil).Maybe()
	rec = f.do(http.MethodPost, "/accounts/42/voice/leave", "")
	require.Equal(t, http.StatusOK, rec.Code)
	_, hasXP := decode(t, rec)["xp"]
	assert.True(t, hasXP)
}

func TestSpin(t *testing.T) {
	f := newFixture()
	f.gambling.On("Spin", mock.Anything, entities.GameKindRoulette, int64(42), int64(100), "red").
		Return(&entities.SpinResult{Game: entities.GameKindRoulette, Bet: 100, Won: true, Payout: 200, Balance: 1100}, nil)
	f.gambling.On("Spin", mock.Anything, entities.GameKindSlots, int64(42), int64(5000), "").
		Return(nil, fmt.Errorf("%w: %w", entities.ErrInvalidBet, entities.ErrInsufficientFunds))

	rec := f.do(http.MethodPost, "/accounts/42/spin", `{"game":"roulette","bet":100,"target":"red"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1100), decode(t, rec)["Balance"])

	rec = f.do(http.MethodPost, "/accounts/42/spin", `{"game":"slots","bet":5000}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBlackjackRoutes(t *testing.T) {
	f := newFixture()
	f.blackjack.On("StartBlackjack", mock.Anything, int64(42), int64(7), int64(100)).
		Return(&entities.BlackjackView{AccountID: 42, ChannelID: 7, Bet: 100, State: entities.BlackjackStateAwaitingPlayerAction}, nil).Once()
	f.blackjack.On("StartBlackjack", mock.Anything, int64(42), int64(7), int64(100)).
		Return(nil, &entities.CooldownError{Remaining: time.Hour})
	f.blackjack.On("BlackjackAction", mock.Anything, int64(42), int64(8), entities.BlackjackActionStand).
		Return(nil, entities.ErrNoActiveSession)

	rec := f.do(http.MethodPost, "/accounts/42/blackjack", `{"channel_id":7,"bet":100}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(http.MethodPost, "/accounts/42/blackjack", `{"channel_id":7,"bet":100}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec = f.do(http.MethodPost, "/accounts/42/blackjack/stand", `{"channel_id":8}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCollect(t *testing.T) {
	f := newFixture()
	result := &entities.CollectResult{
		Daily: &entities.ClaimResult{Kind: entities.ClaimKindDaily, Status: entities.ClaimStatusGranted, Amount: 500, Balance: 500},
	}
	f.claims.On("Collect", mock.Anything, int64(42), true, []string{"Staff"}).Return(result, nil)

	rec := f.do(http.MethodPost, "/accounts/42/collect", `{"eligible":true,"tiers":["Staff"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	daily := decode(t, rec)["Daily"].(map[string]any)
	assert.Equal(t, "granted", daily["Status"])

	rec = f.do(http.MethodPost, "/accounts/42/collect", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
