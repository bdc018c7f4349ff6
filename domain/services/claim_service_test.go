package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"clover/domain/entities"
	"clover/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var claimNow = time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

var testWeeklyTiers = map[string]int64{
	"Efflorescent":  5000,
	"Staff":         2500,
	"Vanity Link":   2000,
	"Bronze Clover": 2000,
}

func newClaimsWithMocks() (*claimService, *testhelpers.MockUnitOfWork) {
	uow := testhelpers.NewMockUnitOfWork()
	svc := NewClaimService(&testhelpers.MockUnitOfWorkFactory{UoW: uow}, 500, testWeeklyTiers).(*claimService)
	svc.now = func() time.Time { return claimNow }
	return svc, uow
}

func TestClaimService_DailyTwice(t *testing.T) {
	ctx := context.Background()
	svc, uow := newClaimsWithMocks()
	uow.ExpectCommit()

	notBefore := claimNow.Add(-24 * time.Hour)
	uow.Accounts.On("Ensure", ctx, testAccountID).Return(false, nil)
	uow.Accounts.On("StampClaim", ctx, testAccountID, entities.ClaimKindDaily, claimNow, notBefore).Return(true, nil).Once()
	uow.Accounts.On("StampClaim", ctx, testAccountID, entities.ClaimKindDaily, claimNow, notBefore).Return(false, nil).Once()
	uow.Accounts.On("AddCash", ctx, testAccountID, int64(500)).Return(int64(1500), nil).Once()
	uow.Accounts.On("GetByID", ctx, testAccountID).Return(&entities.Account{ID: testAccountID, Cash: 1500, LastDailyClaim: &claimNow}, nil)
	uow.BalanceHistory.On("Record", ctx, mock.MatchedBy(func(h *entities.BalanceHistory) bool {
		return h.ChangeAmount == 500 && h.TransactionType == entities.TransactionTypeDailyIncome
	})).Return(nil).Once()
	uow.Events.On("Publish", mock.AnythingOfType("events.BalanceChangeEvent")).Return(nil).Once()

	first, err := svc.ClaimDaily(ctx, testAccountID, true)
	require.NoError(t, err)
	assert.True(t, first.Granted())
	assert.Equal(t, int64(500), first.Amount)
	assert.Equal(t, int64(1500), first.Balance)

	second, err := svc.ClaimDaily(ctx, testAccountID, true)
	require.NoError(t, err)
	assert.Equal(t, entities.ClaimStatusTooSoon, second.Status)
	assert.Equal(t, 24*time.Hour, second.Remaining)
	assert.Equal(t, claimNow.Add(24*time.Hour), second.NextClaimAt)
	assert.Zero(t, second.Amount)

	uow.Accounts.AssertNumberOfCalls(t, "AddCash", 1)
	uow.AssertRepositoryExpectations(t)
}

func TestClaimService_DailyNotEligible(t *testing.T) {
	svc, uow := newClaimsWithMocks()

	result, err := svc.ClaimDaily(context.Background(), testAccountID, false)
	require.NoError(t, err)
	assert.Equal(t, entities.ClaimStatusNotEligible, result.Status)
	uow.AssertNotCalled(t, "Begin", mock.Anything)
}

func TestClaimService_DailyProvisionsAccount(t *testing.T) {
	ctx := context.Background()
	svc, uow := newClaimsWithMocks()
	uow.ExpectCommit()

	uow.Accounts.On("Ensure", ctx, testAccountID).Return(true, nil)
	uow.Accounts.On("StampClaim", ctx, testAccountID, entities.ClaimKindDaily, claimNow, mock.Anything).Return(true, nil)
	uow.Accounts.On("AddCash", ctx, testAccountID, int64(500)).Return(int64(500), nil)
	uow.BalanceHistory.On("Record", ctx, mock.Anything).Return(nil)
	uow.Events.On("Publish", mock.AnythingOfType("events.AccountCreatedEvent")).Return(nil).Once()
	uow.Events.On("Publish", mock.AnythingOfType("events.BalanceChangeEvent")).Return(nil).Once()

	result, err := svc.ClaimDaily(ctx, testAccountID, true)
	require.NoError(t, err)
	assert.True(t, result.Granted())
	assert.Equal(t, int64(500), result.Balance)
	uow.AssertRepositoryExpectations(t)
}

func TestClaimService_WeeklySumsQualifyingTiers(t *testing.T) {
	ctx := context.Background()
	svc, uow := newClaimsWithMocks()
	uow.ExpectCommit()

	uow.Accounts.On("Ensure", ctx, testAccountID).Return(false, nil)
	uow.Accounts.On("StampClaim", ctx, testAccountID, entities.ClaimKindWeekly, claimNow, claimNow.Add(-7*24*time.Hour)).Return(true, nil)
	uow.Accounts.On("AddCash", ctx, testAccountID, int64(7500)).Return(int64(8000), nil)
	uow.BalanceHistory.On("Record", ctx, mock.MatchedBy(func(h *entities.BalanceHistory) bool {
		return h.TransactionType == entities.TransactionTypeWeeklyIncome && h.ChangeAmount == 7500
	})).Return(nil)
	uow.Events.On("Publish", mock.Anything).Return(nil)

	result, err := svc.ClaimWeekly(ctx, testAccountID, []string{"Staff", "Member", "Efflorescent", "Staff"})
	require.NoError(t, err)
	assert.True(t, result.Granted())
	assert.Equal(t, int64(7500), result.Amount)
	assert.Equal(t, []string{"Efflorescent", "Staff"}, result.Tiers)
}

func TestClaimService_WeeklyWithoutTiers(t *testing.T) {
	svc, uow := newClaimsWithMocks()

	for _, tiers := range [][]string{nil, {"Member", "Guest"}} {
		result, err := svc.ClaimWeekly(context.Background(), testAccountID, tiers)
		require.NoError(t, err)
		assert.Equal(t, entities.ClaimStatusNotEligible, result.Status)
	}
	uow.AssertNotCalled(t, "Begin", mock.Anything)
}

func TestClaimService_WeeklyTooSoonReportsRemaining(t *testing.T) {
	ctx := context.Background()
	svc, uow := newClaimsWithMocks()
	uow.ExpectCommit()

	last := claimNow.Add(-5 * 24 * time.Hour)
	uow.Accounts.On("Ensure", ctx, testAccountID).Return(false, nil)
	uow.Accounts.On("StampClaim", ctx, testAccountID, entities.ClaimKindWeekly, claimNow, mock.Anything).Return(false, nil)
	uow.Accounts.On("GetByID", ctx, testAccountID).Return(&entities.Account{ID: testAccountID, LastWeeklyClaim: &last}, nil)

	result, err := svc.ClaimWeekly(ctx, testAccountID, []string{"Staff"})
	require.NoError(t, err)
	assert.Equal(t, entities.ClaimStatusTooSoon, result.Status)
	assert.Equal(t, 48*time.Hour, result.Remaining)
	uow.Accounts.AssertNotCalled(t, "AddCash", mock.Anything, mock.Anything, mock.Anything)
}

func TestClaimService_StorageFailureIsRetryable(t *testing.T) {
	ctx := context.Background()
	svc, uow := newClaimsWithMocks()
	uow.ExpectRollback()

	uow.Accounts.On("Ensure", ctx, testAccountID).Return(false, nil)
	uow.Accounts.On("StampClaim", ctx, testAccountID, entities.ClaimKindDaily, claimNow, mock.Anything).Return(true, nil)
	uow.Accounts.On("AddCash", ctx, testAccountID, int64(500)).Return(int64(0), errors.New("connection reset"))

	_, err := svc.ClaimDaily(ctx, testAccountID, true)
	assert.ErrorIs(t, err, entities.ErrStorageFailure)
	assert.True(t, entities.IsRetryable(err))
	uow.AssertNotCalled(t, "Commit")
}

func TestClaimService_Collect(t *testing.T) {
	ctx := context.Background()
	svc, uow := newClaimsWithMocks()
	uow.ExpectCommit()

	uow.Accounts.On("Ensure", ctx, testAccountID).Return(false, nil)
	uow.Accounts.On("StampClaim", ctx, testAccountID, entities.ClaimKindDaily, claimNow, mock.Anything).Return(true, nil)
	uow.Accounts.On("StampClaim", ctx, testAccountID, entities.ClaimKindWeekly, claimNow, mock.Anything).Return(true, nil)
	uow.Accounts.On("AddCash", ctx, testAccountID, int64(500)).Return(int64(500), nil)
	uow.Accounts.On("AddCash", ctx, testAccountID, int64(2000)).Return(int64(2500), nil)
	uow.BalanceHistory.On("Record", ctx, mock.Anything).Return(nil)
	uow.Events.On("Publish", mock.Anything).Return(nil)

	result, err := svc.Collect(ctx, testAccountID, true, []string{"Vanity Link"})
	require.NoError(t, err)
	assert.True(t, result.Daily.Granted())
	assert.True(t, result.Weekly.Granted())
	assert.Equal(t, int64(2500), result.Total())
	assert.Equal(t, int64(2500), result.Weekly.Balance)
}
