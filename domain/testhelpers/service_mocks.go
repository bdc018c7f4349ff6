package testhelpers

import (
	"context"

	"clover/domain/entities"
	"clover/domain/interfaces"

	"github.com/stretchr/testify/mock"
)

// MockLedgerService is a mock implementation of LedgerService
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) EnsureAccount(ctx context.Context, accountID int64) (bool, error) {
	args := m.Called(ctx, accountID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedgerService) RemoveAccount(ctx context.Context, accountID int64) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

func (m *MockLedgerService) GetAccount(ctx context.Context, accountID int64) (*entities.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockLedgerService) Balance(ctx context.Context, accountID int64) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerService) Credit(ctx context.Context, accountID int64, amount int64, reason entities.ChangeReason) (int64, error) {
	args := m.Called(ctx, accountID, amount, reason)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerService) Debit(ctx context.Context, accountID int64, amount int64, reason entities.ChangeReason) (int64, error) {
	args := m.Called(ctx, accountID, amount, reason)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerService) SetCash(ctx context.Context, accountID int64, cash int64) (int64, error) {
	args := m.Called(ctx, accountID, cash)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerService) Transfer(ctx context.Context, fromID, toID int64, amount int64) (*entities.TransferResult, error) {
	args := m.Called(ctx, fromID, toID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TransferResult), args.Error(1)
}

func (m *MockLedgerService) AdjustXP(ctx context.Context, accountID int64, delta int64) (int64, error) {
	args := m.Called(ctx, accountID, delta)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerService) RecordMessage(ctx context.Context, accountID int64) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

func (m *MockLedgerService) RecordVoiceMinutes(ctx context.Context, accountID int64, minutes float64) (int64, error) {
	args := m.Called(ctx, accountID, minutes)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerService) PurchaseItem(ctx context.Context, accountID int64, itemName string) (*entities.PurchaseResult, error) {
	args := m.Called(ctx, accountID, itemName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PurchaseResult), args.Error(1)
}

func (m *MockLedgerService) UseItem(ctx context.Context, accountID int64, itemName string) (*entities.UseResult, error) {
	args := m.Called(ctx, accountID, itemName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.UseResult), args.Error(1)
}

func (m *MockLedgerService) GrantItem(ctx context.Context, accountID int64, itemName string, quantity int64) (int64, error) {
	args := m.Called(ctx, accountID, itemName, quantity)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerService) Inventory(ctx context.Context, accountID int64) ([]*entities.InventoryItem, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.InventoryItem), args.Error(1)
}

func (m *MockLedgerService) Catalog(ctx context.Context) ([]*entities.ShopItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.ShopItem), args.Error(1)
}

func (m *MockLedgerService) AddShopItem(ctx context.Context, item *entities.ShopItem, privileged bool) error {
	args := m.Called(ctx, item, privileged)
	return args.Error(0)
}

func (m *MockLedgerService) DeleteShopItem(ctx context.Context, name string, privileged bool) error {
	args := m.Called(ctx, name, privileged)
	return args.Error(0)
}

func (m *MockLedgerService) History(ctx context.Context, accountID int64, limit int) ([]*entities.BalanceHistory, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.BalanceHistory), args.Error(1)
}

// MockLeaderboardService is a mock implementation of LeaderboardService
type MockLeaderboardService struct {
	mock.Mock
}

func (m *MockLeaderboardService) Refresh(ctx context.Context) (*entities.LeaderboardSnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LeaderboardSnapshot), args.Error(1)
}

func (m *MockLeaderboardService) LastSnapshot() (*entities.LeaderboardSnapshot, bool) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*entities.LeaderboardSnapshot), args.Bool(1)
}

func (m *MockLeaderboardService) SetRenderTargets(ctx context.Context, targets []*entities.RenderTarget) error {
	args := m.Called(ctx, targets)
	return args.Error(0)
}

func (m *MockLeaderboardService) ResetRenderTargets(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockLeaderboardService) RenderTargets(ctx context.Context) ([]*entities.RenderTarget, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.RenderTarget), args.Error(1)
}

func (m *MockLeaderboardService) OnRefresh(listener interfaces.RefreshListener) {
	m.Called(listener)
}

// MockGamblingService is a mock implementation of GamblingService
type MockGamblingService struct {
	mock.Mock
}

func (m *MockGamblingService) Spin(ctx context.Context, game entities.GameKind, accountID int64, bet int64, target string) (*entities.SpinResult, error) {
	args := m.Called(ctx, game, accountID, bet, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SpinResult), args.Error(1)
}

func (m *MockGamblingService) SpinSlots(ctx context.Context, accountID int64, bet int64) (*entities.SpinResult, error) {
	args := m.Called(ctx, accountID, bet)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SpinResult), args.Error(1)
}

func (m *MockGamblingService) SpinRoulette(ctx context.Context, accountID int64, bet int64, target string) (*entities.SpinResult, error) {
	args := m.Called(ctx, accountID, bet, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SpinResult), args.Error(1)
}

// MockBlackjackService is a mock implementation of BlackjackService
type MockBlackjackService struct {
	mock.Mock
}

func (m *MockBlackjackService) StartBlackjack(ctx context.Context, accountID, channelID int64, bet int64) (*entities.BlackjackView, error) {
	args := m.Called(ctx, accountID, channelID, bet)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.BlackjackView), args.Error(1)
}

func (m *MockBlackjackService) BlackjackAction(ctx context.Context, accountID, channelID int64, action entities.BlackjackAction) (*entities.BlackjackView, error) {
	args := m.Called(ctx, accountID, channelID, action)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.BlackjackView), args.Error(1)
}

func (m *MockBlackjackService) ActiveSession(accountID, channelID int64) (*entities.BlackjackView, bool) {
	args := m.Called(accountID, channelID)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*entities.BlackjackView), args.Bool(1)
}

func (m *MockBlackjackService) Shutdown() {
	m.Called()
}

// MockClaimService is a mock implementation of ClaimService
type MockClaimService struct {
	mock.Mock
}

func (m *MockClaimService) ClaimDaily(ctx context.Context, accountID int64, eligible bool) (*entities.ClaimResult, error) {
	args := m.Called(ctx, accountID, eligible)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ClaimResult), args.Error(1)
}

func (m *MockClaimService) ClaimWeekly(ctx context.Context, accountID int64, tiers []string) (*entities.ClaimResult, error) {
	args := m.Called(ctx, accountID, tiers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ClaimResult), args.Error(1)
}

func (m *MockClaimService) Collect(ctx context.Context, accountID int64, eligible bool, tiers []string) (*entities.CollectResult, error) {
	args := m.Called(ctx, accountID, eligible, tiers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.CollectResult), args.Error(1)
}
