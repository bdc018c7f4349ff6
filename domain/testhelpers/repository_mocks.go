package testhelpers

import (
	"context"
	"time"

	"clover/domain/entities"
	"clover/domain/events"

	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Ensure(ctx context.Context, accountID int64) (bool, error) {
	args := m.Called(ctx, accountID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) GetByID(ctx context.Context, accountID int64) (*entities.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) AddCash(ctx context.Context, accountID int64, amount int64) (int64, error) {
	args := m.Called(ctx, accountID, amount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) DeductCash(ctx context.Context, accountID int64, amount int64) (int64, error) {
	args := m.Called(ctx, accountID, amount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) SetCash(ctx context.Context, accountID int64, cash int64) (int64, error) {
	args := m.Called(ctx, accountID, cash)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) AddXP(ctx context.Context, accountID int64, delta int64) (int64, error) {
	args := m.Called(ctx, accountID, delta)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) RecordMessage(ctx context.Context, accountID int64, xp int64, at time.Time) (bool, error) {
	args := m.Called(ctx, accountID, xp, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) RecordVoice(ctx context.Context, accountID int64, minutes float64, xp int64, at time.Time) (bool, error) {
	args := m.Called(ctx, accountID, minutes, xp, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) StampClaim(ctx context.Context, accountID int64, kind entities.ClaimKind, now, notBefore time.Time) (bool, error) {
	args := m.Called(ctx, accountID, kind, now, notBefore)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) LockForUpdate(ctx context.Context, accountIDs ...int64) ([]*entities.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) Delete(ctx context.Context, accountID int64) (bool, error) {
	args := m.Called(ctx, accountID)
	return args.Bool(0), args.Error(1)
}

// MockShopItemRepository is a mock implementation of ShopItemRepository
type MockShopItemRepository struct {
	mock.Mock
}

func (m *MockShopItemRepository) Create(ctx context.Context, item *entities.ShopItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockShopItemRepository) GetByName(ctx context.Context, name string) (*entities.ShopItem, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ShopItem), args.Error(1)
}

func (m *MockShopItemRepository) List(ctx context.Context) ([]*entities.ShopItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.ShopItem), args.Error(1)
}

func (m *MockShopItemRepository) Delete(ctx context.Context, itemID int64) (bool, error) {
	args := m.Called(ctx, itemID)
	return args.Bool(0), args.Error(1)
}

// MockInventoryRepository is a mock implementation of InventoryRepository
type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) Increment(ctx context.Context, accountID, itemID int64, quantity int64) (int64, error) {
	args := m.Called(ctx, accountID, itemID, quantity)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInventoryRepository) GetQuantityForUpdate(ctx context.Context, accountID, itemID int64) (int64, error) {
	args := m.Called(ctx, accountID, itemID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInventoryRepository) SetQuantity(ctx context.Context, accountID, itemID int64, quantity int64) error {
	args := m.Called(ctx, accountID, itemID, quantity)
	return args.Error(0)
}

func (m *MockInventoryRepository) Delete(ctx context.Context, accountID, itemID int64) error {
	args := m.Called(ctx, accountID, itemID)
	return args.Error(0)
}

func (m *MockInventoryRepository) DeleteByItem(ctx context.Context, itemID int64) (int64, error) {
	args := m.Called(ctx, itemID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInventoryRepository) DeleteByAccount(ctx context.Context, accountID int64) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInventoryRepository) ListByAccount(ctx context.Context, accountID int64) ([]*entities.InventoryItem, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.InventoryItem), args.Error(1)
}

// MockBalanceHistoryRepository is a mock implementation of BalanceHistoryRepository
type MockBalanceHistoryRepository struct {
	mock.Mock
}

func (m *MockBalanceHistoryRepository) Record(ctx context.Context, history *entities.BalanceHistory) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

func (m *MockBalanceHistoryRepository) GetByAccount(ctx context.Context, accountID int64, limit int) ([]*entities.BalanceHistory, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.BalanceHistory), args.Error(1)
}

func (m *MockBalanceHistoryRepository) DeleteByAccount(ctx context.Context, accountID int64) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

// MockLeaderboardRepository is a mock implementation of LeaderboardRepository
type MockLeaderboardRepository struct {
	mock.Mock
}

func (m *MockLeaderboardRepository) Top(ctx context.Context, metric entities.LeaderboardMetric, since *time.Time, limit int) ([]entities.LeaderboardEntry, error) {
	args := m.Called(ctx, metric, since, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.LeaderboardEntry), args.Error(1)
}

// MockRenderTargetRepository is a mock implementation of RenderTargetRepository
type MockRenderTargetRepository struct {
	mock.Mock
}

func (m *MockRenderTargetRepository) GetAll(ctx context.Context) ([]*entities.RenderTarget, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.RenderTarget), args.Error(1)
}

func (m *MockRenderTargetRepository) Upsert(ctx context.Context, target *entities.RenderTarget) error {
	args := m.Called(ctx, target)
	return args.Error(0)
}

func (m *MockRenderTargetRepository) DeleteAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}
