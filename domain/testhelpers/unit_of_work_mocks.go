package testhelpers

import (
	"context"

	"clover/domain/interfaces"

	"github.com/stretchr/testify/mock"
)

// MockUnitOfWork hands out the embedded repository mocks. Begin, Commit and
// Rollback are recorded so tests can assert the transaction outcome.
type MockUnitOfWork struct {
	mock.Mock

	Accounts       *MockAccountRepository
	ShopItems      *MockShopItemRepository
	Inventory      *MockInventoryRepository
	BalanceHistory *MockBalanceHistoryRepository
	Leaderboard    *MockLeaderboardRepository
	RenderTargets  *MockRenderTargetRepository
	Events         *MockEventPublisher
}

// NewMockUnitOfWork creates a unit of work with fresh repository mocks
func NewMockUnitOfWork() *MockUnitOfWork {
	return &MockUnitOfWork{
		Accounts:       new(MockAccountRepository),
		ShopItems:      new(MockShopItemRepository),
		Inventory:      new(MockInventoryRepository),
		BalanceHistory: new(MockBalanceHistoryRepository),
		Leaderboard:    new(MockLeaderboardRepository),
		RenderTargets:  new(MockRenderTargetRepository),
		Events:         new(MockEventPublisher),
	}
}

// ExpectCommit sets up a transaction that begins and commits
func (m *MockUnitOfWork) ExpectCommit() *MockUnitOfWork {
	m.On("Begin", mock.Anything).Return(nil)
	m.On("Commit").Return(nil)
	m.On("Rollback").Return(nil).Maybe()
	return m
}

// ExpectRollback sets up a transaction that begins and rolls back
func (m *MockUnitOfWork) ExpectRollback() *MockUnitOfWork {
	m.On("Begin", mock.Anything).Return(nil)
	m.On("Rollback").Return(nil)
	return m
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) AccountRepository() interfaces.AccountRepository {
	return m.Accounts
}

func (m *MockUnitOfWork) ShopItemRepository() interfaces.ShopItemRepository {
	return m.ShopItems
}

func (m *MockUnitOfWork) InventoryRepository() interfaces.InventoryRepository {
	return m.Inventory
}

func (m *MockUnitOfWork) BalanceHistoryRepository() interfaces.BalanceHistoryRepository {
	return m.BalanceHistory
}

func (m *MockUnitOfWork) LeaderboardRepository() interfaces.LeaderboardRepository {
	return m.Leaderboard
}

func (m *MockUnitOfWork) RenderTargetRepository() interfaces.RenderTargetRepository {
	return m.RenderTargets
}

func (m *MockUnitOfWork) EventBus() interfaces.EventPublisher {
	return m.Events
}

// AssertRepositoryExpectations checks every embedded repository mock
func (m *MockUnitOfWork) AssertRepositoryExpectations(t mock.TestingT) {
	m.Accounts.AssertExpectations(t)
	m.ShopItems.AssertExpectations(t)
	m.Inventory.AssertExpectations(t)
	m.BalanceHistory.AssertExpectations(t)
	m.Leaderboard.AssertExpectations(t)
	m.RenderTargets.AssertExpectations(t)
	m.Events.AssertExpectations(t)
}

// MockUnitOfWorkFactory returns the same unit of work on every Create call
type MockUnitOfWorkFactory struct {
	UoW *MockUnitOfWork
}

func (f *MockUnitOfWorkFactory) Create() interfaces.UnitOfWork {
	return f.UoW
}
