package repository

import (
	"context"
	"errors"
	"fmt"

	"clover/database"
	"clover/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

const notStarted = "unit of work not started - call Begin() first"

// unitOfWork implements the UnitOfWork interface over a single pgx transaction
type unitOfWork struct {
	db        *database.DB
	tx        pgx.Tx
	ctx       context.Context
	publisher interfaces.EventPublisher

	accountRepo        interfaces.AccountRepository
	shopItemRepo       interfaces.ShopItemRepository
	inventoryRepo      interfaces.InventoryRepository
	balanceHistoryRepo interfaces.BalanceHistoryRepository
	leaderboardRepo    interfaces.LeaderboardRepository
	renderTargetRepo   interfaces.RenderTargetRepository
}

// UnitOfWorkFactory creates transaction-scoped units of work
type UnitOfWorkFactory struct {
	db *database.DB
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{db: db}
}

// CreateWithPublisher creates a new UnitOfWork whose EventBus is publisher.
// The caller owns delivery; this layer only scopes the repositories.
func (f *UnitOfWorkFactory) CreateWithPublisher(publisher interfaces.EventPublisher) interfaces.UnitOfWork {
	return &unitOfWork{
		db:        f.db,
		publisher: publisher,
	}
}

// Begin starts a new transaction, read-only REPEATABLE READ when ctx is
// marked with interfaces.WithReadOnlySnapshot
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	var opts pgx.TxOptions
	if interfaces.IsReadOnlySnapshot(ctx) {
		opts = pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}
	}
	tx, err := u.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	u.accountRepo = NewAccountRepositoryScoped(tx)
	u.shopItemRepo = NewShopItemRepositoryScoped(tx)
	u.inventoryRepo = NewInventoryRepositoryScoped(tx)
	u.balanceHistoryRepo = NewBalanceHistoryRepositoryScoped(tx)
	u.leaderboardRepo = NewLeaderboardRepositoryScoped(tx)
	u.renderTargetRepo = NewRenderTargetRepositoryScoped(tx)

	return nil
}

// Commit commits the transaction
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	err := u.tx.Commit(u.ctx)
	u.tx = nil
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Rollback rolls back the transaction. It is a no-op after Commit.
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback(u.ctx)
	u.tx = nil
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

func (u *unitOfWork) AccountRepository() interfaces.AccountRepository {
	if u.accountRepo == nil {
		panic(notStarted)
	}
	return u.accountRepo
}

func (u *unitOfWork) ShopItemRepository() interfaces.ShopItemRepository {
	if u.shopItemRepo == nil {
		panic(notStarted)
	}
	return u.shopItemRepo
}

func (u *unitOfWork) InventoryRepository() interfaces.InventoryRepository {
	if u.inventoryRepo == nil {
		panic(notStarted)
	}
	return u.inventoryRepo
}

func (u *unitOfWork) BalanceHistoryRepository() interfaces.BalanceHistoryRepository {
	if u.balanceHistoryRepo == nil {
		panic(notStarted)
	}
	return u.balanceHistoryRepo
}

func (u *unitOfWork) LeaderboardRepository() interfaces.LeaderboardRepository {
	if u.leaderboardRepo == nil {
		panic(notStarted)
	}
	return u.leaderboardRepo
}

func (u *unitOfWork) RenderTargetRepository() interfaces.RenderTargetRepository {
	if u.renderTargetRepo == nil {
		panic(notStarted)
	}
	return u.renderTargetRepo
}

// EventBus returns the publisher handed to the factory
func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	if u.publisher == nil {
		panic("event publisher not configured")
	}
	return u.publisher
}
