package infrastructure

import (
	"context"

	"clover/domain/interfaces"
)

// unitOfWork wraps the repository UnitOfWork and flushes queued events
// once the transaction commits
type unitOfWork struct {
	inner                  interfaces.UnitOfWork
	transactionalPublisher *NATSTransactionalPublisher
	ctx                    context.Context
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	u.ctx = ctx
	return u.inner.Begin(ctx)
}

// Commit commits the transaction and flushes events on success
func (u *unitOfWork) Commit() error {
	if err := u.inner.Commit(); err != nil {
		u.transactionalPublisher.Discard()
		return err
	}

	// Delivery is best effort once the data is durable
	_ = u.transactionalPublisher.Flush(u.ctx)
	return nil
}

// Rollback discards pending events and rolls back the transaction
func (u *unitOfWork) Rollback() error {
	u.transactionalPublisher.Discard()
	return u.inner.Rollback()
}

func (u *unitOfWork) AccountRepository() interfaces.AccountRepository {
	return u.inner.AccountRepository()
}

func (u *unitOfWork) ShopItemRepository() interfaces.ShopItemRepository {
	return u.inner.ShopItemRepository()
}

func (u *unitOfWork) InventoryRepository() interfaces.InventoryRepository {
	return u.inner.InventoryRepository()
}

func (u *unitOfWork) BalanceHistoryRepository() interfaces.BalanceHistoryRepository {
	return u.inner.BalanceHistoryRepository()
}

func (u *unitOfWork) LeaderboardRepository() interfaces.LeaderboardRepository {
	return u.inner.LeaderboardRepository()
}

func (u *unitOfWork) RenderTargetRepository() interfaces.RenderTargetRepository {
	return u.inner.RenderTargetRepository()
}

// EventBus returns the transactional event publisher
func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	return u.transactionalPublisher
}
