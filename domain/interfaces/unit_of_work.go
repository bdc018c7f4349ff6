package interfaces

import "context"

// UnitOfWork manages a database transaction and the repositories bound to it
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	AccountRepository() AccountRepository
	ShopItemRepository() ShopItemRepository
	InventoryRepository() InventoryRepository
	BalanceHistoryRepository() BalanceHistoryRepository
	LeaderboardRepository() LeaderboardRepository
	RenderTargetRepository() RenderTargetRepository

	// EventBus returns a publisher whose events are only delivered on commit
	EventBus() EventPublisher
}

// UnitOfWorkFactory creates UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

type readOnlySnapshotKey struct{}

// WithReadOnlySnapshot marks ctx so the next Begin opens a read-only
// REPEATABLE READ transaction. Every query in it sees one consistent state.
func WithReadOnlySnapshot(ctx context.Context) context.Context {
	return context.WithValue(ctx, readOnlySnapshotKey{}, true)
}

// IsReadOnlySnapshot reports whether ctx asks for a read-only snapshot
func IsReadOnlySnapshot(ctx context.Context) bool {
	v, _ := ctx.Value(readOnlySnapshotKey{}).(bool)
	return v
}
