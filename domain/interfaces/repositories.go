package interfaces

import (
	"context"
	"time"

	"clover/domain/entities"
	"clover/domain/events"
)

// AccountRepository defines the interface for account data access
type AccountRepository interface {
	// Ensure creates the account if it does not exist and reports whether a row was inserted
	Ensure(ctx context.Context, accountID int64) (bool, error)
	GetByID(ctx context.Context, accountID int64) (*entities.Account, error)
	// AddCash credits the account and returns the new balance
	AddCash(ctx context.Context, accountID int64, amount int64) (int64, error)
	// DeductCash debits the account only if it holds at least amount, in a single statement
	DeductCash(ctx context.Context, accountID int64, amount int64) (int64, error)
	// SetCash overwrites the balance and returns the previous one
	SetCash(ctx context.Context, accountID int64, cash int64) (int64, error)
	AddXP(ctx context.Context, accountID int64, delta int64) (int64, error)
	RecordMessage(ctx context.Context, accountID int64, xp int64, at time.Time) (bool, error)
	RecordVoice(ctx context.Context, accountID int64, minutes float64, xp int64, at time.Time) (bool, error)
	// StampClaim sets the claim timestamp to now unless a claim was made after notBefore
	StampClaim(ctx context.Context, accountID int64, kind entities.ClaimKind, now, notBefore time.Time) (bool, error)
	// LockForUpdate row-locks the accounts in ascending id order
	LockForUpdate(ctx context.Context, accountIDs ...int64) ([]*entities.Account, error)
	Delete(ctx context.Context, accountID int64) (bool, error)
}

// ShopItemRepository defines the interface for catalog data access
type ShopItemRepository interface {
	Create(ctx context.Context, item *entities.ShopItem) error
	// GetByName looks the item up case-insensitively
	GetByName(ctx context.Context, name string) (*entities.ShopItem, error)
	List(ctx context.Context) ([]*entities.ShopItem, error)
	Delete(ctx context.Context, itemID int64) (bool, error)
}

// InventoryRepository defines the interface for inventory data access
type InventoryRepository interface {
	// Increment adds quantity to the entry, creating it if needed, and returns the new quantity
	Increment(ctx context.Context, accountID, itemID int64, quantity int64) (int64, error)
	// GetQuantityForUpdate row-locks the entry and returns its quantity, 0 if absent
	GetQuantityForUpdate(ctx context.Context, accountID, itemID int64) (int64, error)
	SetQuantity(ctx context.Context, accountID, itemID int64, quantity int64) error
	Delete(ctx context.Context, accountID, itemID int64) error
	DeleteByItem(ctx context.Context, itemID int64) (int64, error)
	DeleteByAccount(ctx context.Context, accountID int64) (int64, error)
	ListByAccount(ctx context.Context, accountID int64) ([]*entities.InventoryItem, error)
}

// BalanceHistoryRepository defines the interface for balance history data access
type BalanceHistoryRepository interface {
	Record(ctx context.Context, history *entities.BalanceHistory) error
	GetByAccount(ctx context.Context, accountID int64, limit int) ([]*entities.BalanceHistory, error)
	DeleteByAccount(ctx context.Context, accountID int64) (int64, error)
}

// LeaderboardRepository reads ranked account statistics
type LeaderboardRepository interface {
	// Top ranks accounts by metric descending, ties by id ascending. A non-nil
	// since restricts windowed metrics to activity at or after it.
	Top(ctx context.Context, metric entities.LeaderboardMetric, since *time.Time, limit int) ([]entities.LeaderboardEntry, error)
}

// RenderTargetRepository persists where leaderboards were posted
type RenderTargetRepository interface {
	GetAll(ctx context.Context) ([]*entities.RenderTarget, error)
	Upsert(ctx context.Context, target *entities.RenderTarget) error
	DeleteAll(ctx context.Context) (int64, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event) error
}

// TransactionalEventPublisher holds events until the surrounding transaction
// commits (Flush) or rolls back (Discard)
type TransactionalEventPublisher interface {
	EventPublisher
	Flush(ctx context.Context) error
	Discard()
}
