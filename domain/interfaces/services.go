package interfaces

import (
	"context"

	"clover/domain/entities"
)

// LedgerService is the only code path allowed to mutate balances, XP and
// inventory. Every method commits before returning.
type LedgerService interface {
	EnsureAccount(ctx context.Context, accountID int64) (bool, error)
	RemoveAccount(ctx context.Context, accountID int64) error
	GetAccount(ctx context.Context, accountID int64) (*entities.Account, error)
	Balance(ctx context.Context, accountID int64) (int64, error)

	Credit(ctx context.Context, accountID int64, amount int64, reason entities.ChangeReason) (int64, error)
	Debit(ctx context.Context, accountID int64, amount int64, reason entities.ChangeReason) (int64, error)
	SetCash(ctx context.Context, accountID int64, cash int64) (int64, error)
	Transfer(ctx context.Context, fromID, toID int64, amount int64) (*entities.TransferResult, error)
	AdjustXP(ctx context.Context, accountID int64, delta int64) (int64, error)

	RecordMessage(ctx context.Context, accountID int64) error
	RecordVoiceMinutes(ctx context.Context, accountID int64, minutes float64) (int64, error)

	PurchaseItem(ctx context.Context, accountID int64, itemName string) (*entities.PurchaseResult, error)
	UseItem(ctx context.Context, accountID int64, itemName string) (*entities.UseResult, error)
	GrantItem(ctx context.Context, accountID int64, itemName string, quantity int64) (int64, error)
	Inventory(ctx context.Context, accountID int64) ([]*entities.InventoryItem, error)
	Catalog(ctx context.Context) ([]*entities.ShopItem, error)
	AddShopItem(ctx context.Context, item *entities.ShopItem, privileged bool) error
	DeleteShopItem(ctx context.Context, name string, privileged bool) error

	History(ctx context.Context, accountID int64, limit int) ([]*entities.BalanceHistory, error)
}

// GamblingService resolves the single-call games
type GamblingService interface {
	Spin(ctx context.Context, game entities.GameKind, accountID int64, bet int64, target string) (*entities.SpinResult, error)
	SpinSlots(ctx context.Context, accountID int64, bet int64) (*entities.SpinResult, error)
	SpinRoulette(ctx context.Context, accountID int64, bet int64, target string) (*entities.SpinResult, error)
}

// BlackjackService owns the in-memory blackjack sessions
type BlackjackService interface {
	StartBlackjack(ctx context.Context, accountID, channelID int64, bet int64) (*entities.BlackjackView, error)
	BlackjackAction(ctx context.Context, accountID, channelID int64, action entities.BlackjackAction) (*entities.BlackjackView, error)
	ActiveSession(accountID, channelID int64) (*entities.BlackjackView, bool)
	Shutdown()
}

// ClaimService grants time-gated income
type ClaimService interface {
	ClaimDaily(ctx context.Context, accountID int64, eligible bool) (*entities.ClaimResult, error)
	ClaimWeekly(ctx context.Context, accountID int64, tiers []string) (*entities.ClaimResult, error)
	Collect(ctx context.Context, accountID int64, eligible bool, tiers []string) (*entities.CollectResult, error)
}

// RefreshListener is called after every successful leaderboard refresh
type RefreshListener func(ctx context.Context, snapshot *entities.LeaderboardSnapshot, targets []*entities.RenderTarget)

// LeaderboardService computes and caches leaderboard snapshots
type LeaderboardService interface {
	Refresh(ctx context.Context) (*entities.LeaderboardSnapshot, error)
	LastSnapshot() (*entities.LeaderboardSnapshot, bool)
	SetRenderTargets(ctx context.Context, targets []*entities.RenderTarget) error
	ResetRenderTargets(ctx context.Context) error
	RenderTargets(ctx context.Context) ([]*entities.RenderTarget, error)
	OnRefresh(listener RefreshListener)
}
