package events

import (
	"time"

	"clover/domain/entities"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange        EventType = "balance_change"
	EventTypeAccountCreated       EventType = "account_created"
	EventTypeAccountRemoved       EventType = "account_removed"
	EventTypeWagerSettled         EventType = "wager_settled"
	EventTypeLeaderboardRefreshed EventType = "leaderboard_refreshed"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents a balance change that occurred
type BalanceChangeEvent struct {
	AccountID       int64
	OldBalance      int64
	NewBalance      int64
	TransactionType entities.TransactionType
	ChangeAmount    int64
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// AccountCreatedEvent is emitted when activity provisions a new account
type AccountCreatedEvent struct {
	AccountID int64
	Source    string
}

func (e AccountCreatedEvent) Type() EventType {
	return EventTypeAccountCreated
}

// AccountRemovedEvent is emitted after an account and its dependents are deleted
type AccountRemovedEvent struct {
	AccountID    int64
	FinalBalance int64
}

func (e AccountRemovedEvent) Type() EventType {
	return EventTypeAccountRemoved
}

// WagerSettledEvent represents a resolved game of chance
type WagerSettledEvent struct {
	AccountID int64
	Game      entities.GameKind
	Bet       int64
	Payout    int64
	Won       bool
	Outcome   string
}

func (e WagerSettledEvent) Type() EventType {
	return EventTypeWagerSettled
}

// LeaderboardRefreshedEvent is emitted after a snapshot replaces the cached one
type LeaderboardRefreshedEvent struct {
	GeneratedAt time.Time
	Rankings    int
	Fallbacks   []entities.LeaderboardMetric
}

func (e LeaderboardRefreshedEvent) Type() EventType {
	return EventTypeLeaderboardRefreshed
}
