package utils

import (
	"context"
	"fmt"

	"clover/domain/entities"
	"clover/domain/events"
	"clover/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// RecordBalanceChange records a balance history entry and emits a balance change event.
// This is the single entry point for all balance changes in the system.
func RecordBalanceChange(ctx context.Context, balanceHistoryRepo interfaces.BalanceHistoryRepository, eventPublisher interfaces.EventPublisher, history *entities.BalanceHistory) error {
	if err := history.ValidateTransaction(); err != nil {
		return fmt.Errorf("invalid balance change for account %d: %w", history.AccountID, err)
	}

	if err := balanceHistoryRepo.Record(ctx, history); err != nil {
		return fmt.Errorf("failed to record balance history: %w", err)
	}

	event := events.BalanceChangeEvent{
		AccountID:       history.AccountID,
		OldBalance:      history.BalanceBefore,
		NewBalance:      history.BalanceAfter,
		TransactionType: history.TransactionType,
		ChangeAmount:    history.ChangeAmount,
	}
	log.WithFields(log.Fields{
		"accountID":       event.AccountID,
		"oldBalance":      event.OldBalance,
		"newBalance":      event.NewBalance,
		"transactionType": event.TransactionType,
		"changeAmount":    event.ChangeAmount,
	}).Debug("Publishing BalanceChangeEvent")
	if err := eventPublisher.Publish(event); err != nil {
		log.WithError(err).Error("Failed to publish balance change event")
	}

	return nil
}

// NewBalanceChange builds the history row for a cash movement from before to after
func NewBalanceChange(accountID, before, after int64, reason entities.ChangeReason) *entities.BalanceHistory {
	return &entities.BalanceHistory{
		AccountID:           accountID,
		BalanceBefore:       before,
		BalanceAfter:        after,
		ChangeAmount:        after - before,
		TransactionType:     reason.Type,
		TransactionMetadata: reason.Metadata,
	}
}
