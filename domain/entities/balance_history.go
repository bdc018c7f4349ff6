package entities

import (
	"errors"
	"time"
)

// BalanceHistory represents a historical balance change
type BalanceHistory struct {
	ID                  int64           `db:"id"`
	AccountID           int64           `db:"account_id"`
	BalanceBefore       int64           `db:"balance_before"`
	BalanceAfter        int64           `db:"balance_after"`
	ChangeAmount        int64           `db:"change_amount"`
	TransactionType     TransactionType `db:"transaction_type"`
	TransactionMetadata map[string]any  `db:"transaction_metadata"`
	CreatedAt           time.Time       `db:"created_at"`
}

// ChangeReason labels a balance change for the history trail
type ChangeReason struct {
	Type     TransactionType
	Metadata map[string]any
}

// Reason builds a ChangeReason with optional metadata
func Reason(tt TransactionType, metadata map[string]any) ChangeReason {
	return ChangeReason{Type: tt, Metadata: metadata}
}

// IsPositiveChange returns true if the change amount is positive
func (bh *BalanceHistory) IsPositiveChange() bool {
	return bh.ChangeAmount > 0
}

// ValidateTransaction performs basic validation on the transaction
func (bh *BalanceHistory) ValidateTransaction() error {
	if bh.BalanceAfter != bh.BalanceBefore+bh.ChangeAmount {
		return errors.New("balance calculation is inconsistent")
	}
	if bh.BalanceAfter < 0 {
		return errors.New("balance cannot be negative")
	}
	return nil
}
