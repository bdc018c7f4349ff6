package entities

// TransactionType represents the type of balance change
type TransactionType string

const (
	// Wager transactions
	TransactionTypeSlotsBet     TransactionType = "slots_bet"
	TransactionTypeRouletteBet  TransactionType = "roulette_bet"
	TransactionTypeBlackjackBet TransactionType = "blackjack_bet"
	TransactionTypeWagerPayout  TransactionType = "wager_payout"
	TransactionTypeWagerRefund  TransactionType = "wager_refund"

	// Transfer transactions
	TransactionTypeTransferIn  TransactionType = "transfer_in"
	TransactionTypeTransferOut TransactionType = "transfer_out"

	// Shop transactions
	TransactionTypePurchase TransactionType = "purchase"

	// Income
	TransactionTypeDailyIncome  TransactionType = "daily_income"
	TransactionTypeWeeklyIncome TransactionType = "weekly_income"

	// System transactions
	TransactionTypeCredit     TransactionType = "credit"
	TransactionTypeDebit      TransactionType = "debit"
	TransactionTypeAdminReset TransactionType = "admin_reset"
)

// IsWagerRelated returns true for bets and their settlements
func (tt TransactionType) IsWagerRelated() bool {
	switch tt {
	case TransactionTypeSlotsBet, TransactionTypeRouletteBet, TransactionTypeBlackjackBet,
		TransactionTypeWagerPayout, TransactionTypeWagerRefund:
		return true
	}
	return false
}

// IsIncome returns true for claim grants
func (tt TransactionType) IsIncome() bool {
	return tt == TransactionTypeDailyIncome || tt == TransactionTypeWeeklyIncome
}

// String returns the string representation of the transaction type
func (tt TransactionType) String() string {
	return string(tt)
}
