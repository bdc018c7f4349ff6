package entities

import "time"

// ClaimKind identifies a time-gated income grant
type ClaimKind string

const (
	ClaimKindDaily  ClaimKind = "daily"
	ClaimKindWeekly ClaimKind = "weekly"
)

// Cooldown returns the minimum time between two grants of this kind
func (k ClaimKind) Cooldown() time.Duration {
	switch k {
	case ClaimKindWeekly:
		return 7 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// TransactionType returns the balance history type recorded for a grant
func (k ClaimKind) TransactionType() TransactionType {
	if k == ClaimKindWeekly {
		return TransactionTypeWeeklyIncome
	}
	return TransactionTypeDailyIncome
}

// ClaimStatus is the outcome of a claim attempt
type ClaimStatus string

const (
	ClaimStatusGranted     ClaimStatus = "granted"
	ClaimStatusNotEligible ClaimStatus = "not_eligible"
	ClaimStatusTooSoon     ClaimStatus = "too_soon"
)

// ClaimResult describes a single claim attempt. Amount and Balance are only
// set when the claim was granted; Remaining and NextClaimAt only when it was
// too soon.
type ClaimResult struct {
	Kind        ClaimKind
	Status      ClaimStatus
	Amount      int64
	Balance     int64
	Remaining   time.Duration
	NextClaimAt time.Time
	Tiers       []string
}

// Granted reports whether the claim credited the account
func (r *ClaimResult) Granted() bool {
	return r.Status == ClaimStatusGranted
}

// CollectResult combines the daily and weekly attempts of one collect call
type CollectResult struct {
	Daily  *ClaimResult
	Weekly *ClaimResult
}

// Total returns the cash granted across both claims
func (r *CollectResult) Total() int64 {
	var total int64
	if r.Daily != nil && r.Daily.Granted() {
		total += r.Daily.Amount
	}
	if r.Weekly != nil && r.Weekly.Granted() {
		total += r.Weekly.Amount
	}
	return total
}

// ClaimAvailableAt returns when the next claim of the given kind opens.
// A zero time means the claim is available now.
func ClaimAvailableAt(last *time.Time, kind ClaimKind) time.Time {
	if last == nil {
		return time.Time{}
	}
	return last.Add(kind.Cooldown())
}
