package entities

import (
	"time"
)

const (
	// MessageXP is awarded for every recorded chat message
	MessageXP int64 = 1

	// VoiceXPPerMinute is awarded per minute spent in voice, rounded down
	VoiceXPPerMinute float64 = 2
)

// Account is a tracked participant's economic and activity record
type Account struct {
	ID              int64      `db:"id"`
	Cash            int64      `db:"cash"`
	XP              int64      `db:"xp"`
	MessagesSent    int64      `db:"messages_sent"`
	MinutesInVoice  float64    `db:"minutes_in_voice"`
	LastMessageTime *time.Time `db:"last_message_time"`
	LastVoiceTime   *time.Time `db:"last_voice_time"`
	LastDailyClaim  *time.Time `db:"last_daily_claim"`
	LastWeeklyClaim *time.Time `db:"last_weekly_claim"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}

// CanAfford checks if the account holds at least amount cash
func (a *Account) CanAfford(amount int64) bool {
	return a.Cash >= amount
}

// LastClaim returns the stored claim timestamp for the given kind
func (a *Account) LastClaim(kind ClaimKind) *time.Time {
	switch kind {
	case ClaimKindDaily:
		return a.LastDailyClaim
	case ClaimKindWeekly:
		return a.LastWeeklyClaim
	default:
		return nil
	}
}

// VoiceXP converts voice minutes into whole XP
func VoiceXP(minutes float64) int64 {
	if minutes <= 0 {
		return 0
	}
	return int64(minutes * VoiceXPPerMinute)
}

// TransferResult describes both sides of a completed transfer
type TransferResult struct {
	FromAccountID int64
	ToAccountID   int64
	Amount        int64
	FromBalance   int64
	ToBalance     int64
}
