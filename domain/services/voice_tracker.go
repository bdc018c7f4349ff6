package services

import (
	"context"
	"sync"
	"time"

	"clover/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// VoiceTracker remembers when each account joined voice and turns the time
// spent into voice minutes when it leaves. The map is owned by the tracker;
// callers evict accounts that disappear with Forget.
type VoiceTracker struct {
	ledger interfaces.LedgerService
	now    func() time.Time

	mu     sync.Mutex
	joined map[int64]time.Time
}

func NewVoiceTracker(ledger interfaces.LedgerService) *VoiceTracker {
	return &VoiceTracker{
		ledger: ledger,
		now:    time.Now,
		joined: make(map[int64]time.Time),
	}
}

// Join starts the clock for an account. Moving between voice channels keeps
// the original join time.
func (v *VoiceTracker) Join(accountID int64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.joined[accountID]; !ok {
		v.joined[accountID] = v.now()
	}
}

// Leave stops the clock and records the elapsed minutes. It returns the XP
// awarded, or 0 if the account was not being tracked.
func (v *VoiceTracker) Leave(ctx context.Context, accountID int64) (int64, error) {
	v.mu.Lock()
	joinedAt, ok := v.joined[accountID]
	delete(v.joined, accountID)
	v.mu.Unlock()
	if !ok {
		return 0, nil
	}

	minutes := v.now().Sub(joinedAt).Minutes()
	if minutes <= 0 {
		return 0, nil
	}
	xp, err := v.ledger.RecordVoiceMinutes(ctx, accountID, minutes)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"accountID": accountID,
			"minutes":   minutes,
		}).Error("Failed to record voice minutes")
		return 0, err
	}
	return xp, nil
}

// Forget drops an account without recording anything
func (v *VoiceTracker) Forget(accountID int64) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, ok := v.joined[accountID]
	delete(v.joined, accountID)
	return ok
}

// Active returns how many accounts are currently in voice
func (v *VoiceTracker) Active() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.joined)
}

// LeaveAll finalises every tracked account, e.g. before shutdown
func (v *VoiceTracker) LeaveAll(ctx context.Context) {
	v.mu.Lock()
	ids := make([]int64, 0, len(v.joined))
	for id := range v.joined {
		ids = append(ids, id)
	}
	v.mu.Unlock()

	for _, id := range ids {
		if _, err := v.Leave(ctx, id); err != nil {
			log.WithError(err).WithField("accountID", id).Warn("Dropped voice session on shutdown")
		}
	}
}
