package application

import (
	"context"
	"sync"
	"time"

	"clover/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// LeaderboardWorker refreshes the leaderboard on a fixed interval
type LeaderboardWorker struct {
	leaderboard interfaces.LeaderboardService
	interval    time.Duration
}

// NewLeaderboardWorker creates a new leaderboard worker
func NewLeaderboardWorker(leaderboard interfaces.LeaderboardService, interval time.Duration) *LeaderboardWorker {
	return &LeaderboardWorker{
		leaderboard: leaderboard,
		interval:    interval,
	}
}

// Start refreshes once immediately and then every interval until ctx is
// cancelled or the returned stop function is called. The stop function
// waits for an in-flight refresh to finish.
func (w *LeaderboardWorker) Start(ctx context.Context) func() {
	stopChan := make(chan struct{})
	done := make(chan struct{})

	refresh := func() {
		if _, err := w.leaderboard.Refresh(ctx); err != nil {
			log.WithError(err).Error("Leaderboard refresh failed")
		}
	}

	go func() {
		defer close(done)
		log.WithField("interval", w.interval).Info("Leaderboard worker started")

		refresh()

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info("Leaderboard worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Leaderboard worker shutting down (stop requested)...")
				return
			case <-ticker.C:
				refresh()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(stopChan) })
		<-done
	}
}
