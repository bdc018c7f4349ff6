package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"clover/domain/entities"
	"clover/domain/events"
	"clover/domain/interfaces"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultLeaderboardSize   = 9
	DefaultLeaderboardWindow = 7 * 24 * time.Hour
)

type leaderboardService struct {
	uowFactory interfaces.UnitOfWorkFactory
	size       int
	window     time.Duration
	now        func() time.Time

	group singleflight.Group

	mu        sync.RWMutex
	last      *entities.LeaderboardSnapshot
	listeners []interfaces.RefreshListener
}

// NewLeaderboardService creates the aggregator. Messages and voice are ranked
// over the trailing window; cash and XP are always all-time.
func NewLeaderboardService(uowFactory interfaces.UnitOfWorkFactory, size int, window time.Duration) interfaces.LeaderboardService {
	if size <= 0 {
		size = DefaultLeaderboardSize
	}
	if window <= 0 {
		window = DefaultLeaderboardWindow
	}
	return &leaderboardService{
		uowFactory: uowFactory,
		size:       size,
		window:     window,
		now:        time.Now,
	}
}

// Refresh recomputes every ranking. Calls that arrive while a refresh is
// running wait for it and share its result.
func (s *leaderboardService) Refresh(ctx context.Context) (*entities.LeaderboardSnapshot, error) {
	v, err, shared := s.group.Do("refresh", func() (any, error) {
		return s.refresh(ctx)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		log.Debug("Leaderboard refresh coalesced")
	}
	return v.(*entities.LeaderboardSnapshot), nil
}

func (s *leaderboardService) refresh(ctx context.Context) (*entities.LeaderboardSnapshot, error) {
	start := s.now()
	snapshot := &entities.LeaderboardSnapshot{
		GeneratedAt: start,
		Window:      s.window,
		Rankings:    make(map[entities.LeaderboardMetric]*entities.LeaderboardRanking, len(entities.AllLeaderboardMetrics)),
	}
	var targets []*entities.RenderTarget

	// One snapshot so every ranking reflects the same ledger state
	err := inTransaction(interfaces.WithReadOnlySnapshot(ctx), s.uowFactory, "leaderboard refresh", func(uow interfaces.UnitOfWork) error {
		var fallbacks []entities.LeaderboardMetric
		for _, metric := range entities.AllLeaderboardMetrics {
			ranking, err := s.rank(ctx, uow.LeaderboardRepository(), metric, start)
			if err != nil {
				return err
			}
			if ranking.AllTime {
				fallbacks = append(fallbacks, metric)
			}
			snapshot.Rankings[metric] = ranking
		}

		var err error
		if targets, err = uow.RenderTargetRepository().GetAll(ctx); err != nil {
			return err
		}

		event := events.LeaderboardRefreshedEvent{
			GeneratedAt: snapshot.GeneratedAt,
			Rankings:    len(snapshot.Rankings),
			Fallbacks:   fallbacks,
		}
		if err := uow.EventBus().Publish(event); err != nil {
			log.WithError(err).Error("Failed to publish leaderboard refreshed event")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.last = snapshot
	listeners := append([]interfaces.RefreshListener(nil), s.listeners...)
	s.mu.Unlock()

	log.WithFields(log.Fields{
		"generatedAt": snapshot.GeneratedAt,
		"targets":     len(targets),
		"duration":    s.now().Sub(start),
	}).Info("Leaderboard refreshed")

	for _, listener := range listeners {
		listener(ctx, snapshot, targets)
	}
	return snapshot, nil
}

// rank queries one metric. An empty window falls back to the all-time ranking.
func (s *leaderboardService) rank(ctx context.Context, repo interfaces.LeaderboardRepository, metric entities.LeaderboardMetric, now time.Time) (*entities.LeaderboardRanking, error) {
	ranking := &entities.LeaderboardRanking{Metric: metric}

	if metric.Windowed() {
		since := now.Add(-s.window)
		entries, err := repo.Top(ctx, metric, &since, s.size)
		if err != nil {
			return nil, err
		}
		if len(entries) > 0 {
			ranking.Entries = entries
			return ranking, nil
		}
		ranking.AllTime = true
	}

	entries, err := repo.Top(ctx, metric, nil, s.size)
	if err != nil {
		return nil, err
	}
	ranking.Entries = entries
	return ranking, nil
}

func (s *leaderboardService) LastSnapshot() (*entities.LeaderboardSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last, s.last != nil
}

// SetRenderTargets stores where the boards were posted. It refuses to
// overwrite an existing configuration; reset first.
func (s *leaderboardService) SetRenderTargets(ctx context.Context, targets []*entities.RenderTarget) error {
	if len(targets) == 0 {
		return fmt.Errorf("%w: no render targets given", entities.ErrInvalidArgument)
	}
	seen := make(map[entities.LeaderboardBoard]bool, len(targets))
	for _, target := range targets {
		if target.Board != entities.LeaderboardBoardChat && target.Board != entities.LeaderboardBoardVoice {
			return fmt.Errorf("%w: unknown leaderboard board %q", entities.ErrInvalidArgument, target.Board)
		}
		if target.ChannelID <= 0 || target.MessageID <= 0 {
			return fmt.Errorf("%w: render target needs a channel and a message", entities.ErrInvalidArgument)
		}
		if seen[target.Board] {
			return fmt.Errorf("%w: board %q given twice", entities.ErrInvalidArgument, target.Board)
		}
		seen[target.Board] = true
	}

	return inTransaction(ctx, s.uowFactory, "set render targets", func(uow interfaces.UnitOfWork) error {
		repo := uow.RenderTargetRepository()
		existing, err := repo.GetAll(ctx)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return entities.ErrRenderTargetExists
		}
		now := s.now()
		for _, target := range targets {
			target.UpdatedAt = now
			if err := repo.Upsert(ctx, target); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *leaderboardService) ResetRenderTargets(ctx context.Context) error {
	return inTransaction(ctx, s.uowFactory, "reset render targets", func(uow interfaces.UnitOfWork) error {
		removed, err := uow.RenderTargetRepository().DeleteAll(ctx)
		if err != nil {
			return err
		}
		log.WithField("removed", removed).Info("Leaderboard render targets reset")
		return nil
	})
}

func (s *leaderboardService) RenderTargets(ctx context.Context) ([]*entities.RenderTarget, error) {
	var targets []*entities.RenderTarget
	err := inTransaction(ctx, s.uowFactory, "get render targets", func(uow interfaces.UnitOfWork) error {
		var err error
		targets, err = uow.RenderTargetRepository().GetAll(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return targets, nil
}

func (s *leaderboardService) OnRefresh(listener interfaces.RefreshListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, listener)
}
