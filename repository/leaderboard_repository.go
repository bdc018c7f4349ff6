package repository

import (
	"context"
	"fmt"
	"time"

	"clover/database"
	"clover/domain/entities"
)

// LeaderboardRepository ranks accounts straight from the accounts table
type LeaderboardRepository struct {
	q Queryable
}

// NewLeaderboardRepository creates a new leaderboard repository
func NewLeaderboardRepository(db *database.DB) *LeaderboardRepository {
	return &LeaderboardRepository{q: db.Pool}
}

// NewLeaderboardRepositoryScoped creates a new leaderboard repository bound to a transaction
func NewLeaderboardRepositoryScoped(tx Queryable) *LeaderboardRepository {
	return &LeaderboardRepository{q: tx}
}

// Top returns up to limit accounts ordered by the metric descending and id
// ascending. since only applies to the windowed metrics.
func (r *LeaderboardRepository) Top(ctx context.Context, metric entities.LeaderboardMetric, since *time.Time, limit int) ([]entities.LeaderboardEntry, error) {
	// Integer metrics are ordered on their own column and only cast for the
	// projection, so large balances keep exact ordering.
	var column, activity string
	switch metric {
	case entities.LeaderboardMetricMessages:
		column, activity = "messages_sent", "last_message_time"
	case entities.LeaderboardMetricVoice:
		column, activity = "minutes_in_voice", "last_voice_time"
	case entities.LeaderboardMetricCash:
		column = "cash"
	case entities.LeaderboardMetricXP:
		column = "xp"
	default:
		return nil, fmt.Errorf("%w: unknown leaderboard metric %q", entities.ErrInvalidArgument, metric)
	}

	query := fmt.Sprintf(`SELECT id, %s::double precision AS value FROM accounts`, column)
	args := []any{limit}
	if since != nil && activity != "" {
		query += fmt.Sprintf(` WHERE %s >= $2`, activity)
		args = append(args, *since)
	}
	query += fmt.Sprintf(` ORDER BY %s DESC, id ASC LIMIT $1`, column)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to rank %s: %w", metric, err)
	}
	defer rows.Close()

	var entries []entities.LeaderboardEntry
	for rows.Next() {
		entry := entities.LeaderboardEntry{Rank: len(entries) + 1}
		if err := rows.Scan(&entry.AccountID, &entry.Value); err != nil {
			return nil, fmt.Errorf("failed to scan %s ranking: %w", metric, err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s ranking: %w", metric, err)
	}
	return entries, nil
}
