package repository

import (
	"context"
	"fmt"

	"clover/database"
	"clover/domain/entities"
)

// RenderTargetRepository implements the RenderTargetRepository interface
type RenderTargetRepository struct {
	q Queryable
}

// NewRenderTargetRepository creates a new render target repository
func NewRenderTargetRepository(db *database.DB) *RenderTargetRepository {
	return &RenderTargetRepository{q: db.Pool}
}

// NewRenderTargetRepositoryScoped creates a new render target repository bound to a transaction
func NewRenderTargetRepositoryScoped(tx Queryable) *RenderTargetRepository {
	return &RenderTargetRepository{q: tx}
}

// GetAll returns every persisted target ordered by board
func (r *RenderTargetRepository) GetAll(ctx context.Context) ([]*entities.RenderTarget, error) {
	rows, err := r.q.Query(ctx, `
		SELECT board, channel_id, message_id, updated_at
		FROM leaderboard_render_targets
		ORDER BY board
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get render targets: %w", err)
	}
	defer rows.Close()

	var targets []*entities.RenderTarget
	for rows.Next() {
		var target entities.RenderTarget
		if err := rows.Scan(&target.Board, &target.ChannelID, &target.MessageID, &target.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan render target: %w", err)
		}
		targets = append(targets, &target)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate render targets: %w", err)
	}
	return targets, nil
}

// Upsert stores the target for its board, replacing any previous one
func (r *RenderTargetRepository) Upsert(ctx context.Context, target *entities.RenderTarget) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO leaderboard_render_targets (board, channel_id, message_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (board) DO UPDATE
		SET channel_id = EXCLUDED.channel_id,
		    message_id = EXCLUDED.message_id,
		    updated_at = NOW()
		RETURNING updated_at
	`, target.Board, target.ChannelID, target.MessageID).Scan(&target.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert %s render target: %w", target.Board, err)
	}
	return nil
}

// DeleteAll forgets every render target
func (r *RenderTargetRepository) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM leaderboard_render_targets`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete render targets: %w", err)
	}
	return tag.RowsAffected(), nil
}
