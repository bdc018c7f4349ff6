package repository

import (
	"context"
	"errors"
	"fmt"

	"clover/database"
	"clover/domain/entities"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// ShopItemRepository implements the ShopItemRepository interface
type ShopItemRepository struct {
	q Queryable
}

// NewShopItemRepository creates a new shop item repository
func NewShopItemRepository(db *database.DB) *ShopItemRepository {
	return &ShopItemRepository{q: db.Pool}
}

// NewShopItemRepositoryScoped creates a new shop item repository bound to a transaction
func NewShopItemRepositoryScoped(tx Queryable) *ShopItemRepository {
	return &ShopItemRepository{q: tx}
}

// Create inserts a catalog entry. Names are unique regardless of case.
func (r *ShopItemRepository) Create(ctx context.Context, item *entities.ShopItem) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO shop_items (name, price, consumable, entitlement_role_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, item.Name, item.Price, item.Consumable, item.EntitlementID).Scan(&item.ID, &item.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %q", entities.ErrItemExists, item.Name)
	}
	if err != nil {
		return fmt.Errorf("failed to create shop item %q: %w", item.Name, err)
	}
	return nil
}

// GetByName finds an item case-insensitively, returning nil if there is none
func (r *ShopItemRepository) GetByName(ctx context.Context, name string) (*entities.ShopItem, error) {
	var item entities.ShopItem
	err := r.q.QueryRow(ctx, `
		SELECT id, name, price, consumable, entitlement_role_id, created_at
		FROM shop_items
		WHERE LOWER(name) = LOWER($1)
	`, name).Scan(&item.ID, &item.Name, &item.Price, &item.Consumable, &item.EntitlementID, &item.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shop item %q: %w", name, err)
	}
	return &item, nil
}

// List returns the catalog ordered by price, then name
func (r *ShopItemRepository) List(ctx context.Context) ([]*entities.ShopItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, name, price, consumable, entitlement_role_id, created_at
		FROM shop_items
		ORDER BY price, LOWER(name)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list shop items: %w", err)
	}
	defer rows.Close()

	var items []*entities.ShopItem
	for rows.Next() {
		var item entities.ShopItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Price, &item.Consumable, &item.EntitlementID, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan shop item: %w", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shop items: %w", err)
	}
	return items, nil
}

// Delete removes a catalog entry
func (r *ShopItemRepository) Delete(ctx context.Context, itemID int64) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM shop_items WHERE id = $1`, itemID)
	if err != nil {
		return false, fmt.Errorf("failed to delete shop item %d: %w", itemID, err)
	}
	return tag.RowsAffected() == 1, nil
}
