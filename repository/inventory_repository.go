package repository

import (
	"context"
	"errors"
	"fmt"

	"clover/database"
	"clover/domain/entities"

	"github.com/jackc/pgx/v5"
)

// InventoryRepository implements the InventoryRepository interface
type InventoryRepository struct {
	q Queryable
}

// NewInventoryRepository creates a new inventory repository
func NewInventoryRepository(db *database.DB) *InventoryRepository {
	return &InventoryRepository{q: db.Pool}
}

// NewInventoryRepositoryScoped creates a new inventory repository bound to a transaction
func NewInventoryRepositoryScoped(tx Queryable) *InventoryRepository {
	return &InventoryRepository{q: tx}
}

// Increment adds quantity to an entry, creating it if needed
func (r *InventoryRepository) Increment(ctx context.Context, accountID, itemID int64, quantity int64) (int64, error) {
	var total int64
	err := r.q.QueryRow(ctx, `
		INSERT INTO inventory_entries (account_id, item_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (account_id, item_id) DO UPDATE
		SET quantity = inventory_entries.quantity + EXCLUDED.quantity,
		    updated_at = NOW()
		RETURNING quantity
	`, accountID, itemID, quantity).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to increment item %d for account %d: %w", itemID, accountID, err)
	}
	return total, nil
}

// GetQuantityForUpdate locks the entry and returns its quantity, 0 if absent
func (r *InventoryRepository) GetQuantityForUpdate(ctx context.Context, accountID, itemID int64) (int64, error) {
	var quantity int64
	err := r.q.QueryRow(ctx, `
		SELECT quantity FROM inventory_entries
		WHERE account_id = $1 AND item_id = $2
		FOR UPDATE
	`, accountID, itemID).Scan(&quantity)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get item %d for account %d: %w", itemID, accountID, err)
	}
	return quantity, nil
}

// SetQuantity overwrites the quantity of an existing entry
func (r *InventoryRepository) SetQuantity(ctx context.Context, accountID, itemID int64, quantity int64) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE inventory_entries SET quantity = $3, updated_at = NOW()
		WHERE account_id = $1 AND item_id = $2
	`, accountID, itemID, quantity)
	if err != nil {
		return fmt.Errorf("failed to set item %d quantity for account %d: %w", itemID, accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrItemNotOwned
	}
	return nil
}

// Delete removes one entry
func (r *InventoryRepository) Delete(ctx context.Context, accountID, itemID int64) error {
	_, err := r.q.Exec(ctx, `DELETE FROM inventory_entries WHERE account_id = $1 AND item_id = $2`, accountID, itemID)
	if err != nil {
		return fmt.Errorf("failed to delete item %d for account %d: %w", itemID, accountID, err)
	}
	return nil
}

// DeleteByItem removes every holding of an item
func (r *InventoryRepository) DeleteByItem(ctx context.Context, itemID int64) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM inventory_entries WHERE item_id = $1`, itemID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete inventory for item %d: %w", itemID, err)
	}
	return tag.RowsAffected(), nil
}

// DeleteByAccount removes every entry an account holds
func (r *InventoryRepository) DeleteByAccount(ctx context.Context, accountID int64) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM inventory_entries WHERE account_id = $1`, accountID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete inventory for account %d: %w", accountID, err)
	}
	return tag.RowsAffected(), nil
}

// ListByAccount returns the account's entries joined with the catalog
func (r *InventoryRepository) ListByAccount(ctx context.Context, accountID int64) ([]*entities.InventoryItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT ie.account_id, ie.item_id, si.name, ie.quantity, si.consumable, si.entitlement_role_id
		FROM inventory_entries ie
		JOIN shop_items si ON si.id = ie.item_id
		WHERE ie.account_id = $1
		ORDER BY LOWER(si.name)
	`, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory for account %d: %w", accountID, err)
	}
	defer rows.Close()

	var items []*entities.InventoryItem
	for rows.Next() {
		var item entities.InventoryItem
		err := rows.Scan(
			&item.AccountID,
			&item.ItemID,
			&item.Name,
			&item.Quantity,
			&item.Consumable,
			&item.EntitlementID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inventory entry: %w", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate inventory: %w", err)
	}
	return items, nil
}
