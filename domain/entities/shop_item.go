package entities

import (
	"strings"
	"time"
)

// ShopItem is a purchasable catalog entry
type ShopItem struct {
	ID            int64     `db:"id"`
	Name          string    `db:"name"`
	Price         int64     `db:"price"`
	Consumable    bool      `db:"consumable"`
	EntitlementID *int64    `db:"entitlement_role_id"` // platform role granted on use
	CreatedAt     time.Time `db:"created_at"`
}

// HasEntitlement reports whether using the item grants a role
func (i *ShopItem) HasEntitlement() bool {
	return i.EntitlementID != nil
}

// Validate checks the catalog invariants for a new item
func (i *ShopItem) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return ErrInvalidArgument
	}
	if i.Price < 0 {
		return ErrInvalidArgument
	}
	return nil
}

// InventoryItem is one inventory row joined with its catalog entry
type InventoryItem struct {
	AccountID     int64  `db:"account_id"`
	ItemID        int64  `db:"item_id"`
	Name          string `db:"name"`
	Quantity      int64  `db:"quantity"`
	Consumable    bool   `db:"consumable"`
	EntitlementID *int64 `db:"entitlement_role_id"`
}

// PurchaseResult is returned by a successful purchase
type PurchaseResult struct {
	Item     *ShopItem
	Quantity int64
	Balance  int64
}

// UseResult is returned by a successful item use. Entitlement is nil when
// the item grants nothing.
type UseResult struct {
	Item        *ShopItem
	Entitlement *int64
	Remaining   int64
	Consumed    bool
}
