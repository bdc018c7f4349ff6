package testutil

import (
	"context"
	"testing"
	"time"

	"clover/database"
	"clover/domain/entities"

	"github.com/stretchr/testify/require"
)

// CreateTestAccount inserts an account holding cash and returns it
func CreateTestAccount(t *testing.T, db *database.DB, accountID int64, cash int64) *entities.Account {
	t.Helper()
	ctx := context.Background()

	_, err := db.Exec(ctx, `INSERT INTO accounts (id, cash) VALUES ($1, $2)`, accountID, cash)
	require.NoError(t, err)

	return &entities.Account{ID: accountID, Cash: cash}
}

// CreateTestShopItem inserts a catalog entry and returns it with its id set
func CreateTestShopItem(t *testing.T, db *database.DB, name string, price int64, consumable bool) *entities.ShopItem {
	t.Helper()
	ctx := context.Background()

	item := &entities.ShopItem{Name: name, Price: price, Consumable: consumable}
	err := db.QueryRow(ctx, `
		INSERT INTO shop_items (name, price, consumable)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, name, price, consumable).Scan(&item.ID, &item.CreatedAt)
	require.NoError(t, err)

	return item
}

// CreateTestBalanceHistory builds an unsaved history entry for accountID
func CreateTestBalanceHistory(accountID int64, transactionType entities.TransactionType) *entities.BalanceHistory {
	return &entities.BalanceHistory{
		AccountID:       accountID,
		BalanceBefore:   1000,
		BalanceAfter:    900,
		ChangeAmount:    -100,
		TransactionType: transactionType,
		TransactionMetadata: map[string]any{
			"test": true,
		},
	}
}

// SetActivity overwrites an account's activity counters and timestamps
func SetActivity(t *testing.T, db *database.DB, accountID int64, messages int64, voiceMinutes float64, lastActive *time.Time) {
	t.Helper()
	_, err := db.Exec(context.Background(), `
		UPDATE accounts
		SET messages_sent = $2, minutes_in_voice = $3,
		    last_message_time = $4, last_voice_time = $4
		WHERE id = $1
	`, accountID, messages, voiceMinutes, lastActive)
	require.NoError(t, err)
}
