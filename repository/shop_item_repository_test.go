package repository

import (
	"context"
	"testing"

	"clover/domain/entities"
	"clover/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShopItemRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewShopItemRepository(testDB.DB)
	ctx := context.Background()
	role := int64(778899)

	item := &entities.ShopItem{Name: "Golden Clover", Price: 5000, Consumable: false, EntitlementID: &role}
	require.NoError(t, repo.Create(ctx, item))
	assert.NotZero(t, item.ID)

	t.Run("lookup ignores case", func(t *testing.T) {
		found, err := repo.GetByName(ctx, "golden CLOVER")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, item.ID, found.ID)
		require.NotNil(t, found.EntitlementID)
		assert.Equal(t, role, *found.EntitlementID)
	})

	t.Run("duplicate name in any case", func(t *testing.T) {
		err := repo.Create(ctx, &entities.ShopItem{Name: "GOLDEN clover", Price: 1})
		assert.ErrorIs(t, err, entities.ErrItemExists)
		assert.ErrorIs(t, err, entities.ErrInvalidArgument)
	})

	t.Run("missing item", func(t *testing.T) {
		found, err := repo.GetByName(ctx, "nothing")
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("list orders by price", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, &entities.ShopItem{Name: "Potion", Price: 50, Consumable: true}))

		items, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "Potion", items[0].Name)
		assert.Nil(t, items[0].EntitlementID)
		assert.Equal(t, "Golden Clover", items[1].Name)
	})

	t.Run("delete", func(t *testing.T) {
		deleted, err := repo.Delete(ctx, item.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		found, err := repo.GetByName(ctx, "Golden Clover")
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}
