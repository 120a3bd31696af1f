package cart

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/junaidrashid-git/adega-api/apperrors"
	"github.com/junaidrashid-git/adega-api/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})
	return mr, client
}

func item(id, price string) models.Item {
	return models.Item{ID: id, Title: "Item " + id, Price: decimal.RequireFromString(price)}
}

func exerciseRepository(t *testing.T, repo Repository) {
	ctx := context.Background()

	c, err := repo.Load(ctx, "visitor-1")
	require.NoError(t, err)
	assert.Equal(t, "visitor-1", c.ID)
	assert.Empty(t, c.Items)

	require.NoError(t, Add(c, item("a", "10.00"), 2))
	c.OrderIDs = append(c.OrderIDs, "order-9")
	c.Checkout = &models.CheckoutState{Step: "delivery-info"}
	require.NoError(t, repo.Save(ctx, c))

	loaded, err := repo.Load(ctx, "visitor-1")
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, 2, loaded.Items[0].Quantity)
	assert.True(t, loaded.Items[0].Price.Equal(decimal.RequireFromString("10")))
	assert.Equal(t, []string{"order-9"}, loaded.OrderIDs)
	assert.Equal(t, "delivery-info", loaded.Checkout.Step)

	require.NoError(t, repo.Clear(ctx, "visitor-1"))
	cleared, err := repo.Load(ctx, "visitor-1")
	require.NoError(t, err)
	assert.Empty(t, cleared.Items)
}

func TestMemoryRepository(t *testing.T) {
	exerciseRepository(t, NewMemoryRepository())
}

func TestRedisRepository(t *testing.T) {
	_, client := setupTestRedis(t)
	exerciseRepository(t, NewRedisRepository(client, "test:cart", time.Hour))
}

func TestRedisRepositoryExpiresCarts(t *testing.T) {
	mr, client := setupTestRedis(t)
	repo := NewRedisRepository(client, "test:cart", time.Hour)
	ctx := context.Background()

	c, err := repo.Load(ctx, "v")
	require.NoError(t, err)
	require.NoError(t, Add(c, item("a", "5"), 1))
	require.NoError(t, repo.Save(ctx, c))
	assert.True(t, mr.Exists("test:cart:v"))

	mr.FastForward(2 * time.Hour)

	c, err = repo.Load(ctx, "v")
	require.NoError(t, err)
	assert.Empty(t, c.Items)
}

func TestRedisRepositoryDiscardsGarbage(t *testing.T) {
	mr, client := setupTestRedis(t)
	require.NoError(t, mr.Set("test:cart:v", "{not json"))

	c, err := NewRedisRepository(client, "test:cart", time.Hour).Load(context.Background(), "v")
	require.NoError(t, err)
	assert.Empty(t, c.Items)
}

func TestLineEdits(t *testing.T) {
	c := &models.Cart{ID: "x"}

	require.NoError(t, Add(c, item("a", "10.00"), 2))
	require.NoError(t, Add(c, item("a", "10.00"), 1))
	require.NoError(t, Add(c, item("b", "4.50"), 1))
	assert.Equal(t, 4, Count(c))
	assert.True(t, Subtotal(c).Equal(decimal.RequireFromString("34.50")))

	assert.ErrorIs(t, Add(c, item("c", "1"), 0), apperrors.ErrValidation)

	require.NoError(t, SetQuantity(c, "a", 5))
	assert.Equal(t, 5, c.Items[0].Quantity)

	require.NoError(t, SetQuantity(c, "a", 0))
	require.Len(t, c.Items, 1)
	assert.Equal(t, "b", c.Items[0].ID)

	require.NoError(t, SetQuantity(c, "b", -1))
	assert.Empty(t, c.Items)

	assert.ErrorIs(t, SetQuantity(c, "zzz", 3), apperrors.ErrNotFound)
	assert.ErrorIs(t, Remove(c, "zzz"), apperrors.ErrNotFound)
}

func TestAddCapsQuantity(t *testing.T) {
	c := &models.Cart{}
	require.NoError(t, Add(c, item("a", "1"), 150))
	assert.Equal(t, MaxQuantity, c.Items[0].Quantity)
}
