package repository

import (
	"context"
	"testing"
	"time"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(email, status string, createdAt time.Time, items ...model.LineItem) *model.Order {
	return &model.Order{
		ID:        uuid.New(),
		UserEmail: email,
		Products:  items,
		Price:     model.LineItemsTotal(items),
		Status:    status,
		CreatedAt: createdAt,
	}
}

func shirtItem(qty int) model.LineItem {
	return model.LineItem{
		ID:       uuid.New(),
		Title:    "Shirt",
		Price:    decimal.RequireFromString("20.00"),
		Quantity: qty,
		Options:  []model.LineItemOption{{Title: "M", Quantity: qty}},
	}
}

// insertOrder writes an order and its items the way the service does.
func insertOrder(t *testing.T, repo OrderRepository, order *model.Order) {
	t.Helper()
	ctx := context.Background()

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.CreateOrder(ctx, tx, order))
	require.NoError(t, repo.CreateOrderItems(ctx, tx, order.ID, order.Products))
	require.NoError(t, tx.Commit(ctx))
}

func setupOrderRepo(t *testing.T) (*pgxpool.Pool, OrderRepository, func()) {
	pool, cleanup := setupTestDB(t)
	return pool, NewOrderRepository(pool, zerolog.Nop()), cleanup
}

func TestOrderRepository_BeginTx(t *testing.T) {
	_, repo, cleanup := setupOrderRepo(t)
	defer cleanup()

	ctx := context.Background()

	tx, err := repo.BeginTx(ctx)

	require.NoError(t, err)
	require.NotNil(t, tx)
	assert.NoError(t, tx.Rollback(ctx))
}

func TestOrderRepository_CreateAndGet(t *testing.T) {
	_, repo, cleanup := setupOrderRepo(t)
	defer cleanup()

	ctx := context.Background()
	mug := model.LineItem{
		ID:       uuid.New(),
		Title:    "Mug",
		Price:    decimal.RequireFromString("4.50"),
		Quantity: 1,
		Options:  []model.LineItemOption{},
	}
	order := newTestOrder("ada@example.com", model.StatusNotPaid, time.Now().UTC(), shirtItem(2), mug)
	insertOrder(t, repo, order)

	t.Run("Items keep their order", func(t *testing.T) {
		got, err := repo.GetByID(ctx, order.ID)

		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "ada@example.com", got.UserEmail)
		assert.Equal(t, model.StatusNotPaid, got.Status)
		assert.True(t, decimal.RequireFromString("44.50").Equal(got.Price))
		require.Len(t, got.Products, 2)
		assert.Equal(t, "Shirt", got.Products[0].Title)
		assert.Equal(t, []model.LineItemOption{{Title: "M", Quantity: 2}}, got.Products[0].Options)
		assert.Equal(t, "Mug", got.Products[1].Title)
		assert.Empty(t, got.Products[1].Options)
		assert.Nil(t, got.Address)
		assert.Nil(t, got.IntentID)
	})

	t.Run("Missing order", func(t *testing.T) {
		got, err := repo.GetByID(ctx, uuid.New())

		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("Failed item insert rolls back", func(t *testing.T) {
		tx, err := repo.BeginTx(ctx)
		require.NoError(t, err)
		defer tx.Rollback(ctx)

		bad := newTestOrder("ada@example.com", model.StatusNotPaid, time.Now().UTC(), shirtItem(0))
		require.NoError(t, repo.CreateOrder(ctx, tx, bad))

		err = repo.CreateOrderItems(ctx, tx, bad.ID, bad.Products)
		assert.Error(t, err)
	})
}

func TestOrderRepository_List(t *testing.T) {
	_, repo, cleanup := setupOrderRepo(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now().UTC()

	older := newTestOrder("ada@example.com", model.StatusNotPaid, now.Add(-time.Hour), shirtItem(1))
	newer := newTestOrder("ada@example.com", model.StatusPaid, now, shirtItem(2))
	other := newTestOrder("bob@example.com", model.StatusNotPaid, now, shirtItem(3))
	for _, o := range []*model.Order{older, newer, other} {
		insertOrder(t, repo, o)
	}

	tests := []struct {
		name    string
		email   string
		wantIDs []uuid.UUID
	}{
		{"Own orders newest first", "ada@example.com", []uuid.UUID{newer.ID, older.ID}},
		{"Email case is ignored", "Ada@Example.COM", []uuid.UUID{newer.ID, older.ID}},
		{"Unknown user", "eve@example.com", []uuid.UUID{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders, err := repo.List(ctx, tt.email)

			require.NoError(t, err)
			ids := []uuid.UUID{}
			for _, o := range orders {
				ids = append(ids, o.ID)
				assert.NotEmpty(t, o.Products)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestOrderRepository_Mutations(t *testing.T) {
	_, repo, cleanup := setupOrderRepo(t)
	defer cleanup()

	ctx := context.Background()
	order := newTestOrder("ada@example.com", model.StatusNotPaid, time.Now().UTC(), shirtItem(1))
	insertOrder(t, repo, order)

	updated, err := repo.UpdateStatus(ctx, order.ID, model.StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDelivered, updated.Status)
	assert.Len(t, updated.Products, 1)

	addr := model.Address{Name: "Ada", Line1: "1 Main St", City: "London", Country: "UK", PostalCode: "N1"}
	withAddr, err := repo.SetAddress(ctx, order.ID, addr)
	require.NoError(t, err)
	require.NotNil(t, withAddr.Address)
	assert.Equal(t, addr, *withAddr.Address)

	require.NoError(t, repo.SetIntentID(ctx, order.ID, "pi_123"))
	got, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, got.IntentID)
	assert.Equal(t, "pi_123", *got.IntentID)

	_, err = repo.UpdateStatus(ctx, uuid.New(), "x")
	assert.ErrorIs(t, err, model.ErrOrderNotFound)
	assert.ErrorIs(t, repo.SetIntentID(ctx, uuid.New(), "pi_x"), model.ErrOrderNotFound)

	require.NoError(t, repo.Delete(ctx, order.ID))
	assert.ErrorIs(t, repo.Delete(ctx, order.ID), model.ErrOrderNotFound)
}

func TestOrderRepository_UpdateStatusByIntent(t *testing.T) {
	_, repo, cleanup := setupOrderRepo(t)
	defer cleanup()

	ctx := context.Background()
	order := newTestOrder("ada@example.com", model.StatusNotPaid, time.Now().UTC(), shirtItem(2))
	insertOrder(t, repo, order)
	require.NoError(t, repo.SetIntentID(ctx, order.ID, "pi_abc"))

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)

	got, err := repo.UpdateStatusByIntent(ctx, tx, "pi_abc", model.StatusBeingPrepared)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, model.StatusBeingPrepared, got.Status)
	require.Len(t, got.Products, 1)

	missing, err := repo.UpdateStatusByIntent(ctx, tx, "pi_unknown", model.StatusBeingPrepared)
	assert.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, tx.Commit(ctx))
}

func TestOrderRepository_UpdateUnpaidStatusByIntent(t *testing.T) {
	_, repo, cleanup := setupOrderRepo(t)
	defer cleanup()

	ctx := context.Background()
	order := newTestOrder("ada@example.com", model.StatusNotPaid, time.Now().UTC(), shirtItem(2))
	insertOrder(t, repo, order)
	require.NoError(t, repo.SetIntentID(ctx, order.ID, "pi_abc"))

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	got, err := repo.UpdateUnpaidStatusByIntent(ctx, tx, "pi_abc", model.StatusBeingPrepared)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, model.StatusBeingPrepared, got.Status)

	again, err := repo.UpdateUnpaidStatusByIntent(ctx, tx, "pi_abc", model.StatusBeingPrepared)
	assert.NoError(t, err)
	assert.Nil(t, again)

	require.NoError(t, tx.Commit(ctx))
}

func TestOrderRepository_ListPaidBetween(t *testing.T) {
	_, repo, cleanup := setupOrderRepo(t)
	defer cleanup()

	ctx := context.Background()
	start := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 7)

	insertOrder(t, repo, newTestOrder("a@example.com", model.StatusPaid, start.Add(time.Hour), shirtItem(1)))
	insertOrder(t, repo, newTestOrder("a@example.com", model.StatusPaid, end.Add(-time.Second), shirtItem(2)))
	insertOrder(t, repo, newTestOrder("a@example.com", model.StatusPaid, end, shirtItem(3)))
	insertOrder(t, repo, newTestOrder("a@example.com", model.StatusBeingPrepared, start.Add(time.Hour), shirtItem(4)))
	insertOrder(t, repo, newTestOrder("a@example.com", "Paid", start.Add(time.Hour), shirtItem(5)))

	orders, err := repo.ListPaidBetween(ctx, start, end)

	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.True(t, decimal.RequireFromString("20").Equal(orders[0].Price))
	assert.True(t, decimal.RequireFromString("40").Equal(orders[1].Price))
}
