package repository

import (
	"context"
	"testing"
	"time"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCategory(title, slug string, createdAt time.Time) *model.Category {
	return &model.Category{
		ID:        uuid.New(),
		Title:     title,
		Slug:      slug,
		Color:     "#ffffff",
		CreatedAt: createdAt,
	}
}

func TestCategoryRepository_CreateAndList(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewCategoryRepository(pool, zerolog.Nop())
	products := NewProductRepository(pool, zerolog.Nop())
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, repo.Create(ctx, newTestCategory("Pizzas", "pizzas", now.Add(-2*time.Hour))))
	require.NoError(t, repo.Create(ctx, newTestCategory("Pastas", "pastas", now.Add(-time.Hour))))
	require.NoError(t, repo.Create(ctx, newTestCategory("Drinks", "drinks", now)))
	seedProducts(t, products, newTestProduct("Margherita", "pizzas", "9", true))

	t.Run("Duplicate slug", func(t *testing.T) {
		err := repo.Create(ctx, newTestCategory("Other", "pizzas", now))
		assert.ErrorIs(t, err, model.ErrSlugTaken)
	})

	t.Run("Newest first", func(t *testing.T) {
		categories, total, err := repo.List(ctx, "", 15, 0)

		require.NoError(t, err)
		assert.Equal(t, 3, total)
		require.Len(t, categories, 3)
		assert.Equal(t, "drinks", categories[0].Slug)
		assert.Equal(t, "pizzas", categories[2].Slug)
		assert.Equal(t, 1, categories[2].ProductCount)
	})

	t.Run("Title search", func(t *testing.T) {
		categories, total, err := repo.List(ctx, "pa", 15, 0)

		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Equal(t, "Pastas", categories[0].Title)
	})
}

func TestCategoryRepository_UpdateMovesProducts(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewCategoryRepository(pool, zerolog.Nop())
	products := NewProductRepository(pool, zerolog.Nop())
	ctx := context.Background()

	c := newTestCategory("Pizzas", "pizzas", time.Now().UTC())
	require.NoError(t, repo.Create(ctx, c))
	p := newTestProduct("Margherita", "pizzas", "9", true)
	seedProducts(t, products, p)

	c.Slug = "pizza"
	require.NoError(t, repo.Update(ctx, c))

	got, err := products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "pizza", got.CatSlug)

	missing := newTestCategory("Ghost", "ghost", time.Now())
	assert.ErrorIs(t, repo.Update(ctx, missing), model.ErrCategoryNotFound)
}

func TestCategoryRepository_Delete(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewCategoryRepository(pool, zerolog.Nop())
	products := NewProductRepository(pool, zerolog.Nop())
	ctx := context.Background()

	used := newTestCategory("Pizzas", "pizzas", time.Now().UTC())
	unused := newTestCategory("Soups", "soups", time.Now().UTC())
	require.NoError(t, repo.Create(ctx, used))
	require.NoError(t, repo.Create(ctx, unused))
	seedProducts(t, products, newTestProduct("Margherita", "pizzas", "9", true))

	tests := []struct {
		name    string
		id      uuid.UUID
		wantErr error
	}{
		{"Referenced category is kept", used.ID, model.ErrCategoryInUse},
		{"Unreferenced category is removed", unused.ID, nil},
		{"Missing category", uuid.New(), model.ErrCategoryNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Delete(ctx, tt.id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}

	got, err := repo.GetByID(ctx, used.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)
}
