//go:build ignore

// Command seed_catalog fills an empty database with a small demo catalogue.
// Set SEED_ADMIN_EMAIL to also create an admin account for that address.
//
//	go run scripts/seed_catalog.go
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type seedProduct struct {
	title    string
	price    int64
	featured bool
	options  []model.Option
}

var catalogue = []struct {
	category model.Category
	products []seedProduct
}{
	{
		category: model.Category{Title: "Shirts", Slug: "shirts", Color: "blue", Desc: "Cotton shirts for every day"},
		products: []seedProduct{
			{"Oxford Shirt", 35, true, sizes(10)},
			{"Linen Shirt", 42, false, sizes(6)},
		},
	},
	{
		category: model.Category{Title: "Shoes", Slug: "shoes", Color: "brown", Desc: "Leather and canvas shoes"},
		products: []seedProduct{
			{"Canvas Sneaker", 55, true, []model.Option{
				{Title: "41", Quantity: 4},
				{Title: "42", Quantity: 4},
				{Title: "43", Quantity: 2},
			}},
		},
	},
	{
		category: model.Category{Title: "Accessories", Slug: "accessories", Color: "black"},
		products: []seedProduct{
			{"Leather Belt", 20, false, []model.Option{{Title: "One size", Quantity: 15}}},
		},
	},
}

func sizes(qty int) []model.Option {
	return []model.Option{
		{Title: "S", Quantity: qty},
		{Title: "M", Quantity: qty},
		{Title: "L", AdditionalPrice: decimal.NewFromInt(2), Quantity: qty},
	}
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := config.NewLogger(cfg.Logger)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		return err
	}

	categories := repository.NewCategoryRepository(pool, logger)
	products := repository.NewProductRepository(pool, logger)

	now := time.Now().UTC()
	for _, entry := range catalogue {
		category := entry.category
		category.ID = uuid.New()
		category.CreatedAt = now
		if err := categories.Create(ctx, &category); err != nil {
			return fmt.Errorf("failed to seed category %s: %w", category.Slug, err)
		}

		for _, p := range entry.products {
			product := &model.Product{
				ID:         uuid.New(),
				Title:      p.title,
				Price:      decimal.NewFromInt(p.price),
				CatSlug:    category.Slug,
				Options:    p.options,
				IsFeatured: p.featured,
				CreatedAt:  now,
			}
			if err := products.Create(ctx, product); err != nil {
				return fmt.Errorf("failed to seed product %s: %w", p.title, err)
			}
		}
		fmt.Printf("Seeded %s with %d products\n", category.Slug, len(entry.products))
	}

	if email := os.Getenv("SEED_ADMIN_EMAIL"); email != "" {
		users := repository.NewUserRepository(pool, logger)
		user, err := users.UpsertByEmail(ctx, &model.User{ID: uuid.New(), Name: "Admin", Email: email})
		if err != nil {
			return fmt.Errorf("failed to seed admin: %w", err)
		}
		isAdmin := true
		if _, err := users.Update(ctx, user.ID, model.UserUpdateRequest{IsAdmin: &isAdmin}); err != nil {
			return fmt.Errorf("failed to promote admin: %w", err)
		}
		fmt.Printf("Admin account ready for %s\n", email)
	}

	return nil
}
