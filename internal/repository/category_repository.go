package repository

import (
	"context"
	"fmt"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// categoryRepository implements the CategoryRepository interface using PostgreSQL.
type categoryRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCategoryRepository creates a new PostgreSQL-backed category repository.
func NewCategoryRepository(pool *pgxpool.Pool, logger zerolog.Logger) CategoryRepository {
	return &categoryRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "category").Logger(),
	}
}

const categoryColumns = `
	c.id, c.title, c.slug, c.description, c.color, c.img, c.created_at,
	(SELECT COUNT(*) FROM products p WHERE p.cat_slug = c.slug)`

func scanCategory(row pgx.Row) (*model.Category, error) {
	var c model.Category
	err := row.Scan(&c.ID, &c.Title, &c.Slug, &c.Desc, &c.Color, &c.Img, &c.CreatedAt, &c.ProductCount)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns a page of categories matching q, newest first.
func (r *categoryRepository) List(ctx context.Context, q string, limit, offset int) ([]model.Category, int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM categories WHERE title ILIKE $1`, likePattern(q),
	).Scan(&total)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to count categories")
		return nil, 0, fmt.Errorf("failed to count categories: %w", err)
	}

	query := `SELECT` + categoryColumns + `
		FROM categories c
		WHERE c.title ILIKE $1
		ORDER BY c.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, likePattern(q), limit, offset)
	if err != nil {
		r.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to query categories")
		return nil, 0, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := []model.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan category row")
			return nil, 0, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, *c)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating category rows")
		return nil, 0, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, total, nil
}

// GetByID retrieves a single category by its ID.
func (r *categoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	query := `SELECT` + categoryColumns + ` FROM categories c WHERE c.id = $1`

	c, err := scanCategory(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("category_id", id.String()).Msg("category not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("category_id", id.String()).Msg("failed to query category")
		return nil, fmt.Errorf("failed to query category: %w", err)
	}

	return c, nil
}

// Create inserts a new category.
func (r *categoryRepository) Create(ctx context.Context, c *model.Category) error {
	query := `
		INSERT INTO categories (id, title, slug, description, color, img, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query, c.ID, c.Title, c.Slug, c.Desc, c.Color, c.Img, c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrSlugTaken
		}
		r.logger.Error().Err(err).Str("slug", c.Slug).Msg("failed to create category")
		return fmt.Errorf("failed to create category: %w", err)
	}

	r.logger.Debug().Str("category_id", c.ID.String()).Msg("category created successfully")
	return nil
}

// Update replaces a category and moves its products to the new slug.
func (r *categoryRepository) Update(ctx context.Context, c *model.Category) (err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var oldSlug string
	err = tx.QueryRow(ctx, `SELECT slug FROM categories WHERE id = $1 FOR UPDATE`, c.ID).Scan(&oldSlug)
	if err != nil {
		if err == pgx.ErrNoRows {
			return model.ErrCategoryNotFound
		}
		return fmt.Errorf("failed to query category: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE categories
		SET title = $2, slug = $3, description = $4, color = $5, img = $6
		WHERE id = $1
	`, c.ID, c.Title, c.Slug, c.Desc, c.Color, c.Img)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrSlugTaken
		}
		r.logger.Error().Err(err).Str("category_id", c.ID.String()).Msg("failed to update category")
		return fmt.Errorf("failed to update category: %w", err)
	}

	if oldSlug != c.Slug {
		_, err = tx.Exec(ctx, `UPDATE products SET cat_slug = $2 WHERE cat_slug = $1`, oldSlug, c.Slug)
		if err != nil {
			return fmt.Errorf("failed to move products to new slug: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Delete removes a category that no product references.
func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		WITH target AS (
			SELECT id, slug FROM categories WHERE id = $1
		), deleted AS (
			DELETE FROM categories c
			USING target t
			WHERE c.id = t.id
			  AND NOT EXISTS (SELECT 1 FROM products p WHERE p.cat_slug = t.slug)
			RETURNING c.id
		)
		SELECT (SELECT COUNT(*) FROM target), (SELECT COUNT(*) FROM deleted)
	`

	var found, deleted int
	if err := r.pool.QueryRow(ctx, query, id).Scan(&found, &deleted); err != nil {
		r.logger.Error().Err(err).Str("category_id", id.String()).Msg("failed to delete category")
		return fmt.Errorf("failed to delete category: %w", err)
	}

	switch {
	case found == 0:
		return model.ErrCategoryNotFound
	case deleted == 0:
		r.logger.Warn().Str("category_id", id.String()).Msg("category still referenced by products")
		return model.ErrCategoryInUse
	}
	return nil
}
