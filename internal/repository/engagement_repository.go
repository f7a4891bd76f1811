package repository

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// engagementRepository implements the EngagementRepository interface using PostgreSQL.
type engagementRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewEngagementRepository creates a new PostgreSQL-backed engagement repository.
func NewEngagementRepository(pool *pgxpool.Pool, logger zerolog.Logger) EngagementRepository {
	return &engagementRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "engagement").Logger(),
	}
}

// ToggleLike removes the user's like when present and adds it otherwise.
func (r *engagementRepository) ToggleLike(ctx context.Context, productID, userID uuid.UUID) (liked bool, err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	tag, err := tx.Exec(ctx, `DELETE FROM product_likes WHERE product_id = $1 AND user_id = $2`, productID, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", productID.String()).Msg("failed to remove like")
		return false, fmt.Errorf("failed to remove like: %w", err)
	}

	if tag.RowsAffected() == 0 {
		_, err = tx.Exec(ctx, `
			INSERT INTO product_likes (id, product_id, user_id, created_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (product_id, user_id) DO NOTHING
		`, uuid.New(), productID, userID, time.Now().UTC())
		if err != nil {
			if isForeignKeyViolation(err) {
				return false, model.ErrProductNotFound
			}
			r.logger.Error().Err(err).Str("product_id", productID.String()).Msg("failed to add like")
			return false, fmt.Errorf("failed to add like: %w", err)
		}
		liked = true
	}

	if err = tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return liked, nil
}

// CountLikes returns the number of likes of a product.
func (r *engagementRepository) CountLikes(ctx context.Context, productID uuid.UUID) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM product_likes WHERE product_id = $1`, productID).Scan(&n); err != nil {
		r.logger.Error().Err(err).Str("product_id", productID.String()).Msg("failed to count likes")
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}
	return n, nil
}

// HasLiked reports whether the user likes the product.
func (r *engagementRepository) HasLiked(ctx context.Context, productID, userID uuid.UUID) (bool, error) {
	var liked bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM product_likes WHERE product_id = $1 AND user_id = $2)`,
		productID, userID,
	).Scan(&liked)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", productID.String()).Msg("failed to check like")
		return false, fmt.Errorf("failed to check like: %w", err)
	}
	return liked, nil
}

// AddView records a view and returns the product's view count.
func (r *engagementRepository) AddView(ctx context.Context, productID uuid.UUID) (int, error) {
	query := `
		WITH inserted AS (
			INSERT INTO product_views (id, product_id, created_at)
			VALUES ($1, $2, $3)
			RETURNING product_id
		)
		SELECT COUNT(*) + 1 FROM product_views WHERE product_id = $2
	`

	var views int
	if err := r.pool.QueryRow(ctx, query, uuid.New(), productID, time.Now().UTC()).Scan(&views); err != nil {
		if isForeignKeyViolation(err) {
			return 0, model.ErrProductNotFound
		}
		r.logger.Error().Err(err).Str("product_id", productID.String()).Msg("failed to record view")
		return 0, fmt.Errorf("failed to record view: %w", err)
	}
	return views, nil
}

// ListComments returns a product's comments newest first with their authors.
func (r *engagementRepository) ListComments(ctx context.Context, productID uuid.UUID) ([]model.Comment, error) {
	query := `
		SELECT c.id, c.product_id, c.user_id, c.content, c.created_at, u.name, u.image
		FROM product_comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.product_id = $1
		ORDER BY c.created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", productID.String()).Msg("failed to query comments")
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.ProductID, &c.UserID, &c.Content, &c.CreatedAt, &c.User.Name, &c.User.Image); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan comment row")
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating comment rows")
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}
	return comments, nil
}

// AddComment stores a new comment.
func (r *engagementRepository) AddComment(ctx context.Context, c *model.Comment) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO product_comments (id, product_id, user_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, c.ID, c.ProductID, c.UserID, c.Content, c.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return model.ErrProductNotFound
		}
		r.logger.Error().Err(err).Str("product_id", c.ProductID.String()).Msg("failed to add comment")
		return fmt.Errorf("failed to add comment: %w", err)
	}
	return nil
}
