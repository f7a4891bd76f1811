package repository

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

const productColumns = `p.id, p.title, p.description, p.price, p.cat_slug, p.img, p.options, p.is_featured, p.created_at`

func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.Title, &p.Desc, &p.Price, &p.CatSlug, &p.Img, &p.Options, &p.IsFeatured, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	if p.Options == nil {
		p.Options = []model.Option{}
	}
	return &p, nil
}

// productWhere renders the filter as a WHERE clause and its arguments.
func productWhere(f model.ProductFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	switch {
	case f.CatSlug != "":
		add("p.cat_slug = $%d", f.CatSlug)
	case !f.All:
		conds = append(conds, "p.is_featured")
	}
	if f.Query != "" {
		add("p.title ILIKE $%d", likePattern(f.Query))
	}
	if f.MinPrice != nil {
		add("p.price >= $%d", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		add("p.price <= $%d", *f.MaxPrice)
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// List returns a page of products matching the filter, ordered by title.
func (r *productRepository) List(ctx context.Context, f model.ProductFilter) ([]model.Product, int, error) {
	where, args := productWhere(f)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products p`+where, args...).Scan(&total); err != nil {
		r.logger.Error().Err(err).Msg("failed to count products")
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM products p%s ORDER BY p.title LIMIT $%d OFFSET $%d`,
		productColumns, where, len(args)+1, len(args)+2)

	rows, err := r.pool.Query(ctx, query, append(args, f.Limit, f.Offset)...)
	if err != nil {
		r.logger.Error().Err(err).
			Int("limit", f.Limit).
			Int("offset", f.Offset).
			Msg("failed to query products")
		return nil, 0, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, 0, fmt.Errorf("error iterating products: %w", err)
	}

	return products, total, nil
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return r.get(ctx, r.pool, `SELECT `+productColumns+` FROM products p WHERE p.id = $1`, id)
}

// GetForUpdate loads a product and locks its row for the rest of tx.
func (r *productRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Product, error) {
	return r.get(ctx, tx, `SELECT `+productColumns+` FROM products p WHERE p.id = $1 FOR UPDATE`, id)
}

func (r *productRepository) get(ctx context.Context, q querier, query string, id uuid.UUID) (*model.Product, error) {
	p, err := scanProduct(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("product_id", id.String()).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}
	return p, nil
}

// Create inserts a new product.
func (r *productRepository) Create(ctx context.Context, p *model.Product) error {
	query := `
		INSERT INTO products (id, title, description, price, cat_slug, img, options, is_featured, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		p.ID, p.Title, p.Desc, p.Price, p.CatSlug, p.Img, p.Options, p.IsFeatured, p.CreatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", p.ID.String()).Msg("failed to create product")
		return fmt.Errorf("failed to create product: %w", err)
	}

	r.logger.Debug().Str("product_id", p.ID.String()).Msg("product created successfully")
	return nil
}

// Update replaces every editable field of a product, options included.
func (r *productRepository) Update(ctx context.Context, p *model.Product) error {
	query := `
		UPDATE products
		SET title = $2, description = $3, price = $4, cat_slug = $5, img = $6, options = $7, is_featured = $8
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		p.ID, p.Title, p.Desc, p.Price, p.CatSlug, p.Img, p.Options, p.IsFeatured)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", p.ID.String()).Msg("failed to update product")
		return fmt.Errorf("failed to update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrProductNotFound
	}
	return nil
}

// Delete removes a product.
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to delete product")
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrProductNotFound
	}
	return nil
}

// UpdateOptions persists a product's option list within tx.
func (r *productRepository) UpdateOptions(ctx context.Context, tx pgx.Tx, id uuid.UUID, options []model.Option) error {
	_, err := tx.Exec(ctx, `UPDATE products SET options = $2 WHERE id = $1`, id, options)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to update product options")
		return fmt.Errorf("failed to update product options: %w", err)
	}
	return nil
}

type productStat struct {
	name  string
	query string
	dest  **model.Product
}

// Stats returns highlighted products. Fields are nil when no product qualifies.
func (r *productRepository) Stats(ctx context.Context) (*model.ProductStats, error) {
	var stats model.ProductStats
	queries := []productStat{
		{"most_viewed", `
			SELECT ` + productColumns + ` FROM products p
			JOIN product_views v ON v.product_id = p.id
			GROUP BY p.id ORDER BY COUNT(v.id) DESC, p.title LIMIT 1`, &stats.MostViewedProduct},
		{"cheapest", `SELECT ` + productColumns + ` FROM products p ORDER BY p.price ASC, p.title LIMIT 1`, &stats.CheapestProduct},
		{"most_expensive", `SELECT ` + productColumns + ` FROM products p ORDER BY p.price DESC, p.title LIMIT 1`, &stats.MostExpensiveProduct},
		{"most_liked", `
			SELECT ` + productColumns + ` FROM products p
			JOIN product_likes l ON l.product_id = p.id
			GROUP BY p.id ORDER BY COUNT(l.id) DESC, p.title LIMIT 1`, &stats.MostLikedProduct},
	}

	for _, q := range queries {
		p, err := scanProduct(r.pool.QueryRow(ctx, q.query))
		if err != nil {
			if err == pgx.ErrNoRows {
				continue
			}
			r.logger.Error().Err(err).Str("stat", q.name).Msg("failed to query product stats")
			return nil, fmt.Errorf("failed to query %s product: %w", q.name, err)
		}
		*q.dest = p
	}

	return &stats, nil
}
