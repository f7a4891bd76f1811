package repository

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

const orderColumns = `id, user_email, price, status, address, intent_id, created_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(&o.ID, &o.UserEmail, &o.Price, &o.Status, &o.Address, &o.IntentID, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	o.Products = []model.LineItem{}
	return &o, nil
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// CreateOrder inserts a new order within the provided transaction.
func (r *orderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (id, user_email, price, status, address, intent_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := tx.Exec(ctx, query,
		order.ID, order.UserEmail, order.Price, order.Status, order.Address, order.IntentID, order.CreatedAt)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Msg("order created successfully")

	return nil
}

// CreateOrderItems inserts the order's line items within the provided transaction.
func (r *orderRepository) CreateOrderItems(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, items []model.LineItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (id, order_id, position, product_id, title, img, price, quantity, options)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	batch := &pgx.Batch{}
	for i, item := range items {
		options := item.Options
		if options == nil {
			options = []model.LineItemOption{}
		}
		batch.Queue(query, uuid.New(), orderID, i, item.ID, item.Title, item.Img, item.Price, item.Quantity, options)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(items); i++ {
		_, err := results.Exec()
		if err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", orderID.String()).
				Str("product_id", items[i].ID.String()).
				Msg("failed to create order item")
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	r.logger.Debug().
		Int("count", len(items)).
		Msg("order items created successfully")

	return nil
}

// GetByID retrieves an order by its ID along with its items.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	if err := r.attachItems(ctx, r.pool, []*model.Order{order}); err != nil {
		return nil, err
	}
	return order, nil
}

// List returns orders newest first, restricted to email when it is set.
func (r *orderRepository) List(ctx context.Context, email string) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE ($1 = '' OR lower(user_email) = lower($1)) ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, email)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var refs []*model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		refs = append(refs, o)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}
	rows.Close()

	if err := r.attachItems(ctx, r.pool, refs); err != nil {
		return nil, err
	}

	orders := make([]model.Order, 0, len(refs))
	for _, o := range refs {
		orders = append(orders, *o)
	}
	return orders, nil
}

// attachItems loads the line items of orders in insertion order.
func (r *orderRepository) attachItems(ctx context.Context, q querier, orders []*model.Order) error {
	if len(orders) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*model.Order, len(orders))
	ids := make([]uuid.UUID, 0, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
		ids = append(ids, o.ID)
	}

	query := `
		SELECT order_id, product_id, title, img, price, quantity, options
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, position
	`

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("orders", len(ids)).Msg("failed to query order items")
		return fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID uuid.UUID
			item    model.LineItem
		)
		err := rows.Scan(&orderID, &item.ID, &item.Title, &item.Img, &item.Price, &item.Quantity, &item.Options)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order item row")
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		if item.Options == nil {
			item.Options = []model.LineItemOption{}
		}
		if o, ok := byID[orderID]; ok {
			o.Products = append(o.Products, item)
		}
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order item rows")
		return fmt.Errorf("error iterating order items: %w", err)
	}
	return nil
}

// UpdateStatus overwrites the status of an order.
func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*model.Order, error) {
	return r.updateReturning(ctx, `UPDATE orders SET status = $2 WHERE id = $1 RETURNING `+orderColumns, id, status)
}

// SetAddress attaches a delivery address to an order.
func (r *orderRepository) SetAddress(ctx context.Context, id uuid.UUID, address model.Address) (*model.Order, error) {
	return r.updateReturning(ctx, `UPDATE orders SET address = $2 WHERE id = $1 RETURNING `+orderColumns, id, address)
}

func (r *orderRepository) updateReturning(ctx context.Context, query string, id uuid.UUID, arg any) (*model.Order, error) {
	order, err := scanOrder(r.pool.QueryRow(ctx, query, id, arg))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, model.ErrOrderNotFound
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to update order")
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	if err := r.attachItems(ctx, r.pool, []*model.Order{order}); err != nil {
		return nil, err
	}
	return order, nil
}

// SetIntentID records the payment intent created for an order.
func (r *orderRepository) SetIntentID(ctx context.Context, id uuid.UUID, intentID string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE orders SET intent_id = $2 WHERE id = $1`, id, intentID)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to set payment intent")
		return fmt.Errorf("failed to set payment intent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrOrderNotFound
	}
	return nil
}

// Delete removes an order and its items.
func (r *orderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to delete order")
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrOrderNotFound
	}
	return nil
}

// UpdateStatusByIntent sets the status of the order paid through intentID within tx.
func (r *orderRepository) UpdateStatusByIntent(ctx context.Context, tx pgx.Tx, intentID, status string) (*model.Order, error) {
	query := `UPDATE orders SET status = $2 WHERE intent_id = $1 RETURNING ` + orderColumns
	return r.updateByIntent(ctx, tx, query, intentID, status)
}

// UpdateUnpaidStatusByIntent sets the status of the unpaid order attached to intentID.
func (r *orderRepository) UpdateUnpaidStatusByIntent(ctx context.Context, tx pgx.Tx, intentID, status string) (*model.Order, error) {
	query := `UPDATE orders SET status = $2 WHERE intent_id = $1 AND status = $3 RETURNING ` + orderColumns
	return r.updateByIntent(ctx, tx, query, intentID, status, model.StatusNotPaid)
}

func (r *orderRepository) updateByIntent(ctx context.Context, tx pgx.Tx, query, intentID string, args ...any) (*model.Order, error) {
	order, err := scanOrder(tx.QueryRow(ctx, query, append([]any{intentID}, args...)...))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("intent_id", intentID).Msg("no order for payment intent")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("intent_id", intentID).Msg("failed to update order by intent")
		return nil, fmt.Errorf("failed to update order by intent: %w", err)
	}

	if err := r.attachItems(ctx, tx, []*model.Order{order}); err != nil {
		return nil, err
	}
	return order, nil
}

// ListPaidBetween returns orders with status "paid" created in [start, end).
func (r *orderRepository) ListPaidBetween(ctx context.Context, start, end time.Time) ([]model.PaidOrder, error) {
	query := `
		SELECT price, created_at
		FROM orders
		WHERE status = $1 AND created_at >= $2 AND created_at < $3
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, model.StatusPaid, start, end)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query paid orders")
		return nil, fmt.Errorf("failed to query paid orders: %w", err)
	}
	defer rows.Close()

	var orders []model.PaidOrder
	for rows.Next() {
		var o model.PaidOrder
		if err := rows.Scan(&o.Price, &o.CreatedAt); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan paid order row")
			return nil, fmt.Errorf("failed to scan paid order: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating paid order rows")
		return nil, fmt.Errorf("error iterating paid orders: %w", err)
	}
	return orders, nil
}
