package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"autoparts/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const orderColumns = `id, user_id, tg_username, total_amount, status, payment_status,
	payment_method, delivery_method, phone_number, delivery_address, created_at, updated_at`

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

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// Create inserts a new order within the provided transaction.
func (r *orderRepository) Create(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (id, user_id, tg_username, total_amount, status, payment_status,
			payment_method, delivery_method, phone_number, delivery_address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := tx.Exec(ctx, query,
		order.ID,
		order.UserID,
		order.TgUsername,
		order.TotalAmount,
		order.Status,
		order.PaymentStatus,
		order.PaymentMethod,
		order.DeliveryMethod,
		order.PhoneNumber,
		order.DeliveryAddress,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Str("user_id", order.UserID).
		Msg("order created")

	return nil
}

// CreateItems inserts multiple order items within the provided transaction.
func (r *orderRepository) CreateItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (id, order_id, product_id, product_name, quantity, price)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query, item.ID, item.OrderID, item.ProductID, item.ProductName, item.Quantity, item.Price)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(items); i++ {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", items[i].OrderID.String()).
				Str("product_id", items[i].ProductID.String()).
				Msg("failed to create order item")
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	r.logger.Debug().
		Int("count", len(items)).
		Msg("order items created")

	return nil
}

// GetByID retrieves an order with its items, or nil if not found.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	orderQuery := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1`, orderColumns)

	var order model.Order
	err := r.pool.QueryRow(ctx, orderQuery, id).Scan(
		&order.ID,
		&order.UserID,
		&order.TgUsername,
		&order.TotalAmount,
		&order.Status,
		&order.PaymentStatus,
		&order.PaymentMethod,
		&order.DeliveryMethod,
		&order.PhoneNumber,
		&order.DeliveryAddress,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	items, err := r.loadItems(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return &order, nil
}

func (r *orderRepository) loadItems(ctx context.Context, orderID uuid.UUID) ([]model.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, product_name, quantity, price
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to query order items")
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		var item model.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName, &item.Quantity, &item.Price); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order item row")
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order item rows")
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return items, nil
}

// ListByUser returns the user's orders, newest first.
func (r *orderRepository) ListByUser(ctx context.Context, userID string, skip, limit int) ([]model.Order, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		OFFSET $2 LIMIT $3
	`, orderColumns)

	return r.list(ctx, query, userID, skip, limit)
}

// ListByStatus returns orders in the given status, newest first.
func (r *orderRepository) ListByStatus(ctx context.Context, status model.OrderStatus, skip, limit int) ([]model.Order, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM orders
		WHERE status = $1
		ORDER BY created_at DESC
		OFFSET $2 LIMIT $3
	`, orderColumns)

	return r.list(ctx, query, status, skip, limit)
}

// ListByDateRange returns orders created within [start, end), newest first.
func (r *orderRepository) ListByDateRange(ctx context.Context, start, end time.Time, skip, limit int) ([]model.Order, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM orders
		WHERE created_at >= $1 AND created_at < $2
		ORDER BY created_at DESC
		OFFSET $3 LIMIT $4
	`, orderColumns)

	return r.list(ctx, query, start, end, skip, limit)
}

// ListAll returns all orders, newest first.
func (r *orderRepository) ListAll(ctx context.Context, skip, limit int) ([]model.Order, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM orders
		ORDER BY created_at DESC
		OFFSET $1 LIMIT $2
	`, orderColumns)

	return r.list(ctx, query, skip, limit)
}

func (r *orderRepository) list(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		var order model.Order
		err := rows.Scan(
			&order.ID,
			&order.UserID,
			&order.TgUsername,
			&order.TotalAmount,
			&order.Status,
			&order.PaymentStatus,
			&order.PaymentMethod,
			&order.DeliveryMethod,
			&order.PhoneNumber,
			&order.DeliveryAddress,
			&order.CreatedAt,
			&order.UpdatedAt,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

// Update applies the non-nil patch fields and returns the updated order, or
// nil when the order does not exist.
func (r *orderRepository) Update(ctx context.Context, id uuid.UUID, patch *model.OrderPatch) (*model.Order, error) {
	if patch.Empty() {
		return r.GetByID(ctx, id)
	}

	set := make([]string, 0, 6)
	args := []any{id}

	appendField := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Status != nil {
		appendField("status", *patch.Status)
	}
	if patch.PaymentStatus != nil {
		appendField("payment_status", *patch.PaymentStatus)
	}
	if patch.PaymentMethod != nil {
		appendField("payment_method", *patch.PaymentMethod)
	}
	if patch.DeliveryMethod != nil {
		appendField("delivery_method", *patch.DeliveryMethod)
	}
	if patch.PhoneNumber != nil {
		appendField("phone_number", *patch.PhoneNumber)
	}
	if patch.DeliveryAddress != nil {
		appendField("delivery_address", *patch.DeliveryAddress)
	}

	query := fmt.Sprintf(
		`UPDATE orders SET %s, updated_at = NOW() WHERE id = $1 RETURNING %s`,
		strings.Join(set, ", "),
		orderColumns,
	)

	var order model.Order
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&order.ID,
		&order.UserID,
		&order.TgUsername,
		&order.TotalAmount,
		&order.Status,
		&order.PaymentStatus,
		&order.PaymentMethod,
		&order.DeliveryMethod,
		&order.PhoneNumber,
		&order.DeliveryAddress,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to update order")
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	items, err := r.loadItems(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return &order, nil
}

// Delete removes an order; order_items cascade with it.
func (r *orderRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to delete order")
		return false, fmt.Errorf("failed to delete order: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// DeleteCompleted bulk-deletes every completed order and returns the count.
func (r *orderRepository) DeleteCompleted(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE status = $1`, model.OrderStatusCompleted)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to delete completed orders")
		return 0, fmt.Errorf("failed to delete completed orders: %w", err)
	}

	r.logger.Info().
		Int64("count", tag.RowsAffected()).
		Msg("completed orders deleted")

	return tag.RowsAffected(), nil
}
