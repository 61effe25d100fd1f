package repository

import (
	"context"
	"errors"
	"fmt"

	"autoparts/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// uniqueViolation is the PostgreSQL error code for unique constraint breaches.
const uniqueViolation = "23505"

// cartRepository implements the CartRepository interface using PostgreSQL.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

// GetOrCreate returns the user's cart, creating an empty one if absent.
// The insert races on the carts.user_id unique constraint: the loser of a
// concurrent create falls through to selecting the winner's row, retrying
// once when the winner committed after this statement's snapshot.
func (r *cartRepository) GetOrCreate(ctx context.Context, userID string) (*model.Cart, error) {
	query := `
		WITH ins AS (
			INSERT INTO carts (id, user_id)
			VALUES ($1, $2)
			ON CONFLICT (user_id) DO NOTHING
			RETURNING id, user_id, created_at, updated_at
		)
		SELECT id, user_id, created_at, updated_at FROM ins
		UNION ALL
		SELECT id, user_id, created_at, updated_at FROM carts WHERE user_id = $2
		LIMIT 1
	`

	var cart model.Cart
	err := r.pool.QueryRow(ctx, query, uuid.New(), userID).Scan(
		&cart.ID,
		&cart.UserID,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		// A concurrent creator can commit after this statement took its
		// snapshot: the insert arm skips on conflict and the select arm cannot
		// see the winner's row yet, so the statement comes back empty. A fresh
		// select takes a new snapshot and finds the committed cart.
		err = r.pool.QueryRow(ctx,
			`SELECT id, user_id, created_at, updated_at FROM carts WHERE user_id = $1`, userID).Scan(
			&cart.ID,
			&cart.UserID,
			&cart.CreatedAt,
			&cart.UpdatedAt,
		)
	}
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to get or create cart")
		return nil, fmt.Errorf("failed to get or create cart: %w", err)
	}

	return &cart, nil
}

// GetWithItems returns the user's cart and its items, or nils when absent.
func (r *cartRepository) GetWithItems(ctx context.Context, userID string) (*model.Cart, []model.CartItem, error) {
	return r.getWithItems(ctx, r.pool, userID)
}

// GetWithItemsTx is GetWithItems inside the provided transaction.
func (r *cartRepository) GetWithItemsTx(ctx context.Context, tx pgx.Tx, userID string) (*model.Cart, []model.CartItem, error) {
	return r.getWithItems(ctx, tx, userID)
}

// querier is the subset of pgxpool.Pool and pgx.Tx the read paths need.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

func (r *cartRepository) getWithItems(ctx context.Context, q querier, userID string) (*model.Cart, []model.CartItem, error) {
	cartQuery := `
		SELECT id, user_id, created_at, updated_at
		FROM carts
		WHERE user_id = $1
	`

	var cart model.Cart
	err := q.QueryRow(ctx, cartQuery, userID).Scan(
		&cart.ID,
		&cart.UserID,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, nil
		}
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to query cart")
		return nil, nil, fmt.Errorf("failed to query cart: %w", err)
	}

	itemsQuery := `
		SELECT id, cart_id, product_id, quantity, price_at_add
		FROM cart_items
		WHERE cart_id = $1
		ORDER BY id
	`

	rows, err := q.Query(ctx, itemsQuery, cart.ID)
	if err != nil {
		r.logger.Error().Err(err).Str("cart_id", cart.ID.String()).Msg("failed to query cart items")
		return nil, nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	var items []model.CartItem
	for rows.Next() {
		var item model.CartItem
		if err := rows.Scan(&item.ID, &item.CartID, &item.ProductID, &item.Quantity, &item.PriceAtAdd); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan cart item row")
			return nil, nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating cart item rows")
		return nil, nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return &cart, items, nil
}

// InsertItem inserts a new cart item and bumps the cart's updated_at.
func (r *cartRepository) InsertItem(ctx context.Context, item *model.CartItem) error {
	query := `
		INSERT INTO cart_items (id, cart_id, product_id, quantity, price_at_add)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query, item.ID, item.CartID, item.ProductID, item.Quantity, item.PriceAtAdd)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return model.ErrProductInCart
		}
		r.logger.Error().
			Err(err).
			Str("cart_id", item.CartID.String()).
			Str("product_id", item.ProductID.String()).
			Msg("failed to insert cart item")
		return fmt.Errorf("failed to insert cart item: %w", err)
	}

	r.touch(ctx, item.CartID)

	return nil
}

// GetItem returns the item for the (cart, product) pair, or nil.
func (r *cartRepository) GetItem(ctx context.Context, cartID, productID uuid.UUID) (*model.CartItem, error) {
	query := `
		SELECT id, cart_id, product_id, quantity, price_at_add
		FROM cart_items
		WHERE cart_id = $1 AND product_id = $2
	`

	var item model.CartItem
	err := r.pool.QueryRow(ctx, query, cartID, productID).Scan(
		&item.ID,
		&item.CartID,
		&item.ProductID,
		&item.Quantity,
		&item.PriceAtAdd,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("cart_id", cartID.String()).Msg("failed to query cart item")
		return nil, fmt.Errorf("failed to query cart item: %w", err)
	}

	return &item, nil
}

// SetItemQuantity updates the quantity of an existing item.
func (r *cartRepository) SetItemQuantity(ctx context.Context, cartID, productID uuid.UUID, quantity int) (*model.CartItem, error) {
	query := `
		UPDATE cart_items
		SET quantity = $3
		WHERE cart_id = $1 AND product_id = $2
		RETURNING id, cart_id, product_id, quantity, price_at_add
	`

	var item model.CartItem
	err := r.pool.QueryRow(ctx, query, cartID, productID, quantity).Scan(
		&item.ID,
		&item.CartID,
		&item.ProductID,
		&item.Quantity,
		&item.PriceAtAdd,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().
			Err(err).
			Str("cart_id", cartID.String()).
			Str("product_id", productID.String()).
			Msg("failed to update cart item quantity")
		return nil, fmt.Errorf("failed to update cart item quantity: %w", err)
	}

	r.touch(ctx, cartID)

	return &item, nil
}

// DeleteItem removes a single item by id.
func (r *cartRepository) DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1 AND id = $2`, cartID, itemID)
	if err != nil {
		r.logger.Error().Err(err).Str("item_id", itemID.String()).Msg("failed to delete cart item")
		return false, fmt.Errorf("failed to delete cart item: %w", err)
	}

	if tag.RowsAffected() > 0 {
		r.touch(ctx, cartID)
	}

	return tag.RowsAffected() > 0, nil
}

// DeleteItemByProduct removes the item for the (cart, product) pair.
func (r *cartRepository) DeleteItemByProduct(ctx context.Context, cartID, productID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2`, cartID, productID)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", productID.String()).Msg("failed to delete cart item")
		return false, fmt.Errorf("failed to delete cart item: %w", err)
	}

	if tag.RowsAffected() > 0 {
		r.touch(ctx, cartID)
	}

	return tag.RowsAffected() > 0, nil
}

// Delete removes the user's cart; cart_items cascade with it.
func (r *cartRepository) Delete(ctx context.Context, userID string) (bool, error) {
	return r.delete(ctx, r.pool, userID)
}

// DeleteTx is Delete inside the provided transaction.
func (r *cartRepository) DeleteTx(ctx context.Context, tx pgx.Tx, userID string) (bool, error) {
	return r.delete(ctx, tx, userID)
}

func (r *cartRepository) delete(ctx context.Context, q querier, userID string) (bool, error) {
	tag, err := q.Exec(ctx, `DELETE FROM carts WHERE user_id = $1`, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to delete cart")
		return false, fmt.Errorf("failed to delete cart: %w", err)
	}

	r.logger.Debug().
		Str("user_id", userID).
		Int64("rows", tag.RowsAffected()).
		Msg("cart deleted")

	return tag.RowsAffected() > 0, nil
}

// Total sums price_at_add * quantity over the cart's items in SQL so the
// database's NUMERIC arithmetic does the rounding.
func (r *cartRepository) Total(ctx context.Context, cartID uuid.UUID) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(price_at_add * quantity), 0)
		FROM cart_items
		WHERE cart_id = $1
	`

	var total decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, cartID).Scan(&total); err != nil {
		r.logger.Error().Err(err).Str("cart_id", cartID.String()).Msg("failed to calculate cart total")
		return decimal.Zero, fmt.Errorf("failed to calculate cart total: %w", err)
	}

	return total, nil
}

// touch bumps the cart's updated_at. Failures are logged, not surfaced: the
// timestamp is advisory and must not fail the item operation that caused it.
func (r *cartRepository) touch(ctx context.Context, cartID uuid.UUID) {
	if _, err := r.pool.Exec(ctx, `UPDATE carts SET updated_at = NOW() WHERE id = $1`, cartID); err != nil {
		r.logger.Warn().Err(err).Str("cart_id", cartID.String()).Msg("failed to touch cart")
	}
}
