package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"autoparts/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const userColumns = `id, first_name, tg_username, role, phone, delivery_address, language_code, created_at, updated_at`

// userRepository implements the UserRepository interface using PostgreSQL.
type userRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(pool *pgxpool.Pool, logger zerolog.Logger) UserRepository {
	return &userRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "user").Logger(),
	}
}

// Upsert creates the user on first sight and refreshes Telegram profile
// fields on subsequent logins. Shipping profile fields (phone, delivery
// address) and role are never overwritten by a login.
func (r *userRepository) Upsert(ctx context.Context, user *model.User) (*model.User, error) {
	query := fmt.Sprintf(`
		INSERT INTO users (id, first_name, tg_username, role, language_code)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			tg_username = EXCLUDED.tg_username,
			language_code = EXCLUDED.language_code,
			updated_at = NOW()
		RETURNING %s
	`, userColumns)

	var stored model.User
	err := r.pool.QueryRow(ctx, query,
		user.ID,
		user.FirstName,
		user.TgUsername,
		user.Role,
		user.LanguageCode,
	).Scan(
		&stored.ID,
		&stored.FirstName,
		&stored.TgUsername,
		&stored.Role,
		&stored.Phone,
		&stored.DeliveryAddress,
		&stored.LanguageCode,
		&stored.CreatedAt,
		&stored.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", user.ID).Msg("failed to upsert user")
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	return &stored, nil
}

// GetByID retrieves a user, or nil if not found.
func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	return r.get(ctx, query, id)
}

// GetByUsername retrieves a user by Telegram username, or nil if not found.
func (r *userRepository) GetByUsername(ctx context.Context, tgUsername string) (*model.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE tg_username = $1`, userColumns)
	return r.get(ctx, query, tgUsername)
}

func (r *userRepository) get(ctx context.Context, query string, arg any) (*model.User, error) {
	var user model.User
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.FirstName,
		&user.TgUsername,
		&user.Role,
		&user.Phone,
		&user.DeliveryAddress,
		&user.LanguageCode,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Msg("failed to query user")
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &user, nil
}

// UpdateProfile applies the non-nil patch fields and returns the updated
// user, or nil when the user does not exist.
func (r *userRepository) UpdateProfile(ctx context.Context, id string, patch *model.ProfilePatch) (*model.User, error) {
	if patch.Phone == nil && patch.DeliveryAddress == nil {
		return r.GetByID(ctx, id)
	}

	set := make([]string, 0, 2)
	args := []any{id}

	if patch.Phone != nil {
		args = append(args, *patch.Phone)
		set = append(set, fmt.Sprintf("phone = $%d", len(args)))
	}
	if patch.DeliveryAddress != nil {
		args = append(args, *patch.DeliveryAddress)
		set = append(set, fmt.Sprintf("delivery_address = $%d", len(args)))
	}

	query := fmt.Sprintf(
		`UPDATE users SET %s, updated_at = NOW() WHERE id = $1 RETURNING %s`,
		strings.Join(set, ", "),
		userColumns,
	)

	var user model.User
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&user.ID,
		&user.FirstName,
		&user.TgUsername,
		&user.Role,
		&user.Phone,
		&user.DeliveryAddress,
		&user.LanguageCode,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("user_id", id).Msg("failed to update user profile")
		return nil, fmt.Errorf("failed to update user profile: %w", err)
	}

	return &user, nil
}
