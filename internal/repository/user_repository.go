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

const userColumns = `id, name, email, image, is_admin, email_verified, created_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Image, &u.IsAdmin, &u.EmailVerified, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpsertByEmail creates the user on first sign-in and refreshes name and image afterwards.
func (r *userRepository) UpsertByEmail(ctx context.Context, u *model.User) (*model.User, error) {
	query := `
		INSERT INTO users (id, name, email, image, is_admin, email_verified, created_at)
		VALUES ($1, $2, $3, $4, FALSE, $5, $6)
		ON CONFLICT (email) DO UPDATE
		SET name = EXCLUDED.name,
		    image = EXCLUDED.image,
		    email_verified = COALESCE(users.email_verified, EXCLUDED.email_verified)
		RETURNING ` + userColumns

	stored, err := scanUser(r.pool.QueryRow(ctx, query, u.ID, u.Name, u.Email, u.Image, u.EmailVerified, u.CreatedAt))
	if err != nil {
		r.logger.Error().Err(err).Str("email", u.Email).Msg("failed to upsert user")
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}
	return stored, nil
}

// GetByID retrieves a user by ID.
func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByEmail retrieves a user by e-mail address.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *userRepository) getOne(ctx context.Context, query string, arg any) (*model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Msg("failed to query user")
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return u, nil
}

// List returns users whose name or email matches q, verified accounts first.
func (r *userRepository) List(ctx context.Context, q string, limit, offset int) ([]model.User, int, error) {
	where := ` WHERE name ILIKE $1 OR email ILIKE $1`

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`+where, likePattern(q)).Scan(&total); err != nil {
		r.logger.Error().Err(err).Msg("failed to count users")
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	query := `SELECT ` + userColumns + ` FROM users` + where + `
		ORDER BY email_verified DESC NULLS LAST, created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, likePattern(q), limit, offset)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query users")
		return nil, 0, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan user row")
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *u)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating user rows")
		return nil, 0, fmt.Errorf("error iterating users: %w", err)
	}
	return users, total, nil
}

// Update applies the admin edit to a user. Nil fields are left unchanged.
func (r *userRepository) Update(ctx context.Context, id uuid.UUID, req model.UserUpdateRequest) (*model.User, error) {
	query := `
		UPDATE users
		SET name = COALESCE($2, name),
		    image = COALESCE($3, image),
		    is_admin = COALESCE($4, is_admin)
		WHERE id = $1
		RETURNING ` + userColumns

	return r.updateOne(ctx, id, query, id, req.Name, req.Image, req.IsAdmin)
}

// UpdateProfile sets the user's display name and avatar.
func (r *userRepository) UpdateProfile(ctx context.Context, id uuid.UUID, name, image string) (*model.User, error) {
	query := `UPDATE users SET name = $2, image = $3 WHERE id = $1 RETURNING ` + userColumns
	return r.updateOne(ctx, id, query, id, name, image)
}

func (r *userRepository) updateOne(ctx context.Context, id uuid.UUID, query string, args ...any) (*model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, model.ErrUserNotFound
		}
		r.logger.Error().Err(err).Str("user_id", id.String()).Msg("failed to update user")
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return u, nil
}

// Delete removes a user along with their likes and comments.
func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", id.String()).Msg("failed to delete user")
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}
