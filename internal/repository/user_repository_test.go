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

func newTestUser(name, email string, verified bool) *model.User {
	u := &model.User{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		Image:     "https://example.com/" + name + ".png",
		CreatedAt: time.Now().UTC(),
	}
	if verified {
		now := time.Now().UTC()
		u.EmailVerified = &now
	}
	return u
}

func TestUserRepository_UpsertByEmail(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool, zerolog.Nop())
	ctx := context.Background()

	first, err := repo.UpsertByEmail(ctx, newTestUser("Ada", "ada@example.com", true))
	require.NoError(t, err)
	assert.False(t, first.IsAdmin)

	admin := true
	_, err = repo.Update(ctx, first.ID, model.UserUpdateRequest{IsAdmin: &admin})
	require.NoError(t, err)

	again, err := repo.UpsertByEmail(ctx, newTestUser("Ada Lovelace", "ada@example.com", false))
	require.NoError(t, err)

	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, "Ada Lovelace", again.Name)
	assert.True(t, again.IsAdmin)
	assert.NotNil(t, again.EmailVerified)
}

func TestUserRepository_GetAndList(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool, zerolog.Nop())
	ctx := context.Background()

	unverified, err := repo.UpsertByEmail(ctx, newTestUser("Bob", "bob@example.com", false))
	require.NoError(t, err)
	verified, err := repo.UpsertByEmail(ctx, newTestUser("Ada", "ada@example.com", true))
	require.NoError(t, err)

	byEmail, err := repo.GetByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, unverified.ID, byEmail.ID)

	missing, err := repo.GetByID(ctx, uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, missing)

	users, total, err := repo.List(ctx, "", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, users, 2)
	assert.Equal(t, verified.ID, users[0].ID)

	users, total, err = repo.List(ctx, "BOB@", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Bob", users[0].Name)
}

func TestUserRepository_ProfileAndDelete(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool, zerolog.Nop())
	ctx := context.Background()

	u, err := repo.UpsertByEmail(ctx, newTestUser("Ada", "ada@example.com", true))
	require.NoError(t, err)

	updated, err := repo.UpdateProfile(ctx, u.ID, "Countess", "https://example.com/c.png")
	require.NoError(t, err)
	assert.Equal(t, "Countess", updated.Name)
	assert.Equal(t, "https://example.com/c.png", updated.Image)

	_, err = repo.UpdateProfile(ctx, uuid.New(), "x", "y")
	assert.ErrorIs(t, err, model.ErrUserNotFound)

	require.NoError(t, repo.Delete(ctx, u.ID))
	assert.ErrorIs(t, repo.Delete(ctx, u.ID), model.ErrUserNotFound)
}
