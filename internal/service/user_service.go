package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const defaultUserLimit = 10

// userService implements UserService.
type userService struct {
	userRepo repository.UserRepository
	logger   zerolog.Logger
}

// NewUserService creates a new user service.
func NewUserService(userRepo repository.UserRepository, logger zerolog.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		logger:   logger.With().Str("service", "user").Logger(),
	}
}

// SignIn upserts the account of an OAuth user by e-mail. The stored admin
// flag wins over anything the provider reports.
func (s *userService) SignIn(ctx context.Context, user *model.User) (*model.User, error) {
	if user == nil || strings.TrimSpace(user.Email) == "" {
		return nil, model.Invalid("Email is required")
	}

	now := time.Now().UTC()
	candidate := &model.User{
		ID:            uuid.New(),
		Name:          strings.TrimSpace(user.Name),
		Email:         strings.ToLower(strings.TrimSpace(user.Email)),
		Image:         user.Image,
		EmailVerified: &now,
		CreatedAt:     now,
	}

	stored, err := s.userRepo.UpsertByEmail(ctx, candidate)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", stored.ID.String()).Bool("is_admin", stored.IsAdmin).Msg("user signed in")
	return stored, nil
}

// GetByID retrieves a user by ID.
func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", id.String()).Msg("failed to get user")
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, model.ErrUserNotFound
	}
	return user, nil
}

// List returns a page of users whose name or e-mail matches q.
func (s *userService) List(ctx context.Context, q string, page, limit int) (*model.UserPage, error) {
	_, limit, offset := paginate(page, limit, defaultUserLimit)

	users, total, err := s.userRepo.List(ctx, strings.TrimSpace(q), limit, offset)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list users")
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return &model.UserPage{Users: users, Total: total}, nil
}

// Update applies an admin edit to a user.
func (s *userService) Update(ctx context.Context, id uuid.UUID, req *model.UserUpdateRequest) (*model.User, error) {
	if req == nil {
		return nil, model.Invalid("Request body is required")
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, model.Invalid("Name cannot be empty")
	}

	user, err := s.userRepo.Update(ctx, id, *req)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", id.String()).Bool("is_admin", user.IsAdmin).Msg("user updated")
	return user, nil
}

// UpdateProfile sets the caller's name and image. Both are required.
func (s *userService) UpdateProfile(ctx context.Context, id uuid.UUID, req *model.ProfileRequest) (*model.User, error) {
	if req == nil || strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Image) == "" {
		return nil, model.Invalid("Name and image are required")
	}
	return s.userRepo.UpdateProfile(ctx, id, strings.TrimSpace(req.Name), strings.TrimSpace(req.Image))
}

// Delete removes a user account.
func (s *userService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", id.String()).Msg("user deleted")
	return nil
}
