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

const maxCommentLength = 2000

// engagementService implements EngagementService.
type engagementService struct {
	engagementRepo repository.EngagementRepository
	productRepo    repository.ProductRepository
	logger         zerolog.Logger
}

// NewEngagementService creates a new engagement service.
func NewEngagementService(
	engagementRepo repository.EngagementRepository,
	productRepo repository.ProductRepository,
	logger zerolog.Logger,
) EngagementService {
	return &engagementService{
		engagementRepo: engagementRepo,
		productRepo:    productRepo,
		logger:         logger.With().Str("service", "engagement").Logger(),
	}
}

// ToggleLike flips the user's like and returns the new status.
func (s *engagementService) ToggleLike(ctx context.Context, productID, userID uuid.UUID) (*model.LikeStatus, error) {
	liked, err := s.engagementRepo.ToggleLike(ctx, productID, userID)
	if err != nil {
		return nil, err
	}

	likes, err := s.engagementRepo.CountLikes(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &model.LikeStatus{Likes: likes, Liked: liked}, nil
}

// LikeStatus returns the like count and whether userID liked the product.
func (s *engagementService) LikeStatus(ctx context.Context, productID uuid.UUID, userID *uuid.UUID) (*model.LikeStatus, error) {
	if err := s.ensureProduct(ctx, productID); err != nil {
		return nil, err
	}

	likes, err := s.engagementRepo.CountLikes(ctx, productID)
	if err != nil {
		return nil, err
	}

	status := &model.LikeStatus{Likes: likes}
	if userID != nil {
		if status.Liked, err = s.engagementRepo.HasLiked(ctx, productID, *userID); err != nil {
			return nil, err
		}
	}
	return status, nil
}

// AddView records a product view.
func (s *engagementService) AddView(ctx context.Context, productID uuid.UUID) (*model.ViewCount, error) {
	views, err := s.engagementRepo.AddView(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &model.ViewCount{Views: views}, nil
}

// Comments returns the product's comments newest first.
func (s *engagementService) Comments(ctx context.Context, productID uuid.UUID) ([]model.Comment, error) {
	if err := s.ensureProduct(ctx, productID); err != nil {
		return nil, err
	}
	return s.engagementRepo.ListComments(ctx, productID)
}

// AddComment stores a comment and returns the refreshed comment list.
func (s *engagementService) AddComment(ctx context.Context, productID, userID uuid.UUID, req *model.CommentRequest) ([]model.Comment, error) {
	if req == nil || strings.TrimSpace(req.Content) == "" {
		return nil, model.Invalid("Content is required")
	}
	content := strings.TrimSpace(req.Content)
	if len(content) > maxCommentLength {
		return nil, model.Invalid(fmt.Sprintf("Content must be at most %d characters", maxCommentLength))
	}

	comment := &model.Comment{
		ID:        uuid.New(),
		ProductID: productID,
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.engagementRepo.AddComment(ctx, comment); err != nil {
		return nil, err
	}

	s.logger.Debug().Str("product_id", productID.String()).Str("user_id", userID.String()).Msg("comment added")
	return s.engagementRepo.ListComments(ctx, productID)
}

func (s *engagementService) ensureProduct(ctx context.Context, productID uuid.UUID) error {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return model.ErrProductNotFound
	}
	return nil
}
