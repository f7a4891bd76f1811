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

const defaultCategoryLimit = 15

// categoryService implements CategoryService.
type categoryService struct {
	categoryRepo repository.CategoryRepository
	logger       zerolog.Logger
}

// NewCategoryService creates a new category service.
func NewCategoryService(categoryRepo repository.CategoryRepository, logger zerolog.Logger) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		logger:       logger.With().Str("service", "category").Logger(),
	}
}

// List returns a page of categories whose title matches q.
func (s *categoryService) List(ctx context.Context, q string, page, limit int) (*model.CategoryPage, error) {
	page, limit, offset := paginate(page, limit, defaultCategoryLimit)

	categories, total, err := s.categoryRepo.List(ctx, strings.TrimSpace(q), limit, offset)
	if err != nil {
		s.logger.Error().Err(err).Int("page", page).Msg("failed to list categories")
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	return &model.CategoryPage{Categories: categories, Total: total, Page: page}, nil
}

// GetByID retrieves a single category by ID.
func (s *categoryService) GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("category_id", id.String()).Msg("failed to get category")
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	if category == nil {
		return nil, model.ErrCategoryNotFound
	}
	return category, nil
}

// Create validates and stores a new category.
func (s *categoryService) Create(ctx context.Context, req *model.CategoryRequest) (*model.Category, error) {
	if err := validateCategory(req); err != nil {
		return nil, err
	}

	category := &model.Category{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
	}
	applyCategory(category, req)

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	s.logger.Info().Str("category_id", category.ID.String()).Str("slug", category.Slug).Msg("category created")
	return category, nil
}

// Update replaces a category. Products move along with a slug change.
func (s *categoryService) Update(ctx context.Context, id uuid.UUID, req *model.CategoryRequest) (*model.Category, error) {
	if err := validateCategory(req); err != nil {
		return nil, err
	}

	category, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyCategory(category, req)

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// Delete removes a category. Categories still referenced by products are kept.
func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		if err == model.ErrCategoryInUse {
			s.logger.Warn().Str("category_id", id.String()).Msg("refusing to delete category with products")
		}
		return err
	}

	s.logger.Info().Str("category_id", id.String()).Msg("category deleted")
	return nil
}

func validateCategory(req *model.CategoryRequest) error {
	if req == nil || strings.TrimSpace(req.Title) == "" {
		return model.Invalid("Title is required")
	}
	if strings.TrimSpace(req.Slug) == "" {
		return model.Invalid("Slug is required")
	}
	return nil
}

func applyCategory(c *model.Category, req *model.CategoryRequest) {
	c.Title = strings.TrimSpace(req.Title)
	c.Slug = strings.TrimSpace(req.Slug)
	c.Desc = req.Desc
	c.Color = req.Color
	c.Img = req.Img
}
