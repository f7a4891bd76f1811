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

const defaultProductLimit = 9

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// List returns a page of products matching filter.
func (s *productService) List(ctx context.Context, filter model.ProductFilter, page, limit int) (*model.ProductPage, error) {
	page, limit, offset := paginate(page, limit, defaultProductLimit)
	filter.Limit = limit
	filter.Offset = offset
	filter.Query = strings.TrimSpace(filter.Query)

	products, total, err := s.productRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to list products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	s.logger.Debug().
		Int("count", len(products)).
		Int("total", total).
		Msg("retrieved products")

	return &model.ProductPage{Products: products, Total: total, Page: page, Limit: limit}, nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to get product by ID")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil {
		s.logger.Debug().Str("product_id", id.String()).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	return product, nil
}

// Create validates and stores a new product.
func (s *productService) Create(ctx context.Context, req *model.ProductRequest) (*model.Product, error) {
	if err := validateProduct(req); err != nil {
		return nil, err
	}

	product := &model.Product{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
	}
	applyProduct(product, req)

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info().Str("product_id", product.ID.String()).Msg("product created")
	return product, nil
}

// Update replaces a product's fields and option list.
func (s *productService) Update(ctx context.Context, id uuid.UUID, req *model.ProductRequest) (*model.Product, error) {
	if err := validateProduct(req); err != nil {
		return nil, err
	}

	product, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyProduct(product, req)

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes a product. Existing orders keep their snapshot.
func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("product_id", id.String()).Msg("product deleted")
	return nil
}

// Stats returns the highlighted products of the catalogue.
func (s *productService) Stats(ctx context.Context) (*model.ProductStats, error) {
	stats, err := s.productRepo.Stats(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get product stats")
		return nil, fmt.Errorf("failed to get product stats: %w", err)
	}
	return stats, nil
}

func validateProduct(req *model.ProductRequest) error {
	if req == nil || strings.TrimSpace(req.Title) == "" {
		return model.Invalid("Title is required")
	}
	if strings.TrimSpace(req.CatSlug) == "" {
		return model.Invalid("Category is required")
	}
	if req.Price.IsNegative() {
		return model.Invalid("Price cannot be negative")
	}
	if !model.IsCents(req.Price) {
		return model.Invalid("Price has more than two decimal places")
	}

	seen := make(map[string]bool, len(req.Options))
	for _, o := range req.Options {
		title := strings.TrimSpace(o.Title)
		if title == "" {
			return model.Invalid("Option title is required")
		}
		if seen[title] {
			return model.Invalid(fmt.Sprintf("Duplicate option %q", title))
		}
		seen[title] = true
		if o.Quantity < 0 {
			return model.Invalid(fmt.Sprintf("Option %q quantity cannot be negative", title))
		}
		if o.AdditionalPrice.IsNegative() {
			return model.Invalid(fmt.Sprintf("Option %q price cannot be negative", title))
		}
		if !model.IsCents(o.AdditionalPrice) {
			return model.Invalid(fmt.Sprintf("Option %q price has more than two decimal places", title))
		}
	}
	return nil
}

func applyProduct(p *model.Product, req *model.ProductRequest) {
	p.Title = strings.TrimSpace(req.Title)
	p.Desc = req.Desc
	p.Price = req.Price
	p.CatSlug = strings.TrimSpace(req.CatSlug)
	p.Img = req.Img
	p.IsFeatured = req.IsFeatured

	p.Options = make([]model.Option, 0, len(req.Options))
	for _, o := range req.Options {
		o.Title = strings.TrimSpace(o.Title)
		p.Options = append(p.Options, o)
	}
}
