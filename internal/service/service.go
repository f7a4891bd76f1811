package service

import (
	"context"

	"storefront/internal/auth"
	"storefront/internal/cart"
	"storefront/internal/invoice"
	"storefront/internal/model"

	"github.com/google/uuid"
)

// CategoryService defines operations for category management.
type CategoryService interface {
	// List returns a page of categories whose title matches q.
	List(ctx context.Context, q string, page, limit int) (*model.CategoryPage, error)

	// GetByID retrieves a single category by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error)

	Create(ctx context.Context, req *model.CategoryRequest) (*model.Category, error)
	Update(ctx context.Context, id uuid.UUID, req *model.CategoryRequest) (*model.Category, error)

	// Delete removes a category that no product references.
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProductService defines operations for product management.
type ProductService interface {
	// List returns a page of products matching filter.
	List(ctx context.Context, filter model.ProductFilter, page, limit int) (*model.ProductPage, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	Create(ctx context.Context, req *model.ProductRequest) (*model.Product, error)

	// Update replaces a product, its option list included.
	Update(ctx context.Context, id uuid.UUID, req *model.ProductRequest) (*model.Product, error)

	Delete(ctx context.Context, id uuid.UUID) error

	// Stats returns the highlighted products of the catalogue.
	Stats(ctx context.Context) (*model.ProductStats, error)
}

// OrderService defines operations for order management.
type OrderService interface {
	// CreateOrder freezes the requested line items into a new unpaid order.
	CreateOrder(ctx context.Context, email string, req *model.OrderRequest) (*model.Order, error)

	// List returns every order to admins and the caller's own orders otherwise.
	List(ctx context.Context, p auth.Principal) ([]model.Order, error)

	// ListByUser returns the orders placed with email, newest first.
	ListByUser(ctx context.Context, email string) ([]model.Order, error)

	// GetByID returns an order to its owner or an admin.
	GetByID(ctx context.Context, id uuid.UUID, p auth.Principal) (*model.Order, error)

	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*model.Order, error)
	SetAddress(ctx context.Context, id uuid.UUID, address *model.Address, p auth.Principal) (*model.Order, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// CreateIntent starts the payment of an order.
	CreateIntent(ctx context.Context, id uuid.UUID, p auth.Principal) (*model.PaymentIntent, error)

	// ConfirmPayment marks the order paid through intentID as being prepared
	// and decrements the stock of every option it bought.
	ConfirmPayment(ctx context.Context, intentID string) (*model.Order, error)

	// ConfirmUnpaidPayment confirms like ConfirmPayment but only while the
	// order is still "Not Paid!". Provider webhooks use it so a payment
	// already confirmed through the return page is not applied again.
	ConfirmUnpaidPayment(ctx context.Context, intentID string) (*model.Order, error)

	// Invoice builds the invoice of an order for its owner or an admin.
	Invoice(ctx context.Context, id uuid.UUID, p auth.Principal) (*invoice.Invoice, error)
}

// RevenueService defines the revenue report.
type RevenueService interface {
	// Report sums paid orders of the current week, month or year.
	Report(ctx context.Context, filter string) (*model.RevenueReport, error)
}

// UserService defines operations for user accounts.
type UserService interface {
	// SignIn creates or refreshes the account of an OAuth user.
	SignIn(ctx context.Context, user *model.User) (*model.User, error)

	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	List(ctx context.Context, q string, page, limit int) (*model.UserPage, error)
	Update(ctx context.Context, id uuid.UUID, req *model.UserUpdateRequest) (*model.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, req *model.ProfileRequest) (*model.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// EngagementService defines likes, views and comments on products.
type EngagementService interface {
	ToggleLike(ctx context.Context, productID, userID uuid.UUID) (*model.LikeStatus, error)

	// LikeStatus reports the like count. userID is nil for anonymous callers.
	LikeStatus(ctx context.Context, productID uuid.UUID, userID *uuid.UUID) (*model.LikeStatus, error)

	AddView(ctx context.Context, productID uuid.UUID) (*model.ViewCount, error)
	Comments(ctx context.Context, productID uuid.UUID) ([]model.Comment, error)

	// AddComment stores a comment and returns the product's comments.
	AddComment(ctx context.Context, productID, userID uuid.UUID, req *model.CommentRequest) ([]model.Comment, error)
}

// CartService defines the server-held cart of a signed-in user.
type CartService interface {
	Get(ctx context.Context, userID uuid.UUID) (*cart.Cart, error)
	Add(ctx context.Context, userID uuid.UUID, item model.LineItem) (*cart.Cart, error)
	Remove(ctx context.Context, userID uuid.UUID, item model.LineItem) (*cart.Cart, error)
	Clear(ctx context.Context, userID uuid.UUID) error

	// Checkout turns the cart into an order and empties it.
	Checkout(ctx context.Context, p auth.Principal) (*model.Order, error)
}

const maxPageSize = 100

// paginate normalises page and limit and returns the row offset.
func paginate(page, limit, defaultLimit int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit, (page - 1) * limit
}
