package repository

import (
	"context"
	"time"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CategoryRepository defines the interface for category data access operations.
type CategoryRepository interface {
	// List returns a page of categories whose title matches q, newest first,
	// together with the total number of matches.
	List(ctx context.Context, q string, limit, offset int) ([]model.Category, int, error)

	// GetByID retrieves a single category by its ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error)

	Create(ctx context.Context, category *model.Category) error

	// Update replaces a category. Products follow a slug change.
	Update(ctx context.Context, category *model.Category) error

	// Delete removes a category. It fails with ErrCategoryInUse while any
	// product references the category slug.
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// List returns a page of products matching filter, ordered by title,
	// together with the total number of matches.
	List(ctx context.Context, filter model.ProductFilter) ([]model.Product, int, error)

	// GetByID retrieves a single product by its ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id uuid.UUID) error

	// GetForUpdate loads a product and locks its row until tx ends.
	GetForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Product, error)

	// UpdateOptions persists a product's option list within tx.
	UpdateOptions(ctx context.Context, tx pgx.Tx, id uuid.UUID, options []model.Option) error

	// Stats returns the most viewed, cheapest, most expensive and most liked products.
	Stats(ctx context.Context) (*model.ProductStats, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts the order's line items within the provided transaction,
	// keeping their order.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, items []model.LineItem) error

	// GetByID retrieves an order by its ID along with its items.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// List returns orders newest first. An empty email returns every order.
	List(ctx context.Context, email string) ([]model.Order, error)

	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*model.Order, error)
	SetAddress(ctx context.Context, id uuid.UUID, address model.Address) (*model.Order, error)
	SetIntentID(ctx context.Context, id uuid.UUID, intentID string) error
	Delete(ctx context.Context, id uuid.UUID) error

	// UpdateStatusByIntent sets the status of the order paid through intentID
	// within tx and returns it with its items. It returns nil when no order matches.
	UpdateStatusByIntent(ctx context.Context, tx pgx.Tx, intentID, status string) (*model.Order, error)

	// UpdateUnpaidStatusByIntent behaves like UpdateStatusByIntent but only
	// matches an order still in status "Not Paid!".
	UpdateUnpaidStatusByIntent(ctx context.Context, tx pgx.Tx, intentID, status string) (*model.Order, error)

	// ListPaidBetween returns orders with status "paid" created in [start, end).
	ListPaidBetween(ctx context.Context, start, end time.Time) ([]model.PaidOrder, error)
}

// UserRepository defines the interface for user data access operations.
type UserRepository interface {
	// UpsertByEmail creates the user on first sign-in and refreshes name and
	// image afterwards. The stored admin flag is returned unchanged.
	UpsertByEmail(ctx context.Context, user *model.User) (*model.User, error)

	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// List returns users whose name or email matches q, verified first.
	List(ctx context.Context, q string, limit, offset int) ([]model.User, int, error)

	Update(ctx context.Context, id uuid.UUID, req model.UserUpdateRequest) (*model.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, name, image string) (*model.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// EngagementRepository defines the interface for likes, views and comments.
type EngagementRepository interface {
	// ToggleLike adds the user's like or removes it when present and reports
	// whether the product is liked afterwards.
	ToggleLike(ctx context.Context, productID, userID uuid.UUID) (bool, error)

	CountLikes(ctx context.Context, productID uuid.UUID) (int, error)
	HasLiked(ctx context.Context, productID, userID uuid.UUID) (bool, error)

	// AddView records a view and returns the product's view count.
	AddView(ctx context.Context, productID uuid.UUID) (int, error)

	// ListComments returns the product's comments newest first with their authors.
	ListComments(ctx context.Context, productID uuid.UUID) ([]model.Comment, error)

	AddComment(ctx context.Context, comment *model.Comment) error
}
