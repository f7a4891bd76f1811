package router

import (
	"net/http"

	"storefront/internal/auth"
	"storefront/internal/handler"
	"storefront/internal/metrics"
	"storefront/internal/middleware"
	"storefront/internal/ratelimit"

	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers served by the router.
type Handlers struct {
	Category   *handler.CategoryHandler
	Product    *handler.ProductHandler
	Order      *handler.OrderHandler
	Payment    *handler.PaymentHandler
	Cart       *handler.CartHandler
	Revenue    *handler.RevenueHandler
	User       *handler.UserHandler
	Engagement *handler.EngagementHandler
	Auth       *handler.AuthHandler
	Upload     *handler.UploadHandler
	Chat       *handler.ChatHandler
}

// Options configures the cross-cutting parts of the router.
type Options struct {
	Tokens  *auth.TokenManager
	Metrics *metrics.Metrics
	// Limiter throttles chat, sign-in and upload requests. Nil disables it.
	Limiter ratelimit.Limiter
	// APIKey guards /metrics. Empty leaves it open.
	APIKey string
	// UploadDir is served under /temporary/ when set.
	UploadDir string
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, opts Options, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	user := middleware.RequireUser
	admin := middleware.RequireAdmin(http.StatusForbidden)
	userAdmin := middleware.RequireAdmin(http.StatusUnauthorized)
	limited := func(name string) func(http.Handler) http.Handler {
		if opts.Limiter == nil {
			return func(next http.Handler) http.Handler { return next }
		}
		return middleware.RateLimit(name, opts.Limiter, logger)
	}

	handle := func(pattern string, fn http.HandlerFunc, wrap ...func(http.Handler) http.Handler) {
		var next http.Handler = fn
		for i := len(wrap) - 1; i >= 0; i-- {
			next = wrap[i](next)
		}
		mux.Handle(pattern, next)
	}

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	if opts.Metrics != nil {
		metricsHandler := opts.Metrics.Handler()
		if opts.APIKey != "" {
			metricsHandler = middleware.APIKeyAuth(opts.APIKey, logger)(metricsHandler)
		}
		mux.Handle("GET /metrics", metricsHandler)
	}

	if opts.UploadDir != "" {
		mux.Handle("GET /temporary/", http.StripPrefix("/temporary/", http.FileServer(http.Dir(opts.UploadDir))))
	}

	// Catalog
	handle("GET /api/categories", h.Category.List)
	handle("POST /api/categories", h.Category.Create, admin)
	handle("GET /api/categories/{id}", h.Category.GetByID)
	handle("PUT /api/categories/{id}", h.Category.Update, admin)
	handle("DELETE /api/categories/{id}", h.Category.Delete, admin)

	handle("GET /api/products", h.Product.List)
	handle("POST /api/products", h.Product.Create, admin)
	handle("GET /api/products/stats", h.Product.Stats)
	handle("GET /api/products/{id}", h.Product.GetByID)
	handle("PUT /api/products/{id}", h.Product.Update, admin)
	handle("DELETE /api/products/{id}", h.Product.Delete, admin)

	// Engagement
	handle("GET /api/products/{id}/like", h.Engagement.LikeStatus)
	handle("POST /api/products/{id}/like", h.Engagement.ToggleLike, user)
	handle("POST /api/products/{id}/view", h.Engagement.AddView)
	handle("GET /api/products/{id}/comment", h.Engagement.Comments)
	handle("POST /api/products/{id}/comment", h.Engagement.AddComment, user)

	// Orders and payment
	handle("GET /api/orders", h.Order.List, user)
	handle("POST /api/orders", h.Order.Create, user)
	handle("GET /api/user-orders", h.Order.ListMine, user)
	handle("GET /api/orders/{id}", h.Order.GetByID, user)
	handle("PUT /api/orders/{id}", h.Order.UpdateStatus, admin)
	handle("DELETE /api/orders/{id}", h.Order.Delete, admin)
	handle("POST /api/orders/{id}/address", h.Order.SetAddress, user)
	handle("POST /api/orders/{id}/intent", h.Order.CreateIntent, user)
	handle("GET /api/orders/{id}/invoice", h.Order.Invoice, user)
	handle("PUT /api/confirm/{intentId}", h.Payment.Confirm)
	handle("POST /api/webhooks/stripe", h.Payment.Webhook)

	// Cart
	handle("GET /api/cart", h.Cart.Get, user)
	handle("DELETE /api/cart", h.Cart.Clear, user)
	handle("POST /api/cart/items", h.Cart.AddItem, user)
	handle("DELETE /api/cart/items", h.Cart.RemoveItem, user)
	handle("POST /api/cart/checkout", h.Cart.Checkout, user)

	// Revenue
	handle("GET /api/revenue", h.Revenue.Report, admin)

	// Users
	handle("GET /api/admin/users", h.User.List, userAdmin)
	handle("GET /api/admin/users/{id}", h.User.GetByID, userAdmin)
	handle("PUT /api/admin/users/{id}", h.User.Update, userAdmin)
	handle("DELETE /api/admin/users/{id}", h.User.Delete, userAdmin)
	handle("PUT /api/profile", h.User.UpdateProfile, user)

	// Auth
	handle("GET /api/auth/me", h.Auth.Me, user)
	handle("POST /api/auth/logout", h.Auth.Logout)
	handle("GET /api/auth/{provider}", h.Auth.Begin, limited("auth"))
	handle("GET /api/auth/{provider}/callback", h.Auth.Callback, limited("auth"))

	// Upload and chat
	handle("POST /api/upload", h.Upload.Upload, user, limited("upload"))
	handle("POST /api/chat", h.Chat.Message, limited("chat"))
	handle("GET /api/chat/ws", h.Chat.Socket, limited("chat"))

	// Apply middleware in order: RequestID -> Recovery -> Logging -> CORS -> Authenticate -> Metrics
	var handler http.Handler = mux
	handler = middleware.Metrics(opts.Metrics)(handler)
	handler = middleware.Authenticate(opts.Tokens, logger)(handler)
	handler = middleware.CORS(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Recovery(logger)(handler)
	handler = middleware.RequestID(handler)

	return handler
}
