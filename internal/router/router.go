package router

import (
	"net/http"

	"autoparts/internal/auth"
	"autoparts/internal/handler"
	"autoparts/internal/middleware"

	"github.com/rs/zerolog"
)

// Handlers bundles the HTTP handlers the router wires up.
type Handlers struct {
	Auth       *handler.AuthHandler
	Cart       *handler.CartHandler
	Order      *handler.OrderHandler
	AdminOrder *handler.AdminOrderHandler
	Product    *handler.ProductHandler
	Meta       *handler.MetaHandler
}

// New creates the HTTP router. Routes fall into three groups: public
// (health, catalogue, login), customer (JWT bearer auth) and admin (shared
// API key for the bot channel).
func New(h Handlers, tokens *auth.TokenManager, apiKey string, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Public routes
	mux.HandleFunc("POST /api/auth/telegram", h.Auth.Login)
	mux.HandleFunc("GET /api/products", h.Product.List)
	mux.HandleFunc("GET /api/products/{id}", h.Product.Get)
	mux.HandleFunc("GET /api/categories", h.Product.ListCategories)
	// Literal segments beat the /api/orders/{id} wildcard, so these stay
	// public while order reads require a token.
	mux.HandleFunc("GET /api/orders/order-statuses", h.Meta.OrderStatuses)
	mux.HandleFunc("GET /api/orders/payment-statuses", h.Meta.PaymentStatuses)
	mux.HandleFunc("GET /api/orders/delivery-methods", h.Meta.DeliveryMethods)

	// Customer routes
	jwt := middleware.JWTAuth(tokens, logger)
	customer := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, jwt(fn))
	}
	customer("GET /api/auth/me", h.Auth.Me)
	customer("PATCH /api/auth/me", h.Auth.UpdateMe)
	customer("GET /api/cart", h.Cart.Get)
	customer("DELETE /api/cart", h.Cart.Clear)
	customer("POST /api/cart/items", h.Cart.AddItem)
	customer("PUT /api/cart/items", h.Cart.UpdateItem)
	customer("DELETE /api/cart/items/{id}", h.Cart.RemoveItem)
	customer("POST /api/orders", h.Order.Checkout)
	customer("GET /api/orders", h.Order.List)
	customer("GET /api/orders/{id}", h.Order.Get)
	customer("PATCH /api/orders/{id}", h.Order.Update)

	// Admin routes (Telegram bot backend)
	apiKeyAuth := middleware.APIKeyAuth(apiKey, logger)
	admin := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, apiKeyAuth(fn))
	}
	admin("GET /api/admin/orders", h.AdminOrder.List)
	admin("DELETE /api/admin/orders/completed", h.AdminOrder.DeleteCompleted)
	admin("GET /api/admin/orders/{id}", h.AdminOrder.Get)
	admin("PATCH /api/admin/orders/{id}", h.AdminOrder.Update)
	admin("DELETE /api/admin/orders/{id}", h.AdminOrder.Delete)
	admin("POST /api/admin/products", h.Product.Create)
	admin("PUT /api/admin/products/{id}", h.Product.Update)
	admin("DELETE /api/admin/products/{id}", h.Product.Delete)
	admin("POST /api/admin/products/{id}/images", h.Product.UploadImage)
	admin("POST /api/admin/categories", h.Product.CreateCategory)
	admin("DELETE /api/admin/categories/{id}", h.Product.DeleteCategory)

	// Apply middleware in order: Recovery -> Logging -> CORS
	var root http.Handler = mux
	root = middleware.CORS(root)
	root = middleware.Logging(logger)(root)
	root = middleware.Recovery(logger)(root)

	return root
}
