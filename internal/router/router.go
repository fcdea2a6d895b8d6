package router

import (
	"net/http"

	"restaurante/internal/handler"
	"restaurante/internal/middleware"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers served by the API.
type Handlers struct {
	Auth        *handler.AuthHandler
	Products    *handler.ProductHandler
	Restaurants *handler.RestaurantHandler
	Reviews     *handler.ReviewHandler
	Cart        *handler.CartHandler
	Orders      *handler.OrderHandler
	Favorites   *handler.FavoritesHandler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, auth middleware.Authenticator, allowedOrigins []string, logger zerolog.Logger) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = handler.NotFound(logger)
	r.MethodNotAllowedHandler = handler.MethodNotAllowed(logger)

	// Health check endpoint (no authentication required)
	r.HandleFunc("/health", handler.Health).Methods(http.MethodGet)

	r.HandleFunc("/api/auth/register", h.Auth.Register).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", h.Auth.Login).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/logout", h.Auth.Logout).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/me", h.Auth.Me).Methods(http.MethodGet)

	r.HandleFunc("/api/products", h.Products.List).Methods(http.MethodGet)
	r.HandleFunc("/api/products", h.Products.Create).Methods(http.MethodPost)
	r.HandleFunc("/api/products/{id:[0-9]+}", h.Products.Get).Methods(http.MethodGet)
	r.HandleFunc("/api/products/{id:[0-9]+}", h.Products.Update).Methods(http.MethodPut)
	r.HandleFunc("/api/products/{id:[0-9]+}", h.Products.Delete).Methods(http.MethodDelete)
	r.HandleFunc("/api/products/{id:[0-9]+}/reviews", h.Reviews.List(handler.ProductTarget)).Methods(http.MethodGet)
	r.HandleFunc("/api/products/{id:[0-9]+}/reviews", h.Reviews.Add(handler.ProductTarget)).Methods(http.MethodPost)

	r.HandleFunc("/api/restaurants", h.Restaurants.List).Methods(http.MethodGet)
	r.HandleFunc("/api/restaurants", h.Restaurants.Create).Methods(http.MethodPost)
	r.HandleFunc("/api/restaurants/{id:[0-9]+}", h.Restaurants.Get).Methods(http.MethodGet)
	r.HandleFunc("/api/restaurants/{id:[0-9]+}", h.Restaurants.Update).Methods(http.MethodPut)
	r.HandleFunc("/api/restaurants/{id:[0-9]+}", h.Restaurants.Delete).Methods(http.MethodDelete)
	r.HandleFunc("/api/restaurants/{id:[0-9]+}/reviews", h.Reviews.List(handler.RestaurantTarget)).Methods(http.MethodGet)
	r.HandleFunc("/api/restaurants/{id:[0-9]+}/reviews", h.Reviews.Add(handler.RestaurantTarget)).Methods(http.MethodPost)
	r.HandleFunc("/api/cuisines", h.Restaurants.Cuisines).Methods(http.MethodGet)
	r.HandleFunc("/api/payment-methods", h.Orders.PaymentMethods).Methods(http.MethodGet)

	r.HandleFunc("/api/cart", h.Cart.Get).Methods(http.MethodGet)
	r.HandleFunc("/api/cart", h.Cart.Clear).Methods(http.MethodDelete)
	r.HandleFunc("/api/cart/items", h.Cart.AddItem).Methods(http.MethodPost)
	r.HandleFunc("/api/cart/items/{productId:[0-9]+}", h.Cart.SetQuantity).Methods(http.MethodPut)
	r.HandleFunc("/api/cart/items/{productId:[0-9]+}", h.Cart.RemoveItem).Methods(http.MethodDelete)
	r.HandleFunc("/api/cart/checkout", h.Cart.Checkout).Methods(http.MethodPost)

	r.HandleFunc("/api/orders", h.Orders.List).Methods(http.MethodGet)
	r.HandleFunc("/api/orders/summary", h.Orders.Summary).Methods(http.MethodGet)
	r.HandleFunc("/api/orders/{id}", h.Orders.GetByID).Methods(http.MethodGet)
	r.HandleFunc("/api/orders/{id}/advance", h.Orders.Advance).Methods(http.MethodPost)
	r.HandleFunc("/api/orders/{id}/cancel", h.Orders.Cancel).Methods(http.MethodPost)
	r.HandleFunc("/api/orders/{id}/qrcode", h.Orders.QRCode).Methods(http.MethodGet)

	r.HandleFunc("/api/favorites", h.Favorites.List).Methods(http.MethodGet)
	r.HandleFunc("/api/favorites/{kind}/{id:[0-9]+}", h.Favorites.Get).Methods(http.MethodGet)
	r.HandleFunc("/api/favorites/{kind}/{id:[0-9]+}", h.Favorites.Toggle).Methods(http.MethodPost)

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	})

	// Apply middleware in order: Recovery -> Logging -> CORS -> Authenticate
	var handler http.Handler = r
	handler = middleware.Authenticate(auth, logger)(handler)
	handler = c.Handler(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Recovery(logger)(handler)

	return handler
}
