// Package http exposes the REST API: storefront, cart, checkout, the
// loyalty points ledger and the admin back office.
package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Jalbyte/Mercador-Backend-sub000/internal/payment"
	"github.com/Jalbyte/Mercador-Backend-sub000/internal/security"
	"github.com/Jalbyte/Mercador-Backend-sub000/internal/service"
)

// Services bundles everything the router needs.
type Services struct {
	Auth     service.AuthService
	Product  service.ProductService
	Cart     service.CartService
	Order    service.OrderService
	Points   service.PointsService
	Checkout service.CheckoutService
	Returns  service.ReturnService
	Admin    service.AdminPointsService
}

// NewRouter wires all handlers and middleware into the API router.
func NewRouter(services *Services, tokenManager security.TokenManager, verifier *payment.Verifier) *mux.Router {
	authHandler := NewAuthHandler(services.Auth)
	productHandler := NewProductHandler(services.Product)
	cartHandler := NewCartHandler(services.Cart)
	orderHandler := NewOrderHandler(services.Order)
	pointsHandler := NewPointsHandler(services.Points)
	checkoutHandler := NewCheckoutHandler(services.Checkout)
	returnsHandler := NewReturnsHandler(services.Returns)
	adminHandler := NewAdminPointsHandler(services.Admin)
	webhookHandler := NewWebhookHandler(verifier, services.Checkout)

	r := mux.NewRouter()
	r.Use(RequestLogging)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	// Public routes.
	api.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	api.HandleFunc("/auth/refresh", authHandler.Refresh).Methods("POST")
	api.HandleFunc("/products", productHandler.List).Methods("GET")
	api.HandleFunc("/products/{id:[0-9]+}", productHandler.Get).Methods("GET")
	api.HandleFunc("/webhooks/payment", webhookHandler.HandlePaymentEvent).Methods("POST")

	// Authenticated routes.
	auth := api.NewRoute().Subrouter()
	auth.Use(AuthMiddleware(tokenManager))

	auth.HandleFunc("/auth/me", authHandler.Me).Methods("GET")

	auth.HandleFunc("/cart", cartHandler.Get).Methods("GET")
	auth.HandleFunc("/cart/items", cartHandler.AddItem).Methods("POST")
	auth.HandleFunc("/cart/items/{itemId:[0-9]+}", cartHandler.UpdateItem).Methods("PUT")
	auth.HandleFunc("/cart/items/{itemId:[0-9]+}", cartHandler.RemoveItem).Methods("DELETE")
	auth.HandleFunc("/cart", cartHandler.Clear).Methods("DELETE")

	auth.HandleFunc("/orders", orderHandler.Create).Methods("POST")
	auth.HandleFunc("/orders", orderHandler.List).Methods("GET")
	auth.HandleFunc("/orders/{id:[0-9]+}", orderHandler.Get).Methods("GET")
	auth.HandleFunc("/orders/{id:[0-9]+}/keys", orderHandler.Keys).Methods("GET")

	auth.HandleFunc("/checkout", checkoutHandler.Start).Methods("POST")
	auth.HandleFunc("/checkout/points", checkoutHandler.PayWithPoints).Methods("POST")

	auth.HandleFunc("/points/balance", pointsHandler.Balance).Methods("GET")
	auth.HandleFunc("/points/transactions", pointsHandler.Transactions).Methods("GET")
	auth.HandleFunc("/points/validate", pointsHandler.Validate).Methods("POST")
	auth.HandleFunc("/points/convert", pointsHandler.Convert).Methods("POST")
	auth.HandleFunc("/points/order/{orderId:[0-9]+}", pointsHandler.OrderPoints).Methods("GET")
	auth.HandleFunc("/points/order/{orderId:[0-9]+}/use", checkoutHandler.DeclarePointsUse).Methods("POST")

	auth.HandleFunc("/returns", returnsHandler.Request).Methods("POST")
	auth.HandleFunc("/returns", returnsHandler.ListMine).Methods("GET")

	// Admin routes.
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(AuthMiddleware(tokenManager), AdminOnly)

	admin.HandleFunc("/products", productHandler.Create).Methods("POST")
	admin.HandleFunc("/products/{id:[0-9]+}", productHandler.Update).Methods("PUT")
	admin.HandleFunc("/products/{id:[0-9]+}/keys", productHandler.AddKeys).Methods("POST")

	admin.HandleFunc("/returns", returnsHandler.ListPending).Methods("GET")
	admin.HandleFunc("/returns/{id:[0-9]+}/approve", returnsHandler.Approve).Methods("POST")
	admin.HandleFunc("/returns/{id:[0-9]+}/reject", returnsHandler.Reject).Methods("POST")

	admin.HandleFunc("/points/users", adminHandler.ListBalances).Methods("GET")
	admin.HandleFunc("/points/users/{userId:[0-9]+}", adminHandler.UserDetail).Methods("GET")
	admin.HandleFunc("/points/users/{userId:[0-9]+}/adjust", adminHandler.Adjust).Methods("POST")
	admin.HandleFunc("/points/transactions", adminHandler.SearchTransactions).Methods("GET")
	admin.HandleFunc("/points/stats", adminHandler.Stats).Methods("GET")

	return r
}
