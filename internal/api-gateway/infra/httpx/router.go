package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/aurora-storefront/internal/api-gateway/infra/httpx/middlewares"
)

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlewares.AttachRequestMetadata)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewares.Session(handler.auth))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", handler.Login)
		r.Post("/register", handler.Register)
		r.Post("/logout", handler.Logout)
	})

	r.Get("/products", handler.ListProducts)
	r.Get("/products/{id}", handler.GetProduct)
	r.Get("/products/{id}/related", handler.RelatedProducts)
	r.Get("/categories", handler.ListCategories)
	r.Get("/payment-methods", handler.ListPaymentMethods)

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", handler.GetCart)
		r.Delete("/", handler.ClearCart)
		r.Post("/items", handler.AddCartItem)
		r.Patch("/items/{id}", handler.UpdateCartItem)
		r.Delete("/items/{id}", handler.RemoveCartItem)
	})

	r.Group(func(r chi.Router) {
		r.Use(middlewares.RequireUser(writeStatus))
		r.Post("/checkout", handler.Checkout)
		r.Get("/orders", handler.ListMyOrders)
		r.Get("/orders/{id}", handler.GetOrderByID)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(middlewares.RequireAdmin(writeStatus))
		r.Get("/orders", handler.SearchOrders)
		r.Patch("/orders/{id}/status", handler.UpdateOrderStatus)
		r.Get("/orders/{id}/saga", handler.OrderSagaLog)
		r.Get("/reports/sales", handler.SalesReport)
		r.Get("/dashboard", handler.Dashboard)
		r.Get("/products", handler.AdminProducts)
	})
	return r
}
