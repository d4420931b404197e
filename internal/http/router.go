package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// NewRouter wires every storefront route behind the shared middleware stack.
func NewRouter(c Catalog, sessions SessionStore, timeout time.Duration) http.Handler {
	validate := validator.New()

	menuHandler := NewMenuHandler(c, timeout)
	cartHandler := NewCartHandler(c, validate, timeout)
	constructorHandler := NewConstructorHandler(validate)
	authHandler := NewAuthHandler(validate)
	orderHandler := NewOrderHandler()

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/menu", func(r chi.Router) {
			r.Get("/", menuHandler.List)
			r.Get("/popular", menuHandler.Popular)
			r.Get("/featured", menuHandler.Featured)
			r.Get("/{id}", menuHandler.Get)
		})
		r.Get("/reviews", menuHandler.Reviews)
		r.Get("/promos", menuHandler.Promos)
		r.Get("/constructor/options", constructorHandler.Options)

		r.Group(func(r chi.Router) {
			r.Use(SessionMiddleware(sessions))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartHandler.Get)
				r.Post("/items", cartHandler.AddItem)
				r.Put("/items/{line_id}", cartHandler.UpdateQuantity)
				r.Delete("/items/{line_id}", cartHandler.RemoveItem)
				r.Post("/promo", cartHandler.ApplyPromo)
				r.Delete("/promo", cartHandler.ClearPromo)
				r.Put("/bonuses", cartHandler.SetBonuses)
			})

			r.Route("/constructor", func(r chi.Router) {
				r.Post("/", constructorHandler.Open)
				r.Get("/", constructorHandler.Get)
				r.Delete("/", constructorHandler.Close)
				r.Post("/ingredients/{id}/toggle", constructorHandler.Toggle)
				r.Put("/size", constructorHandler.SetSize)
				r.Put("/dough", constructorHandler.SetDough)
				r.Post("/confirm", constructorHandler.Confirm)
			})

			r.Route("/auth", func(r chi.Router) {
				r.Post("/phone", authHandler.SubmitPhone)
				r.Post("/code", authHandler.SubmitCode)
				r.Post("/name", authHandler.SubmitName)
				r.Post("/logout", authHandler.Logout)
			})
			r.Get("/profile", authHandler.Profile)

			r.Post("/checkout", orderHandler.Checkout)
			r.Route("/orders", func(r chi.Router) {
				r.Get("/", orderHandler.List)
				r.Get("/{id}", orderHandler.Get)
				r.Post("/{id}/repeat", orderHandler.Repeat)
				r.Post("/{id}/advance", orderHandler.Advance)
				r.Post("/{id}/cancel", orderHandler.Cancel)
			})
			r.Get("/notifications", orderHandler.Notifications)
		})
	})

	return otelhttp.NewHandler(r, "storefront")
}
