package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Abhay69095/Buildmart/internal/http/handlers"
	"github.com/Abhay69095/Buildmart/internal/http/middleware"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger   *slog.Logger
	Timeout  time.Duration
	BasePath string // например, "/api"; если пустой — роуты регистрируются на корне.
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(h *handlers.Handlers, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),            // безопасно ловим паники
		middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout)) // общий дедлайн запроса
	}

	// Регистрация маршрутов.
	if opts.BasePath != "" {
		sub := chi.NewRouter()
		registerRoutes(sub, h)
		root.Mount(opts.BasePath, sub)
		return root
	}

	registerRoutes(root, h)
	return root
}

// registerRoutes — единая точка регистрации всех REST-эндпойнтов.
// Три группы: публичные, аутентифицированные и административные.
func registerRoutes(r chi.Router, h *handlers.Handlers) {
	// Публичные.
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/refresh-token", h.Refresh)
	r.Post("/contact", h.SubmitContact)
	r.Get("/products", h.ListProducts)
	r.Get("/products/{id}", h.ProductByID)

	// Любой аутентифицированный пользователь.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(h.Service))

		r.Post("/logout", h.Logout)
		r.Post("/orders", h.CreateOrder)
	})

	// Только admin.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(h.Service), middleware.RequireAdmin())

		r.Post("/products", h.CreateProduct)
		r.Put("/products/{id}", h.UpdateProduct)
		r.Delete("/products/{id}", h.DeleteProduct)

		r.Get("/orders", h.ListOrders)

		r.Get("/users", h.ListUsers)
		r.Post("/users/promote", h.PromoteUser)

		r.Get("/contacts", h.ListContacts)
		r.Put("/contacts/{id}/status", h.UpdateContactStatus)
		r.Delete("/contacts/{id}", h.DeleteContact)

		r.Get("/activities", h.ListActivities)
		r.Get("/dashboard-stats", h.DashboardStats)
		r.Get("/verify-admin", h.VerifyAdmin)
	})
}
