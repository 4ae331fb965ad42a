package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/elvis1056/fivepapa-backend/api/controllers"
	"github.com/elvis1056/fivepapa-backend/api/middleware"
	"github.com/elvis1056/fivepapa-backend/internal/auth"
	"github.com/elvis1056/fivepapa-backend/internal/cart"
	"github.com/elvis1056/fivepapa-backend/internal/categories"
	"github.com/elvis1056/fivepapa-backend/internal/products"
	"github.com/elvis1056/fivepapa-backend/internal/users"
	"github.com/elvis1056/fivepapa-backend/pkg/config"
	"github.com/elvis1056/fivepapa-backend/pkg/logger"
	"github.com/elvis1056/fivepapa-backend/pkg/metrics"
	"github.com/elvis1056/fivepapa-backend/pkg/redis"
)

// NewRouter assembles the HTTP surface: recovery, request IDs, logging,
// metrics, CORS, CSRF, principal extraction and route authorization run
// in that order ahead of every handler. A nil limiter disables auth
// throttling; a nil httpMetrics disables the /metrics endpoint.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	httpMetrics *metrics.HTTPMetrics,
	limiter redis.Counter,
	authService auth.Service,
	userService users.Service,
	categoryService categories.Service,
	productService products.Service,
	cartService cart.Service,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)
	if httpMetrics != nil {
		r.Use(middleware.Metrics(httpMetrics))
	}
	r.Use(
		middleware.CORS(),
		middleware.CSRF(logg),
		middleware.PrincipalExtractor(cfg.JWT, logg),
		middleware.Authorize(middleware.DefaultRules(), logg),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRate.LoginWindow,
		cfg.AuthRate.LoginIPLimit,
		cfg.AuthRate.LoginUserLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRate.RegisterWindow,
		cfg.AuthRate.RegisterIPLimit,
		cfg.AuthRate.RegisterUserLimit,
	)

	r.Get("/", controllers.Banner(cfg))
	r.Get("/health", controllers.Health())
	if httpMetrics != nil {
		r.Method(http.MethodGet, "/metrics", httpMetrics.Handler())
	}
	r.Get("/api/csrf", controllers.CSRFToken(cfg))

	r.Route("/api/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, limiter, logg)).
			Post("/register", controllers.AuthRegister(authService, cfg, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, limiter, logg)).
			Post("/login", controllers.AuthLogin(authService, cfg, logg))
		r.Post("/refresh", controllers.AuthRefresh(authService, cfg, logg))
		r.Post("/logout", controllers.AuthLogout(cfg, logg))
	})

	r.Route("/api/categories", func(r chi.Router) {
		r.Get("/", controllers.CategoryList(categoryService, logg))
		r.Get("/top-level", controllers.CategoryListTopLevel(categoryService, logg))
		r.Get("/{id}", controllers.CategoryGet(categoryService, logg))
		r.Get("/{parentId}/children", controllers.CategoryChildren(categoryService, logg))
		r.Post("/", controllers.CategoryCreate(categoryService, logg))
		r.Put("/{id}", controllers.CategoryUpdate(categoryService, logg))
		r.Delete("/{id}", controllers.CategoryDelete(categoryService, logg))
	})

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(productService, logg))
		r.Get("/{id}", controllers.ProductGet(productService, logg))
		r.Post("/", controllers.ProductCreate(productService, logg))
		r.Put("/{id}", controllers.ProductUpdate(productService, logg))
		r.Delete("/{id}", controllers.ProductDelete(productService, logg))
	})

	r.Route("/api/cart", func(r chi.Router) {
		r.Get("/", controllers.CartGet(cartService, logg))
		r.Post("/items", controllers.CartAddItem(cartService, logg))
		r.Put("/items/{id}", controllers.CartUpdateItem(cartService, logg))
		r.Delete("/items/{id}", controllers.CartRemoveItem(cartService, logg))
		r.Delete("/", controllers.CartClear(cartService, logg))
	})

	r.Route("/api/users", func(r chi.Router) {
		r.Get("/", controllers.UserList(userService, logg))
		r.Get("/enabled", controllers.UserListEnabled(userService, logg))
		r.Get("/{id}", controllers.UserGet(userService, logg))
		r.Patch("/{id}/status", controllers.UserUpdateStatus(userService, logg))
		r.Delete("/{id}", controllers.UserDelete(userService, logg))
	})

	return r
}
