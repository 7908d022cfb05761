package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/prensprays-byte/library-inventory-system/api/controllers"
	"github.com/prensprays-byte/library-inventory-system/api/middleware"
	"github.com/prensprays-byte/library-inventory-system/internal/accounts"
	"github.com/prensprays-byte/library-inventory-system/internal/books"
	"github.com/prensprays-byte/library-inventory-system/internal/store"
	"github.com/prensprays-byte/library-inventory-system/pkg/config"
	"github.com/prensprays-byte/library-inventory-system/pkg/logger"
	"github.com/prensprays-byte/library-inventory-system/pkg/metrics"
)

// NewRouter assembles the full HTTP surface.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	registry *prometheus.Registry,
	httpMetrics *metrics.HTTPMetrics,
	accountsService accounts.Service,
	booksService books.Service,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.CORS),
		middleware.ContentSecurityPolicy(cfg.CORS.CSPConnectSrc),
	)

	auth := middleware.Auth(cfg.JWT, logg)

	if cfg.App.EnableMetrics && registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Get("/api/health", controllers.Health())

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", controllers.AuthRegister(accountsService, logg))
		r.Post("/login", controllers.AuthLogin(accountsService, logg))
		r.With(auth).Get("/me", controllers.AuthMe(accountsService, logg))
	})

	r.Route("/api/books", func(r chi.Router) {
		r.Use(auth, middleware.RequireRole(string(store.RoleAdmin), logg))
		r.Get("/", controllers.AdminListBooks(booksService, logg))
		r.Post("/", controllers.AdminCreateBook(booksService, logg))
		r.Get("/{id}", controllers.AdminGetBook(booksService, logg))
		r.Put("/{id}", controllers.AdminUpdateBook(booksService, logg))
		r.Delete("/{id}", controllers.AdminDeleteBook(booksService, logg))
	})

	r.Route("/api/public/books", func(r chi.Router) {
		r.Get("/", controllers.PublicListBooks(booksService, logg))
		r.Get("/{id}", controllers.PublicGetBook(booksService, logg))
		r.With(auth).Post("/{id}/purchase", controllers.PurchaseBook(booksService, logg))
	})

	return r
}
