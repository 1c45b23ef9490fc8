package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mvalverde/imageflow-backend/api/controllers"
	"github.com/mvalverde/imageflow-backend/api/middleware"
	"github.com/mvalverde/imageflow-backend/internal/images"
	"github.com/mvalverde/imageflow-backend/internal/users"
	"github.com/mvalverde/imageflow-backend/pkg/config"
	"github.com/mvalverde/imageflow-backend/pkg/db"
	"github.com/mvalverde/imageflow-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	registry *prometheus.Registry,
	userService users.Service,
	imageService images.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	maxUploadBytes := int64(cfg.Storage.MaxUploadMB) << 20

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	// Uploaded blobs are public by the stored path convention.
	fileServer := http.StripPrefix(cfg.Storage.PublicPrefix+"/", http.FileServer(http.Dir(cfg.Storage.Dir)))
	r.Method(http.MethodGet, cfg.Storage.PublicPrefix+"/*", fileServer)

	r.Route("/api/users", func(r chi.Router) {
		r.Post("/register", controllers.UserRegister(userService, logg))
		r.Post("/login", controllers.UserLogin(userService, logg))

		r.Get("/", controllers.UserList(userService, logg))
		r.Post("/", controllers.UserCreate(userService, logg))
		r.Get("/{id}", controllers.UserGet(userService, logg))
		r.Put("/{id}", controllers.UserUpdate(userService, logg))
		r.Delete("/{id}", controllers.UserDelete(userService, logg))
	})

	r.Route("/api/images", func(r chi.Router) {
		r.Use(middleware.Auth(logg))

		r.Get("/", controllers.ImageList(imageService, logg))
		r.Get("/user/{userId}", controllers.ImageListForUser(imageService, logg))
		r.Post("/", controllers.ImageCreate(imageService, logg))
		r.Post("/pending", controllers.ImageCreatePending(imageService, maxUploadBytes, logg))
		r.Post("/upload", controllers.ImageUploadProcessed(imageService, maxUploadBytes, logg))
		r.Post("/set-error", controllers.ImageSetError(imageService, logg))
		r.Get("/{id}", controllers.ImageGet(imageService, logg))
		r.Put("/{id}", controllers.ImageUpdate(imageService, logg))
		r.Delete("/{id}", controllers.ImageDelete(imageService, logg))
	})

	return r
}
