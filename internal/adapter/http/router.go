package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/campusnest/accommodation-service/internal/auth"
	"github.com/campusnest/accommodation-service/internal/platform/logger"
	"github.com/campusnest/accommodation-service/internal/platform/metrics"
	"github.com/campusnest/accommodation-service/internal/usecase"
)

// RouterDeps carries everything the HTTP router needs. UploadDir is the disk
// store root; when empty the static file route is not mounted (the s3 driver
// serves files itself).
type RouterDeps struct {
	Users          *usecase.UserUsecase
	Accommodations *usecase.AccommodationUsecase
	Tokens         *auth.TokenManager
	Metrics        *metrics.MetricsManager
	UploadDir      string
	Logger         *logger.Logger
}

// NewRouter builds the service's HTTP routing tree. Reads are public; listing
// creation and deletion require a valid token.
func NewRouter(deps RouterDeps) http.Handler {
	authHandler := NewAuthHandler(deps.Users, deps.Logger)
	accHandler := NewAccommodationHandler(deps.Accommodations, deps.Logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(Metrics(deps.Metrics))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
		})

		r.Route("/accommodations", func(r chi.Router) {
			r.Get("/", accHandler.GetAll)
			r.Get("/{id}", accHandler.GetByID)
			r.Get("/broker/{brokerId}", accHandler.GetByBroker)

			r.Group(func(r chi.Router) {
				r.Use(JWTAuth(deps.Tokens, deps.Logger))
				r.Post("/", accHandler.Create)
				r.Delete("/{id}", accHandler.Delete)
			})
		})

		if deps.UploadDir != "" {
			fileHandler := NewFileHandler(deps.UploadDir, deps.Logger)
			r.Get("/files/images/{fileName}", fileHandler.Serve)
		}
	})

	return r
}
