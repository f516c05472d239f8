package httpapi

import (
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"server/internal/http/handlers"
	"server/internal/infra"
	"server/internal/middleware"
)

// NewRouter wires the public HTTP surface. The creation endpoint is rate
// limited per client IP because every accepted request spends a model call.
func NewRouter(app *handlers.App, cfg *infra.Config, logger infra.Logger, lookup middleware.CountryLookup) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, chimw.RealIP, chimw.Recoverer)
	r.Use(middleware.Logger(logger))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	}
	r.Use(middleware.Locale(cfg.DefaultLocale, lookup))

	r.NotFound(app.NotFound)
	r.MethodNotAllowed(app.NotFound)

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/itineraries", func(r chi.Router) {
		r.With(middleware.RateLimit(cfg.RateLimitPerMin, time.Minute)).Post("/", app.CreateItinerary)
		r.Get("/{job_id}", app.GetItinerary)
	})

	return r
}
