package httpapi

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"server/internal/http/handlers"
	"server/internal/infra"
	"server/internal/middleware"
)

// NewRouter wires the middleware chain and the REST surface.
func NewRouter(app *handlers.App, logger infra.Logger, cfg *infra.Config, lookup middleware.CountryLookup) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Locale(cfg.DefaultLocale, lookup))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(chimiddleware.Recoverer)

	r.Get("/", app.Root)
	r.Get("/health", app.Health)

	r.Post("/generate", app.GenerateVideo)
	r.Post("/retrieve", app.RetrieveVideo)

	r.Route("/requests", func(r chi.Router) {
		r.Get("/", app.ListRequests)
		r.Get("/{request_id}", app.GetRequest)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
