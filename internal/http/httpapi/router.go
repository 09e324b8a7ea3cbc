package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cineze/internal/http/handlers"
	"cineze/internal/infra"
	"cineze/internal/middleware"
)

// Options configures the router. StatusRateLimit is the number of status
// polls allowed per minute for each client IP.
type Options struct {
	JWTSecret          string
	CORSAllowedOrigins []string
	StatusRateLimit    int
	Gatherer           prometheus.Gatherer
	Logger             infra.Logger
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(opts.Logger),
		middleware.CORS(opts.CORSAllowedOrigins),
	)

	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/readyz", app.Ready)
	r.Get("/v1/openapi.json", app.OpenAPIJSON)
	r.Get("/v1/docs", app.OpenAPIDocs)
	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/v1/diagnostics", func(r chi.Router) {
		r.Use(middleware.AuthJWT(opts.JWTSecret))
		r.Post("/", app.DiagnosticsGenerate)
		r.With(middleware.RateLimit(opts.StatusRateLimit, time.Minute)).Get("/{id}", app.DiagnosticStatus)
	})

	return r
}
