package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/mahesh-atx/capro/internal/auth"
	bookshttp "github.com/mahesh-atx/capro/internal/books/http"
	"github.com/mahesh-atx/capro/internal/clients"
	"github.com/mahesh-atx/capro/internal/gst"
	"github.com/mahesh-atx/capro/internal/observability"
	"github.com/mahesh-atx/capro/internal/payroll"
	"github.com/mahesh-atx/capro/internal/recon"
	"github.com/mahesh-atx/capro/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *auth.SessionManager
	AuthHandler    *auth.Handler
	ClientsHandler *clients.Handler
	BooksHandler   *bookshttp.Handler
	GSTHandler     *gst.Handler
	PayrollHandler *payroll.Handler
	ReconHandler   *recon.Handler
	JobHandler     *jobs.Handler
	Metrics        *observability.Metrics
}

// NewRouter constructs the chi.Router for the JSON API.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)

	r.Group(func(r chi.Router) {
		r.Use(RequireUser)

		r.Route("/clients", params.ClientsHandler.MountRoutes)
		r.Route("/clients/{clientID}", func(r chi.Router) {
			params.BooksHandler.MountRoutes(r)
			r.Route("/gst", params.GSTHandler.MountRoutes)
			r.Route("/payroll", params.PayrollHandler.MountRoutes)
			r.Route("/recon", params.ReconHandler.MountRoutes)
		})
		if params.JobHandler != nil {
			r.Route("/jobs", params.JobHandler.MountRoutes)
		}
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
