// Package httpapi assembles the HTTP surface: middleware chain, public API
// routes, admin routes, and operational endpoints.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	audithandler "auditdesk/internal/audit/handler"
	companyhandler "auditdesk/internal/company/handler"
	directoryhandler "auditdesk/internal/directory/handler"
	outboxhandler "auditdesk/internal/outbox/handler"
	"auditdesk/internal/platform/metrics"
	"auditdesk/internal/platform/middleware"
)

// Deps carries the constructed handlers and cross-cutting pieces the router
// mounts.
type Deps struct {
	Audits    *audithandler.Handler
	Directory *directoryhandler.Handler
	Companies *companyhandler.Handler
	Outbox    *outboxhandler.Handler

	Logger  *slog.Logger
	Metrics *metrics.Metrics

	// JWTValidator guards the API when set; with no signing key configured
	// the API is open, which is the development default.
	JWTValidator middleware.JWTValidator
	// AdminToken guards the admin routes. Empty disables them.
	AdminToken string
}

// NewRouter builds the full route tree.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Latency(deps.Metrics))
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(api chi.Router) {
		api.Use(middleware.ContentTypeJSON)
		if deps.JWTValidator != nil {
			api.Use(middleware.RequireAuth(deps.JWTValidator, deps.Logger))
		}
		deps.Audits.Register(api)
		deps.Directory.Register(api)
		deps.Companies.Register(api)
	})

	if deps.AdminToken != "" {
		r.Group(func(admin chi.Router) {
			admin.Use(middleware.ContentTypeJSON)
			admin.Use(middleware.AdminOnly(deps.AdminToken))
			deps.Directory.RegisterAdmin(admin)
			deps.Companies.RegisterAdmin(admin)
			deps.Outbox.RegisterAdmin(admin)
		})
	}

	return r
}
