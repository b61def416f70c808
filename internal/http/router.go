// Package httpapi assembles the HTTP surface: public catalog and health
// endpoints, and bearer-authenticated verification endpoints. Handlers stay
// thin; business logic lives in the services they delegate to.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	documenthandler "attest/internal/document/handler"
	"attest/internal/platform/middleware"
	verificationhandler "attest/internal/verification/handler"
	"attest/pkg/platform/httputil"
)

// HealthCheck probes one dependency; a nil error means healthy.
type HealthCheck func(ctx context.Context) error

// Deps carries everything the router mounts.
type Deps struct {
	Catalog      *documenthandler.Handler
	Verification *verificationhandler.Handler
	Auth         middleware.TokenValidator
	Logger       *slog.Logger
	// HealthChecks maps dependency name to its probe. Optional.
	HealthChecks map[string]HealthCheck
}

// NewRouter wires all endpoints with the shared middleware chain.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.ClientMetadata)

	r.Get("/healthz", handleHealth(deps.HealthChecks))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	deps.Catalog.Register(r)

	r.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth(deps.Auth, deps.Logger))
		deps.Verification.Register(protected)
	})

	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// handleHealth reports overall readiness. A degraded dependency flips the
// status but still returns the per-check detail for operators.
func handleHealth(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{Status: "ok"}
		status := http.StatusOK

		if len(checks) > 0 {
			resp.Checks = make(map[string]string, len(checks))
			for name, check := range checks {
				if err := check(r.Context()); err != nil {
					resp.Checks[name] = err.Error()
					resp.Status = "degraded"
					status = http.StatusServiceUnavailable
					continue
				}
				resp.Checks[name] = "ok"
			}
		}

		httputil.WriteJSON(w, status, resp)
	}
}
