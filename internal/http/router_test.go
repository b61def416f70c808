package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attest/internal/document/compare"
	documenthandler "attest/internal/document/handler"
	"attest/internal/document/registry"
	"attest/internal/jwtauth"
	"attest/internal/verification"
	verificationhandler "attest/internal/verification/handler"
	"attest/internal/verification/store"
)

func newTestRouter(t *testing.T, checks map[string]HealthCheck) (http.Handler, *jwtauth.Service) {
	t.Helper()
	reg, err := registry.New()
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := verification.New(reg, compare.New(0), logger, verification.WithStore(store.NewMemory()))
	tokens := jwtauth.New("router-test-key", "attest-test")

	router := NewRouter(Deps{
		Catalog:      documenthandler.New(reg),
		Verification: verificationhandler.New(svc, logger),
		Auth:         tokens,
		Logger:       logger,
		HealthChecks: checks,
	})
	return router, tokens
}

func TestRouterPublicEndpoints(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	t.Run("catalog is public", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/registry/types", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("metrics are exposed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRouterHealth(t *testing.T) {
	t.Run("healthy with no checks", func(t *testing.T) {
		router, _ := newTestRouter(t, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("degraded dependency flips status", func(t *testing.T) {
		router, _ := newTestRouter(t, map[string]HealthCheck{
			"redis": func(context.Context) error { return errors.New("connection refused") },
		})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var resp struct {
			Status string            `json:"status"`
			Checks map[string]string `json:"checks"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "degraded", resp.Status)
		assert.Contains(t, resp.Checks["redis"], "connection refused")
	})
}

func TestRouterAuthBoundary(t *testing.T) {
	router, tokens := newTestRouter(t, nil)

	t.Run("verification requires a token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/submissions", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("a valid token passes", func(t *testing.T) {
		token, err := tokens.GenerateAccessToken("user-1", time.Minute)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/submissions", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("an expired token is rejected", func(t *testing.T) {
		token, err := tokens.GenerateAccessToken("user-1", -time.Minute)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/submissions", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
