// Command server runs the attest verification service: the HTTP API over
// the document field cross-check engine.
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"attest/internal/audit"
	"attest/internal/document/compare"
	documenthandler "attest/internal/document/handler"
	"attest/internal/document/registry"
	"attest/internal/extraction"
	"attest/internal/facematch"
	httpapi "attest/internal/http"
	"attest/internal/jwtauth"
	"attest/internal/platform/config"
	"attest/internal/platform/httpserver"
	"attest/internal/platform/logger"
	platformredis "attest/internal/platform/redis"
	"attest/internal/verification"
	verificationhandler "attest/internal/verification/handler"
	"attest/internal/verification/metrics"
	"attest/internal/verification/store"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	reg, err := registry.New()
	if err != nil {
		log.Error("invalid document catalog", "error", err)
		os.Exit(1)
	}
	comparator := compare.New(cfg.FuzzyThreshold)

	// Optional dependencies degrade gracefully: without Redis extraction
	// results are uncached, without Postgres records live in memory.
	healthChecks := map[string]httpapi.HealthCheck{}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		healthChecks["redis"] = redisClient.Health
		log.Info("extraction cache enabled", "ttl", cfg.Redis.CacheTTL)
	}

	var submissions verification.Store = store.NewMemory()
	if cfg.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			log.Error("postgres open failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.PingContext(context.Background()); err != nil {
			log.Error("postgres ping failed", "error", err)
			os.Exit(1)
		}
		healthChecks["postgres"] = db.PingContext
		submissions = store.NewPostgres(db)
	} else {
		log.Warn("no postgres DSN configured, submissions are not durable")
	}

	var extractor extraction.Extractor = extraction.NewClient(cfg.Extraction)
	if redisClient != nil {
		extractor = extraction.NewCached(extractor, redisClient.Client, cfg.Redis.CacheTTL, log)
	}
	faces := facematch.NewClient(cfg.FaceMatch)

	policy := verification.MissingFails
	if !cfg.StrictMissing {
		policy = verification.MissingExcluded
	}

	svc := verification.New(reg, comparator, log,
		verification.WithMissingPolicy(policy),
		verification.WithEvidence(extractor, faces),
		verification.WithStore(submissions),
		verification.WithAudit(audit.NewPublisher(audit.NewInMemoryStore())),
		verification.WithMetrics(metrics.New()),
	)

	router := httpapi.NewRouter(httpapi.Deps{
		Catalog:      documenthandler.New(reg),
		Verification: verificationhandler.New(svc, log),
		Auth:         jwtauth.New(cfg.JWTSigningKey, cfg.JWTIssuer),
		Logger:       log,
		HealthChecks: healthChecks,
	})

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("starting attest", "addr", cfg.Addr, "document_types", len(reg.Types()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
