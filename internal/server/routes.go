package server

import (
	"context"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/regosbridge/regosbridge/internal/errors"
	"github.com/regosbridge/regosbridge/internal/observability"
	"github.com/regosbridge/regosbridge/internal/server/handlers"
)

// registerRoutes registers all HTTP routes
func (s *Server) registerRoutes() {
	health := handlers.NewHealthManager(s.deps.Version.Version)
	health.RegisterChecker("telemetry", handlers.HealthCheckerFunc(func(ctx context.Context) error {
		if observability.TelemetrySystem == nil || observability.PrometheusExporter == nil {
			return apperrors.NewInternalError("telemetry system not initialized")
		}
		return nil
	}))
	if s.deps.Store != nil {
		db := s.deps.Store.DB
		health.RegisterChecker("store", handlers.HealthCheckerFunc(func(ctx context.Context) error {
			return db.PingContext(ctx)
		}))
	}

	s.router.Get("/health", health.HealthHandler)
	s.router.Get("/health/live", health.LivenessHandler)
	s.router.Get("/health/ready", health.ReadinessHandler)

	s.router.Get("/version", handlers.VersionHandler(s.deps.Version))

	// Metrics endpoint (in server package to access HandleError)
	s.router.Get("/metrics", MetricsHandler)

	reportHandlers := &handlers.ReportHandlers{
		Reports:    s.deps.Reports,
		Translator: s.deps.Translator,
		Store:      s.deps.Store,
		Credential: s.deps.Credential,
		Lang:       s.deps.Lang,
	}
	requestLog := &handlers.RequestLogHandlers{Store: s.deps.Store}

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/reports/partner-balance", reportHandlers.PartnerBalance)
		r.Post("/reports/stock-operations", reportHandlers.StockOperations)
		r.Get("/requests", requestLog.List)
	})
}
