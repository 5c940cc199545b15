package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"tguardian/monitor-api/internal/logging"
)

// NewRouter creates and returns a configured Chi router. allowedOrigins feeds
// the CORS policy; an empty list allows any origin.
func NewRouter(h *Handler, logger *slog.Logger, allowedOrigins []string) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()

	// ── Global middleware ─────────────────────────────────────────────────────
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	// ── Health check ──────────────────────────────────────────────────────────
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ok(w, map[string]string{"status": "ok", "service": "tguardian-monitor-api"})
	})

	// ── Dataset ───────────────────────────────────────────────────────────────
	r.Route("/transactions", func(r chi.Router) {
		r.Get("/", h.ListTransactions)
		r.Get("/{id}", h.GetTransaction)
	})
	r.Get("/alerts", h.ListAlerts)
	r.Route("/reviews", func(r chi.Router) {
		r.Get("/", h.ListReviews)
		r.Post("/approve", h.ApproveReview)
	})

	// ── Dashboard ─────────────────────────────────────────────────────────────
	r.Route("/dashboard", func(r chi.Router) {
		r.Get("/stats", h.GetDashboardStats)
		r.Get("/recent", h.GetRecentVerdicts)
		r.Get("/trends", h.GetTrends)
	})
	r.Get("/system/health", h.GetSystemHealth)

	// ── Actions ───────────────────────────────────────────────────────────────
	r.Post("/verdict/update", h.UpdateVerdict)
	r.Post("/llm/analyze", h.AnalyzeTransaction)

	// ── Settings ──────────────────────────────────────────────────────────────
	r.Route("/settings", func(r chi.Router) {
		r.Get("/notifications", h.GetNotificationSettings)
		r.Post("/notifications", h.UpdateNotificationSettings)
		r.Get("/detection", h.GetDetectionSettings)
		r.Post("/detection", h.UpdateDetectionSettings)
		r.Get("/data-integration", h.GetDataIntegration)
	})

	return r
}

// requestLogger emits one slog record per request and hands handlers a
// request-scoped logger carrying the request id.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			reqLogger := logger.With("request_id", middleware.GetReqID(r.Context()))

			next.ServeHTTP(ww, r.WithContext(logging.WithLogger(r.Context(), reqLogger)))

			reqLogger.Info("http",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}
