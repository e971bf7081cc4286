package router

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/forumdash/amo-analytics-api/internal/auth"
	"github.com/forumdash/amo-analytics-api/internal/config"
	"github.com/forumdash/amo-analytics-api/internal/http/handler"
	"github.com/forumdash/amo-analytics-api/internal/http/middleware"
	"github.com/forumdash/amo-analytics-api/internal/jobs"
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	_ "github.com/forumdash/amo-analytics-api/docs"
)

// ProbeReporter exposes the last result of the background CRM probe
type ProbeReporter interface {
	Last() (jobs.ProbeResult, bool)
}

// Pinger checks a dependency on demand
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers groups the HTTP handlers mounted under /api
type Handlers struct {
	Auth      *handler.AuthHandler
	KPI       *handler.KPIHandler
	Marketing *handler.MarketingHandler
	Dashboard *handler.DashboardHandler
	Reference *handler.ReferenceHandler
	Plan      *handler.PlanHandler
}

type Router struct {
	cfg            *config.Config
	logger         *zap.Logger
	authMiddleware *auth.Middleware
	rateLimiter    *middleware.RateLimiter
	handlers       Handlers
	crmProbe       ProbeReporter
	planStore      Pinger
}

// NewRouter wires the routes. crmProbe may be nil when the probe job is disabled.
func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	handlers Handlers,
	crmProbe ProbeReporter,
	planStore Pinger,
) *Router {
	return &Router{
		cfg:            cfg,
		logger:         logger,
		authMiddleware: authMiddleware,
		rateLimiter:    rateLimiter,
		handlers:       handlers,
		crmProbe:       crmProbe,
		planStore:      planStore,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("Backend is running"))
	})

	// Liveness probe
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Get("/health/ready", rt.ready)

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", rt.handlers.Auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)

			r.Get("/kpi/leads", rt.handlers.KPI.Leads)
			r.Get("/marketing/analytics", rt.handlers.Marketing.Analytics)
			r.Get("/dashboard/funnel", rt.handlers.Dashboard.Funnel)
			r.Get("/pipelines", rt.handlers.Reference.Pipelines)
			r.Get("/managers", rt.handlers.Reference.Managers)

			r.Route("/plan", func(r chi.Router) {
				r.Post("/save", rt.handlers.Plan.Save)
				r.Get("/status", rt.handlers.Plan.Status)
				r.Delete("/delete", rt.handlers.Plan.Delete)
			})
		})
	})

	return r
}

// ready reports the plan storage and the last CRM probe. A probe that has not
// run yet does not fail the check.
func (rt *Router) ready(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]interface{})
	allHealthy := true

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := rt.planStore.Ping(ctx); err != nil {
		rt.logger.Error("plan storage health check failed", zap.Error(err))
		checks["plans"] = map[string]interface{}{
			"status": "unhealthy",
			"error":  err.Error(),
		}
		allHealthy = false
	} else {
		checks["plans"] = map[string]interface{}{"status": "healthy"}
	}

	switch {
	case rt.crmProbe == nil:
		checks["crm"] = map[string]interface{}{"status": "disabled"}
	default:
		res, ok := rt.crmProbe.Last()
		switch {
		case !ok:
			checks["crm"] = map[string]interface{}{"status": "pending"}
		case res.Healthy:
			checks["crm"] = map[string]interface{}{"status": "healthy", "last": res}
		default:
			checks["crm"] = map[string]interface{}{"status": "unhealthy", "last": res}
			allHealthy = false
		}
	}

	status, code := "healthy", http.StatusOK
	if !allHealthy {
		status, code = "unhealthy", http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status": status,
		"checks": checks,
	})
}
