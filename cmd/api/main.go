package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/forumdash/amo-analytics-api/internal/auth"
	"github.com/forumdash/amo-analytics-api/internal/config"
	"github.com/forumdash/amo-analytics-api/internal/crm"
	"github.com/forumdash/amo-analytics-api/internal/database"
	"github.com/forumdash/amo-analytics-api/internal/domain"
	"github.com/forumdash/amo-analytics-api/internal/http/handler"
	"github.com/forumdash/amo-analytics-api/internal/http/middleware"
	"github.com/forumdash/amo-analytics-api/internal/http/router"
	"github.com/forumdash/amo-analytics-api/internal/jobs"
	"github.com/forumdash/amo-analytics-api/internal/logger"
	"github.com/forumdash/amo-analytics-api/internal/repository"
	"github.com/forumdash/amo-analytics-api/internal/service"
	"github.com/forumdash/amo-analytics-api/internal/storage"
	"go.uber.org/zap"
)

// @title amoCRM Analytics API
// @version 1.0
// @description KPI, marketing, funnel and plan analytics over amoCRM leads
// @BasePath /api

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	// In staging/production the CRM token and JWT secret may come from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log.Info("CRM account configured",
		zap.String("base_url", cfg.CRM.APIBaseURL()),
		zap.Bool("token_present", cfg.CRM.Token != ""),
	)

	// One limiter per process: every request shares the outbound budget
	limiter := crm.NewLimiter(cfg.CRM.MinRequestInterval())
	crmClient := crm.NewClient(cfg.CRM.APIBaseURL(), cfg.CRM.Token, limiter, log,
		crm.WithTimeout(cfg.CRM.TimeoutDuration()),
		crm.WithPageSize(cfg.CRM.PageSize),
		crm.WithContactBatch(cfg.CRM.ContactBatchSize, cfg.CRM.ContactBatchPause()),
	)

	planRepo, closeRepo, err := newPlanRepository(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeRepo()

	goals := domain.PipelineGoals(cfg.Rules.GoalStatuses())
	log.Info("Pipeline goals loaded", zap.Int("pipelines", len(goals)))

	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	if cfg.Auth.RequireToken && !tokens.Enabled() {
		return fmt.Errorf("auth.requireToken is set but no JWT secret is configured")
	}

	// Initialize services
	authService := service.NewAuthService(service.Credentials{
		Username:    cfg.Auth.Username,
		Password:    cfg.Auth.Password,
		DisplayName: cfg.Auth.DisplayName,
	}, tokens, log)
	kpiService := service.NewKPIService(crmClient, goals, log)
	marketingService := service.NewMarketingService(crmClient, goals, log)
	funnelService := service.NewFunnelService(crmClient, log)
	referenceService := service.NewReferenceService(crmClient, log)
	planService := service.NewPlanService(planRepo, crmClient, goals, log)

	// Initialize middleware
	authMiddleware := auth.NewMiddleware(tokens, cfg.Auth.RequireToken, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	handlers := router.Handlers{
		Auth:      handler.NewAuthHandler(authService, log),
		KPI:       handler.NewKPIHandler(kpiService, log),
		Marketing: handler.NewMarketingHandler(marketingService, log),
		Dashboard: handler.NewDashboardHandler(funnelService, log),
		Reference: handler.NewReferenceHandler(referenceService, log),
		Plan:      handler.NewPlanHandler(planService, log),
	}

	// Background CRM probe feeding /health/ready
	var scheduler *jobs.Scheduler
	var crmProbe router.ProbeReporter
	if cfg.Jobs.CRMProbeEnabled {
		scheduler = jobs.NewScheduler(log)
		probe, err := jobs.RegisterCRMProbeJob(
			scheduler,
			crmClient,
			log,
			cfg.Jobs.CRMProbeCron,
			cfg.Jobs.CRMProbeTimeoutDuration(),
			true,
		)
		if err != nil {
			log.Error("Failed to register CRM probe job", zap.Error(err))
			scheduler = nil
		} else {
			crmProbe = probe
			scheduler.Start()
		}
	} else {
		log.Info("CRM probe disabled")
	}

	rt := router.NewRouter(cfg, log, authMiddleware, rateLimiter, handlers, crmProbe, planRepo)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting",
			zap.String("addr", srv.Addr),
			zap.String("api", fmt.Sprintf("http://localhost:%d/api", cfg.App.Port)),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			<-scheduler.Stop().Done()
			log.Info("Scheduler stopped")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}

// newPlanRepository opens the configured plan backend. The returned func
// releases its resources.
func newPlanRepository(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.PlanRepository, func(), error) {
	switch cfg.Plans.Backend {
	case "database":
		db, err := database.NewDatabase(&cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if cfg.Database.AutoMigrate {
			if err := database.AutoMigrate(db); err != nil {
				return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
			}
		}
		log.Info("Plans stored in database", zap.String("driver", cfg.Database.Driver))

		closeFn := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return repository.NewGormPlanRepository(db), closeFn, nil

	default:
		store, err := storage.NewStorage(ctx, &cfg.Storage, log)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		log.Info("Plans stored in file",
			zap.String("storage_mode", cfg.Storage.Mode),
			zap.String("file", cfg.Plans.FileName),
		)
		return repository.NewFilePlanRepository(store, cfg.Plans.FileName, log), func() {}, nil
	}
}
