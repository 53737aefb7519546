package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sma-guardian-tools/api/swagger"
	"github.com/noah-isme/sma-guardian-tools/internal/handler"
	"github.com/noah-isme/sma-guardian-tools/internal/middleware"
	"github.com/noah-isme/sma-guardian-tools/internal/provider"
	"github.com/noah-isme/sma-guardian-tools/internal/repository"
	"github.com/noah-isme/sma-guardian-tools/internal/service"
	"github.com/noah-isme/sma-guardian-tools/pkg/cache"
	"github.com/noah-isme/sma-guardian-tools/pkg/config"
	"github.com/noah-isme/sma-guardian-tools/pkg/database"
	"github.com/noah-isme/sma-guardian-tools/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-guardian-tools/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-guardian-tools/pkg/middleware/requestid"
)

// @title Guardian Assistant Tools
// @version 1.0.0
// @description Webhook tools called by the school guardian assistant
// @BasePath /
// @schemes http https
// @securityDefinitions.apikey WebhookToken
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := service.NewMetricsService()
	checks := map[string]handler.ReadinessCheck{}

	store, closeStore := openStore(ctx, cfg, metrics, logr, checks)
	defer closeStore()

	var counter *repository.AttemptRepository
	if cfg.Redis.Enabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, attempt limiting disabled", zap.Error(err))
		} else {
			counter = repository.NewAttemptRepository(client, logr)
			defer counter.Close() //nolint:errcheck
			checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		}
	}
	var limiter *service.AttemptLimiter
	if counter != nil {
		limiter = service.NewAttemptLimiter(counter, cfg.Auth.MaxAttempts, cfg.Auth.AttemptWindow, metrics, logr)
	}

	twilio := provider.NewTwilio(cfg.Twilio, nil, metrics, logr)
	validate := validator.New()

	guardians := service.NewGuardianService(store, limiter, metrics, logr)
	lookups := service.NewLookupService(store, logr)
	absences := service.NewAbsenceService(store, validate, logr)
	counselor := service.NewCounselorService(store, validate, cfg.Counselor.RequireIdentity, logr)
	messaging := service.NewMessagingService(twilio, cfg.Twilio.Configured(), logr)
	handoff := service.NewHandoffService(twilio, service.HandoffConfig{
		ProviderReady:    cfg.Twilio.AccountSID != "" && cfg.Twilio.AuthToken != "",
		WorkflowSID:      cfg.Flex.WorkflowSID,
		WorkspaceSID:     cfg.Flex.WorkspaceSID,
		VoiceRedirectURL: cfg.Flex.VoiceRedirectURL,
		VoicePhrase:      cfg.Flex.VoiceHoldingPhrase,
		TaskChannel:      cfg.Flex.TaskChannel,
	}, logr)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	registerRoutes(r, toolHandlers{
		guardian:  handler.NewGuardianHandler(guardians, logr),
		lookup:    handler.NewLookupHandler(lookups, logr),
		mutation:  handler.NewMutationHandler(absences, counselor, logr),
		messaging: handler.NewMessagingHandler(messaging, handoff, logr),
		metrics:   handler.NewMetricsHandler(metrics, checks),
	}, cfg.Auth.JWTSecret)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "store", cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

// openStore selects the record store backend. An unconfigured store is
// returned as a nil interface so every tool answers with a configuration error.
func openStore(ctx context.Context, cfg *config.Config, metrics *service.MetricsService, logr *zap.Logger, checks map[string]handler.ReadinessCheck) (service.RecordStore, func()) {
	noop := func() {}

	switch cfg.Store.Driver {
	case config.StorePostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			logr.Error("postgres unavailable, tools will report a configuration error", zap.Error(err))
			return nil, noop
		}
		checks["store"] = func(ctx context.Context) error { return db.PingContext(ctx) }
		return service.InstrumentStore(repository.NewPostgresStore(db), metrics), func() {
			if err := db.Close(); err != nil {
				logr.Warn("closing postgres", zap.Error(err))
			}
		}
	default:
		if !cfg.Airtable.Configured() {
			logr.Warn("airtable credentials missing, tools will report a configuration error")
			return nil, noop
		}
		store, err := repository.NewAirtableStore(cfg.Airtable, nil, cfg.Store.Timeout, logr)
		if err != nil {
			logr.Error("airtable client misconfigured, tools will report a configuration error", zap.Error(err))
			return nil, noop
		}
		return service.InstrumentStore(store, metrics), noop
	}
}
