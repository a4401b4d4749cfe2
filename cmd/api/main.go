package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/we4us/platform/pkg/common/config"
	"github.com/we4us/platform/pkg/common/database"
	"github.com/we4us/platform/pkg/common/kafka"
	"github.com/we4us/platform/pkg/common/logger"
	"github.com/we4us/platform/pkg/community"
	"github.com/we4us/platform/pkg/gateway/auth"
	"github.com/we4us/platform/pkg/gateway/middleware"
	"github.com/we4us/platform/pkg/identity"
	"github.com/we4us/platform/pkg/journal"
	"github.com/we4us/platform/pkg/matching"
	"github.com/we4us/platform/pkg/moderation"
	"github.com/we4us/platform/pkg/observability/metrics"
	"github.com/we4us/platform/pkg/onboarding"
	"github.com/we4us/platform/pkg/users"
)

func main() {
	logger.Init()
	cfg := config.Load()

	db, err := database.GetPostgres()
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to connect to postgres")
	}

	userRepo := users.NewRepository(db)
	onboardingRepo := onboarding.NewRepository(db)
	journalRepo := journal.NewRepository(db)
	communityRepo := community.NewRepository(db)
	for name, migrate := range map[string]func() error{
		"users":      userRepo.AutoMigrate,
		"onboarding": onboardingRepo.AutoMigrate,
		"journal":    journalRepo.AutoMigrate,
		"community":  communityRepo.AutoMigrate,
	} {
		if err := migrate(); err != nil {
			logger.Log.WithError(err).WithField("tables", name).Fatal("failed to migrate tables")
		}
	}

	jwtManager, err := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTTTL)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to configure jwt")
	}

	oidcAuth, err := auth.NewOIDCAuthenticator(cfg.OIDCIssuer, cfg.OIDCClientID, cfg.OIDCClientSecret)
	if err != nil {
		logger.Log.WithError(err).Warn("partner SSO not configured")
	}

	weights, err := matching.LoadWeights(cfg.MatchWeightsFile)
	if err != nil {
		logger.Log.WithError(err).Warn("using default match weights")
	}
	vectorCache := matching.NewVectorCache(database.GetRedis(), cfg.MatchVectorCacheTTL)
	directory := users.NewDirectory(userRepo)
	matchService := matching.NewService(directory, matching.NewEngine(weights), vectorCache, cfg.MatchDefaultLimit, cfg.MatchPoolBatchSize)

	profileProducer := kafka.NewProducer(cfg.ProfileEventTopic)
	activityProducer := kafka.NewProducer(cfg.ActivityTopic)
	defer profileProducer.Close()
	defer activityProducer.Close()

	userService := users.NewService(userRepo, profileProducer, matchService)
	identityService := identity.NewService(userService, jwtManager)
	onboardingService := onboarding.NewService(onboardingRepo, userService)
	journalService := journal.NewService(journalRepo)

	rules, err := moderation.LoadRules(cfg.ModerationRulesFile)
	if err != nil {
		logger.Log.WithError(err).Warn("falling back to default moderation rules")
	}
	scrubber, err := moderation.NewScrubber(rules)
	if err != nil {
		logger.Log.WithError(err).Fatal("invalid moderation rules")
	}
	communityService := community.NewService(communityRepo, userService, scrubber, activityProducer)

	router := mux.NewRouter()
	router.Use(middleware.Logging)
	router.Use(middleware.Recovery)
	router.Use(middleware.CORS)
	router.Use(middleware.RateLimit(50, 100))
	router.Use(middleware.BodyLimit(cfg.MaxRequestBody))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)
	router.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(r.Context()) != nil {
			http.Error(w, `{"status":"not ready"}`, http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ready"}`))
	}).Methods(http.MethodGet)
	router.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		metrics.WritePrometheus(w)
	}).Methods(http.MethodGet)

	identityHandler := identity.NewHandler(identityService, oidcAuth)

	api := router.PathPrefix("/api/v1").Subrouter()
	identityHandler.Register(api.PathPrefix("/auth").Subrouter())

	protected := api.NewRoute().Subrouter()
	protected.Use(middleware.Authenticate(jwtManager))
	identityHandler.RegisterProtected(protected.PathPrefix("/auth").Subrouter())
	users.NewHandler(userService).Register(protected.PathPrefix("/users").Subrouter())
	onboarding.NewHandler(onboardingService).Register(protected.PathPrefix("/onboarding").Subrouter())
	journal.NewHandler(journalService).Register(protected.PathPrefix("/journal").Subrouter())

	communityRouter := protected.PathPrefix("/community").Subrouter()
	community.NewHandler(communityService).Register(communityRouter)
	matching.NewHandler(matchService).Register(communityRouter)

	address := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Log.WithField("addr", address).Info("we4us API listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down API...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Log.WithError(err).Error("server forced to shutdown")
	}
	logger.Log.Info("API stopped")
}
