package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/arjunkedar/mandisathi-backend/api/routes"
	"github.com/arjunkedar/mandisathi-backend/internal/auth"
	"github.com/arjunkedar/mandisathi-backend/internal/groupbuys"
	"github.com/arjunkedar/mandisathi-backend/internal/predictions"
	"github.com/arjunkedar/mandisathi-backend/internal/profiles"
	"github.com/arjunkedar/mandisathi-backend/internal/rescue"
	"github.com/arjunkedar/mandisathi-backend/internal/reviews"
	"github.com/arjunkedar/mandisathi-backend/internal/users"
	"github.com/arjunkedar/mandisathi-backend/pkg/auth/session"
	"github.com/arjunkedar/mandisathi-backend/pkg/config"
	"github.com/arjunkedar/mandisathi-backend/pkg/db"
	"github.com/arjunkedar/mandisathi-backend/pkg/logger"
	"github.com/arjunkedar/mandisathi-backend/pkg/metrics"
	"github.com/arjunkedar/mandisathi-backend/pkg/migrate"
	"github.com/arjunkedar/mandisathi-backend/pkg/openai"
	"github.com/arjunkedar/mandisathi-backend/pkg/outbox"
	"github.com/arjunkedar/mandisathi-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	userRepo := users.NewRepository(dbClient.DB())
	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	profileService, err := profiles.NewService(profiles.NewRepository(dbClient.DB()), userRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create profile service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		DB:             dbClient,
		UserRepo:       userRepo,
		Profiles:       profileService,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	groupBuyService, err := groupbuys.NewService(groupbuys.NewRepository(dbClient.DB()), dbClient, outboxService, profileService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create group buy service", err)
		os.Exit(1)
	}

	rescueService, err := rescue.NewService(rescue.NewRepository(dbClient.DB()), dbClient, outboxService, profileService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create rescue service", err)
		os.Exit(1)
	}

	reviewService, err := reviews.NewService(reviews.NewRepository(dbClient.DB()), dbClient, profileService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create review service", err)
		os.Exit(1)
	}

	var aiProvider predictions.Provider
	if cfg.OpenAI.APIKey != "" {
		openaiClient, err := openai.NewClient(cfg.OpenAI.APIKey,
			openai.WithModel(cfg.OpenAI.Model),
			openai.WithHTTPClient(&http.Client{Timeout: cfg.OpenAI.Timeout}),
		)
		if err != nil {
			logg.Error(context.Background(), "failed to create openai client", err)
			os.Exit(1)
		}
		aiProvider, err = predictions.NewAIProvider(openaiClient)
		if err != nil {
			logg.Error(context.Background(), "failed to create ai provider", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "openai key not configured, predictions use the deterministic fallback")
	}

	predictionService, err := predictions.NewService(predictions.NewRepository(dbClient.DB()), dbClient, outboxService, profileService, aiProvider, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create prediction service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:            cfg,
			Logger:            logg,
			DB:                dbClient,
			Redis:             redisClient,
			Sessions:          sessionManager,
			HTTPMetrics:       httpMetrics,
			AuthService:       authService,
			UserRepo:          userRepo,
			ProfileService:    profileService,
			GroupBuyService:   groupBuyService,
			RescueService:     rescueService,
			ReviewService:     reviewService,
			PredictionService: predictionService,
		}),
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	errs := make(chan error, 1)
	go func() {
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-shutdown:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
