package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"callbot-management/config"
	"callbot-management/controllers"
	"callbot-management/middleware"
	"callbot-management/routes"
	"callbot-management/services"
)

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		logrus.Warn(".env not found or couldn't load it; continuing with environment variables")
	}

	if envOr("GIN_MODE", "") == "" {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	orchestratorURL := envOr("ORCHESTRATOR_BASE_URL", "http://localhost:8000")
	logrus.WithField("orchestrator", orchestratorURL).Info("orchestrator endpoint configured")

	if err := config.ConnectDatabase(); err != nil {
		logrus.Fatalf("database connect failed: %v", err)
	}
	logrus.Info("database connection established and migrations applied")

	if err := config.ConnectRedis(); err != nil {
		logrus.Fatalf("redis connect failed: %v", err)
	}
	logrus.Info("redis connection established")

	db := config.DB
	rdb := config.RDB

	// Services
	accountService := services.NewAccountService(db, rdb)
	vulnerableService := services.NewVulnerableService(db)
	questionService := services.NewQuestionService(db)
	board := services.NewStatusBoard()
	monitoringService := services.NewMonitoringService(board)
	orchestratorClient := services.NewOrchestratorClient(orchestratorURL)
	callService := services.NewCallService(db, rdb, monitoringService, orchestratorClient, vulnerableService, questionService)
	historyService := services.NewHistoryService(db)
	dashboardService := services.NewDashboardService(db)

	// Controllers
	authController := controllers.NewAuthController(accountService)
	accountController := controllers.NewAccountController(accountService)
	vulnerableController := controllers.NewVulnerableController(vulnerableService)
	questionController := controllers.NewQuestionController(questionService)
	callController := controllers.NewCallController(callService, monitoringService)
	historyController := controllers.NewHistoryController(historyService)
	dashboardController := controllers.NewDashboardController(dashboardService)

	requireAuth := middleware.RequireAuth(func(c *gin.Context, token string) bool {
		return accountService.IsBlacklisted(c.Request.Context(), token)
	})

	router := routes.SetupRouter(
		authController,
		accountController,
		vulnerableController,
		questionController,
		callController,
		historyController,
		dashboardController,
		requireAuth,
	)

	// Queue pump: drains the waiting queue one consultation per tick.
	pump := cron.New()
	pumpSpec := envOr("QUEUE_PUMP_SPEC", "@every 15s")
	if _, err := pump.AddFunc(pumpSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := callService.StartNext(ctx); err != nil {
			logrus.WithError(err).Error("queue pump tick failed")
		}
	}); err != nil {
		logrus.Fatalf("invalid QUEUE_PUMP_SPEC %q: %v", pumpSpec, err)
	}
	pump.Start()
	logrus.WithField("spec", pumpSpec).Info("queue pump started")

	addr := ":" + envOr("PORT", "8080")

	srv := &http.Server{
		Addr:    addr,
		Handler: router,
		// WriteTimeout stays 0: the SSE stream must outlive any fixed limit.
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logrus.Infof("server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logrus.Warn("shutdown signal received, shutting down server...")

	pumpCtx := pump.Stop()
	<-pumpCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Fatalf("server forced to shutdown: %v", err)
	}

	logrus.Info("server stopped gracefully")
}
