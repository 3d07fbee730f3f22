package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"levi/config"
	"levi/database"
	"levi/database/repository"
	"levi/handlers"
	"levi/middleware"
	"levi/routes"
	"levi/utils"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	shutdownTracing := utils.SetupTracing(ctx, "levi")

	// Storage: MongoDB when DATABASE_URL is set, otherwise an in-memory store.
	var store repository.Store
	if config.AppConfig.DatabaseURL != "" {
		db, err := database.InitDB(ctx)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to connect to database: %v", err)
		}
		mongoStore, err := repository.NewMongoStore(db)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to prepare database: %v", err)
		}
		store = mongoStore
	} else {
		logger.Sugar().Info("main: DATABASE_URL not set, using in-memory store")
		store = repository.NewMemoryStore()
	}
	if err := repository.Seed(ctx, store, logger); err != nil {
		logger.Sugar().Fatalf("main: failed to seed store: %v", err)
	}

	redisClient, err := utils.NewSessionCacheClient()
	if err != nil {
		logger.Sugar().Warnf("main: session cache unavailable: %v", err)
	}
	utils.StartHealthMonitor(ctx, time.Minute, redisClient, database.MongoClient)

	if err := os.MkdirAll(config.AppConfig.MediaDir, 0o755); err != nil {
		logger.Sugar().Fatalf("main: failed to create media dir: %v", err)
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	handlerBundle := handlers.NewHandlerBundle(
		store,
		[]byte(config.AppConfig.JWTSecret),
		config.AppConfig.TokenTTL,
		config.AppConfig.MediaDir,
	)
	routes.RegisterRoutes(router, handlerBundle)

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8000"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: otelhttp.NewHandler(router, "levi"),
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Sugar().Warnf("main: failed to flush traces: %v", err)
	}
	if err := database.CloseDB(shutdownCtx); err != nil {
		logger.Sugar().Warnf("main: failed to close database: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
