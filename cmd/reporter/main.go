package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/samber/do"
	"github.com/serroba/shorturl-conformance/internal/container"
	"github.com/serroba/shorturl-conformance/internal/messaging"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	opts := &container.Options{
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		LogFormat:     getEnv("LOG_FORMAT", "console"),
		ConsumerGroup: getEnv("CONSUMER_GROUP", "conformance-reporter"),
	}
	healthAddr := getEnv("HEALTH_ADDR", ":8081")

	injector := do.New()
	do.ProvideValue(injector, opts)
	container.LoggerPackage(injector)
	container.RedisPackage(injector)
	container.PostgresPackage(injector)
	container.BusPackage(injector)
	container.StorePackage(injector)
	container.ConsumersPackage(injector)
	container.HTTPPackage(injector)

	logger := do.MustInvoke[*zap.Logger](injector)
	group := do.MustInvoke[*messaging.ConsumerGroup](injector)

	ctx, cancel := context.WithCancel(context.Background())

	if err := group.Start(ctx); err != nil {
		logger.Fatal("failed to start consumer group", zap.Error(err))
	}

	// Invoke API to trigger route registration
	_ = do.MustInvoke[huma.API](injector)

	server := &http.Server{
		Addr:              healthAddr,
		Handler:           do.MustInvoke[*chi.Mux](injector),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("health endpoint starting", zap.String("addr", healthAddr))

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("health endpoint failed", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("health endpoint shutdown error", zap.Error(err))
	}

	if err := injector.Shutdown(); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}

	logger.Info("shutdown complete")
	_ = logger.Sync()
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return defaultValue
}

