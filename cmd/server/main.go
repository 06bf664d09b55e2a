package main

import (
	"context"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coolkid-chat/backend/pkg/config"
	"coolkid-chat/backend/pkg/di"
	"coolkid-chat/backend/pkg/logger"
	"coolkid-chat/backend/pkg/observability"
	"coolkid-chat/backend/pkg/router"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		stdlog.Println("No .env file found")
	}

	cfg := config.New()

	logConfig := logger.DefaultConfig()
	logConfig.Level = cfg.Logging.Level
	logConfig.JSON = cfg.Logging.Format != "text"

	log := logger.New(logConfig)
	logger.SetGlobal(log)

	log.Info("Starting server", "env", cfg.Server.Env, "storage", cfg.Storage.Driver)

	shutdownTracing, err := observability.SetupTracing("coolkid-chat-backend")
	if err != nil {
		log.Warn("Tracing disabled", "error", err.Error())
	} else {
		defer shutdownTracing()
	}

	container, err := di.New(cfg, log)
	if err != nil {
		log.LogError(err, "Failed to initialize dependency container")
		os.Exit(1)
	}
	defer container.Close()

	container.Health.Start()

	r := router.New(container)
	r.SetupRoutes()

	if schemaPath := os.Getenv("OPENAPI_SCHEMA_PATH"); schemaPath != "" {
		r.AddOpenAPIValidation(schemaPath)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r.Engine,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	go func() {
		log.Info("Server listening", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.LogError(err, "Server failed to start")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.LogError(err, "Server forced to shutdown")
	}

	log.Info("Server exited gracefully")
}
