// Package main boots the eventhub API server.
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

	"github.com/gin-gonic/gin"

	"github.com/eventhub/eventhub/config"
	"github.com/eventhub/eventhub/data"
	"github.com/eventhub/eventhub/handler"
	"github.com/eventhub/eventhub/logging/logger"
	"github.com/eventhub/eventhub/middleware"
	securityjwt "github.com/eventhub/eventhub/security/jwt"
	"github.com/eventhub/eventhub/service"
	"github.com/eventhub/eventhub/version"
)

// App represents the main application.
type App struct {
	config       *config.Config
	logger       *logger.Logger
	data         *data.Data
	tokenManager *securityjwt.TokenManager
	handler      *handler.Handler
	server       *http.Server
}

// NewApp creates a new application instance with manual dependency injection.
func NewApp() (*App, func(), error) {
	// Load configuration
	cfg, err := config.Init()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Create logger
	cleanup1, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	log := logger.StdLogger()
	log.SetVersion(version.Version)

	// Create data layer
	dataLayer, err := data.New(cfg.Data.MongoDB, log)
	if err != nil {
		cleanup1()
		return nil, nil, fmt.Errorf("failed to create data layer: %w", err)
	}

	// Token service
	tokenManager := securityjwt.NewTokenManager(
		cfg.Auth.JWT.Secret,
		time.Duration(cfg.Auth.JWT.Expire)*time.Second,
	)

	// Service and handler layers
	svc := service.NewService(dataLayer, tokenManager, log)
	h := handler.NewHandler(svc, log)

	app := &App{
		config:       cfg,
		logger:       log,
		data:         dataLayer,
		tokenManager: tokenManager,
		handler:      h,
	}

	cleanup := func() {
		if err := dataLayer.Close(); err != nil {
			log.Error(context.Background(), "failed to close data layer", "error", err)
		}
		cleanup1()
	}

	return app, cleanup, nil
}

// Run starts the application server.
func (a *App) Run() error {
	if a.config.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Setup router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(a.logger))

	// Register routes
	a.handler.RegisterRoutes(router, a.tokenManager, a.logger)

	// Configure server
	addr := fmt.Sprintf("%s:%d", a.config.Host, a.config.Port)
	a.server = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		a.logger.Info(context.Background(), "Starting server", "addr", addr, "version", version.Get().String())
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error(context.Background(), "Server failed", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	a.logger.Info(context.Background(), "Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error(ctx, "Server forced to shutdown", "error", err)
		return err
	}

	a.logger.Info(context.Background(), "Server exited")
	return nil
}

func main() {
	app, cleanup, err := NewApp()
	if err != nil {
		fmt.Printf("Failed to initialize app: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	if err := app.Run(); err != nil {
		fmt.Printf("Failed to run app: %v\n", err)
		os.Exit(1)
	}
}
