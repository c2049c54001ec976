package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/youcode/tricol-fournisseurs/internal/application/service"
	"github.com/youcode/tricol-fournisseurs/internal/config"
	"github.com/youcode/tricol-fournisseurs/internal/infrastructure/database"
	"github.com/youcode/tricol-fournisseurs/internal/infrastructure/logging"
	"github.com/youcode/tricol-fournisseurs/internal/infrastructure/repository"
	"github.com/youcode/tricol-fournisseurs/internal/presentation/http/handler"
	"github.com/youcode/tricol-fournisseurs/internal/presentation/http/middleware"
	"github.com/youcode/tricol-fournisseurs/internal/presentation/http/routes"
	"github.com/youcode/tricol-fournisseurs/pkg/utils"
)

func main() {
	issueToken := flag.String("issue-token", "", "print a signed access token for this subject and exit")
	flag.Parse()

	// Load configuration
	cfg := config.Load()
	logging.Setup(cfg.Log)

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	if *issueToken != "" {
		token, err := jwtManager.GenerateAccessToken(*issueToken, *issueToken)
		if err != nil {
			log.WithError(err).Fatal("failed to sign token")
		}
		fmt.Println(token)
		return
	}

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Open(&cfg.Database, cfg.App.Debug)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.WithError(err).Warn("failed to close database")
		}
	}()

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.WithError(err).Fatal("failed to run migrations")
	}

	// Initialize repositories
	fournisseurRepo := repository.NewFournisseurRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	if purged, err := idempotencyRepo.DeleteExpired(context.Background()); err != nil {
		log.WithError(err).Warn("failed to purge expired idempotency keys")
	} else if purged > 0 {
		log.WithField("count", purged).Info("purged expired idempotency keys")
	}

	// Initialize services
	fournisseurService := service.NewFournisseurService(fournisseurRepo)

	// Initialize handlers
	handlers := &routes.Handlers{
		Fournisseur: handler.NewFournisseurHandler(fournisseurService),
		Health: handler.NewHealthHandler(cfg.App.Name, func(ctx context.Context) error {
			return database.Ping(ctx, db)
		}),
	}

	rateLimiter := middleware.NewClientRateLimiter(rateLimiterConfig(cfg.RateLimit))
	defer rateLimiter.Stop()

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		Cfg:             cfg,
		JWTManager:      jwtManager,
		IdempotencyRepo: idempotencyRepo,
		Metrics:         middleware.NewHTTPMetrics(),
		RateLimiter:     rateLimiter,
	})

	if err := serve(cfg, router); err != nil {
		log.WithError(err).Error("server stopped with error")
	}
}

func serve(cfg *config.Config, router *gin.Engine) error {
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(log.Fields{
			"service": cfg.App.Name,
			"port":    port,
			"env":     cfg.App.Env,
			"jwt":     cfg.JWT.Enabled,
		}).Info("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}

// rateLimiterConfig turns "N requests per D seconds" into a token bucket
func rateLimiterConfig(cfg config.RateLimitConfig) middleware.RateLimiterConfig {
	rlc := middleware.DefaultRateLimiterConfig()
	if cfg.Requests > 0 && cfg.Duration > 0 {
		rlc.RequestsPerSecond = float64(cfg.Requests) / float64(cfg.Duration)
		rlc.BurstSize = cfg.Requests
	}
	return rlc
}
