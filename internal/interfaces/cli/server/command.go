package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	productUsecases "vechnost/internal/application/product/usecases"
	"vechnost/internal/infrastructure/config"
	"vechnost/internal/infrastructure/database"
	"vechnost/internal/infrastructure/ratelimit"
	"vechnost/internal/infrastructure/repository"
	"vechnost/internal/infrastructure/scheduler"
	"vechnost/internal/infrastructure/tribute"
	httpRouter "vechnost/internal/interfaces/http"
	"vechnost/internal/shared/logger"
)

var (
	env         string
	autoMigrate bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the webhook and entitlement HTTP server with the specified configuration.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Run schema migration on startup")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("starting server", "environment", env, "auto_migrate", autoMigrate)

	gin.SetMode(mapEnvToGinMode(env))
	gin.DefaultWriter = io.Discard

	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("failed to initialize database", "error", err)
	}
	defer database.Close()

	if autoMigrate {
		if err := database.Get().AutoMigrate(repository.AutoMigrateModels()...); err != nil {
			logger.Fatal("failed to run migrations", "error", err)
		}
		logger.Info("schema migration completed")
	}

	log := logger.NewLogger()

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = ratelimit.NewRedisClient(&cfg.Redis)
		defer redisClient.Close()
	}

	router := httpRouter.NewRouter(database.Get(), redisClient, cfg, log)

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      router.Engine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var productSync *scheduler.ProductSyncScheduler
	if cfg.Tribute.APIKey != "" {
		productRepo := repository.NewProductRepository(database.Get(), log)
		gateway := tribute.NewGateway(tribute.NewClient(&cfg.Tribute, log))
		syncUC := productUsecases.NewSyncProductsUseCase(productRepo, gateway, log)
		productSync = scheduler.NewProductSyncScheduler(
			syncUC,
			time.Duration(cfg.Tribute.SyncMinutes)*time.Minute,
			log,
		)
		productSync.Start(ctx)
		defer productSync.Stop()
	} else {
		logger.Info("tribute API key not configured, product sync disabled")
	}

	go func() {
		logger.Info("server listening", "address", cfg.Server.GetAddr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return err
	}

	logger.Info("server stopped")
	return nil
}

func mapEnvToGinMode(env string) string {
	switch env {
	case "production":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}
