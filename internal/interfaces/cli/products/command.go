package products

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	productUsecases "vechnost/internal/application/product/usecases"
	"vechnost/internal/infrastructure/config"
	"vechnost/internal/infrastructure/database"
	"vechnost/internal/infrastructure/repository"
	"vechnost/internal/infrastructure/tribute"
	"vechnost/internal/shared/logger"
)

var env string

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Sync the product catalog from the provider",
		Long:  `Fetch the product catalog from the Tribute API and mirror it into local storage.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

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

	if cfg.Tribute.APIKey == "" {
		return fmt.Errorf("tribute API key is not configured")
	}

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	log := logger.NewLogger()
	productRepo := repository.NewProductRepository(database.Get(), log)
	gateway := tribute.NewGateway(tribute.NewClient(&cfg.Tribute, log))
	uc := productUsecases.NewSyncProductsUseCase(productRepo, gateway, log)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	result, err := uc.Execute(ctx)
	if err != nil {
		return fmt.Errorf("product sync failed: %w", err)
	}

	logger.Info("product sync completed", "synced", result.Synced)
	return nil
}
