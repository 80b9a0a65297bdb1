package certificates

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	certificateUsecases "vechnost/internal/application/certificate/usecases"
	"vechnost/internal/infrastructure/config"
	"vechnost/internal/infrastructure/database"
	"vechnost/internal/infrastructure/repository"
	"vechnost/internal/shared/logger"
)

var (
	env   string
	count int
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "certificates",
		Short: "Generate one-time access certificates",
		Long:  `Generate a batch of unused certificate codes and print them to stdout.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().IntVarP(&count, "count", "n", 10, "Number of certificates to generate")

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

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	log := logger.NewLogger()
	certRepo := repository.NewCertificateRepository(database.Get(), log)
	uc := certificateUsecases.NewGenerateCertificatesUseCase(certRepo, log)

	result, err := uc.Execute(context.Background(), certificateUsecases.GenerateCertificatesCommand{Count: count})
	if err != nil {
		return fmt.Errorf("certificate generation failed: %w", err)
	}

	for _, code := range result.Codes {
		fmt.Println(code)
	}

	logger.Info("certificates generated", "count", len(result.Codes))
	return nil
}
