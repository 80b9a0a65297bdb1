package main

import (
	"os"

	"github.com/spf13/cobra"

	"vechnost/internal/interfaces/cli/certificates"
	"vechnost/internal/interfaces/cli/migrate"
	"vechnost/internal/interfaces/cli/products"
	"vechnost/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "vechnost",
		Short: "Vechnost - payment webhook and entitlement service",
		Long:  `Vechnost processes Tribute payment webhooks, redeems access certificates, and resolves user entitlements.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		certificates.NewCommand(),
		products.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
