package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/coachly/coachly/internal/interfaces/cli/migrate"
	"github.com/coachly/coachly/internal/interfaces/cli/reconcile"
	"github.com/coachly/coachly/internal/interfaces/cli/roles"
	"github.com/coachly/coachly/internal/interfaces/cli/server"
	"github.com/coachly/coachly/internal/shared/version"
)

// @title						Coachly Billing API
// @version					1.0
// @description				PayPal subscription webhooks, entitlement cache and billing operations.
// @BasePath					/
// @securityDefinitions.apikey	Bearer
// @in							header
// @name						Authorization
// @description				Type "Bearer" followed by a space and JWT token.
func main() {
	rootCmd := &cobra.Command{
		Use:     "coachly",
		Short:   "Coachly billing service",
		Long:    `Coachly billing keeps paid access in step with PayPal subscriptions: it ingests webhooks, maintains the entitlement cache and gates paid routes.`,
		Version: version.String(),
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		reconcile.NewCommand(),
		roles.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
