package reconcile

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/coachly/coachly/internal/infrastructure/database"
	httpRouter "github.com/coachly/coachly/internal/interfaces/http"
	"github.com/coachly/coachly/internal/interfaces/cli/bootstrap"
	"github.com/coachly/coachly/internal/shared/logger"
)

var (
	env        string
	configPath string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Run one entitlement reconciliation pass",
		Long:  `Compare every cached entitlement with its canonical subscription and repair the ones that diverged.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap.Init(bootstrap.Environment(env), configPath)
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close()

	container, err := httpRouter.NewContainer(database.Get(), cfg, log)
	if err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer container.Shutdown(context.Background())

	result, err := container.Reconciler().Run(ctx)
	if result != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "divergent: %d\nrepaired:  %d\nfailed:    %d\n",
			result.Divergent, result.Repaired, len(result.Failed))
		for _, userID := range result.Failed {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", userID)
		}
	}
	if err != nil {
		return fmt.Errorf("reconciliation failed: %w", err)
	}

	return nil
}
