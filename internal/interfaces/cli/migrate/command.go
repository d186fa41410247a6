package migrate

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/coachly/coachly/internal/infrastructure/database"
	"github.com/coachly/coachly/internal/infrastructure/migration"
	"github.com/coachly/coachly/internal/interfaces/cli/bootstrap"
	"github.com/coachly/coachly/internal/shared/logger"
)

type options struct {
	env        string
	configPath string
}

// NewCommand builds `migrate` with its up, down, status and create subcommands.
func NewCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
		Long:  `Apply, roll back and inspect the versioned SQL scripts embedded in the binary.`,
	}

	cmd.PersistentFlags().StringVarP(&opts.env, "env", "e", "development", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")

	cmd.AddCommand(
		newUpCommand(opts),
		newDownCommand(opts),
		newStatusCommand(opts),
		newCreateCommand(),
	)

	return cmd
}

// withRunner bootstraps config, logger and database around fn.
func withRunner(opts *options, fn func(ctx context.Context, runner *migration.ScriptRunner, log logger.Interface) error) error {
	_, log, err := bootstrap.Init(bootstrap.Environment(opts.env), opts.configPath)
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close()

	return fn(context.Background(), migration.NewScriptRunner(log), log)
}

func newUpCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending scripts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRunner(opts, func(ctx context.Context, runner *migration.ScriptRunner, log logger.Interface) error {
				if err := runner.Migrate(ctx, database.Get()); err != nil {
					return err
				}
				version, err := runner.Version(ctx, database.Get())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "schema at version %d\n", version)
				return nil
			})
		},
	}
}

func newDownCommand(opts *options) *cobra.Command {
	var steps int

	cmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent scripts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRunner(opts, func(ctx context.Context, runner *migration.ScriptRunner, log logger.Interface) error {
				log.Infow("rolling back migrations", "environment", opts.env, "steps", steps)
				if err := runner.Rollback(ctx, database.Get(), steps); err != nil {
					return err
				}
				version, err := runner.Version(ctx, database.Get())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "schema at version %d\n", version)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of scripts to roll back")
	return cmd
}

func newStatusCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "List every script and whether it is applied",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRunner(opts, func(ctx context.Context, runner *migration.ScriptRunner, _ logger.Interface) error {
				statuses, err := runner.Status(ctx, database.Get())
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "VERSION\tSCRIPT\tAPPLIED AT")
				for _, s := range statuses {
					appliedAt := "pending"
					if s.Applied {
						appliedAt = s.AppliedAt.UTC().Format("2006-01-02 15:04:05")
					}
					fmt.Fprintf(w, "%d\t%s\t%s\n", s.Version, s.Path, appliedAt)
				}
				return w.Flush()
			})
		},
	}
}

func newCreateCommand() *cobra.Command {
	var (
		name string
		dir  string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an empty SQL script",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := migration.CreateScript(dir, name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created migration %q in %s\n", name, dir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Name of the migration (required)")
	cmd.Flags().StringVar(&dir, "dir", migration.ScriptsDir, "Directory to write the script into")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}
