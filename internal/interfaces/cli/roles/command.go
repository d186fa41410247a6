package roles

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coachly/coachly/internal/infrastructure/database"
	"github.com/coachly/coachly/internal/infrastructure/permission"
	"github.com/coachly/coachly/internal/interfaces/cli/bootstrap"
	"github.com/coachly/coachly/internal/shared/logger"
)

var (
	env        string
	configPath string
	userID     string
	role       string
)

var assignableRoles = []string{permission.RoleAdmin, permission.RoleOperator}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roles",
		Short: "Manage billing operator roles",
		Long:  `Grant, revoke and list the roles that unlock the billing admin endpoints.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.PersistentFlags().StringVarP(&userID, "user", "u", "", "User ID (required)")
	_ = cmd.MarkPersistentFlagRequired("user")

	cmd.AddCommand(
		newRoleCommand("grant", "Grant a role to a user", func(e *permission.Enforcer) error {
			return e.AddRoleForUser(userID, role)
		}),
		newRoleCommand("revoke", "Revoke a role from a user", func(e *permission.Enforcer) error {
			return e.DeleteRoleForUser(userID, role)
		}),
		newListCommand(),
	)

	return cmd
}

func newRoleCommand(use, short string, apply func(*permission.Enforcer) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(assignableRoles, role) {
				return fmt.Errorf("unknown role %q, expected one of %s", role, strings.Join(assignableRoles, ", "))
			}

			enforcer, log, err := initEnforcer()
			if err != nil {
				return err
			}
			defer logger.Sync()
			defer database.Close()

			if err := apply(enforcer); err != nil {
				return fmt.Errorf("failed to %s role: %w", use, err)
			}

			log.Infow("role updated", "action", use, "user_id", userID, "role", role)
			return nil
		},
	}

	cmd.Flags().StringVarP(&role, "role", "r", "", "Role name: "+strings.Join(assignableRoles, ", "))
	_ = cmd.MarkFlagRequired("role")

	return cmd
}

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the roles of a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			enforcer, _, err := initEnforcer()
			if err != nil {
				return err
			}
			defer logger.Sync()
			defer database.Close()

			roles, err := enforcer.GetRolesForUser(userID)
			if err != nil {
				return fmt.Errorf("failed to list roles: %w", err)
			}
			if len(roles) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%s has no roles\n", userID)
				return nil
			}
			for _, r := range roles {
				fmt.Fprintln(cmd.OutOrStdout(), r)
			}
			return nil
		},
	}
}

func initEnforcer() (*permission.Enforcer, logger.Interface, error) {
	cfg, log, err := bootstrap.Init(bootstrap.Environment(env), configPath)
	if err != nil {
		return nil, nil, err
	}

	enforcer, err := permission.NewEnforcer(database.Get(), cfg.Permission.ModelPath, log.Named("permission"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create permission enforcer: %w", err)
	}
	if err := enforcer.SeedDefaultPolicies(); err != nil {
		return nil, nil, fmt.Errorf("failed to seed permission policies: %w", err)
	}

	return enforcer, log, nil
}
