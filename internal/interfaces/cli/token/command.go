// Package token mints API access tokens for operators and integrations.
package token

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/orris-inc/tally/internal/infrastructure/auth"
	"github.com/orris-inc/tally/internal/interfaces/cli/bootstrap"
	"github.com/orris-inc/tally/internal/shared/constants"
)

type tokenGenerator interface {
	Generate(userID, role string) (string, error)
}

func NewCommand() *cobra.Command {
	var env, userID, role string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed API access token",
		Long:  `Issue an HS256 access token for a user, signed with the configured JWT secret.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := bootstrap.LoadConfig(bootstrap.ResolveEnv(env))
			if err != nil {
				return err
			}
			jwtCfg := cfg.Auth.JWT
			return issue(cmd.OutOrStdout(), auth.NewJWTService(jwtCfg.Secret, jwtCfg.Issuer, jwtCfg.AccessTTL()), userID, role)
		},
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&userID, "user", "u", "", "User ID carried as the token subject (required)")
	cmd.Flags().StringVarP(&role, "role", "r", constants.RoleUser, "Role claim (user, admin)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func issue(out io.Writer, gen tokenGenerator, userID, role string) error {
	if role != constants.RoleUser && role != constants.RoleAdmin {
		return fmt.Errorf("unsupported role %q, expected %s or %s", role, constants.RoleUser, constants.RoleAdmin)
	}

	signed, err := gen.Generate(userID, role)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, signed)
	return err
}
