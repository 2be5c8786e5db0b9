package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nerrad567/gridstore-core/internal/auth"
	"github.com/nerrad567/gridstore-core/internal/infrastructure/config"
)

// newTokenCommand creates the token command, which signs a bearer token
// with the configured JWT secret.
func newTokenCommand(rootOpts *rootOptions) *cobra.Command {
	var (
		subject string
		role    string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(rootOpts.ConfigPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			token, err := auth.IssueToken(auth.TokenOptions{
				Secret:   cfg.Security.JWT.Secret,
				Issuer:   cfg.Security.JWT.Issuer,
				Audience: cfg.Security.JWT.Audience,
				Subject:  subject,
				Role:     auth.Role(role),
				TTL:      ttl,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVarP(&subject, "subject", "s", "", "token subject (required)")
	cmd.Flags().StringVarP(&role, "role", "r", string(auth.RoleOperator), "role: viewer, operator or admin")
	cmd.Flags().DurationVar(&ttl, "ttl", auth.DefaultTokenTTL, "token lifetime")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}
