package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/domain"
)

func newTokenCommand(load configLoader) *cobra.Command {
	token := &cobra.Command{
		Use:   "token",
		Short: "Work with bearer tokens",
	}

	var (
		subject  string
		role     string
		validity time.Duration
	)
	issue := &cobra.Command{
		Use:   "issue",
		Short: "Mint a signed token for a subject and role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if validity <= 0 {
				validity = cfg.Auth.TokenValidity()
			}
			codec, err := auth.NewTokenCodec(cfg.Auth.JWTSecret, auth.WithValidity(validity))
			if err != nil {
				return err
			}
			signed, claims, err := codec.Issue(subject, domain.Role(role))
			if err != nil {
				return fmt.Errorf("issue token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), signed)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", claims.ExpiresAt.Time.UTC().Format(time.RFC3339))
			return nil
		},
	}
	issue.Flags().StringVar(&subject, "subject", "", "token subject, usually a user id")
	issue.Flags().StringVar(&role, "role", string(domain.RoleUser), "role claim")
	issue.Flags().DurationVar(&validity, "validity", 0, "token lifetime (defaults to the configured validity)")
	_ = issue.MarkFlagRequired("subject")

	token.AddCommand(issue)
	return token
}
