package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/persistence"
	"github.com/spec-kit/blog-service/internal/repository"
	"github.com/spec-kit/blog-service/internal/service"
)

func newUserCommand(load configLoader) *cobra.Command {
	user := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}

	var (
		email    string
		password string
		role     string
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an account with a bcrypt password hash",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if email == "" || password == "" {
				return errors.New("--email and --password are required")
			}
			cfg, err := load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			logger := zap.NewNop()

			pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
			if err != nil {
				return err
			}
			defer pg.Close()
			if cfg.Postgres.RunMigrations {
				if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
					return err
				}
			}

			users := service.NewAuthService(repository.NewUserRepository(pg.PoolHandle()), nil, cfg.Auth.BcryptCost, logger)
			created, err := users.CreateUser(ctx, email, password, domain.Role(role))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %d (%s, %s)\n", created.ID, created.Email, created.Role)
			return nil
		},
	}
	create.Flags().StringVar(&email, "email", "", "account email")
	create.Flags().StringVar(&password, "password", "", "account password")
	create.Flags().StringVar(&role, "role", string(domain.RoleUser), "account role (admin, editor, user)")

	user.AddCommand(create)
	return user
}
