package cli

import (
	"github.com/spf13/cobra"

	"github.com/spec-kit/blog-service/internal/config"
)

// configLoader is swapped in tests.
type configLoader func() (*config.Config, error)

// NewRootCommand builds the blogctl command tree.
func NewRootCommand() *cobra.Command {
	return newRootCommand(config.Load)
}

func newRootCommand(load configLoader) *cobra.Command {
	root := &cobra.Command{
		Use:           "blogctl",
		Short:         "Operator tooling for the blog service",
		Long:          "Create accounts and mint bearer tokens against the blog service configuration.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newUserCommand(load), newTokenCommand(load))
	return root
}
