package commands

import (
	"github.com/spf13/cobra"

	"github.com/sqve/branchlink/internal/catalog"
	"github.com/sqve/branchlink/internal/config"
	"github.com/sqve/branchlink/internal/errors"
	"github.com/sqve/branchlink/internal/formatter"
	"github.com/sqve/branchlink/internal/logger"
)

// NewProductionCmd creates the production command and its set subcommand.
func NewProductionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "production",
		Short: "Show the production branch of a project",
		Long: `Show which Git branch is designated as the production branch of the
selected project. Prints "Select a branch" when none is registered.

Examples:
  branchlink production --project abcd
  branchlink production set main --connection 42`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProductionShow(cmd)
		},
	}

	cmd.AddCommand(newProductionSetCmd())
	return cmd
}

func newProductionSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <branch>",
		Short: "Designate a GitHub branch as the production branch",
		Long: `Designate a GitHub branch of the selected connection as the production
branch. The branch must be one GitHub reports for the connection.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProductionSet(cmd, args[0])
		},
	}
}

func runProductionShow(cmd *cobra.Command) error {
	ctx := cmd.Context()

	s, err := NewSession(ctx)
	if err != nil {
		return err
	}
	if s.Project == nil {
		return errors.ErrPreconditionMissing("show production branch", "project")
	}

	sel, err := s.NewSelector(ctx, nil)
	if err != nil {
		return err
	}

	format := config.GetString("output.format")
	if format == formatter.FormatText || format == "" {
		return formatter.Field(cmd.OutOrStdout(), format, "production_branch", sel.Label())
	}
	return formatter.Field(cmd.OutOrStdout(), format, "production_branch", sel.ProductionBranch())
}

func runProductionSet(cmd *cobra.Command, branch string) error {
	const operation = "set production branch"
	ctx := cmd.Context()
	log := logger.WithOperation("set_production_branch")

	s, err := NewSession(ctx)
	if err != nil {
		return err
	}
	if err := s.RequireConnection(operation); err != nil {
		return err
	}
	if s.Project == nil {
		return errors.ErrPreconditionMissing(operation, "project")
	}

	cat, err := s.LoadCatalog(ctx)
	if err != nil {
		return err
	}
	if !hasBranch(cat, branch) {
		return errors.ErrNotFound("github branch", branch).
			WithContext("connection_id", s.ConnectionID())
	}

	sel, err := s.NewSelector(ctx, cat)
	if err != nil {
		return err
	}

	if sel.ProductionBranch() == branch {
		logger.Infof("Production branch is already %s", branch)
		return nil
	}

	sel.Open()
	confirmed, err := sel.Select(ctx, branch)
	if err != nil {
		return markReported(err)
	}
	if confirmed == nil {
		log.Debug("no production branch registered", "project_ref", s.Project.ParentRef)
		logger.Infof("No production branch registered for project %s", s.Project.ParentRef)
	}
	return nil
}

func hasBranch(cat *catalog.Catalog, name string) bool {
	for b := range cat.Branches() {
		if b.Name == name {
			return true
		}
	}
	return false
}
