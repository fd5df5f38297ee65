package commands

import (
	"github.com/spf13/cobra"

	"github.com/sqve/branchlink/internal/catalog"
	"github.com/sqve/branchlink/internal/config"
	"github.com/sqve/branchlink/internal/formatter"
	"github.com/sqve/branchlink/internal/logger"
	"github.com/sqve/branchlink/internal/selector"
)

// BranchesOptions contains configuration options for the branches command.
type BranchesOptions struct {
	Filter string
}

// NewBranchesCmd creates the branches command.
func NewBranchesCmd() *cobra.Command {
	options := &BranchesOptions{}

	cmd := &cobra.Command{
		Use:   "branches",
		Short: "List the GitHub branches of a connection",
		Long: `List the branches GitHub reports for the selected connection.

The branch currently designated as production is marked with an asterisk (*)
in plain output. The filter matches case-insensitively anywhere in the name.

Examples:
  branchlink branches --connection 42
  branchlink branches --connection 42 --filter fea
  branchlink branches --connection 42 --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBranches(cmd, options)
		},
	}

	cmd.Flags().StringVarP(&options.Filter, "filter", "f", "", "Only show branches containing this text")

	return cmd
}

func runBranches(cmd *cobra.Command, options *BranchesOptions) error {
	ctx := cmd.Context()
	log := logger.WithOperation("list_branches")

	s, err := NewSession(ctx)
	if err != nil {
		return err
	}

	cat, err := s.LoadCatalog(ctx)
	if err != nil {
		return err
	}

	var candidates []selector.Candidate
	sel, err := s.NewSelector(ctx, cat)
	if err != nil {
		log.Warn("production branch unavailable", "error", err)
	} else {
		candidates, _ = sel.Candidates()
	}
	if sel == nil || !sel.Loaded() {
		for b := range cat.Branches() {
			candidates = append(candidates, selector.Candidate{Name: b.Name})
		}
	}

	candidates = filterCandidates(candidates, options.Filter)
	log.Debug("branches listed", "connection_id", s.ConnectionID(), "count", len(candidates))

	return formatter.Branches(cmd.OutOrStdout(), config.GetString("output.format"), candidates)
}

// filterCandidates keeps the candidates matching query, in order.
func filterCandidates(candidates []selector.Candidate, query string) []selector.Candidate {
	var filtered []selector.Candidate
	for _, c := range candidates {
		if catalog.Matches(c.Name, query) {
			filtered = append(filtered, c)
		}
	}
	return filtered
}
