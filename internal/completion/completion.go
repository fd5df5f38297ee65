package completion

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sqve/branchlink/internal/commands"
	"github.com/sqve/branchlink/internal/config"
	"github.com/sqve/branchlink/internal/logger"
)

// CompletionTimeout is the maximum time to wait for completion operations.
const CompletionTimeout = 2 * time.Second

// CompletionContext provides context for completion operations.
type CompletionContext struct {
	// Init loads configuration. Completion runs without the root command's
	// pre-run hooks.
	Init    func() error
	Timeout time.Duration
}

func NewCompletionContext(init func() error) *CompletionContext {
	return &CompletionContext{
		Init:    init,
		Timeout: CompletionTimeout,
	}
}

// WithTimeout runs fn with a deadline so a slow backend never blocks the shell.
func (c *CompletionContext) WithTimeout(fn func(ctx context.Context) ([]string, error)) ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	type result struct {
		names []string
		err   error
	}
	done := make(chan result, 1)

	go func() {
		names, err := fn(ctx)
		done <- result{names, err}
	}()

	select {
	case r := <-done:
		return r.names, r.err
	case <-ctx.Done():
		return nil, fmt.Errorf("completion operation timed out")
	}
}

func FilterCompletions(completions []string, toComplete string) []string {
	if toComplete == "" {
		return completions
	}

	var filtered []string
	for _, completion := range completions {
		if strings.HasPrefix(completion, toComplete) {
			filtered = append(filtered, completion)
		}
	}

	return filtered
}

// BranchCompletion completes GitHub branch names of the selected connection.
func BranchCompletion(ctx *CompletionContext, cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	log := logger.WithComponent("branch_completion")

	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	if ctx.Init != nil {
		if err := ctx.Init(); err != nil {
			log.Debug("config unavailable for completion", "error", err)
			return nil, cobra.ShellCompDirectiveError
		}
	}

	branches, err := ctx.WithTimeout(branchNames)
	if err != nil {
		log.Debug("failed to get branch names", "error", err)
		return nil, cobra.ShellCompDirectiveError
	}

	filtered := FilterCompletions(branches, toComplete)
	log.Debug("branch completion results", "total", len(branches), "filtered", len(filtered), "input", toComplete)
	return filtered, cobra.ShellCompDirectiveNoFileComp
}

func branchNames(ctx context.Context) ([]string, error) {
	s, err := commands.NewSession(ctx)
	if err != nil {
		return nil, err
	}
	if s.Connection == nil {
		return nil, nil
	}

	branches, err := s.Backend.ListGitHubBranches(ctx, s.ConnectionID())
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(branches))
	for _, b := range branches {
		names = append(names, b.Name)
	}
	return names, nil
}

// fixedCompletion completes a flag from a static list.
func fixedCompletion(values []string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return FilterCompletions(values, toComplete), cobra.ShellCompDirectiveNoFileComp
	}
}

// RegisterCompletionFunctions wires dynamic completion into the command tree.
func RegisterCompletionFunctions(rootCmd *cobra.Command, init func() error) {
	log := logger.WithComponent("completion")
	ctx := NewCompletionContext(init)

	if setCmd, _, err := rootCmd.Find([]string{"production", "set"}); err == nil && setCmd.Name() == "set" {
		setCmd.ValidArgsFunction = func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return BranchCompletion(ctx, cmd, args, toComplete)
		}
	}

	flagValues := map[string][]string{
		"output":     config.ValidOutputFormats(),
		"log-level":  config.ValidLogLevels(),
		"log-format": config.ValidLogFormats(),
	}
	for flag, values := range flagValues {
		if err := rootCmd.RegisterFlagCompletionFunc(flag, fixedCompletion(values)); err != nil {
			log.Debug("failed to register flag completion", "flag", flag, "error", err)
		}
	}
}
