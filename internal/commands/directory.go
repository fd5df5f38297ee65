package commands

import (
	"github.com/spf13/cobra"

	"github.com/sqve/branchlink/internal/config"
	"github.com/sqve/branchlink/internal/dirform"
	"github.com/sqve/branchlink/internal/errors"
	"github.com/sqve/branchlink/internal/formatter"
	"github.com/sqve/branchlink/internal/logger"
	"github.com/sqve/branchlink/internal/notify"
	"github.com/sqve/branchlink/internal/styles"
)

// NewDirectoryCmd creates the directory command and its set subcommand.
func NewDirectoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "directory",
		Short: "Show the repository directory of a connection",
		Long: `Show the path inside the repository that holds migrations and seed
files for the selected connection.

Examples:
  branchlink directory --connection 42
  branchlink directory set supabase --connection 42 --org 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDirectoryShow(cmd)
		},
	}

	cmd.AddCommand(newDirectorySetCmd())
	return cmd
}

func newDirectorySetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <path>",
		Short: "Change the repository directory of a connection",
		Long: `Change the repository directory of the selected connection. The
organization owning the connection must be given with --org.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDirectorySet(cmd, args[0])
		},
	}
}

func runDirectoryShow(cmd *cobra.Command) error {
	s, err := NewSession(cmd.Context())
	if err != nil {
		return err
	}
	if err := s.RequireConnection("show directory"); err != nil {
		return err
	}

	dir := s.Connection.DirectoryPath()
	format := config.GetString("output.format")
	if dir == "" && (format == formatter.FormatText || format == "") {
		return formatter.Field(cmd.OutOrStdout(), format, "directory", styles.Render(&styles.Dimmed, "No directory set"))
	}
	return formatter.Field(cmd.OutOrStdout(), format, "directory", dir)
}

func runDirectorySet(cmd *cobra.Command, path string) error {
	ctx := cmd.Context()

	s, err := NewSession(ctx)
	if err != nil {
		return err
	}
	if err := s.RequireConnection("update directory"); err != nil {
		return err
	}

	form := dirform.New(s.Connection, s.Backend, notify.Console{})
	form.Set(path)
	if !form.Dirty() {
		logger.Infof("Directory is already %s", form.Persisted())
		return nil
	}

	if err := form.Submit(ctx, s.Org); err != nil {
		if errors.IsCode(err, errors.ErrCodePreconditionMissing) {
			return err
		}
		return markReported(err)
	}
	return nil
}
