package commands

import (
	"github.com/spf13/cobra"
)

// Command represents a branchlink command that can be registered with the command registry.
type Command interface {
	// Name returns the command name (e.g., "branches", "production").
	Name() string

	// Command returns the cobra.Command instance for this command.
	Command() *cobra.Command
}

// BaseCommand provides common functionality for all branchlink commands.
type BaseCommand struct {
	name string
	cmd  *cobra.Command
}

// NewBaseCommand creates a new BaseCommand with the given parameters.
func NewBaseCommand(name string, cmd *cobra.Command) *BaseCommand {
	return &BaseCommand{
		name: name,
		cmd:  cmd,
	}
}

func (b *BaseCommand) Name() string {
	return b.name
}

func (b *BaseCommand) Command() *cobra.Command {
	return b.cmd
}
