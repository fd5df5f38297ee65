package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

// Registry manages the registration and discovery of branchlink commands.
type Registry struct {
	commands map[string]Command
}

func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]Command),
	}
}

// Register adds a command to the registry.
func (r *Registry) Register(cmd Command) error {
	name := cmd.Name()
	if name == "" {
		return fmt.Errorf("command name cannot be empty")
	}

	if _, exists := r.commands[name]; exists {
		return fmt.Errorf("command %s is already registered", name)
	}

	r.commands[name] = cmd
	return nil
}

func (r *Registry) Get(name string) (Command, bool) {
	cmd, exists := r.commands[name]
	return cmd, exists
}

// List returns all registered command names in alphabetical order.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AttachToRoot attaches all registered commands to the provided root command
// in name order.
func (r *Registry) AttachToRoot(rootCmd *cobra.Command) error {
	for _, name := range r.List() {
		cobraCmd := r.commands[name].Command()
		if cobraCmd == nil {
			return fmt.Errorf("command %s returned nil cobra.Command", name)
		}
		rootCmd.AddCommand(cobraCmd)
	}
	return nil
}

// NewDefaultRegistry returns a registry holding every branchlink command.
func NewDefaultRegistry() (*Registry, error) {
	r := NewRegistry()
	for _, cmd := range []Command{
		NewBaseCommand("branches", NewBranchesCmd()),
		NewBaseCommand("production", NewProductionCmd()),
		NewBaseCommand("directory", NewDirectoryCmd()),
	} {
		if err := r.Register(cmd); err != nil {
			return nil, err
		}
	}
	return r, nil
}
