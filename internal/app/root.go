package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sqve/branchlink/internal/commands"
	"github.com/sqve/branchlink/internal/completion"
	"github.com/sqve/branchlink/internal/config"
	"github.com/sqve/branchlink/internal/logger"
)

const Version = "v0.1.0"

// flagBindings maps persistent flags to their configuration keys.
var flagBindings = map[string]string{
	"connection": "connection",
	"project":    "project",
	"org":        "org",
	"plain":      "plain",
	"log-level":  "logging.level",
	"log-format": "logging.format",
	"output":     "output.format",
}

// NewRootCommand creates and configures the branchlink root command
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "branchlink",
		Short:   "Manage the GitHub link of hosted database projects",
		Version: Version,
		Long: `branchlink manages how a hosted database project is linked to a GitHub repository.
List the repository's branches, pick the production branch and set the directory
that holds migrations and seed files.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	setupRootCommand(rootCmd)
	return rootCmd
}

// setupRootCommand configures flags, commands, and initialization for the root command
func setupRootCommand(rootCmd *cobra.Command) {
	// Errors are printed once by Execute
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	setupFlags(rootCmd)
	setupInitialization(rootCmd)
	registerCommands(rootCmd)
	setupCompletion(rootCmd)
}

// setupFlags adds persistent flags to the root command
func setupFlags(rootCmd *cobra.Command) {
	flags := rootCmd.PersistentFlags()
	flags.Int64("connection", 0, "GitHub connection id")
	flags.String("project", "", "Project ref (defaults to the connection's project)")
	flags.Int64("org", 0, "Organization id owning the connection")
	flags.Bool("plain", false, "Disable colors and symbols")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.String("log-format", "text", "Log format (text, json)")
	flags.StringP("output", "o", "text", "Output format (text, json, yaml)")
	flags.String("config", "", "Config file (default .branchlink.toml on the search path)")
	flags.Bool("debug", false, "Enable debug logging (shorthand for --log-level=debug)")
}

// setupInitialization loads configuration before any subcommand runs
func setupInitialization(rootCmd *cobra.Command) {
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return InitializeConfig(rootCmd)
	}
}

// registerCommands adds all subcommands to the root command
func registerCommands(rootCmd *cobra.Command) {
	registry, err := commands.NewDefaultRegistry()
	if err == nil {
		err = registry.AttachToRoot(rootCmd)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error registering commands: %v\n", err)
		os.Exit(1)
	}
}

// setupCompletion configures shell completion for the root command
func setupCompletion(rootCmd *cobra.Command) {
	completion.RegisterCompletionFunctions(rootCmd, func() error {
		return InitializeConfig(rootCmd)
	})
}

// InitializeConfig initializes application configuration and logging
func InitializeConfig(rootCmd *cobra.Command) error {
	path, _ := rootCmd.PersistentFlags().GetString("config")
	if err := config.InitializeWithFile(path); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}

	bindFlags(rootCmd)
	configureLogging(rootCmd)

	if used := config.ConfigFileUsed(); used != "" {
		logger.Debug("config loaded", "file", used)
	}
	return config.Validate()
}

// bindFlags binds cobra flags to viper configuration
func bindFlags(rootCmd *cobra.Command) {
	for flag, key := range flagBindings {
		if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to bind %s flag: %v\n", flag, err)
		}
	}
}

// configureLogging sets up application logging based on flags and configuration
func configureLogging(rootCmd *cobra.Command) {
	if debug, _ := rootCmd.PersistentFlags().GetBool("debug"); debug {
		viper.Set("logging.level", "debug")
	}

	logger.Configure(logger.Config{
		Level:  config.GetString("logging.level"),
		Format: config.GetString("logging.format"),
		Output: os.Stderr,
	})
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := NewRootCommand().Execute(); err != nil {
		if !commands.IsReported(err) {
			logger.Failuref("%v", err)
		}
		return 1
	}
	return 0
}
