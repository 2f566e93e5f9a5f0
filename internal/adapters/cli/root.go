package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	verbose    bool
)

// NewRootCommand creates the root command for the CLI.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gpupricer",
		Short: "GPU Autopricer - market-driven pricing for hosted GPU machines",
		Long: `GPU Autopricer polls the rental marketplace for your hosted machines and
for comparable third-party offers, computes a target price from observed
market conditions, and conditionally updates your listed price.

Examples:
  gpupricer run --target-gpu RTX_5090 --num-gpus 1
  gpupricer run --test-mode --interval 5m
  gpupricer decide --target-gpu RTX_4090
  gpupricer history --machine 12345 --limit 20
  gpupricer config show`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: search ., ./configs, /etc/gpupricer)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output")

	rootCmd.AddCommand(NewRunCommand())
	rootCmd.AddCommand(NewDecideCommand())
	rootCmd.AddCommand(NewHistoryCommand())
	rootCmd.AddCommand(NewConfigCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
