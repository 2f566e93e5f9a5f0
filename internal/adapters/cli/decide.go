package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/hostlabs/gpupricer-go/internal/application/repricing"
	"github.com/hostlabs/gpupricer-go/internal/infrastructure/config"
)

// NewDecideCommand creates the decide command: a single dry-run pass.
func NewDecideCommand() *cobra.Command {
	var (
		targetGPU string
		numGPUs   int
	)

	cmd := &cobra.Command{
		Use:   "decide",
		Short: "Run one dry-run repricing pass",
		Long: `Run a single repricing pass in test mode: fetch machines and market data,
print every decision with its reasoning, and change nothing.

Examples:
  gpupricer decide
  gpupricer decide --target-gpu RTX_4090 --num-gpus 2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("target-gpu") {
				cfg.Pricing.TargetGPUName = targetGPU
			}
			if cmd.Flags().Changed("num-gpus") {
				cfg.Pricing.TargetNumGPUs = numGPUs
			}

			logger, err := newEventLogger(cfg, false)
			if err != nil {
				return err
			}

			client, err := newMarketplaceClient(cfg)
			if err != nil {
				return err
			}

			service := repricing.NewService(
				client,
				newPolicy(cfg),
				serviceOptions(cfg, true), // always test mode
				logger,
				nil,
				nil,
				nil,
			)

			return service.RunCycle(context.Background())
		},
	}

	cmd.Flags().StringVar(&targetGPU, "target-gpu", "", "Target GPU model (empty for all)")
	cmd.Flags().IntVar(&numGPUs, "num-gpus", 0, "Target GPU count (0 for all)")

	return cmd
}
