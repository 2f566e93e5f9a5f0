package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hostlabs/gpupricer-go/internal/infrastructure/config"
)

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}
	cmd.AddCommand(newConfigShowCommand())
	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}

			fmt.Println("Pricing:")
			fmt.Printf("  base_price:            $%.4f\n", cfg.Pricing.BasePrice)
			fmt.Printf("  max_price:             $%.4f\n", cfg.Pricing.MaxPrice)
			fmt.Printf("  price_step_percent:    %g%%\n", cfg.Pricing.PriceStepPercent)
			fmt.Printf("  high_demand_threshold: %g%%\n", cfg.Pricing.HighDemandThreshold)
			fmt.Printf("  low_demand_threshold:  %g%%\n", cfg.Pricing.LowDemandThreshold)
			fmt.Printf("  min_reliability:       %.2f\n", cfg.Pricing.MinReliability)
			fmt.Printf("  target_gpu_name:       %q\n", cfg.Pricing.TargetGPUName)
			fmt.Printf("  target_num_gpus:       %d\n", cfg.Pricing.TargetNumGPUs)
			fmt.Printf("  test_mode:             %v\n", cfg.Pricing.TestMode)
			fmt.Println("Daemon:")
			fmt.Printf("  interval:              %s\n", cfg.Daemon.Interval)
			fmt.Printf("  pid_file:              %s\n", cfg.Daemon.PIDFile)
			fmt.Printf("  metrics_enabled:       %v\n", cfg.Daemon.MetricsEnabled)
			fmt.Printf("  metrics_addr:          %s\n", cfg.Daemon.MetricsAddr)
			fmt.Println("API:")
			fmt.Printf("  base_url:              %s\n", cfg.API.BaseURL)
			fmt.Printf("  key:                   %s\n", maskKey(cfg.API.Key))
			fmt.Printf("  timeout:               %s\n", cfg.API.Timeout)
			fmt.Println("Database:")
			fmt.Printf("  type:                  %s\n", cfg.Database.Type)
			if cfg.Database.Type == "sqlite" {
				fmt.Printf("  path:                  %s\n", cfg.Database.Path)
			}
			fmt.Println("Logging:")
			fmt.Printf("  level:                 %s\n", cfg.Logging.Level)
			fmt.Printf("  file_path:             %s\n", cfg.Logging.FilePath)
			return nil
		},
	}
}

func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
