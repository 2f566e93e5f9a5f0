package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/hostlabs/gpupricer-go/internal/adapters/metrics"
	"github.com/hostlabs/gpupricer-go/internal/adapters/persistence"
	"github.com/hostlabs/gpupricer-go/internal/application/common"
	"github.com/hostlabs/gpupricer-go/internal/application/repricing"
	"github.com/hostlabs/gpupricer-go/internal/infrastructure/config"
	"github.com/hostlabs/gpupricer-go/internal/infrastructure/database"
	"github.com/hostlabs/gpupricer-go/internal/infrastructure/pidfile"
)

// NewRunCommand creates the run command: the repricing daemon loop.
func NewRunCommand() *cobra.Command {
	var (
		interval   time.Duration
		basePrice  float64
		maxPrice   float64
		highDemand float64
		lowDemand  float64
		targetGPU  string
		numGPUs    int
		logFile    string
		testMode   bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the repricing loop",
		Long: `Run the repricing loop: every interval, poll the marketplace for your
machines and comparable offers, compute a pricing decision per machine, and
submit price changes unless the decision is HOLD or --test-mode is set.

Flags override the corresponding config file values.

Examples:
  gpupricer run --target-gpu RTX_5090 --num-gpus 1 --base-price 0.50 --max-price 2.00
  gpupricer run --test-mode --interval 5m`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}

			// Flag overrides
			if cmd.Flags().Changed("interval") {
				cfg.Daemon.Interval = interval
			}
			if cmd.Flags().Changed("base-price") {
				cfg.Pricing.BasePrice = basePrice
			}
			if cmd.Flags().Changed("max-price") {
				cfg.Pricing.MaxPrice = maxPrice
			}
			if cmd.Flags().Changed("high-demand") {
				cfg.Pricing.HighDemandThreshold = highDemand
			}
			if cmd.Flags().Changed("low-demand") {
				cfg.Pricing.LowDemandThreshold = lowDemand
			}
			if cmd.Flags().Changed("target-gpu") {
				cfg.Pricing.TargetGPUName = targetGPU
			}
			if cmd.Flags().Changed("num-gpus") {
				cfg.Pricing.TargetNumGPUs = numGPUs
			}
			if cmd.Flags().Changed("log-file") {
				cfg.Logging.FilePath = logFile
			}
			if cmd.Flags().Changed("test-mode") {
				cfg.Pricing.TestMode = testMode
			}
			if err := config.ValidateConfig(cfg); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			return runLoop(cfg)
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 10*time.Minute, "Check interval")
	cmd.Flags().Float64Var(&basePrice, "base-price", 0.50, "Minimum price per GPU/hr")
	cmd.Flags().Float64Var(&maxPrice, "max-price", 2.00, "Maximum price per GPU/hr")
	cmd.Flags().Float64Var(&highDemand, "high-demand", 80, "High demand threshold %")
	cmd.Flags().Float64Var(&lowDemand, "low-demand", 30, "Low demand threshold %")
	cmd.Flags().StringVar(&targetGPU, "target-gpu", "", "Target GPU model (empty for all)")
	cmd.Flags().IntVar(&numGPUs, "num-gpus", 0, "Target GPU count (0 for all)")
	cmd.Flags().StringVar(&logFile, "log-file", "", "Event log file path")
	cmd.Flags().BoolVar(&testMode, "test-mode", false, "Log changes without applying them")

	return cmd
}

func runLoop(cfg *config.Config) error {
	logger, err := newEventLogger(cfg, true)
	if err != nil {
		return err
	}
	defer logger.Close()

	pf := pidfile.New(cfg.Daemon.PIDFile)
	if err := pf.Acquire(); err != nil {
		return err
	}
	defer func() {
		if err := pf.Release(); err != nil {
			logger.Logf(common.LevelWarn, "Failed to release PID file: %v", err)
		}
	}()

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open decision history database: %w", err)
	}
	defer database.Close(db)
	recorder := persistence.NewGormPriceDecisionRepository(db)

	var cycleMetrics repricing.CycleMetrics
	if cfg.Daemon.MetricsEnabled {
		registry := prometheus.NewRegistry()
		collector := metrics.NewPricingMetricsCollector(registry)
		go func() {
			if err := metrics.ServeMetrics(cfg.Daemon.MetricsAddr, registry); err != nil {
				logger.Logf(common.LevelWarn, "Metrics server stopped: %v", err)
			}
		}()
		cycleMetrics = collector
	}

	client, err := newMarketplaceClient(cfg)
	if err != nil {
		return err
	}

	service := repricing.NewService(
		client,
		newPolicy(cfg),
		serviceOptions(cfg, cfg.Pricing.TestMode),
		logger,
		recorder,
		cycleMetrics,
		nil,
	)

	logStartupBanner(logger, cfg, cfg.Pricing.TestMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for {
		if err := service.RunCycle(ctx); err != nil {
			// Logged inside the service; the loop itself never dies on a
			// marketplace failure.
			if ctx.Err() != nil {
				break
			}
		}

		logger.Logf(common.LevelInfo, "Sleeping for %s until next check...", cfg.Daemon.Interval)
		select {
		case <-ctx.Done():
			logger.Log(common.LevelInfo, "Auto-pricer stopped by operator")
			return nil
		case <-time.After(cfg.Daemon.Interval):
		}
	}

	logger.Log(common.LevelInfo, "Auto-pricer stopped by operator")
	return nil
}
