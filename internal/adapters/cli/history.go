package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hostlabs/gpupricer-go/internal/adapters/persistence"
	"github.com/hostlabs/gpupricer-go/internal/infrastructure/config"
	"github.com/hostlabs/gpupricer-go/internal/infrastructure/database"
)

// NewHistoryCommand creates the history command: recent decision telemetry.
func NewHistoryCommand() *cobra.Command {
	var (
		machineID int
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent pricing decisions",
		Long: `List recent pricing decisions recorded by the repricing loop.

Examples:
  gpupricer history --limit 20
  gpupricer history --machine 12345`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}

			db, err := database.NewConnection(&cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to open decision history database: %w", err)
			}
			defer database.Close(db)

			repo := persistence.NewGormPriceDecisionRepository(db)
			records, err := repo.RecentDecisions(context.Background(), machineID, limit)
			if err != nil {
				return err
			}

			if len(records) == 0 {
				fmt.Println("No decisions recorded yet")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TIME\tMACHINE\tGPU\tDEMAND\tPREV\tNEW\tACTION\tREASON")
			for _, r := range records {
				fmt.Fprintf(w, "%s\t%d\t%dx %s\t%.1f%%\t$%.4f\t$%.4f\t%s\t%s\n",
					r.RecordedAt.Format("2006-01-02 15:04"),
					r.MachineID,
					r.NumGPUs, r.GPUName,
					r.DemandPercent,
					r.PreviousPrice,
					r.NewPrice,
					r.Action,
					r.Reason,
				)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&machineID, "machine", 0, "Filter by machine ID (0 for all)")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum entries to show")

	return cmd
}
