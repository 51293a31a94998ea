package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wtopps/quantitative-stock-selection/internal/contracts"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run one full screening pass",
	Long: `Runs the staged elimination funnel over a whole-market snapshot,
scores the survivors and persists the day's batch.

The run degrades gracefully: a missing flow table or disclosure feed
reduces scoring depth but never aborts the pass. Only a failed market
snapshot is fatal.

Examples:
  go run ./cmd/screener scan
  go run ./cmd/screener scan --sector 半导体`,
	RunE: runScan,
}

var scanSector string

func init() {
	scanCmd.Flags().StringVar(&scanSector, "sector", "", "restrict the pass to one industry")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.close()

	batch, err := d.orchestrator().RunSector(cmd.Context(), scanSector)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	printBatch(batch)
	return nil
}

func printBatch(batch *contracts.Batch) {
	fmt.Println()
	PrintDoubleSeparator()
	fmt.Printf("  Selection batch %s (%s)\n", batch.ID, batch.Date)
	PrintSeparator()

	if batch.Sector != "" {
		fmt.Printf("  Sector    : %s\n", batch.Sector)
	}
	if batch.Sentiment != nil {
		fmt.Printf("  Sentiment : %.0f/100 (%s)\n", batch.Sentiment.Score, batch.Sentiment.Status)
	}
	fmt.Printf("  Selected  : %d\n", len(batch.Stocks))
	PrintSeparator()

	if len(batch.Stocks) == 0 {
		fmt.Println("  No candidates survived today's funnel")
		fmt.Println()
		return
	}

	widths := []int{8, 10, 8, 6, 6, 8, 8, 6, 20}
	PrintTableHeader([]string{"Code", "Name", "Price", "Score", "Rate", "Stop", "Target", "R/R", "Themes"}, widths)

	for _, s := range batch.Stocks {
		PrintTableRow([]string{
			s.Code,
			s.Name,
			fmt.Sprintf("%.2f", s.SelectionPrice),
			fmt.Sprintf("%.1f", s.CompositeScore),
			string(s.Rating),
			fmt.Sprintf("%.2f", s.StopLoss),
			fmt.Sprintf("%.2f", s.TakeProfit),
			fmt.Sprintf("%.1f", s.RiskRewardRatio),
			strings.Join(s.Themes, ","),
		}, widths)
	}
	fmt.Println()
}
