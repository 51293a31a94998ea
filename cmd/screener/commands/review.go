package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wtopps/quantitative-stock-selection/internal/contracts"
	"github.com/wtopps/quantitative-stock-selection/internal/history"
)

// reviewCmd represents the review command
var reviewCmd = &cobra.Command{
	Use:   "review [batch_id]",
	Short: "Grade a past batch against what the market did next",
	Long: `Re-prices every symbol of a past batch against adjusted history and
reports the change since selection, the next trading day's move and
per-rating-tier statistics.

Without an argument the most recent batch is reviewed.

Example:
  go run ./cmd/screener review
  go run ./cmd/screener review batch_20260828_143500`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReview,
}

func init() {
	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, args []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.close()

	ctx := cmd.Context()

	batchID := ""
	if len(args) == 1 {
		batchID = args[0]
	} else {
		entries, err := d.store.Index(ctx)
		if err != nil {
			return fmt.Errorf("read batch index: %w", err)
		}
		if len(entries) == 0 {
			return fmt.Errorf("no batches recorded yet")
		}
		batchID = entries[0].ID
	}

	batch, err := d.store.LoadBatch(ctx, batchID)
	if err != nil {
		return fmt.Errorf("load batch %s: %w", batchID, err)
	}

	report, err := history.NewReviewer(d.service, d.log).Review(ctx, batch)
	if err != nil {
		return fmt.Errorf("review failed: %w", err)
	}

	printReview(report)
	return nil
}

func printReview(report *contracts.ReviewReport) {
	fmt.Println()
	PrintDoubleSeparator()
	fmt.Printf("  Review of %s (%s)\n", report.BatchID, report.Date)
	PrintSeparator()

	if len(report.Symbols) == 0 {
		fmt.Println("  Nothing to review")
		fmt.Println()
		return
	}

	widths := []int{8, 10, 6, 9, 9, 9, 9}
	PrintTableHeader([]string{"Code", "Name", "Rate", "Picked", "Now", "Change", "Next Day"}, widths)

	for _, s := range report.Symbols {
		nextDay := "-"
		if s.NextDayPct != nil {
			nextDay = fmt.Sprintf("%+.2f%%", *s.NextDayPct)
		}
		PrintTableRow([]string{
			s.Code,
			s.Name,
			string(s.Rating),
			fmt.Sprintf("%.2f", s.SelectionPrice),
			fmt.Sprintf("%.2f", s.CurrentPrice),
			fmt.Sprintf("%+.2f%%", s.ChangePct),
			nextDay,
		}, widths)
	}

	fmt.Println()
	PrintKeyValue("Reviewed", fmt.Sprintf("%d symbols", report.Overall.Count), 10)
	PrintKeyValue("Average", fmt.Sprintf("%+.2f%%", report.Overall.AvgChange), 10)
	PrintKeyValue("Win rate", fmt.Sprintf("%.0f%%", report.Overall.WinRate), 10)
	PrintKeyValue("Best", fmt.Sprintf("%+.2f%%", report.Overall.MaxChange), 10)
	PrintKeyValue("Worst", fmt.Sprintf("%+.2f%%", report.Overall.MinChange), 10)

	for _, rating := range []contracts.Rating{
		contracts.RatingAAA, contracts.RatingAA, contracts.RatingA,
		contracts.RatingB, contracts.RatingC, contracts.RatingD,
	} {
		stats, ok := report.ByRating[rating]
		if !ok || stats.Count == 0 {
			continue
		}
		PrintKeyValue(string(rating), fmt.Sprintf("%d symbols, avg %+.2f%%", stats.Count, stats.AvgChange), 10)
	}

	if report.Evaluation != "" {
		fmt.Println()
		fmt.Printf("  %s\n", report.Evaluation)
	}
	fmt.Println()
}
