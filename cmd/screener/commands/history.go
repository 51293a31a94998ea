package commands

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wtopps/quantitative-stock-selection/internal/history"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse past selection batches",
	Long: `Browses the persisted batch records.

Subcommands:
  list         - recent batches, newest first
  show         - one batch in full
  weekly       - one ISO week's aggregate
  consecutive  - symbols selected on multiple recent days

Example:
  go run ./cmd/screener history list
  go run ./cmd/screener history show batch_20260828_143500
  go run ./cmd/screener history weekly 2026_W35
  go run ./cmd/screener history consecutive --lookback 5`,
}

var (
	historyListCmd = &cobra.Command{
		Use:   "list",
		Short: "Recent batches, newest first",
		RunE:  listBatches,
	}

	historyShowCmd = &cobra.Command{
		Use:   "show [batch_id]",
		Short: "Print one batch in full",
		Args:  cobra.ExactArgs(1),
		RunE:  showBatch,
	}

	historyWeeklyCmd = &cobra.Command{
		Use:   "weekly [week]",
		Short: "One ISO week's aggregate (default: current week)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showWeekly,
	}

	historyConsecutiveCmd = &cobra.Command{
		Use:   "consecutive",
		Short: "Symbols selected on multiple recent days",
		RunE:  showConsecutive,
	}

	consecutiveLookback int
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyWeeklyCmd)
	historyCmd.AddCommand(historyConsecutiveCmd)

	historyConsecutiveCmd.Flags().IntVar(&consecutiveLookback, "lookback", 5, "batches to look back over")
}

func listBatches(cmd *cobra.Command, args []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.close()

	entries, err := d.store.Index(cmd.Context())
	if err != nil {
		return fmt.Errorf("read batch index: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("No batches recorded yet")
		return nil
	}

	widths := []int{24, 12, 8}
	PrintTableHeader([]string{"Batch", "Date", "Count"}, widths)
	for _, e := range entries {
		PrintTableRow([]string{e.ID, e.Date, fmt.Sprintf("%d", e.Count)}, widths)
	}
	return nil
}

func showBatch(cmd *cobra.Command, args []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.close()

	batch, err := d.store.LoadBatch(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("load batch %s: %w", args[0], err)
	}

	printBatch(batch)
	return nil
}

func showWeekly(cmd *cobra.Command, args []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.close()

	week := history.WeekOf(time.Now())
	if len(args) == 1 {
		week = args[0]
	}

	record, err := d.store.Weekly(cmd.Context(), week)
	if err != nil {
		return fmt.Errorf("load week %s: %w", week, err)
	}
	if record == nil {
		fmt.Printf("No record for week %s\n", week)
		return nil
	}

	fmt.Println()
	PrintDoubleSeparator()
	fmt.Printf("  Week %s: %d trading days\n", record.Week, len(record.DailyRecords))
	PrintSeparator()

	for _, daily := range record.DailyRecords {
		fmt.Printf("  %s  %s  %s\n", daily.Date, daily.BatchID, strings.Join(daily.Codes, " "))
	}

	// Most frequent first
	type count struct {
		code string
		n    int
	}
	counts := make([]count, 0, len(record.AllStocks))
	for code, n := range record.AllStocks {
		counts = append(counts, count{code, n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].n != counts[j].n {
			return counts[i].n > counts[j].n
		}
		return counts[i].code < counts[j].code
	})

	fmt.Println()
	for _, c := range counts {
		PrintKeyValue(c.code, fmt.Sprintf("%d days", c.n), 8)
	}
	fmt.Println()
	return nil
}

func showConsecutive(cmd *cobra.Command, args []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.close()

	stocks, err := history.Consecutive(cmd.Context(), d.store, consecutiveLookback)
	if err != nil {
		return fmt.Errorf("consecutive scan failed: %w", err)
	}

	if len(stocks) == 0 {
		fmt.Println("No repeated selections in the lookback window")
		return nil
	}

	widths := []int{8, 10, 6, 40}
	PrintTableHeader([]string{"Code", "Name", "Days", "Dates"}, widths)
	for _, s := range stocks {
		PrintTableRow([]string{
			s.Code,
			s.Name,
			fmt.Sprintf("%d", s.Appearances),
			strings.Join(s.Dates, " "),
		}, widths)
	}
	return nil
}
