package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// patternCmd represents the pattern command
var patternCmd = &cobra.Command{
	Use:   "pattern",
	Short: "Scan for the four-day surge-consolidate setup",
	Long: `Scans the Shanghai main board for the four-day window: a surge day
followed by a confirmation day, a washout day and a shrink day.

Fresh windows (ten sessions or newer) are scored on volume shape,
moving average posture and dragon-tiger activity, best first.

Example:
  go run ./cmd/screener pattern
  go run ./cmd/screener pattern --top 10`,
	RunE: runPatternScan,
}

var patternTop int

func init() {
	rootCmd.AddCommand(patternCmd)
	patternCmd.Flags().IntVar(&patternTop, "top", 20, "number of windows to print")
}

func runPatternScan(cmd *cobra.Command, args []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.close()

	windows, err := d.orchestrator().ScanPatterns(cmd.Context())
	if err != nil {
		return fmt.Errorf("pattern scan failed: %w", err)
	}

	fmt.Println()
	PrintDoubleSeparator()
	fmt.Printf("  Pattern scan: %d fresh windows\n", len(windows))
	PrintSeparator()

	if len(windows) == 0 {
		fmt.Println("  No fresh setups on the main board today")
		fmt.Println()
		return nil
	}

	if len(windows) > patternTop {
		windows = windows[:patternTop]
	}

	widths := []int{8, 10, 12, 6, 6, 6}
	PrintTableHeader([]string{"Code", "Name", "D4 Date", "Age", "Score", "Rate"}, widths)

	for _, w := range windows {
		PrintTableRow([]string{
			w.Code,
			w.Name,
			w.EndDate.Format("2006-01-02"),
			fmt.Sprintf("%dd", w.AgeDays),
			fmt.Sprintf("%.0f", w.Score),
			string(w.Rating),
		}, widths)
	}
	fmt.Println()
	return nil
}
