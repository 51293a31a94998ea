package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "screener",
	Short: "A-share candidate screener for next-session breakouts",
	Long: `Daily A-share screening and scoring engine.

Runs a snapshot of the whole market through a staged elimination
funnel, scores the survivors on fund flow, relative strength, chart
position and dragon-tiger activity, and persists the day's batch.

Usage:
  go run ./cmd/screener [command]

Examples:
  go run ./cmd/screener scan
  go run ./cmd/screener pattern
  go run ./cmd/screener review
  go run ./cmd/screener history list
  go run ./cmd/screener scheduler start`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
