package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wtopps/quantitative-stock-selection/internal/history"
	"github.com/wtopps/quantitative-stock-selection/pkg/config"
	"github.com/wtopps/quantitative-stock-selection/pkg/database"
)

// dbCmd represents the db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Postgres store maintenance",
	Long: `Manages the optional Postgres batch store.

Subcommands:
  init    - create the batch tables
  schema  - print the DDL without applying it
  ping    - check connectivity and pool health

Example:
  go run ./cmd/screener db init
  go run ./cmd/screener db ping`,
}

var (
	dbInitCmd = &cobra.Command{
		Use:   "init",
		Short: "Create the batch tables",
		RunE:  initSchema,
	}

	dbSchemaCmd = &cobra.Command{
		Use:   "schema",
		Short: "Print the DDL without applying it",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(history.Schema())
			return nil
		},
	}

	dbPingCmd = &cobra.Command{
		Use:   "ping",
		Short: "Check connectivity and pool health",
		RunE:  pingDB,
	}
)

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(dbInitCmd)
	dbCmd.AddCommand(dbSchemaCmd)
	dbCmd.AddCommand(dbPingCmd)
}

func openDB() (*database.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	return database.New(cfg)
}

func initSchema(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Pool.Exec(cmd.Context(), history.Schema()); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	fmt.Println("Batch tables ready")
	return nil
}

func pingDB(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	status, err := db.HealthCheck(cmd.Context())
	if err != nil {
		return fmt.Errorf("health check: %w", err)
	}

	PrintKeyValue("Healthy", fmt.Sprintf("%t", status.Healthy), 12)
	PrintKeyValue("Response", status.ResponseTime.String(), 12)
	PrintKeyValue("Conns", fmt.Sprintf("%d/%d", status.Stats.AcquiredConns, status.Stats.TotalConns), 12)
	return nil
}
