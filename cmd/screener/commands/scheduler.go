package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wtopps/quantitative-stock-selection/internal/scheduler"
	"github.com/wtopps/quantitative-stock-selection/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run the screening schedule",
	Long: `Starts the scheduler daemon or manages its jobs.

Registered jobs:
- daily_scan: weekdays before the close (SCAN_SCHEDULE)
- cache_sweep: 03:00 every day

Subcommands:
  start   - start the scheduler daemon
  list    - registered jobs
  run     - run one job immediately
  status  - job execution statistics

Example:
  go run ./cmd/screener scheduler start
  go run ./cmd/screener scheduler run daily_scan`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler daemon",
		Long: `Starts the scheduler and schedules all registered jobs.

The daemon runs until interrupted with Ctrl+C.`,
		RunE: runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "Registered jobs",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "Run one job immediately",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}

	schedulerStatusCmd = &cobra.Command{
		Use:   "status",
		Short: "Job execution statistics",
		RunE:  showSchedulerStatus,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
	schedulerCmd.AddCommand(schedulerStatusCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	sched, d, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer d.close()

	sched.Start()

	fmt.Println("Scheduler started")
	fmt.Println("\nRegistered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Printf("  - %s\n", jobName)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down scheduler...")
	sched.Stop()
	fmt.Println("Scheduler stopped")

	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	sched, d, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer d.close()

	fmt.Println("Registered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Printf("  - %s\n", jobName)
	}

	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	jobName := args[0]

	fmt.Printf("Running job: %s\n", jobName)

	sched, d, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer d.close()

	if err := sched.RunJob(jobName); err != nil {
		return fmt.Errorf("run job: %w", err)
	}

	fmt.Println("Job started (running in background)")
	return nil
}

func showSchedulerStatus(cmd *cobra.Command, args []string) error {
	sched, d, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer d.close()

	fmt.Println("Job Statistics:")
	fmt.Println()

	for jobName, stat := range sched.GetJobStats() {
		fmt.Printf("%s\n", jobName)
		PrintKeyValue("Schedule", stat.Schedule, 12)
		PrintKeyValue("Total Runs", fmt.Sprintf("%d", stat.TotalRuns), 12)
		PrintKeyValue("Success", fmt.Sprintf("%d (%.1f%%)", stat.SuccessCount, stat.SuccessRate*100), 12)
		PrintKeyValue("Failures", fmt.Sprintf("%d", stat.FailureCount), 12)

		if stat.LastRun != nil {
			PrintKeyValue("Last Run", stat.LastRun.Format("2006-01-02 15:04:05"), 12)
		}
		if stat.LastSuccess != nil {
			PrintKeyValue("Last Success", stat.LastSuccess.Format("2006-01-02 15:04:05"), 12)
		}
		if stat.LastFailure != nil {
			PrintKeyValue("Last Failure", stat.LastFailure.Format("2006-01-02 15:04:05"), 12)
		}

		fmt.Println()
	}

	return nil
}

func initScheduler() (*scheduler.Scheduler, *deps, error) {
	d, err := initDeps()
	if err != nil {
		return nil, nil, err
	}

	sched := scheduler.New(d.log)

	if err := sched.AddJob(jobs.NewScanJob(d.orchestrator(), d.cfg.ScanSchedule, d.log)); err != nil {
		d.close()
		return nil, nil, err
	}
	if err := sched.AddJob(jobs.NewCacheSweepJob(d.cache, d.log)); err != nil {
		d.close()
		return nil, nil, err
	}

	return sched, d, nil
}
