package cmd

import (
	"fmt"

	"github.com/dbsmedya/demanddiff/internal/comparer"
	"github.com/dbsmedya/demanddiff/internal/database"
	"github.com/spf13/cobra"
)

var aggregateJob string

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Report summed demand and each group's share of the total",
	Long: `Aggregate loads the table of a job, sums its value column per group and
period, and reports each group's share of the period total (bulk
proportions). Null values are left out of the sums; a share is undefined
when its period total is zero.

Example:
  demanddiff aggregate --config demanddiff.yaml --job eia930_subregions`,
	RunE: runAggregate,
}

func init() {
	aggregateCmd.Flags().StringVarP(&aggregateJob, "job", "j", "",
		"Aggregate name from configuration file (required)")
	aggregateCmd.MarkFlagRequired("job")

	rootCmd.AddCommand(aggregateCmd)
}

func runAggregate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	job, err := cfg.GetAggregate(aggregateJob)
	if err != nil {
		return err
	}

	ctx := database.SetupSignalHandler()
	sess, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer sess.Close()

	runner := comparer.NewRunner(sess.stores, comparer.WithLogger(sess.log))
	rep, err := runner.Aggregate(ctx, aggregateJob, job)
	if err != nil {
		return fmt.Errorf("aggregate %q failed: %w", aggregateJob, err)
	}

	return writeReport(cmd, &cfg.Output, rep)
}
