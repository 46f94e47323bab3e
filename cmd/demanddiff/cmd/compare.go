package cmd

import (
	"fmt"

	"github.com/dbsmedya/demanddiff/internal/comparer"
	"github.com/dbsmedya/demanddiff/internal/database"
	"github.com/spf13/cobra"
)

var (
	compareJob    string
	compareJoin   string
	compareBucket string
	compareTopN   int
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare demand reported by two sources",
	Long: `Compare loads the reference and comparison tables of a job, normalizes
balancing authority codes, aligns both sides on key and timestamp, and
reports the ranked discrepancy per group.

The join, bucket and number of reported groups can be overridden per run.

Example:
  demanddiff compare --config demanddiff.yaml --job eia930_vs_ferc714
  demanddiff compare --job eia930_vs_ferc714 --bucket month --top-n 10 --format csv`,
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().StringVarP(&compareJob, "job", "j", "",
		"Comparison name from configuration file (required)")
	compareCmd.Flags().StringVar(&compareJoin, "join", "",
		"Override join mode (inner, outer)")
	compareCmd.Flags().StringVar(&compareBucket, "bucket", "",
		"Override time bucket (none, year, month)")
	compareCmd.Flags().IntVar(&compareTopN, "top-n", 0,
		"Override number of groups to report (must be positive)")
	compareCmd.MarkFlagRequired("job")

	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var topN *int
	if cmd.Flags().Changed("top-n") {
		topN = &compareTopN
	}
	job, err := cfg.ApplyComparisonOverrides(compareJob, compareJoin, compareBucket, topN)
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
	rep, err := runner.Compare(ctx, compareJob, job)
	if err != nil {
		return fmt.Errorf("comparison %q failed: %w", compareJob, err)
	}

	return writeReport(cmd, &cfg.Output, rep)
}
