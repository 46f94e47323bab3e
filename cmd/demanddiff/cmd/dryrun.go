package cmd

import (
	"fmt"

	"github.com/dbsmedya/demanddiff/internal/comparer"
	"github.com/dbsmedya/demanddiff/internal/database"
	"github.com/spf13/cobra"
)

var dryrunJob string

var dryrunCmd = &cobra.Command{
	Use:   "dry-run",
	Short: "Estimate the rows a job would read",
	Long: `Dry-run counts the rows each side of a job would load, without loading
them. Comparison, imputation and aggregate jobs are accepted.

The dry-run shows:
  - Store, table and WHERE clause of each side
  - Estimated row count per side and in total

Example:
  demanddiff dry-run --config demanddiff.yaml --job eia930_vs_ferc714`,
	RunE: runDryrun,
}

func init() {
	dryrunCmd.Flags().StringVarP(&dryrunJob, "job", "j", "",
		"Job name from configuration file (required)")
	dryrunCmd.MarkFlagRequired("job")

	rootCmd.AddCommand(dryrunCmd)
}

func runDryrun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	comparison, cmpErr := cfg.GetComparison(dryrunJob)
	imputation, impErr := cfg.GetImputation(dryrunJob)
	aggregate, aggErr := cfg.GetAggregate(dryrunJob)
	if cmpErr != nil && impErr != nil && aggErr != nil {
		return fmt.Errorf("job '%s' not found in configuration", dryrunJob)
	}

	ctx := database.SetupSignalHandler()
	sess, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer sess.Close()

	estimator := comparer.NewEstimator(sess.stores, sess.log)

	var result *comparer.EstimateResult
	switch {
	case cmpErr == nil:
		result, err = estimator.EstimateComparison(ctx, dryrunJob, comparison)
	case impErr == nil:
		result, err = estimator.EstimateImputation(ctx, dryrunJob, imputation)
	default:
		result, err = estimator.EstimateAggregate(ctx, dryrunJob, aggregate)
	}
	if err != nil {
		return fmt.Errorf("estimation failed: %w", err)
	}

	if err := writeReport(cmd, &cfg.Output, result); err != nil {
		return err
	}
	cmd.Printf("Total rows: %d\n", result.TotalRows())
	return nil
}
