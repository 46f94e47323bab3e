package cmd

import (
	"fmt"

	"github.com/dbsmedya/demanddiff/internal/comparer"
	"github.com/dbsmedya/demanddiff/internal/database"
	"github.com/spf13/cobra"
)

var imputationJob string

var imputationCmd = &cobra.Command{
	Use:   "imputation",
	Short: "Report the share of imputed demand values",
	Long: `Imputation loads the table of a job and reports, per group and period,
the fraction of rows whose imputation flag is set.

Example:
  demanddiff imputation --config demanddiff.yaml --job eia930_imputed`,
	RunE: runImputation,
}

func init() {
	imputationCmd.Flags().StringVarP(&imputationJob, "job", "j", "",
		"Imputation name from configuration file (required)")
	imputationCmd.MarkFlagRequired("job")

	rootCmd.AddCommand(imputationCmd)
}

func runImputation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	job, err := cfg.GetImputation(imputationJob)
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
	rep, err := runner.Imputation(ctx, imputationJob, job)
	if err != nil {
		return fmt.Errorf("imputation %q failed: %w", imputationJob, err)
	}

	return writeReport(cmd, &cfg.Output, rep)
}
