package cmd

import (
	"fmt"

	"github.com/dbsmedya/demanddiff/internal/comparer"
	"github.com/dbsmedya/demanddiff/internal/database"
	"github.com/spf13/cobra"
)

var checkSchema bool

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and optionally the table schemas",
	Long: `Validate checks the configuration file and, with --check-schema, connects
to the stores and verifies every job's tables and columns exist.

Checks performed:
  - Configuration syntax and required fields
  - Join, bucket, rank and key type values
  - Store connectivity (with --check-schema)
  - Table and column existence (with --check-schema)

Example:
  demanddiff validate --config demanddiff.yaml --check-schema`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&checkSchema, "check-schema", false,
		"Connect to the stores and check tables and columns")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile := GetConfigFile()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	cmd.Printf("\n=== Configuration Validation ===\n")
	cmd.Printf("Config file: %s\n", configFile)
	cmd.Printf("Comparisons found: %d\n", len(cfg.Comparisons))
	cmd.Printf("Imputations found: %d\n", len(cfg.Imputations))
	cmd.Printf("Aggregates found: %d\n\n", len(cfg.Aggregates))

	if !checkSchema {
		cmd.Println("✅ Configuration is valid")
		return nil
	}

	ctx := database.SetupSignalHandler()
	sess, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := sess.db.Ping(ctx); err != nil {
		return fmt.Errorf("store connection failed: %w", err)
	}

	runner := comparer.NewRunner(sess.stores, comparer.WithLogger(sess.log))

	hasErrors := false
	for _, name := range cfg.ListComparisons() {
		job, _ := cfg.GetComparison(name)
		cmd.Printf("--- Comparison: %s ---\n", name)
		cmd.Printf("Reference:  %s.%s\n", job.Reference.StoreName(), job.Reference.Table)
		cmd.Printf("Comparison: %s.%s\n", job.Comparison.StoreName(), job.Comparison.Table)
		if err := runner.CheckComparison(ctx, job); err != nil {
			cmd.Printf("❌ Schema check failed: %v\n\n", err)
			hasErrors = true
			continue
		}
		cmd.Printf("✅ All checks passed\n\n")
	}
	for _, name := range cfg.ListImputations() {
		job, _ := cfg.GetImputation(name)
		cmd.Printf("--- Imputation: %s ---\n", name)
		cmd.Printf("Table: %s.%s\n", job.Table.StoreName(), job.Table.Table)
		if err := runner.CheckImputation(ctx, job); err != nil {
			cmd.Printf("❌ Schema check failed: %v\n\n", err)
			hasErrors = true
			continue
		}
		cmd.Printf("✅ All checks passed\n\n")
	}

	for _, name := range cfg.ListAggregates() {
		job, _ := cfg.GetAggregate(name)
		cmd.Printf("--- Aggregate: %s ---\n", name)
		cmd.Printf("Table: %s.%s\n", job.Table.StoreName(), job.Table.Table)
		if err := runner.CheckAggregate(ctx, job); err != nil {
			cmd.Printf("❌ Schema check failed: %v\n\n", err)
			hasErrors = true
			continue
		}
		cmd.Printf("✅ All checks passed\n\n")
	}

	if hasErrors {
		return fmt.Errorf("validation failed for one or more jobs")
	}

	cmd.Println("=== Validation Complete ===")
	cmd.Println("✅ All jobs validated successfully")
	return nil
}
