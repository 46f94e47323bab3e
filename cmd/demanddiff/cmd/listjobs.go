package cmd

import (
	"fmt"
	"strings"

	"github.com/dbsmedya/demanddiff/internal/config"
	"github.com/spf13/cobra"
)

var listJobsCmd = &cobra.Command{
	Use:   "list-jobs",
	Short: "List all jobs defined in configuration",
	Long: `List-jobs displays all comparison, imputation and aggregate jobs defined
in the configuration file along with their basic settings.

Example:
  demanddiff list-jobs --config demanddiff.yaml`,
	RunE: runListJobs,
}

func init() {
	rootCmd.AddCommand(listJobsCmd)
}

func runListJobs(cmd *cobra.Command, args []string) error {
	configFile := GetConfigFile()

	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	comparisons := cfg.ListComparisons()
	imputations := cfg.ListImputations()
	aggregates := cfg.ListAggregates()

	if len(comparisons) == 0 && len(imputations) == 0 && len(aggregates) == 0 {
		cmd.Printf("No jobs defined in %s\n", configFile)
		return nil
	}

	cmd.Printf("Jobs defined in %s:\n", configFile)

	if len(comparisons) > 0 {
		cmd.Printf("\nComparisons:\n")
	}
	for i, name := range comparisons {
		job, err := cfg.GetComparison(name)
		if err != nil {
			return fmt.Errorf("failed to get comparison %q: %w", name, err)
		}

		cmd.Printf("%d. %s\n", i+1, name)
		if job.Description != "" {
			cmd.Printf("   Description:   %s\n", job.Description)
		}
		cmd.Printf("   Keys:          %s\n", strings.Join(job.KeyNames(), ", "))
		cmd.Printf("   Reference:     %s\n", describeTable(job.Reference))
		cmd.Printf("   Comparison:    %s\n", describeTable(job.Comparison))
		cmd.Printf("   Join:          %s\n", orDefault(job.Join, "inner"))
		cmd.Printf("   Bucket:        %s\n", orDefault(job.Bucket, "none"))
		if len(job.GroupBy) > 0 {
			cmd.Printf("   Group by:      %s\n", strings.Join(job.GroupBy, ", "))
		}
		if job.Rank.TopN > 0 {
			cmd.Printf("   Rank:          top %d by %s\n", job.Rank.TopN, orDefault(job.Rank.By, "fractional_difference"))
		} else {
			cmd.Printf("   Rank:          all by %s\n", orDefault(job.Rank.By, "fractional_difference"))
		}
	}

	if len(imputations) > 0 {
		cmd.Printf("\nImputations:\n")
	}
	for i, name := range imputations {
		job, err := cfg.GetImputation(name)
		if err != nil {
			return fmt.Errorf("failed to get imputation %q: %w", name, err)
		}

		cmd.Printf("%d. %s\n", i+1, name)
		if job.Description != "" {
			cmd.Printf("   Description:   %s\n", job.Description)
		}
		cmd.Printf("   Keys:          %s\n", strings.Join(job.KeyNames(), ", "))
		cmd.Printf("   Table:         %s\n", describeTable(job.Table))
		cmd.Printf("   Flag:          %s\n", job.Flag)
		cmd.Printf("   Bucket:        %s\n", orDefault(job.Bucket, "none"))
	}

	if len(aggregates) > 0 {
		cmd.Printf("\nAggregates:\n")
	}
	for i, name := range aggregates {
		job, err := cfg.GetAggregate(name)
		if err != nil {
			return fmt.Errorf("failed to get aggregate %q: %w", name, err)
		}

		cmd.Printf("%d. %s\n", i+1, name)
		if job.Description != "" {
			cmd.Printf("   Description:   %s\n", job.Description)
		}
		cmd.Printf("   Keys:          %s\n", strings.Join(job.KeyNames(), ", "))
		cmd.Printf("   Table:         %s\n", describeTable(job.Table))
		if len(job.GroupBy) > 0 {
			cmd.Printf("   Group by:      %s\n", strings.Join(job.GroupBy, ", "))
		}
		cmd.Printf("   Bucket:        %s\n", orDefault(job.Bucket, "none"))
	}

	cmd.Printf("\nTotal: %d job(s)\n", len(comparisons)+len(imputations)+len(aggregates))
	return nil
}

func describeTable(t config.TableConfig) string {
	s := t.StoreName() + "." + t.Table
	if t.Value != "" {
		s += " (value: " + t.Value + ")"
	}
	if t.Where != "" {
		s += " WHERE " + t.Where
	}
	return s
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
