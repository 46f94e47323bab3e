package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.0.1-dev"
	Commit  = "unknown"
)

// CLI flags that override config file values
var (
	cfgFile      string
	logLevel     string
	logFormat    string
	outputFormat string
	outputPath   string
	noColor      bool
)

var rootCmd = &cobra.Command{
	Use:   "demanddiff",
	Short: "Electricity demand discrepancy toolkit",
	Long: `A CLI tool for comparing hourly electricity demand reported by two
sources, keyed by balancing authority and time.

Features:
  - Reads demand tables from MySQL or a local SQLite extract
  - Normalizes balancing authority codes before comparing
  - Aligns both sources with inner or outer joins
  - Aggregates discrepancies per year or month
  - Ranks groups by difference, absolute difference or fractional difference
  - Reports imputation rates of flagged measurements
  - Reports summed demand and bulk proportions per group
  - Renders reports as text, CSV or XLSX`,
	Version: Version,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Config file flag
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "demanddiff.yaml",
		"Path to configuration file")

	// Logging overrides
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Override log format (json, text)")

	// Output overrides
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "",
		"Override report format (text, csv, xlsx)")
	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", "",
		"Write the report to this file instead of stdout")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false,
		"Disable colored text output")
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// CLIOverrides contains flag values that override config file settings
type CLIOverrides struct {
	LogLevel     string
	LogFormat    string
	OutputFormat string
	OutputPath   string
	NoColor      bool
}

// GetCLIOverrides returns the CLI flag override values
func GetCLIOverrides() CLIOverrides {
	return CLIOverrides{
		LogLevel:     logLevel,
		LogFormat:    logFormat,
		OutputFormat: outputFormat,
		OutputPath:   outputPath,
		NoColor:      noColor,
	}
}
