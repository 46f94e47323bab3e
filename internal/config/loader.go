package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/viper"

	"github.com/dbsmedya/demanddiff/internal/analysis"
)

// Load reads configuration from the specified file path.
// It supports YAML files and performs environment variable substitution.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return LoadFromViper(v)
}

// LoadFromViper creates a Config from an existing Viper instance.
// Useful for testing or when Viper is configured externally.
func LoadFromViper(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	substituteEnvVars(cfg)
	return cfg, nil
}

// envVarPattern matches ${VAR_NAME} or $VAR_NAME patterns
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// substituteEnvVars replaces ${VAR_NAME} patterns in credentials and paths.
func substituteEnvVars(cfg *Config) {
	cfg.Source.Host = expandEnvVar(cfg.Source.Host)
	cfg.Source.User = expandEnvVar(cfg.Source.User)
	cfg.Source.Password = expandEnvVar(cfg.Source.Password)
	cfg.Source.Database = expandEnvVar(cfg.Source.Database)

	cfg.Local.Path = expandEnvVar(cfg.Local.Path)
	cfg.Output.Path = expandEnvVar(cfg.Output.Path)
	cfg.Logging.Output = expandEnvVar(cfg.Logging.Output)
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
func expandEnvVar(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		var varName string
		if strings.HasPrefix(match, "${") {
			varName = match[2 : len(match)-1]
		} else {
			varName = match[1:]
		}

		if value, exists := os.LookupEnv(varName); exists {
			return value
		}
		// Return original if env var not found
		return match
	})
}

// GetComparison retrieves a comparison job by name. Names match
// case-insensitively since the loader stores map keys in lower case.
func (c *Config) GetComparison(name string) (*ComparisonConfig, error) {
	job, exists := lookupJob(c.Comparisons, name)
	if !exists {
		return nil, fmt.Errorf("comparison %q not found in configuration", name)
	}
	return &job, nil
}

// GetImputation retrieves an imputation job by name, case-insensitively.
func (c *Config) GetImputation(name string) (*ImputationConfig, error) {
	job, exists := lookupJob(c.Imputations, name)
	if !exists {
		return nil, fmt.Errorf("imputation %q not found in configuration", name)
	}
	return &job, nil
}

// GetAggregate retrieves an aggregate job by name, case-insensitively.
func (c *Config) GetAggregate(name string) (*AggregateConfig, error) {
	job, exists := lookupJob(c.Aggregates, name)
	if !exists {
		return nil, fmt.Errorf("aggregate %q not found in configuration", name)
	}
	return &job, nil
}

func lookupJob[T any](jobs map[string]T, name string) (T, bool) {
	if job, ok := jobs[name]; ok {
		return job, true
	}
	job, ok := jobs[strings.ToLower(name)]
	return job, ok
}

// ApplyOverrides applies CLI flag overrides to the global configuration.
// Only non-empty values are applied.
func (c *Config) ApplyOverrides(logLevel, logFormat, outputFormat, outputPath string, noColor bool) {
	if logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFormat != "" {
		c.Logging.Format = logFormat
	}
	if outputFormat != "" {
		c.Output.Format = outputFormat
	}
	if outputPath != "" {
		c.Output.Path = outputPath
	}
	if noColor {
		c.Output.Color = false
	}
}

// ApplyComparisonOverrides returns a copy of the comparison with CLI
// overrides for join, bucket and ranking applied. A nil topN keeps the
// configured value; an explicit one must be positive.
func (c *Config) ApplyComparisonOverrides(name, join, bucket string, topN *int) (*ComparisonConfig, error) {
	job, err := c.GetComparison(name)
	if err != nil {
		return nil, err
	}
	if join != "" {
		job.Join = join
	}
	if bucket != "" {
		job.Bucket = bucket
	}
	if topN != nil {
		if *topN <= 0 {
			return nil, &analysis.ArgumentError{
				Argument: "top_n",
				Reason:   fmt.Sprintf("must be positive, got %d", *topN),
			}
		}
		job.Rank.TopN = *topN
	}
	return job, nil
}
