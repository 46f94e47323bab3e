package config

import (
	"fmt"
	"strings"

	"github.com/dbsmedya/demanddiff/internal/analysis"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

// Validate checks the configuration for required fields and valid values.
func (c *Config) Validate() error {
	var errors ValidationErrors

	// Stores are only required when a job reads from them
	if c.UsesStore(StoreMySQL) {
		errors = append(errors, c.validateDatabase("source", &c.Source)...)
	}
	if c.UsesStore(StoreSQLite) && c.Local.Path == "" {
		errors = append(errors, ValidationError{
			Field:   "local.path",
			Message: "path is required when a job reads from the sqlite store",
		})
	}

	if len(c.Comparisons) == 0 && len(c.Imputations) == 0 && len(c.Aggregates) == 0 {
		errors = append(errors, ValidationError{
			Field:   "comparisons",
			Message: "at least one comparison, imputation or aggregate must be defined",
		})
	}
	for _, name := range c.ListComparisons() {
		job := c.Comparisons[name]
		errors = append(errors, c.validateComparison(name, &job)...)
	}
	for _, name := range c.ListImputations() {
		job := c.Imputations[name]
		errors = append(errors, c.validateImputation(name, &job)...)
	}
	for _, name := range c.ListAggregates() {
		job := c.Aggregates[name]
		errors = append(errors, c.validateAggregate(name, &job)...)
	}

	errors = append(errors, c.validateOutput()...)
	errors = append(errors, c.validateLogging()...)

	if len(errors) > 0 {
		return errors
	}
	return nil
}

func (c *Config) validateDatabase(prefix string, db *DatabaseConfig) ValidationErrors {
	var errors ValidationErrors

	if db.Host == "" {
		errors = append(errors, ValidationError{
			Field:   prefix + ".host",
			Message: "host is required",
		})
	}

	if db.Port <= 0 || db.Port > 65535 {
		errors = append(errors, ValidationError{
			Field:   prefix + ".port",
			Message: "port must be between 1 and 65535",
		})
	}

	if db.User == "" {
		errors = append(errors, ValidationError{
			Field:   prefix + ".user",
			Message: "user is required",
		})
	}

	if db.Database == "" {
		errors = append(errors, ValidationError{
			Field:   prefix + ".database",
			Message: "database name is required",
		})
	}

	validTLS := map[string]bool{"disable": true, "preferred": true, "required": true, "": true}
	if !validTLS[db.TLS] {
		errors = append(errors, ValidationError{
			Field:   prefix + ".tls",
			Message: "tls must be 'disable', 'preferred', or 'required'",
		})
	}

	if db.MaxConnections < 0 {
		errors = append(errors, ValidationError{
			Field:   prefix + ".max_connections",
			Message: "max_connections cannot be negative",
		})
	}

	if db.MaxIdleConnections < 0 {
		errors = append(errors, ValidationError{
			Field:   prefix + ".max_idle_connections",
			Message: "max_idle_connections cannot be negative",
		})
	}

	return errors
}

func (c *Config) validateComparison(name string, job *ComparisonConfig) ValidationErrors {
	prefix := fmt.Sprintf("comparisons.%s", name)

	errors := validateKeys(prefix, job.KeyFields, job.GroupBy, job.NormalizeCodes)
	if job.Timestamp == "" {
		errors = append(errors, ValidationError{
			Field:   prefix + ".timestamp",
			Message: "timestamp is required",
		})
	}
	errors = append(errors, validateTable(prefix+".reference", &job.Reference, true)...)
	errors = append(errors, validateTable(prefix+".comparison", &job.Comparison, true)...)

	if _, err := analysis.ParseJoinMode(job.Join); err != nil {
		errors = append(errors, ValidationError{
			Field:   prefix + ".join",
			Message: "join must be 'inner' or 'outer'",
		})
	}
	if _, err := analysis.ParseBucket(job.Bucket); err != nil {
		errors = append(errors, ValidationError{
			Field:   prefix + ".bucket",
			Message: "bucket must be 'none', 'year', or 'month'",
		})
	}
	if _, err := analysis.ParseRankField(job.Rank.By); err != nil {
		errors = append(errors, ValidationError{
			Field:   prefix + ".rank.by",
			Message: err.Error(),
		})
	}
	if job.Rank.TopN < 0 {
		errors = append(errors, ValidationError{
			Field:   prefix + ".rank.top_n",
			Message: "top_n cannot be negative",
		})
	}

	return errors
}

func (c *Config) validateImputation(name string, job *ImputationConfig) ValidationErrors {
	prefix := fmt.Sprintf("imputations.%s", name)

	errors := validateKeys(prefix, job.KeyFields, job.GroupBy, job.NormalizeCodes)
	if job.Flag == "" {
		errors = append(errors, ValidationError{
			Field:   prefix + ".flag",
			Message: "flag is required",
		})
	}
	errors = append(errors, validateTable(prefix+".table", &job.Table, false)...)

	bucket, err := analysis.ParseBucket(job.Bucket)
	if err != nil {
		errors = append(errors, ValidationError{
			Field:   prefix + ".bucket",
			Message: "bucket must be 'none', 'year', or 'month'",
		})
	}
	if bucket != analysis.BucketNone && job.Timestamp == "" {
		errors = append(errors, ValidationError{
			Field:   prefix + ".timestamp",
			Message: "timestamp is required when bucketing",
		})
	}

	return errors
}

func (c *Config) validateAggregate(name string, job *AggregateConfig) ValidationErrors {
	prefix := fmt.Sprintf("aggregates.%s", name)

	errors := validateKeys(prefix, job.KeyFields, job.GroupBy, job.NormalizeCodes)
	errors = append(errors, validateTable(prefix+".table", &job.Table, true)...)

	bucket, err := analysis.ParseBucket(job.Bucket)
	if err != nil {
		errors = append(errors, ValidationError{
			Field:   prefix + ".bucket",
			Message: "bucket must be 'none', 'year', or 'month'",
		})
	}
	if bucket != analysis.BucketNone && job.Timestamp == "" {
		errors = append(errors, ValidationError{
			Field:   prefix + ".timestamp",
			Message: "timestamp is required when bucketing",
		})
	}

	return errors
}

func validateKeys(prefix string, keys []KeyField, groupBy, normalize []string) ValidationErrors {
	var errors ValidationErrors

	if len(keys) == 0 {
		errors = append(errors, ValidationError{
			Field:   prefix + ".key_fields",
			Message: "at least one key field is required",
		})
	}

	declared := make(map[string]string, len(keys))
	for i, k := range keys {
		field := fmt.Sprintf("%s.key_fields[%d]", prefix, i)
		if k.Name == "" {
			errors = append(errors, ValidationError{Field: field + ".name", Message: "name is required"})
			continue
		}
		if _, dup := declared[k.Name]; dup {
			errors = append(errors, ValidationError{Field: field + ".name", Message: fmt.Sprintf("duplicate key field %q", k.Name)})
		}
		typ, err := analysis.ParseFieldType(defaultKeyType(k.Type))
		if err != nil || !typ.Categorical() {
			errors = append(errors, ValidationError{Field: field + ".type", Message: "type must be 'text' or 'integer'"})
		}
		declared[k.Name] = defaultKeyType(k.Type)
	}

	for _, g := range groupBy {
		if _, ok := declared[g]; !ok {
			errors = append(errors, ValidationError{
				Field:   prefix + ".group_by",
				Message: fmt.Sprintf("%q is not a declared key field", g),
			})
		}
	}
	for _, n := range normalize {
		typ, ok := declared[n]
		if !ok || typ != "text" {
			errors = append(errors, ValidationError{
				Field:   prefix + ".normalize_codes",
				Message: fmt.Sprintf("%q is not a declared text key field", n),
			})
		}
	}

	return errors
}

func validateTable(prefix string, t *TableConfig, needValue bool) ValidationErrors {
	var errors ValidationErrors

	if t.Table == "" {
		errors = append(errors, ValidationError{
			Field:   prefix + ".table",
			Message: "table name is required",
		})
	}

	validStores := map[string]bool{StoreMySQL: true, StoreSQLite: true, "": true}
	if !validStores[t.Store] {
		errors = append(errors, ValidationError{
			Field:   prefix + ".store",
			Message: "store must be 'mysql' or 'sqlite'",
		})
	}

	if needValue && t.Value == "" {
		errors = append(errors, ValidationError{
			Field:   prefix + ".value",
			Message: "value column is required",
		})
	}

	return errors
}

func (c *Config) validateOutput() ValidationErrors {
	var errors ValidationErrors

	validFormats := map[string]bool{"text": true, "csv": true, "xlsx": true, "": true}
	if !validFormats[c.Output.Format] {
		errors = append(errors, ValidationError{
			Field:   "output.format",
			Message: "format must be 'text', 'csv', or 'xlsx'",
		})
	}

	if c.Output.Format == "xlsx" && c.Output.Path == "" {
		errors = append(errors, ValidationError{
			Field:   "output.path",
			Message: "path is required for xlsx output",
		})
	}

	return errors
}

func (c *Config) validateLogging() ValidationErrors {
	var errors ValidationErrors

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "": true}
	if !validLevels[c.Logging.Level] {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Message: "level must be 'debug', 'info', 'warn', or 'error'",
		})
	}

	validFormats := map[string]bool{"json": true, "text": true, "": true}
	if !validFormats[c.Logging.Format] {
		errors = append(errors, ValidationError{
			Field:   "logging.format",
			Message: "format must be 'json' or 'text'",
		})
	}

	return errors
}

// defaultKeyType treats an omitted key type as text.
func defaultKeyType(s string) string {
	if s == "" {
		return "text"
	}
	return strings.ToLower(s)
}
