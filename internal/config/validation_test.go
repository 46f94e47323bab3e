package config

import (
	"errors"
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Source: DatabaseConfig{
			Host:     "localhost",
			Port:     3306,
			User:     "root",
			Password: "pass",
			Database: "pudl",
		},
		Comparisons: map[string]ComparisonConfig{
			"ferc_vs_eia": {
				KeyFields:  []KeyField{{Name: "ba_code", Type: "text"}, {Name: "respondent_id", Type: "integer"}},
				Timestamp:  "datetime_utc",
				Reference:  TableConfig{Table: "ferc714", Value: "demand_mwh"},
				Comparison: TableConfig{Table: "eia930", Value: "demand_mwh"},
			},
		},
	}
}

// validationFields unwraps err and returns the failing field names.
func validationFields(t *testing.T, err error) []string {
	t.Helper()
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %T: %v", err, err)
	}
	fields := make([]string, len(verrs))
	for i, e := range verrs {
		fields[i] = e.Field
	}
	return fields
}

func containsField(fields []string, want string) bool {
	for _, f := range fields {
		if f == want {
			return true
		}
	}
	return false
}

func TestValidConfig(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Errorf("expected no validation errors, got: %v", err)
	}
}

func TestMissingSourceHost(t *testing.T) {
	cfg := validConfig()
	cfg.Source.Host = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error for missing source host")
	}
	if !strings.Contains(err.Error(), "source.host") {
		t.Errorf("expected error about source.host, got: %v", err)
	}
}

func TestSourceNotRequiredForSQLiteOnly(t *testing.T) {
	cfg := validConfig()
	cfg.Source = DatabaseConfig{}
	job := cfg.Comparisons["ferc_vs_eia"]
	job.Reference.Store = StoreSQLite
	job.Comparison.Store = StoreSQLite
	cfg.Comparisons["ferc_vs_eia"] = job

	err := cfg.Validate()
	fields := validationFields(t, err)
	if containsField(fields, "source.host") {
		t.Errorf("source should not be validated, got %v", fields)
	}
	if !containsField(fields, "local.path") {
		t.Errorf("expected local.path error, got %v", fields)
	}

	cfg.Local.Path = "pudl.sqlite"
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected no validation errors, got: %v", err)
	}
}

func TestNoJobs(t *testing.T) {
	cfg := validConfig()
	cfg.Comparisons = nil

	fields := validationFields(t, cfg.Validate())
	if !containsField(fields, "comparisons") {
		t.Errorf("expected comparisons error, got %v", fields)
	}
}

func TestComparisonValidation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*ComparisonConfig)
		field  string
	}{
		{"no keys", func(c *ComparisonConfig) { c.KeyFields = nil }, "comparisons.ferc_vs_eia.key_fields"},
		{"empty key name", func(c *ComparisonConfig) { c.KeyFields[0].Name = "" }, "comparisons.ferc_vs_eia.key_fields[0].name"},
		{"duplicate key", func(c *ComparisonConfig) { c.KeyFields[1].Name = "ba_code" }, "comparisons.ferc_vs_eia.key_fields[1].name"},
		{"numeric key", func(c *ComparisonConfig) { c.KeyFields[0].Type = "numeric" }, "comparisons.ferc_vs_eia.key_fields[0].type"},
		{"no timestamp", func(c *ComparisonConfig) { c.Timestamp = "" }, "comparisons.ferc_vs_eia.timestamp"},
		{"no reference table", func(c *ComparisonConfig) { c.Reference.Table = "" }, "comparisons.ferc_vs_eia.reference.table"},
		{"no comparison value", func(c *ComparisonConfig) { c.Comparison.Value = "" }, "comparisons.ferc_vs_eia.comparison.value"},
		{"bad store", func(c *ComparisonConfig) { c.Comparison.Store = "postgres" }, "comparisons.ferc_vs_eia.comparison.store"},
		{"bad join", func(c *ComparisonConfig) { c.Join = "left" }, "comparisons.ferc_vs_eia.join"},
		{"bad bucket", func(c *ComparisonConfig) { c.Bucket = "week" }, "comparisons.ferc_vs_eia.bucket"},
		{"bad rank field", func(c *ComparisonConfig) { c.Rank.By = "ratio" }, "comparisons.ferc_vs_eia.rank.by"},
		{"negative top_n", func(c *ComparisonConfig) { c.Rank.TopN = -1 }, "comparisons.ferc_vs_eia.rank.top_n"},
		{"undeclared group_by", func(c *ComparisonConfig) { c.GroupBy = []string{"region"} }, "comparisons.ferc_vs_eia.group_by"},
		{"normalize integer key", func(c *ComparisonConfig) { c.NormalizeCodes = []string{"respondent_id"} }, "comparisons.ferc_vs_eia.normalize_codes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			job := cfg.Comparisons["ferc_vs_eia"]
			job.KeyFields = append([]KeyField(nil), job.KeyFields...)
			tt.modify(&job)
			cfg.Comparisons["ferc_vs_eia"] = job

			fields := validationFields(t, cfg.Validate())
			if !containsField(fields, tt.field) {
				t.Errorf("expected error on %s, got %v", tt.field, fields)
			}
		})
	}
}

func TestImputationValidation(t *testing.T) {
	cfg := validConfig()
	cfg.Imputations = map[string]ImputationConfig{
		"eia_imputed": {
			KeyFields: []KeyField{{Name: "ba_code"}},
			Table:     TableConfig{Table: "eia930"},
			Bucket:    "month",
		},
	}

	fields := validationFields(t, cfg.Validate())
	if !containsField(fields, "imputations.eia_imputed.flag") {
		t.Errorf("expected flag error, got %v", fields)
	}
	if !containsField(fields, "imputations.eia_imputed.timestamp") {
		t.Errorf("expected timestamp error when bucketing, got %v", fields)
	}

	job := cfg.Imputations["eia_imputed"]
	job.Flag = "demand_imputed"
	job.Timestamp = "datetime_utc"
	cfg.Imputations["eia_imputed"] = job
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected no validation errors, got: %v", err)
	}
}

func TestAggregateValidation(t *testing.T) {
	cfg := validConfig()
	cfg.Comparisons = nil
	cfg.Aggregates = map[string]AggregateConfig{
		"eia_bulk": {
			KeyFields: []KeyField{{Name: "ba_code"}},
			Table:     TableConfig{Table: "eia930"},
			Bucket:    "fortnight",
		},
	}

	fields := validationFields(t, cfg.Validate())
	if containsField(fields, "comparisons") {
		t.Errorf("an aggregate job alone should be enough, got %v", fields)
	}
	if !containsField(fields, "aggregates.eia_bulk.table.value") {
		t.Errorf("expected value error, got %v", fields)
	}
	if !containsField(fields, "aggregates.eia_bulk.bucket") {
		t.Errorf("expected bucket error, got %v", fields)
	}

	job := cfg.Aggregates["eia_bulk"]
	job.Table.Value = "demand_mwh"
	job.Bucket = "year"
	cfg.Aggregates["eia_bulk"] = job
	fields = validationFields(t, cfg.Validate())
	if !containsField(fields, "aggregates.eia_bulk.timestamp") {
		t.Errorf("expected timestamp error when bucketing, got %v", fields)
	}

	job.Timestamp = "datetime_utc"
	cfg.Aggregates["eia_bulk"] = job
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected no validation errors, got: %v", err)
	}
}

func TestOutputValidation(t *testing.T) {
	cfg := validConfig()
	cfg.Output.Format = "xlsx"

	fields := validationFields(t, cfg.Validate())
	if !containsField(fields, "output.path") {
		t.Errorf("expected output.path error, got %v", fields)
	}

	cfg.Output.Format = "parquet"
	fields = validationFields(t, cfg.Validate())
	if !containsField(fields, "output.format") {
		t.Errorf("expected output.format error, got %v", fields)
	}
}

func TestInvalidLoggingLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "verbose"
	cfg.Logging.Format = "xml"

	fields := validationFields(t, cfg.Validate())
	if !containsField(fields, "logging.level") || !containsField(fields, "logging.format") {
		t.Errorf("expected logging errors, got %v", fields)
	}
}

func TestValidationErrorsFormat(t *testing.T) {
	errs := ValidationErrors{
		{Field: "field1", Message: "error1"},
		{Field: "field2", Message: "error2"},
	}

	want := "validation failed:\n  - field1: error1\n  - field2: error2"
	if errs.Error() != want {
		t.Errorf("unexpected error string %q", errs.Error())
	}
	if (ValidationErrors{}).Error() != "" {
		t.Error("expected empty string for no errors")
	}
}
