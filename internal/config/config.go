// Package config provides configuration structures and loading for demanddiff.
package config

import "sort"

// Store names accepted in table configuration.
const (
	StoreMySQL  = "mysql"
	StoreSQLite = "sqlite"
)

// Config represents the complete application configuration.
type Config struct {
	Source      DatabaseConfig              `yaml:"source" mapstructure:"source"`
	Local       LocalStoreConfig            `yaml:"local" mapstructure:"local"`
	Comparisons map[string]ComparisonConfig `yaml:"comparisons" mapstructure:"comparisons"`
	Imputations map[string]ImputationConfig `yaml:"imputations" mapstructure:"imputations"`
	Aggregates  map[string]AggregateConfig  `yaml:"aggregates" mapstructure:"aggregates"`
	Output      OutputConfig                `yaml:"output" mapstructure:"output"`
	Logging     LoggingConfig               `yaml:"logging" mapstructure:"logging"`
}

// DatabaseConfig represents a MySQL database connection configuration.
type DatabaseConfig struct {
	Host               string `yaml:"host" mapstructure:"host"`
	Port               int    `yaml:"port" mapstructure:"port"`
	User               string `yaml:"user" mapstructure:"user"`
	Password           string `yaml:"password" mapstructure:"password"`
	Database           string `yaml:"database" mapstructure:"database"`
	TLS                string `yaml:"tls" mapstructure:"tls"` // disable, preferred, required
	MaxConnections     int    `yaml:"max_connections" mapstructure:"max_connections"`
	MaxIdleConnections int    `yaml:"max_idle_connections" mapstructure:"max_idle_connections"`
}

// LocalStoreConfig points at a local SQLite asset store.
type LocalStoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// KeyField declares one categorical key column.
type KeyField struct {
	Name string `yaml:"name" mapstructure:"name"`
	Type string `yaml:"type" mapstructure:"type"` // text or integer
}

// TableConfig selects a table in one of the stores.
type TableConfig struct {
	Store  string `yaml:"store" mapstructure:"store"` // mysql or sqlite
	Table  string `yaml:"table" mapstructure:"table"`
	Where  string `yaml:"where" mapstructure:"where"`
	Value  string `yaml:"value" mapstructure:"value"`   // numeric measurement column
	Rollup bool   `yaml:"rollup" mapstructure:"rollup"` // sum rows sharing key and timestamp
}

// ComparisonConfig represents a discrepancy job between a reference series
// (A) and a comparison series (B).
type ComparisonConfig struct {
	Description    string      `yaml:"description" mapstructure:"description"`
	KeyFields      []KeyField  `yaml:"key_fields" mapstructure:"key_fields"`
	Timestamp      string      `yaml:"timestamp" mapstructure:"timestamp"`
	Reference      TableConfig `yaml:"reference" mapstructure:"reference"`
	Comparison     TableConfig `yaml:"comparison" mapstructure:"comparison"`
	Join           string      `yaml:"join" mapstructure:"join"`     // inner or outer
	Bucket         string      `yaml:"bucket" mapstructure:"bucket"` // none, year, month
	GroupBy        []string    `yaml:"group_by" mapstructure:"group_by"`
	NormalizeCodes []string    `yaml:"normalize_codes" mapstructure:"normalize_codes"`
	Rank           RankConfig  `yaml:"rank" mapstructure:"rank"`
}

// RankConfig represents ranking settings for a comparison.
type RankConfig struct {
	By        string `yaml:"by" mapstructure:"by"`
	TopN      int    `yaml:"top_n" mapstructure:"top_n"` // 0 keeps every record
	Ascending bool   `yaml:"ascending" mapstructure:"ascending"`
}

// ImputationConfig represents an imputation-rate job.
type ImputationConfig struct {
	Description    string      `yaml:"description" mapstructure:"description"`
	KeyFields      []KeyField  `yaml:"key_fields" mapstructure:"key_fields"`
	Timestamp      string      `yaml:"timestamp" mapstructure:"timestamp"`
	Flag           string      `yaml:"flag" mapstructure:"flag"`
	Table          TableConfig `yaml:"table" mapstructure:"table"`
	Bucket         string      `yaml:"bucket" mapstructure:"bucket"`
	GroupBy        []string    `yaml:"group_by" mapstructure:"group_by"`
	NormalizeCodes []string    `yaml:"normalize_codes" mapstructure:"normalize_codes"`
}

// AggregateConfig represents a job that sums one value column per group and
// reports each group's share of the total (bulk proportions).
type AggregateConfig struct {
	Description    string      `yaml:"description" mapstructure:"description"`
	KeyFields      []KeyField  `yaml:"key_fields" mapstructure:"key_fields"`
	Timestamp      string      `yaml:"timestamp" mapstructure:"timestamp"`
	Table          TableConfig `yaml:"table" mapstructure:"table"`
	Bucket         string      `yaml:"bucket" mapstructure:"bucket"`
	GroupBy        []string    `yaml:"group_by" mapstructure:"group_by"`
	NormalizeCodes []string    `yaml:"normalize_codes" mapstructure:"normalize_codes"`
}

// OutputConfig represents report rendering settings.
type OutputConfig struct {
	Format string `yaml:"format" mapstructure:"format"` // text, csv, xlsx
	Path   string `yaml:"path" mapstructure:"path"`     // empty writes to stdout
	Color  bool   `yaml:"color" mapstructure:"color"`
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or text
	Output string `yaml:"output" mapstructure:"output"` // stdout, stderr, or file path
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Source: DatabaseConfig{
			Port:               3306,
			TLS:                "preferred",
			MaxConnections:     10,
			MaxIdleConnections: 5,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// KeyNames returns the declared key field names in order.
func (c *ComparisonConfig) KeyNames() []string {
	return keyNames(c.KeyFields)
}

// GroupKeys returns the fields records are grouped by: group_by when set,
// otherwise every key field.
func (c *ComparisonConfig) GroupKeys() []string {
	if len(c.GroupBy) > 0 {
		return c.GroupBy
	}
	return c.KeyNames()
}

// KeyNames returns the declared key field names in order.
func (c *ImputationConfig) KeyNames() []string {
	return keyNames(c.KeyFields)
}

// GroupKeys returns group_by when set, otherwise every key field.
func (c *ImputationConfig) GroupKeys() []string {
	if len(c.GroupBy) > 0 {
		return c.GroupBy
	}
	return c.KeyNames()
}

// KeyNames returns the declared key field names in order.
func (c *AggregateConfig) KeyNames() []string {
	return keyNames(c.KeyFields)
}

// GroupKeys returns group_by when set, otherwise every key field.
func (c *AggregateConfig) GroupKeys() []string {
	if len(c.GroupBy) > 0 {
		return c.GroupBy
	}
	return c.KeyNames()
}

func keyNames(fields []KeyField) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

// StoreName returns the configured store, defaulting to MySQL.
func (t TableConfig) StoreName() string {
	if t.Store == "" {
		return StoreMySQL
	}
	return t.Store
}

// Tables returns every table referenced by any job.
func (c *Config) Tables() []TableConfig {
	var tables []TableConfig
	for _, name := range c.ListComparisons() {
		cmp := c.Comparisons[name]
		tables = append(tables, cmp.Reference, cmp.Comparison)
	}
	for _, name := range c.ListImputations() {
		tables = append(tables, c.Imputations[name].Table)
	}
	for _, name := range c.ListAggregates() {
		tables = append(tables, c.Aggregates[name].Table)
	}
	return tables
}

// UsesStore reports whether any job reads from the named store.
func (c *Config) UsesStore(store string) bool {
	for _, t := range c.Tables() {
		if t.StoreName() == store {
			return true
		}
	}
	return false
}

// ListComparisons returns comparison job names sorted.
func (c *Config) ListComparisons() []string {
	names := make([]string, 0, len(c.Comparisons))
	for name := range c.Comparisons {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListImputations returns imputation job names sorted.
func (c *Config) ListImputations() []string {
	names := make([]string, 0, len(c.Imputations))
	for name := range c.Imputations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListAggregates returns aggregate job names sorted.
func (c *Config) ListAggregates() []string {
	names := make([]string, 0, len(c.Aggregates))
	for name := range c.Aggregates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
