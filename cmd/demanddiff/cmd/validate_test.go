package cmd

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCommandStructure(t *testing.T) {
	assert.NotNil(t, validateCmd)
	assert.Equal(t, "validate", validateCmd.Use)
	assert.NotEmpty(t, validateCmd.Short)
	assert.NotEmpty(t, validateCmd.Long)
	assert.NotNil(t, validateCmd.RunE)
}

func TestValidateCommandChecks(t *testing.T) {
	doc := validateCmd.Long
	assert.Contains(t, doc, "Checks performed")
	assert.Contains(t, doc, "Configuration")
	assert.Contains(t, doc, "Table and column existence")
	assert.Contains(t, doc, "demanddiff validate")
}

func TestValidateCommandNoJobFlag(t *testing.T) {
	// Validate checks every job, not a specific one
	assert.Nil(t, validateCmd.Flags().Lookup("job"))
	assert.NotNil(t, validateCmd.Flags().Lookup("check-schema"))
}

func TestRunValidate(t *testing.T) {
	originalCheckSchema := checkSchema
	defer func() {
		checkSchema = originalCheckSchema
	}()

	store := writeDemandStore(t)
	valid := fmt.Sprintf(demandConfig, store)
	missingColumn := strings.Replace(valid, "value: demand_reported_mwh", "value: demand_mwh", 1)

	tests := []struct {
		name        string
		config      string
		checkSchema bool
		want        []string
		wantErr     string
	}{
		{
			name:   "configuration only",
			config: valid,
			want:   []string{"Comparisons found: 1", "Imputations found: 1", "Aggregates found: 1", "Configuration is valid"},
		},
		{
			name:        "schema checks pass",
			config:      valid,
			checkSchema: true,
			want:        []string{"--- Comparison: ferc_vs_eia ---", "--- Imputation: eia_imputed ---", "--- Aggregate: eia_bulk ---", "All jobs validated successfully"},
		},
		{
			name:        "missing column",
			config:      missingColumn,
			checkSchema: true,
			want:        []string{"Schema check failed", "demand_mwh"},
			wantErr:     "validation failed for one or more jobs",
		},
		{
			name:    "invalid configuration",
			config:  "comparisons: {}\n",
			wantErr: "at least one comparison, imputation or aggregate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			useConfig(t, tt.config)
			checkSchema = tt.checkSchema

			var buf bytes.Buffer
			validateCmd.SetOut(&buf)
			validateCmd.SetErr(&buf)

			err := runValidate(validateCmd, []string{})
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			for _, want := range tt.want {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestValidateIsAddedToRoot(t *testing.T) {
	found := false
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "validate" {
			found = true
			break
		}
	}
	assert.True(t, found, "validate command should be added to root command")
}
