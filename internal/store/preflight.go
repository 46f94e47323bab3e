package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// PreflightError represents a preflight check failure.
type PreflightError struct {
	Check   string
	Message string
	Tables  []string
	Details map[string]string
}

func (e *PreflightError) Error() string {
	if len(e.Details) > 0 {
		parts := make([]string, 0, len(e.Details))
		for _, table := range e.Tables {
			parts = append(parts, fmt.Sprintf("%s: %s", table, e.Details[table]))
		}
		return fmt.Sprintf("%s: %s (%s)", e.Check, e.Message, strings.Join(parts, "; "))
	}
	if len(e.Tables) > 0 {
		return fmt.Sprintf("%s: %s (tables: %v)", e.Check, e.Message, e.Tables)
	}
	return fmt.Sprintf("%s: %s", e.Check, e.Message)
}

// Preflight checks that every requested table exists in s and carries every
// requested field. Missing tables are reported before missing columns.
func Preflight(ctx context.Context, s Supplier, reqs ...Request) error {
	var missingTables []string
	missingColumns := map[string]string{}

	for _, req := range reqs {
		columns, exists, err := s.Columns(ctx, req.Table)
		if err != nil {
			return err
		}
		if !exists {
			missingTables = append(missingTables, req.Table)
			continue
		}

		have := make(map[string]bool, len(columns))
		for _, c := range columns {
			have[strings.ToLower(c)] = true
		}
		var missing []string
		for _, name := range req.Schema.Names() {
			if !have[strings.ToLower(name)] {
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			missingColumns[req.Table] = strings.Join(missing, ", ")
		}
	}

	if len(missingTables) > 0 {
		return &PreflightError{
			Check:   "TABLE_EXISTENCE_CHECK",
			Message: fmt.Sprintf("Tables not found in %s store", s.Name()),
			Tables:  missingTables,
		}
	}
	if len(missingColumns) > 0 {
		tables := make([]string, 0, len(missingColumns))
		for t := range missingColumns {
			tables = append(tables, t)
		}
		sort.Strings(tables)
		return &PreflightError{
			Check:   "COLUMN_EXISTENCE_CHECK",
			Message: fmt.Sprintf("Columns not found in %s store", s.Name()),
			Tables:  tables,
			Details: missingColumns,
		}
	}
	return nil
}
