package comparer

import (
	"fmt"

	"github.com/dbsmedya/demanddiff/internal/analysis"
	"github.com/dbsmedya/demanddiff/internal/config"
	"github.com/dbsmedya/demanddiff/internal/store"
)

func keyFields(keys []config.KeyField) ([]analysis.Field, error) {
	fields := make([]analysis.Field, len(keys))
	for i, k := range keys {
		typeName := k.Type
		if typeName == "" {
			typeName = "text"
		}
		typ, err := analysis.ParseFieldType(typeName)
		if err != nil {
			return nil, err
		}
		fields[i] = analysis.Field{Name: k.Name, Type: typ}
	}
	return fields, nil
}

// sideRequest selects the key, timestamp and value columns of one side of
// a comparison.
func sideRequest(job *config.ComparisonConfig, side config.TableConfig) (store.Request, error) {
	fields, err := keyFields(job.KeyFields)
	if err != nil {
		return store.Request{}, err
	}
	fields = append(fields,
		analysis.Field{Name: job.Timestamp, Type: analysis.TypeTimestamp},
		analysis.Field{Name: side.Value, Type: analysis.TypeNumeric},
	)
	schema, err := analysis.NewSchema(fields...)
	if err != nil {
		return store.Request{}, fmt.Errorf("table %s: %w", side.Table, err)
	}
	return store.Request{Table: side.Table, Schema: schema, Where: side.Where}, nil
}

// imputationRequest selects the key, optional timestamp and flag columns.
func imputationRequest(job *config.ImputationConfig) (store.Request, error) {
	fields, err := keyFields(job.KeyFields)
	if err != nil {
		return store.Request{}, err
	}
	if job.Timestamp != "" {
		fields = append(fields, analysis.Field{Name: job.Timestamp, Type: analysis.TypeTimestamp})
	}
	fields = append(fields, analysis.Field{Name: job.Flag, Type: analysis.TypeFlag})
	schema, err := analysis.NewSchema(fields...)
	if err != nil {
		return store.Request{}, fmt.Errorf("table %s: %w", job.Table.Table, err)
	}
	return store.Request{Table: job.Table.Table, Schema: schema, Where: job.Table.Where}, nil
}

// aggregateRequest selects the key, optional timestamp and value columns.
func aggregateRequest(job *config.AggregateConfig) (store.Request, error) {
	fields, err := keyFields(job.KeyFields)
	if err != nil {
		return store.Request{}, err
	}
	if job.Timestamp != "" {
		fields = append(fields, analysis.Field{Name: job.Timestamp, Type: analysis.TypeTimestamp})
	}
	fields = append(fields, analysis.Field{Name: job.Table.Value, Type: analysis.TypeNumeric})
	schema, err := analysis.NewSchema(fields...)
	if err != nil {
		return store.Request{}, fmt.Errorf("table %s: %w", job.Table.Table, err)
	}
	return store.Request{Table: job.Table.Table, Schema: schema, Where: job.Table.Where}, nil
}
