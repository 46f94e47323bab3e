package comparer

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dbsmedya/demanddiff/internal/config"
	"github.com/dbsmedya/demanddiff/internal/logger"
	"github.com/dbsmedya/demanddiff/internal/report"
	"github.com/dbsmedya/demanddiff/internal/store"
)

// SideEstimate is the row count one load would read.
type SideEstimate struct {
	Role  string // reference, comparison, or table
	Store string
	Table string
	Where string
	Rows  int64
}

// EstimateResult holds dry-run estimation results.
type EstimateResult struct {
	Job   string
	Sides []SideEstimate
}

// TotalRows sums the rows across every side.
func (e *EstimateResult) TotalRows() int64 {
	var total int64
	for _, s := range e.Sides {
		total += s.Rows
	}
	return total
}

// Title implements report.Tabular.
func (e *EstimateResult) Title() string { return "Dry run: " + e.Job }

// Meta implements report.Tabular.
func (e *EstimateResult) Meta() []report.Meta {
	return []report.Meta{{Name: "total_rows", Value: strconv.FormatInt(e.TotalRows(), 10)}}
}

// Header implements report.Tabular.
func (e *EstimateResult) Header() []string {
	return []string{"role", "store", "table", "where", "rows"}
}

// Rows implements report.Tabular.
func (e *EstimateResult) Rows() [][]report.Cell {
	rows := make([][]report.Cell, len(e.Sides))
	for i, s := range e.Sides {
		where := s.Where
		if where == "" {
			where = "-"
		}
		rows[i] = []report.Cell{
			{Text: s.Role, Value: s.Role},
			{Text: s.Store, Value: s.Store},
			{Text: s.Table, Value: s.Table},
			{Text: where, Value: where},
			{Text: strconv.FormatInt(s.Rows, 10), Value: int(s.Rows)},
		}
	}
	return rows
}

// Estimator counts the rows a job would load, without loading them.
type Estimator struct {
	stores *store.Set
	logger *logger.Logger
}

// NewEstimator creates a new estimator.
func NewEstimator(stores *store.Set, log *logger.Logger) *Estimator {
	if log == nil {
		log = logger.NewDefault()
	}
	return &Estimator{stores: stores, logger: log}
}

// EstimateComparison counts both sides of a comparison.
func (e *Estimator) EstimateComparison(ctx context.Context, name string, job *config.ComparisonConfig) (*EstimateResult, error) {
	result := &EstimateResult{Job: name}
	sides := []struct {
		role string
		cfg  config.TableConfig
	}{
		{"reference", job.Reference},
		{"comparison", job.Comparison},
	}
	for _, side := range sides {
		req, err := sideRequest(job, side.cfg)
		if err != nil {
			return nil, err
		}
		est, err := e.count(ctx, side.role, side.cfg, req)
		if err != nil {
			return nil, err
		}
		result.Sides = append(result.Sides, est)
	}
	return result, nil
}

// EstimateImputation counts the table of an imputation job.
func (e *Estimator) EstimateImputation(ctx context.Context, name string, job *config.ImputationConfig) (*EstimateResult, error) {
	req, err := imputationRequest(job)
	if err != nil {
		return nil, err
	}
	est, err := e.count(ctx, "table", job.Table, req)
	if err != nil {
		return nil, err
	}
	return &EstimateResult{Job: name, Sides: []SideEstimate{est}}, nil
}

// EstimateAggregate counts the table of an aggregate job.
func (e *Estimator) EstimateAggregate(ctx context.Context, name string, job *config.AggregateConfig) (*EstimateResult, error) {
	req, err := aggregateRequest(job)
	if err != nil {
		return nil, err
	}
	est, err := e.count(ctx, "table", job.Table, req)
	if err != nil {
		return nil, err
	}
	return &EstimateResult{Job: name, Sides: []SideEstimate{est}}, nil
}

func (e *Estimator) count(ctx context.Context, role string, side config.TableConfig, req store.Request) (SideEstimate, error) {
	sup, err := e.stores.Get(side.StoreName())
	if err != nil {
		return SideEstimate{}, err
	}
	rows, err := sup.Count(ctx, req)
	if err != nil {
		return SideEstimate{}, fmt.Errorf("failed to estimate %s: %w", role, err)
	}
	e.logger.WithTable(side.Table).Debugf("Estimated %d rows", rows)
	return SideEstimate{Role: role, Store: sup.Name(), Table: side.Table, Where: side.Where, Rows: rows}, nil
}
