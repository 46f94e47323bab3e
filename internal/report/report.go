// Package report turns discrepancy records, imputation rates and group
// sums into text, CSV and XLSX tables.
package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dbsmedya/demanddiff/internal/analysis"
)

// Cell is one rendered table cell. Text is the printable form; Value is the
// typed form handed to spreadsheets (float64, int, or string).
type Cell struct {
	Text  string
	Value interface{}
}

// Meta is a name/value line printed above a table.
type Meta struct {
	Name  string
	Value string
}

// Tabular is anything that renders as a titled table.
type Tabular interface {
	Title() string
	Meta() []Meta
	Header() []string
	Rows() [][]Cell
}

// Report is the outcome of one comparison job.
type Report struct {
	RunID       string
	Job         string
	Description string
	GeneratedAt time.Time
	KeyFields   []string
	Bucket      analysis.Bucket
	Join        analysis.JoinMode
	RankedBy    analysis.RankField
	Records     []analysis.Record
}

// New creates a Report stamped with a fresh run ID.
func New(job string, keyFields []string, bucket analysis.Bucket, join analysis.JoinMode, by analysis.RankField, records []analysis.Record) *Report {
	return &Report{
		RunID:       uuid.NewString(),
		Job:         job,
		GeneratedAt: time.Now().UTC(),
		KeyFields:   keyFields,
		Bucket:      bucket,
		Join:        join,
		RankedBy:    by,
		Records:     records,
	}
}

// Title implements Tabular.
func (r *Report) Title() string {
	return "Discrepancy report: " + r.Job
}

// Meta implements Tabular.
func (r *Report) Meta() []Meta {
	meta := []Meta{
		{"run_id", r.RunID},
		{"generated_at", r.GeneratedAt.Format(time.RFC3339)},
		{"group_by", strings.Join(r.KeyFields, ", ")},
		{"bucket", r.Bucket.String()},
		{"join", r.Join.String()},
		{"ranked_by", r.RankedBy.String()},
		{"records", strconv.Itoa(len(r.Records))},
	}
	if r.Description != "" {
		meta = append([]Meta{{"description", r.Description}}, meta...)
	}
	return meta
}

// Header implements Tabular.
func (r *Report) Header() []string {
	header := append([]string(nil), r.KeyFields...)
	if r.Bucket != analysis.BucketNone {
		header = append(header, "period")
	}
	return append(header,
		"sum_a", "sum_b", "difference", "fractional_difference", "percent_difference",
		"matched", "only_a", "only_b",
	)
}

// Rows implements Tabular.
func (r *Report) Rows() [][]Cell {
	rows := make([][]Cell, 0, len(r.Records))
	for _, rec := range r.Records {
		row := keyCells(rec.Key)
		if r.Bucket != analysis.BucketNone {
			row = append(row, textCell(r.Bucket.Label(rec.Period)))
		}
		row = append(row,
			metricCell(rec.SumA, 3),
			metricCell(rec.SumB, 3),
			metricCell(rec.Difference, 3),
			metricCell(rec.FractionalDifference, 6),
			metricCell(rec.PercentDifference(), 2),
			intCell(rec.Matched),
			intCell(rec.OnlyA),
			intCell(rec.OnlyB),
		)
		rows = append(rows, row)
	}
	return rows
}

// ImputationReport is the outcome of one imputation job.
type ImputationReport struct {
	RunID       string
	Job         string
	Description string
	GeneratedAt time.Time
	KeyFields   []string
	Bucket      analysis.Bucket
	Rates       []analysis.Rate
}

// NewImputation creates an ImputationReport stamped with a fresh run ID.
func NewImputation(job string, keyFields []string, bucket analysis.Bucket, rates []analysis.Rate) *ImputationReport {
	return &ImputationReport{
		RunID:       uuid.NewString(),
		Job:         job,
		GeneratedAt: time.Now().UTC(),
		KeyFields:   keyFields,
		Bucket:      bucket,
		Rates:       rates,
	}
}

// Title implements Tabular.
func (r *ImputationReport) Title() string {
	return "Imputation report: " + r.Job
}

// Meta implements Tabular.
func (r *ImputationReport) Meta() []Meta {
	meta := []Meta{
		{"run_id", r.RunID},
		{"generated_at", r.GeneratedAt.Format(time.RFC3339)},
		{"group_by", strings.Join(r.KeyFields, ", ")},
		{"bucket", r.Bucket.String()},
		{"groups", strconv.Itoa(len(r.Rates))},
	}
	if r.Description != "" {
		meta = append([]Meta{{"description", r.Description}}, meta...)
	}
	return meta
}

// Header implements Tabular.
func (r *ImputationReport) Header() []string {
	header := append([]string(nil), r.KeyFields...)
	if r.Bucket != analysis.BucketNone {
		header = append(header, "period")
	}
	return append(header, "rows", "imputed", "imputation_rate")
}

// Rows implements Tabular.
func (r *ImputationReport) Rows() [][]Cell {
	rows := make([][]Cell, 0, len(r.Rates))
	for _, rate := range r.Rates {
		row := keyCells(rate.Key)
		if r.Bucket != analysis.BucketNone {
			row = append(row, textCell(r.Bucket.Label(rate.Period)))
		}
		row = append(row,
			intCell(rate.Rows),
			intCell(rate.Imputed),
			floatCell(rate.Fraction(), 4),
		)
		rows = append(rows, row)
	}
	return rows
}

// AggregateReport is the outcome of one aggregate job: the summed value per
// group and each group's share of its period total.
type AggregateReport struct {
	RunID       string
	Job         string
	Description string
	GeneratedAt time.Time
	KeyFields   []string
	Bucket      analysis.Bucket
	Value       string
	Sums        []analysis.GroupSum
	Shares      []analysis.Metric
	Total       float64
}

// NewAggregate creates an AggregateReport stamped with a fresh run ID.
func NewAggregate(job string, keyFields []string, value string, agg *analysis.Aggregates) *AggregateReport {
	return &AggregateReport{
		RunID:       uuid.NewString(),
		Job:         job,
		GeneratedAt: time.Now().UTC(),
		KeyFields:   keyFields,
		Bucket:      agg.Bucket(),
		Value:       value,
		Sums:        agg.Entries(),
		Shares:      agg.Shares(),
		Total:       agg.Total(),
	}
}

// Title implements Tabular.
func (r *AggregateReport) Title() string {
	return "Aggregate report: " + r.Job
}

// Meta implements Tabular.
func (r *AggregateReport) Meta() []Meta {
	meta := []Meta{
		{"run_id", r.RunID},
		{"generated_at", r.GeneratedAt.Format(time.RFC3339)},
		{"group_by", strings.Join(r.KeyFields, ", ")},
		{"bucket", r.Bucket.String()},
		{"value", r.Value},
		{"groups", strconv.Itoa(len(r.Sums))},
		{"total", strconv.FormatFloat(r.Total, 'f', 3, 64)},
	}
	if r.Description != "" {
		meta = append([]Meta{{"description", r.Description}}, meta...)
	}
	return meta
}

// Header implements Tabular.
func (r *AggregateReport) Header() []string {
	header := append([]string(nil), r.KeyFields...)
	if r.Bucket != analysis.BucketNone {
		header = append(header, "period")
	}
	return append(header, "rows", "observed", "sum", "share")
}

// Rows implements Tabular.
func (r *AggregateReport) Rows() [][]Cell {
	rows := make([][]Cell, 0, len(r.Sums))
	for i, g := range r.Sums {
		row := keyCells(g.Key)
		if r.Bucket != analysis.BucketNone {
			row = append(row, textCell(r.Bucket.Label(g.Period)))
		}
		sum := analysis.Undefined
		if g.Observed > 0 {
			sum = analysis.Defined(g.Sum)
		}
		share := analysis.Undefined
		if i < len(r.Shares) {
			share = r.Shares[i]
		}
		row = append(row,
			intCell(g.Rows),
			intCell(g.Observed),
			metricCell(sum, 3),
			metricCell(share, 6),
		)
		rows = append(rows, row)
	}
	return rows
}

func keyCells(key analysis.GroupKey) []Cell {
	cells := make([]Cell, len(key))
	for i, part := range key {
		cells[i] = textCell(part.String())
	}
	return cells
}

func textCell(s string) Cell {
	return Cell{Text: s, Value: s}
}

func intCell(n int) Cell {
	return Cell{Text: strconv.Itoa(n), Value: n}
}

func floatCell(f float64, prec int) Cell {
	return Cell{Text: strconv.FormatFloat(f, 'f', prec, 64), Value: f}
}

// metricCell renders Undefined as the literal "undefined", never 0 or NaN.
func metricCell(m analysis.Metric, prec int) Cell {
	v, ok := m.Value()
	if !ok {
		return textCell(undefinedText)
	}
	return floatCell(v, prec)
}

const undefinedText = "undefined"

// Format names accepted by Render.
const (
	FormatText = "text"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// UnknownFormatError is returned for an unsupported output format.
type UnknownFormatError struct {
	Format string
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown output format %q (want text, csv, or xlsx)", e.Format)
}
