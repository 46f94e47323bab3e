package report

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/demanddiff/internal/analysis"
)

func scenarioRecords() []analysis.Record {
	return []analysis.Record{
		{
			Key:                  analysis.Keys("CISO"),
			SumA:                 analysis.Defined(200),
			SumB:                 analysis.Defined(180),
			Difference:           analysis.Defined(20),
			FractionalDifference: analysis.Defined(0.1),
			Matched:              2,
		},
		{
			Key:                  analysis.Keys("NEVP"),
			SumA:                 analysis.Defined(0),
			SumB:                 analysis.Defined(50),
			Difference:           analysis.Defined(-50),
			FractionalDifference: analysis.Undefined,
			Matched:              1,
		},
	}
}

func TestNew(t *testing.T) {
	r := New("ferc_vs_eia", []string{"ba_code"}, analysis.BucketNone, analysis.JoinInner, analysis.ByFractionalDifference, scenarioRecords())

	_, err := uuid.Parse(r.RunID)
	assert.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), r.GeneratedAt, time.Minute)
	assert.Equal(t, "Discrepancy report: ferc_vs_eia", r.Title())

	other := New("ferc_vs_eia", nil, analysis.BucketNone, analysis.JoinInner, analysis.ByFractionalDifference, nil)
	assert.NotEqual(t, r.RunID, other.RunID)
}

func TestReportRows(t *testing.T) {
	r := New("ferc_vs_eia", []string{"ba_code"}, analysis.BucketNone, analysis.JoinInner, analysis.ByFractionalDifference, scenarioRecords())

	assert.Equal(t, []string{
		"ba_code", "sum_a", "sum_b", "difference", "fractional_difference", "percent_difference",
		"matched", "only_a", "only_b",
	}, r.Header())

	rows := r.Rows()
	require.Len(t, rows, 2)

	texts := func(row []Cell) []string {
		out := make([]string, len(row))
		for i, c := range row {
			out[i] = c.Text
		}
		return out
	}
	assert.Equal(t, []string{"CISO", "200.000", "180.000", "20.000", "0.100000", "10.00", "2", "0", "0"}, texts(rows[0]))
	assert.Equal(t, []string{"NEVP", "0.000", "50.000", "-50.000", "undefined", "undefined", "1", "0", "0"}, texts(rows[1]))

	assert.Equal(t, 0.1, rows[0][4].Value)
	assert.Equal(t, "undefined", rows[1][4].Value)
}

func TestReportPeriodColumn(t *testing.T) {
	rec := scenarioRecords()[0]
	rec.Period = time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC)
	r := New("monthly", []string{"ba_code"}, analysis.BucketMonth, analysis.JoinOuter, analysis.ByAbsoluteDifference, []analysis.Record{rec})

	assert.Equal(t, "period", r.Header()[1])
	assert.Equal(t, "2020-03", r.Rows()[0][1].Text)

	meta := map[string]string{}
	for _, m := range r.Meta() {
		meta[m.Name] = m.Value
	}
	assert.Equal(t, "month", meta["bucket"])
	assert.Equal(t, "outer", meta["join"])
	assert.Equal(t, "absolute_difference", meta["ranked_by"])
	assert.Equal(t, "1", meta["records"])
}

func TestImputationReport(t *testing.T) {
	rates := []analysis.Rate{
		{Key: analysis.Keys("CISO"), Period: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), Rows: 10, Imputed: 3},
	}
	r := NewImputation("eia_imputed", []string{"ba_code"}, analysis.BucketYear, rates)
	r.Description = "EIA-930 imputation"

	assert.Equal(t, []string{"ba_code", "period", "rows", "imputed", "imputation_rate"}, r.Header())
	row := r.Rows()[0]
	assert.Equal(t, "2020", row[1].Text)
	assert.Equal(t, "0.3000", row[4].Text)
	assert.Equal(t, "description", r.Meta()[0].Name)
}

func TestAggregateReport(t *testing.T) {
	schema := analysis.MustSchema(
		analysis.Field{Name: "ba_code", Type: analysis.TypeText},
		analysis.Field{Name: "demand_mwh", Type: analysis.TypeNumeric},
	)
	tbl := analysis.NewTable("eia930", schema)
	require.NoError(t, tbl.Append(analysis.Text("CISO"), analysis.Float(300)))
	require.NoError(t, tbl.Append(analysis.Text("NEVP"), analysis.Float(100)))
	require.NoError(t, tbl.Append(analysis.Text("PACW"), analysis.Null()))

	agg, err := analysis.Aggregate(tbl, analysis.AggregateSpec{GroupKeys: []string{"ba_code"}, Value: "demand_mwh"})
	require.NoError(t, err)

	r := NewAggregate("eia_bulk", []string{"ba_code"}, "demand_mwh", agg)
	_, err = uuid.Parse(r.RunID)
	assert.NoError(t, err)
	assert.Equal(t, "Aggregate report: eia_bulk", r.Title())
	assert.Equal(t, []string{"ba_code", "rows", "observed", "sum", "share"}, r.Header())

	rows := r.Rows()
	require.Len(t, rows, 3)
	assert.Equal(t, "300.000", rows[0][3].Text)
	assert.Equal(t, "0.750000", rows[0][4].Text)
	assert.Equal(t, "0.250000", rows[1][4].Text)
	assert.Equal(t, "0", rows[2][2].Text)
	assert.Equal(t, "undefined", rows[2][3].Text, "no observed value")
	assert.Equal(t, "undefined", rows[2][4].Text)

	meta := map[string]string{}
	for _, m := range r.Meta() {
		meta[m.Name] = m.Value
	}
	assert.Equal(t, "400.000", meta["total"])
	assert.Equal(t, "demand_mwh", meta["value"])
	assert.Equal(t, "none", meta["bucket"])
}
