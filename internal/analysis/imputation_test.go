package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var imputedSchema = MustSchema(
	Field{Name: "ba_code", Type: TypeText},
	Field{Name: "datetime_utc", Type: TypeTimestamp},
	Field{Name: "demand_imputed_mwh", Type: TypeNumeric},
	Field{Name: "demand_imputed_code", Type: TypeFlag},
)

func TestImputationRateScenarioZ(t *testing.T) {
	tbl := NewTable("imputed", imputedSchema)
	for i := 0; i < 10; i++ {
		flag := Null()
		if i < 3 {
			flag = Text("MISSING")
		}
		require.NoError(t, tbl.Append(Text("Z"), Time(hour(i)), Float(1), flag))
	}

	rates, err := ImputationRate(tbl, ImputationSpec{GroupKeys: []string{"ba_code"}, Flag: "demand_imputed_code"})
	require.NoError(t, err)
	require.Equal(t, 1, rates.Len())

	z, ok := rates.Get(Keys("Z"), time.Time{})
	require.True(t, ok)
	assert.Equal(t, 10, z.Rows)
	assert.Equal(t, 3, z.Imputed)
	assert.InDelta(t, 0.3, z.Fraction(), 1e-12)

	_, ok = rates.Get(Keys("EMPTY"), time.Time{})
	assert.False(t, ok, "groups without rows are absent")
}

func TestImputationRateByYear(t *testing.T) {
	tbl := NewTable("imputed", imputedSchema)
	y22 := time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC)
	y23 := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, tbl.Append(Text("A"), Time(y22), Float(1), Text("X")))
	require.NoError(t, tbl.Append(Text("A"), Time(y23), Float(1), Null()))
	require.NoError(t, tbl.Append(Text("A"), Time(y23), Float(1), Text("X")))

	rates, err := ImputationRate(tbl, ImputationSpec{
		GroupKeys: []string{"ba_code"},
		Flag:      "demand_imputed_code",
		Timestamp: "datetime_utc",
		Bucket:    BucketYear,
	})
	require.NoError(t, err)

	entries := rates.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, 1.0, entries[0].Fraction())
	assert.Equal(t, 0.5, entries[1].Fraction())
	for _, e := range entries {
		assert.GreaterOrEqual(t, e.Fraction(), 0.0)
		assert.LessOrEqual(t, e.Fraction(), 1.0)
	}
}

func TestImputationRateErrors(t *testing.T) {
	tbl := NewTable("imputed", imputedSchema)

	_, err := ImputationRate(tbl, ImputationSpec{GroupKeys: []string{"ba_code"}, Flag: "imputation_flag"})
	assert.ErrorIs(t, err, ErrSchema)

	_, err = ImputationRate(tbl, ImputationSpec{GroupKeys: []string{"ba_code"}, Flag: "datetime_utc"})
	assert.ErrorIs(t, err, ErrSchema, "timestamp fields are never null")

	_, err = ImputationRate(tbl, ImputationSpec{GroupKeys: []string{"ba_code"}, Flag: "demand_imputed_code", Bucket: BucketMonth})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	rates, err := ImputationRate(tbl, ImputationSpec{GroupKeys: []string{"ba_code"}, Flag: "demand_imputed_code"})
	require.NoError(t, err)
	assert.Equal(t, 0, rates.Len())
}
