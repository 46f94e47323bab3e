package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var demandSchema = MustSchema(
	Field{Name: "ba_code", Type: TypeText},
	Field{Name: "datetime_utc", Type: TypeTimestamp},
	Field{Name: "demand_mwh", Type: TypeNumeric},
)

func hour(h int) time.Time {
	return time.Date(2023, time.January, 1, h, 0, 0, 0, time.UTC)
}

type demandRow struct {
	ba     string
	at     time.Time
	demand Value
}

func demandTable(t *testing.T, name string, rows ...demandRow) *Table {
	t.Helper()
	tbl := NewTable(name, demandSchema)
	for _, r := range rows {
		require.NoError(t, tbl.Append(Text(r.ba), Time(r.at), r.demand))
	}
	return tbl
}

func ptr(n int) *int { return &n }
