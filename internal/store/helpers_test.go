package store

import (
	"time"

	"github.com/dbsmedya/demanddiff/internal/analysis"
)

var demandSchema = analysis.MustSchema(
	analysis.Field{Name: "ba_code", Type: analysis.TypeText},
	analysis.Field{Name: "datetime_utc", Type: analysis.TypeTimestamp},
	analysis.Field{Name: "demand_mwh", Type: analysis.TypeNumeric},
)

func hour(h int) time.Time {
	return time.Date(2020, 1, 1, h, 0, 0, 0, time.UTC)
}

func demandRequest(table string) Request {
	return Request{Table: table, Schema: demandSchema}
}
