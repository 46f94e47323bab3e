package analysis

import (
	"time"

	"github.com/elliotchance/orderedmap/v2"
)

// ImputationSpec selects the grouping and the nullable flag field whose
// non-null values mark estimated rather than observed measurements.
type ImputationSpec struct {
	GroupKeys []string
	Flag      string
	Timestamp string // required unless Bucket is BucketNone
	Bucket    Bucket
}

// Rate is the imputation rate of one group.
type Rate struct {
	Key     GroupKey
	Period  time.Time
	Rows    int
	Imputed int
}

// Fraction returns Imputed/Rows, always within [0, 1].
func (r Rate) Fraction() float64 {
	return float64(r.Imputed) / float64(r.Rows)
}

// Rates maps (GroupKey, period) to a Rate in first-seen order. Only groups
// with at least one row are present.
type Rates struct {
	bucket Bucket
	groups *orderedmap.OrderedMap[string, *Rate]
}

// Len returns the number of groups.
func (r *Rates) Len() int { return r.groups.Len() }

// Bucket returns the granularity the rates were computed at.
func (r *Rates) Bucket() Bucket { return r.bucket }

// Get returns the rate for key in the period containing at.
func (r *Rates) Get(key GroupKey, at time.Time) (Rate, bool) {
	g, ok := r.groups.Get(groupID(key, r.bucket.Period(at)))
	if !ok {
		return Rate{}, false
	}
	return *g, true
}

// Entries returns every rate in first-seen order.
func (r *Rates) Entries() []Rate {
	out := make([]Rate, 0, r.groups.Len())
	for el := r.groups.Front(); el != nil; el = el.Next() {
		out = append(out, *el.Value)
	}
	return out
}

// ImputationRate computes, per group, the fraction of rows whose flag is set.
func ImputationRate(t *Table, spec ImputationSpec) (*Rates, error) {
	if t == nil {
		return nil, argumentError("table", "must not be nil")
	}
	if !spec.Bucket.valid() {
		return nil, argumentError("bucket", "unknown granularity %d", int(spec.Bucket))
	}
	keyCols, _, err := t.keyColumns(spec.GroupKeys)
	if err != nil {
		return nil, err
	}
	flagCol, _, err := t.column(spec.Flag, FieldType.Nullable, "nullable flag")
	if err != nil {
		return nil, err
	}
	tsCol, err := optionalTimestamp(t, spec.Timestamp, spec.Bucket)
	if err != nil {
		return nil, err
	}

	out := &Rates{bucket: spec.Bucket, groups: orderedmap.NewOrderedMap[string, *Rate]()}
	for i := range t.rows {
		key := t.key(i, keyCols)
		var period time.Time
		if tsCol >= 0 {
			period = spec.Bucket.Period(t.timestamp(i, tsCol))
		}
		id := groupID(key, period)
		g, ok := out.groups.Get(id)
		if !ok {
			g = &Rate{Key: key, Period: period}
			out.groups.Set(id, g)
		}
		g.Rows++
		if !t.rows[i][flagCol].IsNull() {
			g.Imputed++
		}
	}
	return out, nil
}
