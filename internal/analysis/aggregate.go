package analysis

import (
	"time"

	"github.com/elliotchance/orderedmap/v2"
)

// AggregateSpec selects the grouping and the summed field.
type AggregateSpec struct {
	GroupKeys []string
	Timestamp string // required unless Bucket is BucketNone
	Value     string
	Bucket    Bucket
}

// GroupSum is one entry of an Aggregates mapping.
type GroupSum struct {
	Key      GroupKey
	Period   time.Time // zero when not bucketed
	Sum      float64
	Rows     int
	Observed int // rows with a non-null value
}

// Aggregates maps (GroupKey, period) to a sum. Entries keep first-seen order;
// that order carries no meaning beyond determinism.
type Aggregates struct {
	bucket Bucket
	groups *orderedmap.OrderedMap[string, *GroupSum]
}

func newAggregates(b Bucket) *Aggregates {
	return &Aggregates{bucket: b, groups: orderedmap.NewOrderedMap[string, *GroupSum]()}
}

// Bucket returns the granularity the sums were computed at.
func (a *Aggregates) Bucket() Bucket { return a.bucket }

// Len returns the number of groups.
func (a *Aggregates) Len() int { return a.groups.Len() }

// Get returns the sum for key in the period containing at. Pass the zero time
// when not bucketed.
func (a *Aggregates) Get(key GroupKey, at time.Time) (GroupSum, bool) {
	g, ok := a.groups.Get(groupID(key, a.bucket.Period(at)))
	if !ok {
		return GroupSum{}, false
	}
	return *g, true
}

// Entries returns all groups in first-seen order.
func (a *Aggregates) Entries() []GroupSum {
	out := make([]GroupSum, 0, a.groups.Len())
	for el := a.groups.Front(); el != nil; el = el.Next() {
		out = append(out, *el.Value)
	}
	return out
}

// Total returns the sum over every group.
func (a *Aggregates) Total() float64 {
	var total float64
	for el := a.groups.Front(); el != nil; el = el.Next() {
		total += el.Value.Sum
	}
	return total
}

// Shares returns, aligned with Entries, each group's fraction of the total of
// its period. A share is Undefined when the group has no observed value or
// the period total is zero.
func (a *Aggregates) Shares() []Metric {
	totals := make(map[string]float64)
	for el := a.groups.Front(); el != nil; el = el.Next() {
		totals[periodID(el.Value.Period)] += el.Value.Sum
	}
	out := make([]Metric, 0, a.groups.Len())
	for el := a.groups.Front(); el != nil; el = el.Next() {
		g := el.Value
		total := totals[periodID(g.Period)]
		if g.Observed == 0 || total == 0 {
			out = append(out, Undefined)
			continue
		}
		out = append(out, Defined(g.Sum/total))
	}
	return out
}

func (a *Aggregates) add(key GroupKey, period time.Time, v float64, observed bool) {
	id := groupID(key, period)
	g, ok := a.groups.Get(id)
	if !ok {
		g = &GroupSum{Key: key, Period: period}
		a.groups.Set(id, g)
	}
	g.Rows++
	if observed {
		g.Sum += v
		g.Observed++
	}
}

func groupID(key GroupKey, period time.Time) string {
	return key.id() + "\x1e" + periodID(period)
}

// Aggregate sums spec.Value per group. Null values contribute nothing.
func Aggregate(t *Table, spec AggregateSpec) (*Aggregates, error) {
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
	valCol, err := t.numericColumn(spec.Value)
	if err != nil {
		return nil, err
	}
	tsCol, err := optionalTimestamp(t, spec.Timestamp, spec.Bucket)
	if err != nil {
		return nil, err
	}

	out := newAggregates(spec.Bucket)
	for i := range t.rows {
		var period time.Time
		if tsCol >= 0 {
			period = spec.Bucket.Period(t.timestamp(i, tsCol))
		}
		v, ok := t.rows[i][valCol].Number()
		out.add(t.key(i, keyCols), period, v, ok)
	}
	return out, nil
}

// optionalTimestamp resolves the timestamp column, which is only mandatory
// when bucketing. Returns -1 when the rows need no period.
func optionalTimestamp(t *Table, name string, b Bucket) (int, error) {
	if name == "" {
		if b != BucketNone {
			return -1, argumentError("timestamp", "required when bucketing by %s", b)
		}
		return -1, nil
	}
	col, err := t.timestampColumn(name)
	if err != nil {
		return -1, err
	}
	if b == BucketNone {
		return -1, nil
	}
	return col, nil
}
