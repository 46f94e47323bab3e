package analysis

import (
	"time"

	"github.com/elliotchance/orderedmap/v2"
)

// Record is the discrepancy between series A (reference) and series B for one
// group and, optionally, one period.
type Record struct {
	Key    GroupKey
	Period time.Time // zero when not bucketed

	SumA                 Metric
	SumB                 Metric
	Difference           Metric // SumA - SumB
	FractionalDifference Metric // (SumA - SumB) / SumA

	Matched int // timestamps observed on both sides
	OnlyA   int // timestamps observed only in A
	OnlyB   int // timestamps observed only in B
}

// AbsoluteDifference returns |SumA - SumB|.
func (r Record) AbsoluteDifference() Metric {
	return r.Difference.Abs()
}

// PercentDifference returns the fractional difference times 100.
func (r Record) PercentDifference() Metric {
	return r.FractionalDifference.Scale(100)
}

type accumulator struct {
	key    GroupKey
	period time.Time
	sumA   float64
	sumB   float64
	obsA   int
	obsB   int
	rec    Record
}

// Discrepancy sums both sides of aligned per group (a subset of the aligned
// key fields) and per bucket, then derives the differences.
//
// Under an inner join a timestamp contributes to the sums only when both
// sides observed a value, so both sums cover the same timestamps. Under an
// outer join each side sums what it observed, and a side with no observation
// in the group has an Undefined sum.
func Discrepancy(aligned *Aligned, groupKeys []string, bucket Bucket) ([]Record, error) {
	if aligned == nil {
		return nil, argumentError("aligned", "must not be nil")
	}
	if !bucket.valid() {
		return nil, argumentError("bucket", "unknown granularity %d", int(bucket))
	}
	idx, err := projection(aligned.KeyFields, groupKeys)
	if err != nil {
		return nil, err
	}

	groups := orderedmap.NewOrderedMap[string, *accumulator]()
	for _, p := range aligned.Pairs {
		key := p.Key.project(idx)
		period := bucket.Period(p.Time)
		id := groupID(key, period)
		acc, ok := groups.Get(id)
		if !ok {
			acc = &accumulator{key: key, period: period}
			groups.Set(id, acc)
		}
		acc.observe(p, aligned.How)
	}

	out := make([]Record, 0, groups.Len())
	for el := groups.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value.record(aligned.How))
	}
	return out, nil
}

func (acc *accumulator) observe(p Pair, how JoinMode) {
	a, b := p.A.Observed(), p.B.Observed()
	switch {
	case a && b:
		acc.rec.Matched++
	case a:
		acc.rec.OnlyA++
	case b:
		acc.rec.OnlyB++
	}
	if how == JoinInner && !(a && b) {
		return
	}
	if a {
		acc.sumA += p.A.Value
		acc.obsA++
	}
	if b {
		acc.sumB += p.B.Value
		acc.obsB++
	}
}

func (acc *accumulator) record(how JoinMode) Record {
	r := acc.rec
	r.Key = acc.key
	r.Period = acc.period
	if how == JoinInner {
		r.SumA = Defined(acc.sumA)
		r.SumB = Defined(acc.sumB)
	} else {
		r.SumA = sideSum(acc.sumA, acc.obsA)
		r.SumB = sideSum(acc.sumB, acc.obsB)
	}
	r.Difference, r.FractionalDifference = differences(r.SumA, r.SumB)
	return r
}

func sideSum(sum float64, observed int) Metric {
	if observed == 0 {
		return Undefined
	}
	return Defined(sum)
}

func differences(a, b Metric) (diff, frac Metric) {
	av, aok := a.Value()
	bv, bok := b.Value()
	if !aok || !bok {
		return Undefined, Undefined
	}
	diff = Defined(av - bv)
	if av == 0 {
		return diff, Undefined
	}
	return diff, Defined((av - bv) / av)
}

// projection maps group key names onto positions within fields.
func projection(fields []Field, names []string) ([]int, error) {
	if len(names) == 0 {
		return nil, argumentError("group_keys", "must not be empty")
	}
	idx := make([]int, len(names))
	for i, name := range names {
		pos := -1
		for j, f := range fields {
			if f.Name == name {
				pos = j
				break
			}
		}
		if pos < 0 {
			return nil, schemaError("", name, "not one of the aligned key fields")
		}
		idx[i] = pos
	}
	return idx, nil
}
