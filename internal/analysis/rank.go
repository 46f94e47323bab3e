package analysis

import (
	"cmp"
	"slices"
	"strings"
)

// RankField is the record metric used for ordering.
type RankField int

const (
	ByFractionalDifference RankField = iota
	ByAbsoluteDifference
	ByDifference
	BySumA
	BySumB
)

var rankFieldNames = []string{
	ByFractionalDifference: "fractional_difference",
	ByAbsoluteDifference:   "absolute_difference",
	ByDifference:           "difference",
	BySumA:                 "sum_a",
	BySumB:                 "sum_b",
}

func (f RankField) String() string {
	if f.valid() {
		return rankFieldNames[f]
	}
	return "unknown"
}

func (f RankField) valid() bool {
	return f >= ByFractionalDifference && f <= BySumB
}

// ParseRankField accepts the snake_case metric names; "" means
// fractional_difference.
func ParseRankField(s string) (RankField, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return ByFractionalDifference, nil
	}
	for i, n := range rankFieldNames {
		if n == name {
			return RankField(i), nil
		}
	}
	return 0, argumentError("by", "%q is not one of %s", s, strings.Join(rankFieldNames, ", "))
}

// Metric extracts the ranked value from r.
func (f RankField) Metric(r Record) Metric {
	switch f {
	case ByAbsoluteDifference:
		return r.AbsoluteDifference()
	case ByDifference:
		return r.Difference
	case BySumA:
		return r.SumA
	case BySumB:
		return r.SumB
	default:
		return r.FractionalDifference
	}
}

// RankOptions controls Rank. TopN nil means no truncation.
type RankOptions struct {
	By        RankField
	Ascending bool
	TopN      *int
}

// Rank orders records by the chosen metric. Descending order is the exact
// reverse of ascending order, ties included. Records whose metric is Undefined
// always come last, ordered by key. The input slice is not modified.
func Rank(records []Record, opts RankOptions) ([]Record, error) {
	if !opts.By.valid() {
		return nil, argumentError("by", "unknown rank field %d", int(opts.By))
	}
	if opts.TopN != nil && *opts.TopN <= 0 {
		return nil, argumentError("top_n", "must be positive, got %d", *opts.TopN)
	}

	defined := make([]Record, 0, len(records))
	var undefined []Record
	for _, r := range records {
		if opts.By.Metric(r).IsDefined() {
			defined = append(defined, r)
		} else {
			undefined = append(undefined, r)
		}
	}

	slices.SortStableFunc(defined, func(x, y Record) int {
		xv, _ := opts.By.Metric(x).Value()
		yv, _ := opts.By.Metric(y).Value()
		if c := cmp.Compare(xv, yv); c != 0 {
			return c
		}
		return compareIdentity(x, y)
	})
	if !opts.Ascending {
		slices.Reverse(defined)
	}
	slices.SortStableFunc(undefined, compareIdentity)

	out := append(defined, undefined...)
	if opts.TopN != nil && *opts.TopN < len(out) {
		out = out[:*opts.TopN]
	}
	return out, nil
}

func compareIdentity(x, y Record) int {
	if c := x.Key.Compare(y.Key); c != 0 {
		return c
	}
	return x.Period.Compare(y.Period)
}
