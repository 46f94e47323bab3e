package analysis

import (
	"strconv"
	"strings"
	"time"
)

// Bucket is the time granularity used to coarsen timestamps for aggregation.
type Bucket int

const (
	BucketNone Bucket = iota
	BucketYear
	BucketMonth
)

func (b Bucket) String() string {
	switch b {
	case BucketNone:
		return "none"
	case BucketYear:
		return "year"
	case BucketMonth:
		return "month"
	default:
		return "Bucket(" + strconv.Itoa(int(b)) + ")"
	}
}

// ParseBucket accepts "", "none", "year" and "month".
func ParseBucket(s string) (Bucket, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return BucketNone, nil
	case "year":
		return BucketYear, nil
	case "month":
		return BucketMonth, nil
	default:
		return BucketNone, argumentError("bucket", "%q is not one of none, year, month", s)
	}
}

func (b Bucket) valid() bool {
	return b >= BucketNone && b <= BucketMonth
}

// Period returns the UTC start of the bucket containing t. With BucketNone it
// returns the zero time so that every row falls in the same period.
func (b Bucket) Period(t time.Time) time.Time {
	t = t.UTC()
	switch b {
	case BucketYear:
		return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	case BucketMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Time{}
	}
}

// Label formats a period returned by Period.
func (b Bucket) Label(period time.Time) string {
	switch b {
	case BucketYear:
		return period.Format("2006")
	case BucketMonth:
		return period.Format("2006-01")
	default:
		return ""
	}
}

func periodID(p time.Time) string {
	if p.IsZero() {
		return "-"
	}
	return strconv.FormatInt(p.Unix(), 10)
}
