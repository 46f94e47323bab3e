package analysis

import (
	"cmp"
	"math"
	"strconv"
	"strings"
	"time"
)

type valueKind int

const (
	kindNull valueKind = iota
	kindText
	kindInt
	kindFloat
	kindTime
)

// Value is a single typed cell. The zero Value is Null.
type Value struct {
	kind valueKind
	s    string
	i    int64
	f    float64
	t    time.Time
}

// Null returns the null cell.
func Null() Value { return Value{} }

// Text returns a text cell.
func Text(s string) Value { return Value{kind: kindText, s: s} }

// Int returns an integer cell.
func Int(i int64) Value { return Value{kind: kindInt, i: i} }

// Float returns a numeric cell. NaN and infinities are stored as Null so that
// every sum stays finite.
func Float(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Null()
	}
	return Value{kind: kindFloat, f: f}
}

// Time returns a timestamp cell normalized to UTC.
func Time(t time.Time) Value { return Value{kind: kindTime, t: t.UTC()} }

// IsNull reports whether the cell is null.
func (v Value) IsNull() bool { return v.kind == kindNull }

// Number returns the numeric content of integer and float cells.
func (v Value) Number() (float64, bool) {
	switch v.kind {
	case kindFloat:
		return v.f, true
	case kindInt:
		return float64(v.i), true
	default:
		return 0, false
	}
}

// Timestamp returns the content of a timestamp cell.
func (v Value) Timestamp() (time.Time, bool) {
	return v.t, v.kind == kindTime
}

func (v Value) String() string {
	switch v.kind {
	case kindText:
		return v.s
	case kindInt:
		return strconv.FormatInt(v.i, 10)
	case kindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case kindTime:
		return v.t.Format(time.RFC3339)
	default:
		return ""
	}
}

// Compare orders values of the same kind naturally; values of different
// kinds are ordered by kind.
func (v Value) Compare(o Value) int {
	if v.kind != o.kind {
		return cmp.Compare(v.kind, o.kind)
	}
	switch v.kind {
	case kindText:
		return strings.Compare(v.s, o.s)
	case kindInt:
		return cmp.Compare(v.i, o.i)
	case kindFloat:
		return cmp.Compare(v.f, o.f)
	case kindTime:
		return v.t.Compare(o.t)
	default:
		return 0
	}
}

// accepts reports whether v may be stored in a field of type t.
func (v Value) accepts(t FieldType) bool {
	if v.kind == kindNull {
		return t.Nullable()
	}
	switch t {
	case TypeText:
		return v.kind == kindText
	case TypeInteger:
		return v.kind == kindInt
	case TypeTimestamp:
		return v.kind == kindTime
	case TypeNumeric:
		return v.kind == kindFloat || v.kind == kindInt
	case TypeFlag:
		return v.kind == kindText || v.kind == kindInt
	default:
		return false
	}
}

// id is an unambiguous encoding used for map keys.
func (v Value) id() string {
	switch v.kind {
	case kindText:
		return "s" + strconv.Quote(v.s)
	case kindInt:
		return "i" + strconv.FormatInt(v.i, 10)
	case kindFloat:
		return "f" + strconv.FormatFloat(v.f, 'g', -1, 64)
	case kindTime:
		return "t" + strconv.FormatInt(v.t.UnixNano(), 10)
	default:
		return "n"
	}
}
