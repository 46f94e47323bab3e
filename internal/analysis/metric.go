package analysis

import (
	"math"
	"strconv"
)

// Metric is a finite number or the Undefined sentinel. A zero denominator or a
// side with no observations yields Undefined, which never compares equal to a
// defined zero.
type Metric struct {
	value   float64
	defined bool
}

// Undefined is the sentinel for a result that cannot be computed.
var Undefined = Metric{}

// Defined wraps a finite value. Non-finite input yields Undefined.
func Defined(v float64) Metric {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Undefined
	}
	return Metric{value: v, defined: true}
}

// Value returns the number and whether it is defined.
func (m Metric) Value() (float64, bool) {
	return m.value, m.defined
}

// IsDefined reports whether m holds a number.
func (m Metric) IsDefined() bool {
	return m.defined
}

// Float returns the number, or NaN for Undefined. Intended for consumers that
// only understand IEEE floats, such as spreadsheet writers.
func (m Metric) Float() float64 {
	if !m.defined {
		return math.NaN()
	}
	return m.value
}

// Abs returns the absolute value, keeping Undefined as is.
func (m Metric) Abs() Metric {
	if !m.defined {
		return m
	}
	return Metric{value: math.Abs(m.value), defined: true}
}

// Scale multiplies a defined metric by f.
func (m Metric) Scale(f float64) Metric {
	if !m.defined {
		return m
	}
	return Defined(m.value * f)
}

func (m Metric) String() string {
	if !m.defined {
		return "undefined"
	}
	return strconv.FormatFloat(m.value, 'f', -1, 64)
}
