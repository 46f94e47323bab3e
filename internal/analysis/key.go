package analysis

import (
	"strings"
)

// GroupKey is the ordered tuple of categorical values identifying one series.
type GroupKey []Value

// Keys is a convenience constructor for text-only keys.
func Keys(parts ...string) GroupKey {
	k := make(GroupKey, len(parts))
	for i, p := range parts {
		k[i] = Text(p)
	}
	return k
}

// Compare orders keys element by element, shorter keys first on a tie.
func (k GroupKey) Compare(o GroupKey) int {
	for i := 0; i < len(k) && i < len(o); i++ {
		if c := k[i].Compare(o[i]); c != 0 {
			return c
		}
	}
	return len(k) - len(o)
}

// Equal reports whether both keys hold the same values.
func (k GroupKey) Equal(o GroupKey) bool {
	return k.Compare(o) == 0
}

// Strings returns the rendered key parts.
func (k GroupKey) Strings() []string {
	out := make([]string, len(k))
	for i, v := range k {
		out[i] = v.String()
	}
	return out
}

func (k GroupKey) String() string {
	return strings.Join(k.Strings(), "/")
}

func (k GroupKey) id() string {
	var b strings.Builder
	for i, v := range k {
		if i > 0 {
			b.WriteByte(0x1f)
		}
		b.WriteString(v.id())
	}
	return b.String()
}

func (k GroupKey) project(idx []int) GroupKey {
	out := make(GroupKey, len(idx))
	for i, j := range idx {
		out[i] = k[j]
	}
	return out
}
