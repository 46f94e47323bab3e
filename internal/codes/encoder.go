package codes

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dbsmedya/demanddiff/internal/analysis"
)

// BalancingAuthorityFixes maps non-standard codes seen in reported data to
// their canonical balancing authority.
var BalancingAuthorityFixes = map[string]string{
	"CA":  "CISO",
	"CI":  "CISO",
	"CP":  "CPLE",
	"DU":  "DUK",
	"EP":  "EPE",
	"ER":  "ERCO",
	"IP":  "IPCO",
	"IS":  "ISNE",
	"MI":  "MISO",
	"NE":  "NEVP",
	"NVE": "NEVP",
	"NY":  "NYIS",
	"PJ":  "PJM",
	"PS":  "PSCO",
	"SE":  "SEC",
	"SR":  "SRP",
	"SW":  "SWPP",
	"TEN": "TVA",
	"TEX": "ERCO",
	"TIC": "TIDC",
	"TID": "TIDC",
}

// UnknownCodesError lists codes that are neither canonical, fixable nor
// ignored.
type UnknownCodesError struct {
	Field string
	Codes []string
}

func (e *UnknownCodesError) Error() string {
	return fmt.Sprintf("unknown codes in %s: %s", e.Field, strings.Join(e.Codes, ", "))
}

// Encoder converts reported codes to canonical codes.
type Encoder struct {
	canonical func(string) bool
	fixes     map[string]string
	ignored   map[string]bool
}

// NewEncoder builds an encoder over the registry's canonical codes. Every fix
// must point at a canonical code.
func NewEncoder(reg *Registry, fixes map[string]string, ignored []string) (*Encoder, error) {
	e := &Encoder{
		canonical: reg.Has,
		fixes:     make(map[string]string, len(fixes)),
		ignored:   make(map[string]bool, len(ignored)),
	}
	for from, to := range fixes {
		if !reg.Has(to) {
			return nil, fmt.Errorf("code fix %s -> %s: target is not a canonical code", from, to)
		}
		e.fixes[normalize(from)] = to
	}
	for _, code := range ignored {
		e.ignored[normalize(code)] = true
	}
	return e, nil
}

// DefaultEncoder returns the encoder for the embedded registry and fixes.
func DefaultEncoder() *Encoder {
	e, err := NewEncoder(DefaultRegistry(), BalancingAuthorityFixes, nil)
	if err != nil {
		panic(err)
	}
	return e
}

// Outcome is the result of encoding one code.
type Outcome int

const (
	Canonical Outcome = iota
	Fixed
	Ignored
	Unknown
)

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Encode returns the canonical form of code and how it was obtained. Ignored
// and unknown codes return "".
func (e *Encoder) Encode(code string) (string, Outcome) {
	c := normalize(code)
	switch {
	case e.canonical(c):
		return c, Canonical
	case e.fixes[c] != "":
		return e.fixes[c], Fixed
	case e.ignored[c]:
		return "", Ignored
	default:
		return "", Unknown
	}
}

// EncodeStats counts what EncodeTable changed.
type EncodeStats struct {
	Fixed   int
	Dropped int
}

// EncodeTable returns a copy of t with field rewritten to canonical codes.
// Rows carrying an ignored code are dropped, since key fields cannot be
// null. Any unknown code fails the whole table.
func (e *Encoder) EncodeTable(t *analysis.Table, field string) (*analysis.Table, EncodeStats, error) {
	var stats EncodeStats

	f, ok := t.Schema().Lookup(field)
	if !ok {
		return nil, stats, &analysis.SchemaError{Table: t.Name(), Field: field, Reason: "field not found"}
	}
	if f.Type != analysis.TypeText {
		return nil, stats, &analysis.SchemaError{Table: t.Name(), Field: field, Reason: "codes must be a text field"}
	}
	pos := 0
	for i, name := range t.Schema().Names() {
		if name == field {
			pos = i
		}
	}

	out := analysis.NewTable(t.Name(), t.Schema())
	unknown := make(map[string]bool)
	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		code, outcome := e.Encode(row[pos].String())
		switch outcome {
		case Unknown:
			unknown[row[pos].String()] = true
			continue
		case Ignored:
			stats.Dropped++
			continue
		case Fixed:
			stats.Fixed++
		}
		row[pos] = analysis.Text(code)
		if err := out.Append(row...); err != nil {
			return nil, stats, err
		}
	}

	if len(unknown) > 0 {
		list := make([]string, 0, len(unknown))
		for c := range unknown {
			list = append(list, c)
		}
		sort.Strings(list)
		return nil, stats, &UnknownCodesError{Field: field, Codes: list}
	}
	return out, stats, nil
}
