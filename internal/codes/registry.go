// Package codes holds balancing-authority reference data and normalizes the
// authority codes found in reported demand data.
package codes

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"sync"
	"time"
)

//go:embed balancing_authorities.csv
var balancingAuthoritiesCSV []byte

// BalancingAuthority describes one EIA balancing authority.
type BalancingAuthority struct {
	Code           string
	Label          string
	Description    string
	Timezone       string
	RegionName     string
	RegionCode     string
	Interconnect   string
	RetirementDate time.Time // zero when still active
	GenerationOnly bool
}

// Retired reports whether the authority had retired by at.
func (b BalancingAuthority) Retired(at time.Time) bool {
	return !b.RetirementDate.IsZero() && !at.Before(b.RetirementDate)
}

// Registry indexes balancing authorities by code.
type Registry struct {
	byCode map[string]BalancingAuthority
	codes  []string
}

var registryColumns = []string{
	"code", "label", "description", "report_timezone",
	"balancing_authority_region_name_eia", "balancing_authority_retirement_date",
	"balancing_authority_region_code_eia", "interconnect_code_eia", "is_generation_only",
}

// ParseRegistry reads a registry from CSV with the balancing authority columns.
func ParseRegistry(r io.Reader) (*Registry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(registryColumns)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	for i, col := range registryColumns {
		if header[i] != col {
			return nil, fmt.Errorf("column %d: expected %q, got %q", i, col, header[i])
		}
	}

	reg := &Registry{byCode: make(map[string]BalancingAuthority)}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		ba := BalancingAuthority{
			Code:         rec[0],
			Label:        rec[1],
			Description:  rec[2],
			Timezone:     rec[3],
			RegionName:   rec[4],
			RegionCode:   rec[6],
			Interconnect: rec[7],
		}
		if rec[5] != "" {
			ba.RetirementDate, err = time.Parse("2006-01-02", rec[5])
			if err != nil {
				return nil, fmt.Errorf("%s: invalid retirement date %q: %w", ba.Code, rec[5], err)
			}
		}
		if rec[8] != "" {
			ba.GenerationOnly, err = strconv.ParseBool(rec[8])
			if err != nil {
				return nil, fmt.Errorf("%s: invalid generation-only flag %q: %w", ba.Code, rec[8], err)
			}
		}
		if _, dup := reg.byCode[ba.Code]; dup {
			return nil, fmt.Errorf("duplicate code %q", ba.Code)
		}
		reg.byCode[ba.Code] = ba
		reg.codes = append(reg.codes, ba.Code)
	}
	sort.Strings(reg.codes)
	return reg, nil
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the embedded EIA balancing authority table.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		reg, err := ParseRegistry(bytes.NewReader(balancingAuthoritiesCSV))
		if err != nil {
			panic(fmt.Sprintf("embedded balancing authority table: %v", err))
		}
		defaultRegistry = reg
	})
	return defaultRegistry
}

// Lookup returns the authority with the given canonical code.
func (r *Registry) Lookup(code string) (BalancingAuthority, bool) {
	ba, ok := r.byCode[code]
	return ba, ok
}

// Has reports whether code is canonical.
func (r *Registry) Has(code string) bool {
	_, ok := r.byCode[code]
	return ok
}

// Len returns the number of authorities.
func (r *Registry) Len() int {
	return len(r.codes)
}

// All returns every authority sorted by code.
func (r *Registry) All() []BalancingAuthority {
	out := make([]BalancingAuthority, 0, len(r.codes))
	for _, code := range r.codes {
		out = append(out, r.byCode[code])
	}
	return out
}

// Active returns the authorities not yet retired at the given time.
func (r *Registry) Active(at time.Time) []BalancingAuthority {
	var out []BalancingAuthority
	for _, code := range r.codes {
		if ba := r.byCode[code]; !ba.Retired(at) {
			out = append(out, ba)
		}
	}
	return out
}
