package report

import (
	"strconv"

	"github.com/dbsmedya/demanddiff/internal/codes"
)

// AuthorityTable lists balancing authorities.
type AuthorityTable struct {
	Authorities []codes.BalancingAuthority
}

// Title implements Tabular.
func (a *AuthorityTable) Title() string { return "Balancing authorities" }

// Meta implements Tabular.
func (a *AuthorityTable) Meta() []Meta {
	return []Meta{{"count", strconv.Itoa(len(a.Authorities))}}
}

// Header implements Tabular.
func (a *AuthorityTable) Header() []string {
	return []string{"code", "label", "region", "interconnect", "timezone", "retired", "generation_only"}
}

// Rows implements Tabular.
func (a *AuthorityTable) Rows() [][]Cell {
	rows := make([][]Cell, 0, len(a.Authorities))
	for _, ba := range a.Authorities {
		retired := ""
		if !ba.RetirementDate.IsZero() {
			retired = ba.RetirementDate.Format("2006-01-02")
		}
		rows = append(rows, []Cell{
			textCell(ba.Code),
			textCell(ba.Label),
			textCell(ba.RegionCode),
			textCell(ba.Interconnect),
			textCell(ba.Timezone),
			textCell(retired),
			textCell(strconv.FormatBool(ba.GenerationOnly)),
		})
	}
	return rows
}
