package sqlutil

import (
	"errors"
	"strings"
)

// Select describes a single-table projection with an optional filter.
// Where is trusted configuration text and is spliced verbatim.
type Select struct {
	Table   string
	Columns []string
	Where   string
}

// SQL renders SELECT cols FROM table [WHERE ...].
func (s Select) SQL() (string, error) {
	if len(s.Columns) == 0 {
		return "", errors.New("select requires at least one column")
	}
	cols, err := QuoteIdentifiers(s.Columns)
	if err != nil {
		return "", err
	}
	from, err := s.from()
	if err != nil {
		return "", err
	}
	return "SELECT " + strings.Join(cols, ", ") + from, nil
}

// CountSQL renders SELECT COUNT(*) FROM table [WHERE ...].
func (s Select) CountSQL() (string, error) {
	from, err := s.from()
	if err != nil {
		return "", err
	}
	return "SELECT COUNT(*)" + from, nil
}

func (s Select) from() (string, error) {
	table, err := QuoteIdentifierSafe(s.Table)
	if err != nil {
		return "", err
	}
	clause := " FROM " + table
	if w := strings.TrimSpace(s.Where); w != "" {
		clause += " WHERE " + w
	}
	return clause, nil
}
