// Package sqlutil builds the read-only statements demanddiff issues against
// MySQL and SQLite.
package sqlutil

import (
	"regexp"
	"strings"
)

// QuoteIdentifier quotes an identifier with backticks, doubling embedded
// backticks. Both MySQL and SQLite accept this form.
func QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// validIdentifierRegex restricts identifiers to alphanumerics and underscores.
var validIdentifierRegex = regexp.MustCompile("^[a-zA-Z0-9_]+$")

// IsValidIdentifier reports whether name is safe to splice into SQL.
func IsValidIdentifier(name string) bool {
	return validIdentifierRegex.MatchString(name)
}

// QuoteIdentifierSafe quotes name after validating it.
func QuoteIdentifierSafe(name string) (string, error) {
	if !IsValidIdentifier(name) {
		return "", &InvalidIdentifierError{Name: name}
	}
	return QuoteIdentifier(name), nil
}

// QuoteIdentifiers validates and quotes every name, preserving order.
func QuoteIdentifiers(names []string) ([]string, error) {
	quoted := make([]string, len(names))
	for i, n := range names {
		q, err := QuoteIdentifierSafe(n)
		if err != nil {
			return nil, err
		}
		quoted[i] = q
	}
	return quoted, nil
}

// InvalidIdentifierError is returned when an identifier contains invalid characters.
type InvalidIdentifierError struct {
	Name string
}

func (e *InvalidIdentifierError) Error() string {
	return "invalid identifier: " + e.Name + " (must contain only alphanumeric characters and underscores)"
}
