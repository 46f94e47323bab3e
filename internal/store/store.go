// Package store loads typed tables from the MySQL source and the local
// SQLite asset store.
package store

import (
	"context"
	"fmt"
	"sort"

	"github.com/dbsmedya/demanddiff/internal/analysis"
	"github.com/dbsmedya/demanddiff/internal/config"
	"github.com/dbsmedya/demanddiff/internal/database"
	"github.com/dbsmedya/demanddiff/internal/logger"
)

// Request selects the fields of Schema from Table, optionally filtered.
type Request struct {
	Table  string
	Schema analysis.Schema
	Where  string
}

// Supplier reads tables from one store.
type Supplier interface {
	// Name returns the store name used in configuration.
	Name() string
	// Load reads every matching row as a typed table.
	Load(ctx context.Context, req Request) (*analysis.Table, error)
	// Count returns the number of rows Load would read.
	Count(ctx context.Context, req Request) (int64, error)
	// Columns lists the columns of table and whether the table exists.
	Columns(ctx context.Context, table string) ([]string, bool, error)
}

// Set resolves store names to suppliers.
type Set struct {
	suppliers map[string]Supplier
}

// NewSet builds a Set from the given suppliers.
func NewSet(suppliers ...Supplier) *Set {
	s := &Set{suppliers: make(map[string]Supplier, len(suppliers))}
	for _, sup := range suppliers {
		s.suppliers[sup.Name()] = sup
	}
	return s
}

// FromManager wraps whichever connections the manager holds.
func FromManager(m *database.Manager, cfg *config.Config, log *logger.Logger) *Set {
	var suppliers []Supplier
	if m.Source != nil {
		suppliers = append(suppliers, NewMySQLSupplier(m.Source, cfg.Source.Database, log))
	}
	if m.Local != nil {
		suppliers = append(suppliers, NewSQLiteSupplier(m.Local, log))
	}
	return NewSet(suppliers...)
}

// Get returns the supplier for store. An empty name means MySQL.
func (s *Set) Get(store string) (Supplier, error) {
	if store == "" {
		store = config.StoreMySQL
	}
	sup, ok := s.suppliers[store]
	if !ok {
		return nil, fmt.Errorf("store %q is not connected", store)
	}
	return sup, nil
}

// Names returns the connected store names sorted.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.suppliers))
	for name := range s.suppliers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
