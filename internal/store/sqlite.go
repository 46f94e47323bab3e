package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/dbsmedya/demanddiff/internal/analysis"
	"github.com/dbsmedya/demanddiff/internal/config"
	"github.com/dbsmedya/demanddiff/internal/logger"
	"github.com/dbsmedya/demanddiff/internal/sqlutil"
)

// SQLiteSupplier reads tables from a local SQLite asset store.
type SQLiteSupplier struct {
	db     *gorm.DB
	logger *logger.Logger
}

// NewSQLiteSupplier creates a supplier over an open gorm connection.
func NewSQLiteSupplier(db *gorm.DB, log *logger.Logger) *SQLiteSupplier {
	if log == nil {
		log = logger.NewDefault()
	}
	return &SQLiteSupplier{db: db, logger: log.WithStore(config.StoreSQLite)}
}

// Name implements Supplier.
func (s *SQLiteSupplier) Name() string { return config.StoreSQLite }

// Load implements Supplier.
func (s *SQLiteSupplier) Load(ctx context.Context, req Request) (*analysis.Table, error) {
	query, err := sqlutil.Select{Table: req.Table, Columns: req.Schema.Names(), Where: req.Where}.SQL()
	if err != nil {
		return nil, err
	}

	s.logger.WithTable(req.Table).Debugf("Loading: %s", query)
	rows, err := s.db.WithContext(ctx).Raw(query).Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", req.Table, err)
	}
	defer rows.Close()

	table, err := scanTable(rows, req)
	if err != nil {
		return nil, err
	}
	s.logger.WithTable(req.Table).Infof("Loaded %d rows", table.Len())
	return table, nil
}

// Count implements Supplier.
func (s *SQLiteSupplier) Count(ctx context.Context, req Request) (int64, error) {
	if !sqlutil.IsValidIdentifier(req.Table) {
		return 0, &sqlutil.InvalidIdentifierError{Name: req.Table}
	}

	tx := s.db.WithContext(ctx).Table(req.Table)
	if req.Where != "" {
		tx = tx.Where(req.Where)
	}
	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", req.Table, err)
	}
	return count, nil
}

// Columns implements Supplier.
func (s *SQLiteSupplier) Columns(ctx context.Context, table string) ([]string, bool, error) {
	migrator := s.db.WithContext(ctx).Migrator()
	if !migrator.HasTable(table) {
		return nil, false, nil
	}

	types, err := migrator.ColumnTypes(table)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}
	columns := make([]string, len(types))
	for i, ct := range types {
		columns[i] = ct.Name()
	}
	return columns, true, nil
}
