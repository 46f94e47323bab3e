package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dbsmedya/demanddiff/internal/analysis"
	"github.com/dbsmedya/demanddiff/internal/config"
	"github.com/dbsmedya/demanddiff/internal/logger"
	"github.com/dbsmedya/demanddiff/internal/sqlutil"
)

// MySQLSupplier reads tables from the MySQL source database.
type MySQLSupplier struct {
	db     *sql.DB
	schema string
	logger *logger.Logger
}

// NewMySQLSupplier creates a supplier. schema is the database name used
// for information_schema lookups.
func NewMySQLSupplier(db *sql.DB, schema string, log *logger.Logger) *MySQLSupplier {
	if log == nil {
		log = logger.NewDefault()
	}
	return &MySQLSupplier{db: db, schema: schema, logger: log.WithStore(config.StoreMySQL)}
}

// Name implements Supplier.
func (s *MySQLSupplier) Name() string { return config.StoreMySQL }

// Load implements Supplier.
func (s *MySQLSupplier) Load(ctx context.Context, req Request) (*analysis.Table, error) {
	query, err := sqlutil.Select{Table: req.Table, Columns: req.Schema.Names(), Where: req.Where}.SQL()
	if err != nil {
		return nil, err
	}

	s.logger.WithTable(req.Table).Debugf("Loading: %s", query)
	rows, err := s.db.QueryContext(ctx, query)
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
func (s *MySQLSupplier) Count(ctx context.Context, req Request) (int64, error) {
	query, err := sqlutil.Select{Table: req.Table, Where: req.Where}.CountSQL()
	if err != nil {
		return 0, err
	}

	var count int64
	if err := s.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", req.Table, err)
	}
	return count, nil
}

// Columns implements Supplier.
func (s *MySQLSupplier) Columns(ctx context.Context, table string) ([]string, bool, error) {
	const query = `
		SELECT COLUMN_NAME
		FROM information_schema.COLUMNS
		WHERE TABLE_SCHEMA = ?
		AND TABLE_NAME = ?
		ORDER BY ORDINAL_POSITION`

	rows, err := s.db.QueryContext(ctx, query, s.schema, table)
	if err != nil {
		return nil, false, fmt.Errorf("failed to query columns of %s: %w", table, err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, false, err
		}
		columns = append(columns, name)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	return columns, len(columns) > 0, nil
}
