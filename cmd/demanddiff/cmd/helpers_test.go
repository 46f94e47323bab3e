package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// writeDemandStore creates a SQLite file holding both demand series.
func writeDemandStore(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "pudl.sqlite")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	statements := []string{
		"CREATE TABLE ferc714 (ba_code TEXT, datetime_utc TEXT, demand_mwh REAL)",
		"INSERT INTO ferc714 VALUES ('CISO', '2020-01-01 00:00:00', 100)",
		"INSERT INTO ferc714 VALUES ('CISO', '2020-01-01 01:00:00', 100)",
		"INSERT INTO ferc714 VALUES ('NEVP', '2020-01-01 00:00:00', 0)",
		"CREATE TABLE eia930 (ba_code TEXT, datetime_utc TEXT, demand_reported_mwh REAL, demand_imputed TEXT)",
		"INSERT INTO eia930 VALUES ('CISO', '2020-01-01 00:00:00', 90, NULL)",
		"INSERT INTO eia930 VALUES ('ca', '2020-01-01 01:00:00', 90, 'simple')",
		"INSERT INTO eia930 VALUES ('NEVP', '2020-01-01 00:00:00', 50, NULL)",
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
	return path
}

const demandConfig = `local:
  path: %s

comparisons:
  ferc_vs_eia:
    description: FERC-714 vs EIA-930
    key_fields:
      - name: ba_code
        type: text
    timestamp: datetime_utc
    reference:
      store: sqlite
      table: ferc714
      value: demand_mwh
    comparison:
      store: sqlite
      table: eia930
      value: demand_reported_mwh
    normalize_codes: [ba_code]

imputations:
  eia_imputed:
    key_fields:
      - name: ba_code
    timestamp: datetime_utc
    flag: demand_imputed
    table:
      store: sqlite
      table: eia930
    normalize_codes: [ba_code]

aggregates:
  eia_bulk:
    key_fields:
      - name: ba_code
    table:
      store: sqlite
      table: eia930
      value: demand_reported_mwh
    normalize_codes: [ba_code]

output:
  format: csv
  color: false

logging:
  level: error
`

// useDemandConfig points cfgFile at a config over a fresh demand store and
// restores it when the test ends.
func useDemandConfig(t *testing.T) string {
	t.Helper()
	return useConfig(t, fmt.Sprintf(demandConfig, writeDemandStore(t)))
}

func useConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "demanddiff.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	originalCfgFile := cfgFile
	cfgFile = path
	t.Cleanup(func() { cfgFile = originalCfgFile })
	return path
}
