package database

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dbsmedya/demanddiff/internal/config"
)

func TestBuildDSN(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *config.DatabaseConfig
		expected string
	}{
		{
			name: "basic DSN",
			cfg: &config.DatabaseConfig{
				Host: "localhost", Port: 3306, User: "root", Password: "secret",
				Database: "pudl", TLS: "preferred",
			},
			expected: "root:secret@tcp(localhost:3306)/pudl?parseTime=true&loc=UTC&tls=preferred",
		},
		{
			name: "DSN without database",
			cfg: &config.DatabaseConfig{
				Host: "localhost", Port: 3306, User: "root", Password: "secret",
			},
			expected: "root:secret@tcp(localhost:3306)/?parseTime=true&loc=UTC&tls=preferred",
		},
		{
			name: "TLS disabled",
			cfg: &config.DatabaseConfig{
				Host: "localhost", Port: 3306, User: "root", Password: "secret",
				Database: "pudl", TLS: "disable",
			},
			expected: "root:secret@tcp(localhost:3306)/pudl?parseTime=true&loc=UTC&tls=false",
		},
		{
			name: "TLS required on custom port",
			cfg: &config.DatabaseConfig{
				Host: "remote-host", Port: 3307, User: "admin", Password: "p@ssw0rd!",
				Database: "pudl", TLS: "required",
			},
			expected: "admin:p@ssw0rd!@tcp(remote-host:3307)/pudl?parseTime=true&loc=UTC&tls=true",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BuildDSN(tt.cfg))
		})
	}
}

func TestNewManager(t *testing.T) {
	cfg := config.DefaultConfig()
	manager := NewManager(cfg)

	require.NotNil(t, manager)
	assert.Same(t, cfg, manager.config)
	assert.Nil(t, manager.Source)
	assert.Nil(t, manager.Local)
	assert.Equal(t, 3, manager.maxRetries)
}

func TestManagerCloseWithoutConnect(t *testing.T) {
	manager := NewManager(config.DefaultConfig())
	assert.NoError(t, manager.Close())
	assert.NoError(t, manager.Ping(context.Background()))
}

func createSQLite(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pudl.sqlite")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE TABLE demand (ba_code TEXT, demand_mwh REAL)").Error)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
	return path
}

func TestConnectLocalOnly(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Local.Path = createSQLite(t)
	cfg.Imputations = map[string]config.ImputationConfig{
		"eia": {Table: config.TableConfig{Store: config.StoreSQLite, Table: "demand"}},
	}

	manager := NewManager(cfg)
	require.NoError(t, manager.Connect(context.Background()))
	defer manager.Close()

	assert.Nil(t, manager.Source, "mysql is not used by any job")
	require.NotNil(t, manager.Local)
	assert.NoError(t, manager.Ping(context.Background()))

	var count int64
	require.NoError(t, manager.Local.Table("demand").Count(&count).Error)
	assert.Equal(t, int64(0), count)

	require.NoError(t, manager.Close())
	assert.Nil(t, manager.Local)
}

func TestOpenLocalMissingFile(t *testing.T) {
	_, err := OpenLocal(context.Background(), filepath.Join(t.TempDir(), "absent.sqlite"))
	assert.Error(t, err)
}

func TestConnectSourceRetriesUntilContextDone(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Source = config.DatabaseConfig{Host: "127.0.0.1", Port: 1, User: "root", Database: "pudl", TLS: "disable"}

	manager := NewManager(cfg)
	manager.backoff = 10 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := manager.ConnectSource(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to source database")
	assert.Nil(t, manager.Source)
}

func TestManagerCloseOpenSource(t *testing.T) {
	db, err := sql.Open("mysql", "root:secret@tcp(127.0.0.1:1)/pudl")
	require.NoError(t, err)

	manager := NewManager(config.DefaultConfig())
	manager.Source = db
	assert.NoError(t, manager.Close())
	assert.Nil(t, manager.Source)
}
