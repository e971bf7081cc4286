package database

import (
	"path/filepath"
	"testing"

	"github.com/forumdash/amo-analytics-api/internal/config"
	"github.com/forumdash/amo-analytics-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDatabase_SQLite(t *testing.T) {
	db, err := NewDatabase(&config.DatabaseConfig{
		Driver:       "sqlite",
		SQLitePath:   filepath.Join(t.TempDir(), "plans.db"),
		MaxOpenConns: 1,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})

	require.NoError(t, AutoMigrate(db))
	assert.True(t, db.Migrator().HasTable(&domain.Plan{}))
}

func TestNewDatabase_UnsupportedDriver(t *testing.T) {
	_, err := NewDatabase(&config.DatabaseConfig{Driver: "mssql"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}
