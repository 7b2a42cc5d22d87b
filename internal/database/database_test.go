package database

import (
	"testing"
	"time"

	"receipt-dashboard/internal/config"
	"receipt-dashboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_UnsupportedDriver(t *testing.T) {
	_, err := New(&config.DatabaseConfig{Driver: "mysql"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestInitialize_SQLiteAutoMigrates(t *testing.T) {
	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Driver:         DriverSQLite,
			Path:           "file::memory:?cache=shared",
			MaxConnections: 1,
			MaxIdleConns:   1,
		},
	}

	db, err := Initialize(cfg)
	require.NoError(t, err)
	defer db.Close()

	assert.True(t, db.Migrator().HasTable(&models.PendingMutation{}))
	assert.True(t, db.Migrator().HasTable(&models.Preference{}))
	assert.NoError(t, db.HealthCheck())
}

func TestCleanupAcknowledged(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	old := time.Now().Add(-48 * time.Hour)
	acked := &models.PendingMutation{
		Tag:            "receipt-upload",
		Method:         "POST",
		URL:            "/api/transactions/upload-receipt",
		Status:         models.MutationStatusAcknowledged,
		AcknowledgedAt: &old,
	}
	pending := &models.PendingMutation{
		Tag:    "receipt-upload",
		Method: "POST",
		URL:    "/api/transactions/upload-receipt",
	}
	require.NoError(t, db.Create(acked).Error)
	require.NoError(t, db.Create(pending).Error)

	removed, err := db.CleanupAcknowledged(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	var count int64
	require.NoError(t, db.Model(&models.PendingMutation{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
