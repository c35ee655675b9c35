package database

import (
	"path/filepath"
	"testing"

	"github.com/Sathish-R02/Saa-CRM/internal/model"
	"github.com/Sathish-R02/Saa-CRM/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

func TestInitDBSQLiteAndMigrate(t *testing.T) {
	cfg := &config.DBConfig{
		Driver:       config.DriverSQLite,
		Path:         filepath.Join(t.TempDir(), "crm.db"),
		MaxIdleConns: 1,
		LogLevel:     logger.Silent,
	}

	db, err := InitDB(cfg)
	require.NoError(t, err)

	require.NoError(t, MigrateModels(db, zap.NewNop(), model.All()...))
	for _, table := range []string{"customers", "suppliers", "products", "sales", "sale_items", "outbox_events"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestInitDBRejectsMemoryDriver(t *testing.T) {
	_, err := InitDB(&config.DBConfig{Driver: config.DriverMemory})
	assert.Error(t, err)
}

func TestMigrateModelsWithoutDB(t *testing.T) {
	assert.Error(t, MigrateModels(nil, zap.NewNop()))
}
