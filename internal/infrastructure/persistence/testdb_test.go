package persistence

import (
	"testing"

	"github.com/schoolfund/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// testDB opens an in-memory SQLite database with the full schema. The
// connection pool is capped at one so every query sees the same database.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.EventModel{},
		&models.BillingLineModel{},
		&models.StockLineModel{},
		&models.ContributionModel{},
		&models.IndividualContributionModel{},
		&models.GraduationModel{},
		&models.GraduationPaymentModel{},
		&models.StudentModel{},
		&models.UserModel{},
	))
	return db
}
