package repository

import (
	"testing"

	"GameDealSync/internal/model"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	migrations := []interface{}{
		&model.GameIdentity{},
		&model.BundleOffer{},
		&model.BundleMember{},
		&model.ComparisonRow{},
		&model.WishlistEntry{},
	}
	for _, st := range model.AllStores {
		migrations = append(migrations, model.ObservationFor(st))
	}
	require.NoError(t, db.AutoMigrate(migrations...))
	return db
}
