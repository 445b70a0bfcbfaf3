package service

import (
	"testing"

	"GameDealSync/internal/model"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB 内存sqlite + 全量建表
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

func newTestLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)
	return l
}
