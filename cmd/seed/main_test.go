package main

import (
	"testing"

	"socialdesk/pkg/logger"
	"socialdesk/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newSeedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Service{},
		&models.ServiceTier{},
		&models.Role{},
		&models.Reseller{},
		&models.WithdrawalSettings{},
	))
	return db
}

func count(t *testing.T, db *gorm.DB, value interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(value).Count(&n).Error)
	return n
}

func TestSeedDatabase_Idempotent(t *testing.T) {
	db := newSeedDB(t)

	require.NoError(t, seedDatabase(db, "password123", bcrypt.MinCost, logger.Nop()))
	require.NoError(t, seedDatabase(db, "password123", bcrypt.MinCost, logger.Nop()))

	assert.Equal(t, int64(len(seedUsers)), count(t, db, &models.User{}))
	assert.Equal(t, int64(len(seedServices)), count(t, db, &models.Service{}))
	assert.Equal(t, int64(6), count(t, db, &models.ServiceTier{}))
	assert.Equal(t, int64(len(seedRoles)), count(t, db, &models.Role{}))
	assert.Equal(t, int64(2), count(t, db, &models.Reseller{}))
	assert.Equal(t, int64(1), count(t, db, &models.WithdrawalSettings{}))
}

func TestSeedDatabase_Rows(t *testing.T) {
	db := newSeedDB(t)
	require.NoError(t, seedDatabase(db, "password123", bcrypt.MinCost, logger.Nop()))

	var admin models.User
	require.NoError(t, db.Where("email = ?", "admin@socialdesk.io").First(&admin).Error)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte("password123")))

	var ana models.User
	require.NoError(t, db.Where("email = ?", "ana@example.com").First(&ana).Error)
	var reseller models.Reseller
	require.NoError(t, db.Where("user_id = ?", ana.ID).First(&reseller).Error)
	assert.Equal(t, "Ana Designer", reseller.Name)
	assert.True(t, reseller.TotalEarnings.IsZero())

	var settings models.WithdrawalSettings
	require.NoError(t, db.First(&settings, 1).Error)
	assert.Equal(t, "bank,card", settings.PaymentMethods)
	assert.Equal(t, "10", settings.PercentageCommission.String())
}
