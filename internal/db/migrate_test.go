package db

import (
	"testing"

	"food_app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), GormConfig(logger.Silent))
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return gdb
}

func TestMigrateCreatesTables(t *testing.T) {
	gdb := openSQLite(t)
	require.NoError(t, Migrate(gdb))
	for _, m := range Models {
		assert.True(t, gdb.Migrator().HasTable(m), "%T", m)
	}
	assert.False(t, gdb.Migrator().HasColumn(&domain.Order{}, "user_name"))
}

func TestSeedAdminIsIdempotent(t *testing.T) {
	gdb := openSQLite(t)
	require.NoError(t, Migrate(gdb))

	require.NoError(t, SeedAdmin(gdb, "admin@food.app", "s3cret-pass"))
	require.NoError(t, SeedAdmin(gdb, "admin@food.app", "other-pass"))

	var admins []domain.User
	require.NoError(t, gdb.Where("role = ?", domain.RoleAdmin).Find(&admins).Error)
	require.Len(t, admins, 1)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admins[0].Password), []byte("s3cret-pass")))
}

func TestSeedAdminDisabled(t *testing.T) {
	gdb := openSQLite(t)
	require.NoError(t, Migrate(gdb))
	require.NoError(t, SeedAdmin(gdb, "", ""))

	var count int64
	require.NoError(t, gdb.Model(&domain.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDuplicateEmailIsTranslated(t *testing.T) {
	gdb := openSQLite(t)
	require.NoError(t, Migrate(gdb))

	require.NoError(t, gdb.Create(&domain.User{Name: "A", Email: "dup@food.app", Password: "x", Role: domain.RoleUser}).Error)
	err := gdb.Create(&domain.User{Name: "B", Email: "dup@food.app", Password: "x", Role: domain.RoleUser}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}
