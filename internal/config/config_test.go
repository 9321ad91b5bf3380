package config

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/chocolate-factory/storefront/internal/hash"
	"github.com/chocolate-factory/storefront/internal/models"
)

func TestSeedAdmin(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	cfg := &Config{
		ADMIN_NAME:     "Wonka",
		ADMIN_EMAIL:    "wonka@example.com",
		ADMIN_PASSWORD: "golden-ticket",
	}

	require.NoError(t, SeedAdmin(db, cfg))

	var admin models.User
	require.NoError(t, db.Where("email = ?", "wonka@example.com").First(&admin).Error)
	require.Equal(t, models.RoleAdmin, admin.Role)
	require.Equal(t, "Wonka", admin.Name)
	require.True(t, hash.CheckPassword(admin.PasswordHash, "golden-ticket"))

	// second boot leaves the existing account alone
	require.NoError(t, SeedAdmin(db, cfg))
	var count int64
	db.Model(&models.User{}).Where("email = ?", "wonka@example.com").Count(&count)
	require.Equal(t, int64(1), count)
}

func TestSeedAdminDisabledWithoutEnv(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	require.NoError(t, SeedAdmin(db, &Config{}))

	var count int64
	db.Model(&models.User{}).Count(&count)
	require.Equal(t, int64(0), count)
}
