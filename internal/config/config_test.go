package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("DB_MAX_OPEN_CONNS", "")
	t.Setenv("CACHE_TTL", "")
	t.Setenv("AUTH_REQUIRED", "")

	cfg := LoadConfig()
	assert.Equal(t, "3001", cfg.AppPort)
	assert.Equal(t, 10, cfg.DBMaxOpenConns)
	assert.Equal(t, 60*time.Second, cfg.CacheTTL)
	assert.False(t, cfg.AuthRequired)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "8080")
	t.Setenv("DB_MAX_OPEN_CONNS", "3")
	t.Setenv("DB_CONN_MAX_LIFETIME", "5m")
	t.Setenv("AUTH_REQUIRED", "true")
	t.Setenv("DB_MAX_IDLE_CONNS", "not-a-number")

	cfg := LoadConfig()
	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, 3, cfg.DBMaxOpenConns)
	assert.Equal(t, 5, cfg.DBMaxIdleConns)
	assert.Equal(t, 5*time.Minute, cfg.DBConnMaxLifetime)
	assert.True(t, cfg.AuthRequired)
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBUser: "root", DBPassword: "pw", DBHost: "db", DBPort: "3306", DBName: "food_app"}
	assert.Equal(t, "root:pw@tcp(db:3306)/food_app?charset=utf8mb4&parseTime=true&loc=Local", cfg.DSN())
}
