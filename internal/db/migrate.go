package db

import (
	"errors" // Error inspection
	"fmt"    // Error wrapping

	"food_app/internal/config" // Configuration
	"food_app/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt" // Password hashing for the seeded admin
	"gorm.io/driver/mysql"       // MySQL driver for GORM
	"gorm.io/gorm"               // GORM ORM library
	"gorm.io/gorm/logger"        // GORM logger levels
)

// Models lists every table owned by the application, in dependency order
var Models = []any{
	&domain.User{},
	&domain.Wallet{},
	&domain.Product{},
	&domain.Order{},
	&domain.OrderItem{},
	&domain.WalletTopup{},
	&domain.WalletTransaction{},
	&domain.Notification{},
}

// GormConfig is shared by every connection the application opens.
// Driver errors are translated so unique violations surface as gorm.ErrDuplicatedKey.
func GormConfig(level logger.LogLevel) *gorm.Config {
	return &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	}
}

// Open connects to MySQL and sizes the shared connection pool
func Open(cfg *config.Config) (*gorm.DB, error) {
	level := logger.Warn // Log slow queries and warnings in development
	if cfg.IsProd {
		level = logger.Error // Only errors in production
	}
	gdb, err := gorm.Open(mysql.Open(cfg.DSN()), GormConfig(level))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)       // Bounded pool shared by all requests
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)       // Idle connections kept warm
	sqlDB.SetConnMaxLifetime(cfg.DBConnMaxLifetime) // Recycle long lived connections
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return gdb, nil
}

// Migrate performs automatic migration for the database schema
func Migrate(gdb *gorm.DB) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	if err := gdb.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logrus.Info("Migration completed.") // Log successful migration
	return nil
}

// SeedAdmin creates the configured admin account if no user holds that email yet
func SeedAdmin(gdb *gorm.DB, email, password string) error {
	if email == "" || password == "" {
		return nil // Seeding disabled
	}
	var existing domain.User
	err := gdb.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil // Already present
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("look up admin: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin := domain.User{Name: "Administrator", Email: email, Password: string(hash), Role: domain.RoleAdmin}
	if err := gdb.Create(&admin).Error; err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	logrus.WithField("email", email).Info("Admin account seeded")
	return nil
}
