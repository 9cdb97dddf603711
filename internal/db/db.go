package db

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"colorledger/internal/config"
	"colorledger/models"
)

// IsPostgres reports whether url selects the postgres driver.
func IsPostgres(url string) bool {
	lower := strings.ToLower(strings.TrimSpace(url))
	return strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://")
}

// Dialector picks the gorm driver for a database URL.
func Dialector(url string) gorm.Dialector {
	if IsPostgres(url) {
		return postgres.Open(url)
	}
	return sqlite.Open(SQLiteDSN(url))
}

// SQLiteDSN enables foreign key enforcement so ingredient rows cascade with
// their formula.
func SQLiteDSN(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys=") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=1"
	}
	return dsn + "?_foreign_keys=1"
}

// GormConfig returns the gorm settings shared by every store. Default
// transactions are skipped; the ledger opens its own around batch writes.
func GormConfig(level logger.LogLevel) *gorm.Config {
	return &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(level),
		NamingStrategy:         schema.NamingStrategy{},
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Initialize opens the store named by cfg.URL and applies the pool settings.
// A sqlite file accepts one writer at a time, so its pool is capped at a
// single connection unless MaxOpenConns says otherwise.
func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, errors.New("database URL must not be empty")
	}

	database, err := gorm.Open(Dialector(cfg.URL), GormConfig(logger.Warn))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 && !IsPostgres(cfg.URL) {
		maxOpen = 1
	}
	if maxOpen > 0 {
		sqlDB.SetMaxOpenConns(maxOpen)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}

	return database, nil
}

// AutoMigrate creates or updates the formula and ingredient tables.
func AutoMigrate(database *gorm.DB) error {
	if database == nil {
		return errors.New("database handle is nil")
	}
	return database.AutoMigrate(&models.Formula{}, &models.Ingredient{})
}

// Configure opens the store and migrates its schema.
func Configure(cfg config.DatabaseConfig) (*gorm.DB, error) {
	database, err := Initialize(cfg)
	if err != nil {
		return nil, err
	}
	if err := AutoMigrate(database); err != nil {
		Close(database)
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return database, nil
}

// Close releases the pool behind database. Nil handles are ignored.
func Close(database *gorm.DB) error {
	if database == nil {
		return nil
	}
	sqlDB, err := database.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
