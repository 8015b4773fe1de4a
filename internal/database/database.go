package database

import (
	"context"
	"fmt"
	"log"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// Models lists every table managed by AutoMigrate.
var Models = []any{
	&entities.Book{},
	&entities.Category{},
	&entities.BookCategory{},
	&entities.User{},
	&entities.UserBook{},
	&entities.UserFavorite{},
	&entities.AuditEvent{},
}

type Database struct {
	DB *gorm.DB
}

// NewDatabase opens the store described by dsn and migrates the schema.
// A postgres:// or postgresql:// URL selects Postgres; anything else is
// treated as a sqlite file path.
func NewDatabase(dsn string) (*Database, error) {
	return Open(dsn, logger.Info)
}

// Open is NewDatabase with an explicit GORM log level.
func Open(dsn string, level logger.LogLevel) (*Database, error) {
	db, err := gorm.Open(dialector(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(Models...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("Database initialized successfully (%s)", driverName(dsn))

	return &Database{DB: db}, nil
}

func isPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

func driverName(dsn string) string {
	if isPostgres(dsn) {
		return "postgres"
	}
	return "sqlite"
}

func dialector(dsn string) gorm.Dialector {
	if isPostgres(dsn) {
		return postgres.Open(dsn)
	}
	// Background audit writes share the file with request handlers.
	// Immediate transactions take the write lock up front so the busy
	// timeout applies instead of failing on a read-to-write upgrade.
	if !strings.Contains(dsn, "?") && dsn != ":memory:" {
		dsn += "?_busy_timeout=5000&_txlock=immediate"
	}
	return sqlite.Open(dsn)
}

// Ping checks store connectivity.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
