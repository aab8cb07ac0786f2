package db

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/tursodatabase/libsql-client-go/libsql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Initialize sets up the database connection. A local sqlite file with WAL
// mode is the default; when tursoURL is non-empty the remote libsql database
// is used instead.
func Initialize(dbPath, environment, tursoURL, tursoAuthToken string) error {
	var err error

	// Determine log level based on environment
	logLevel := logger.Info
	if environment == "production" {
		logLevel = logger.Warn
	}
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	}

	if tursoURL != "" {
		connector, cerr := libsql.NewConnector(tursoURL, libsql.WithAuthToken(tursoAuthToken))
		if cerr != nil {
			return fmt.Errorf("failed to create libsql connector: %w", cerr)
		}
		DB, err = gorm.Open(sqlite.New(sqlite.Config{Conn: sql.OpenDB(connector)}), gormConfig)
		if err != nil {
			return fmt.Errorf("failed to connect to remote database: %w", err)
		}
		log.Println("Database connection established (libsql)")
		return nil
	}

	// Enable WAL mode for better concurrency support
	dsn := dbPath + "?_journal_mode=WAL"

	DB, err = gorm.Open(sqlite.Open(dsn), gormConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Database connection established (WAL mode enabled)")
	return nil
}

// AutoMigrate runs database migrations for the provided models
func AutoMigrate(models ...interface{}) error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	err := DB.AutoMigrate(models...)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed")
	return nil
}

// Close closes the database connection
func Close() error {
	if DB == nil {
		return nil
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	return sqlDB.Close()
}
