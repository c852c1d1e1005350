package db

import (
	"errors"
	"os"
)

// TestStore is set by InitTestDB for integration tests run against a real
// database.
var TestStore Store

// InitTestDB connects to TEST_DATABASE_URL and applies the migrations.
func InitTestDB(migrationsPath string) error {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		return errors.New("TEST_DATABASE_URL environment variable is not set")
	}

	if err := Init(dbURL); err != nil {
		return err
	}
	if err := RunMigrations(migrationsPath); err != nil {
		return err
	}

	TestStore = NewStore(DB)
	return nil
}
