package database

import (
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

// MigrateUp applies every pending goose migration in dir.
func MigrateUp(db *sql.DB, dir string) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}
