package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"strconv"

	"socialdesk/pkg/config"
	"socialdesk/pkg/database"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

func main() {
	var (
		dir     = flag.String("dir", "migrations", "directory with migration files")
		command = flag.String("command", "up", "migration command (up, up-to, down, down-to, redo, status, version, create)")
		name    = flag.String("name", "", "name for new migration (used with create command)")
		target  = flag.String("version", "", "target version (used with up-to and down-to)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := sql.Open("postgres", database.DSN(cfg))
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("Failed to set dialect: %v", err)
	}

	if err := run(db, *command, *dir, *name, *target); err != nil {
		log.Fatalf("%s: %v", *command, err)
	}
}

func run(db *sql.DB, command, dir, name, target string) error {
	switch command {
	case "create":
		if name == "" {
			return fmt.Errorf("name is required for create command")
		}
		if err := goose.Create(db, dir, name, "sql"); err != nil {
			return err
		}
		fmt.Printf("Created migration: %s\n", name)
	case "up":
		if err := database.MigrateUp(db, dir); err != nil {
			return err
		}
		fmt.Println("Migrations applied successfully")
	case "up-to", "down-to":
		version, err := strconv.ParseInt(target, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", target, err)
		}
		if command == "up-to" {
			return goose.UpTo(db, dir, version)
		}
		return goose.DownTo(db, dir, version)
	case "down":
		if err := goose.Down(db, dir); err != nil {
			return err
		}
		fmt.Println("Migrations rolled back successfully")
	case "redo":
		return goose.Redo(db, dir)
	case "status":
		return goose.Status(db, dir)
	case "version":
		return goose.Version(db, dir)
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
	return nil
}
