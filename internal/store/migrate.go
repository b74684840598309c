package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

// Commands accepted by Migrate.
var MigrateCommands = []string{"up", "up-by-one", "down", "redo", "reset", "status", "version"}

// gooseRun is swapped in tests.
var gooseRun = goose.RunContext

func init() {
	goose.SetBaseFS(migrationsFS)
}

// Migrate applies a goose command against the embedded migrations. Every applied
// version is recorded in goose's version table, so reruns are no-ops.
func Migrate(ctx context.Context, db *sql.DB, command string, args ...string) error {
	if !validCommand(command) {
		return fmt.Errorf("unknown migrate command %q", command)
	}
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return gooseRun(ctx, command, db, migrationsDir, args...)
}

func validCommand(cmd string) bool {
	for _, c := range MigrateCommands {
		if c == cmd {
			return true
		}
	}
	return false
}
