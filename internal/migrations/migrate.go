package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var migrationFiles embed.FS

const sqliteDialect = "sqlite3"

// Up runs all pending embedded SQL migrations. Embedding keeps them runnable
// against the default in-memory database and from any test working directory.
func Up(db *sql.DB) error {
	goose.SetBaseFS(migrationFiles)

	if err := goose.SetDialect(sqliteDialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("run goose up migrations: %w", err)
	}

	return nil
}
