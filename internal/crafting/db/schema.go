// Package db stores the crafting catalog in SQLite.
package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
)

// SchemaVersion is recorded in sync_metadata after the schema is applied.
const SchemaVersion = "1"

//go:embed schema.sql
var schemaFS embed.FS

// Schema returns the SQL schema for the database.
func Schema() (string, error) {
	data, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return "", fmt.Errorf("reading embedded schema: %w", err)
	}
	return string(data), nil
}

// InitSchema creates all tables if they don't exist and stamps the schema version.
func InitSchema(ctx context.Context, db *sql.DB) error {
	schema, err := Schema()
	if err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("executing schema: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO sync_metadata (key, value, updated_at)
		VALUES ('schema_version', ?, datetime('now'))
		ON CONFLICT(key) DO NOTHING
	`, SchemaVersion)
	if err != nil {
		return fmt.Errorf("recording schema version: %w", err)
	}

	return nil
}
