package db

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
)

// Schema backs each collection of the PostgreSQL store with a table of
// JSONB documents. Uniqueness of attendance per (student_id, week_id) is
// kept by Upsert, not by a constraint.
const Schema = `
CREATE TABLE IF NOT EXISTS students (
    id TEXT PRIMARY KEY,
    doc JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS weeks (
    id TEXT PRIMARY KEY,
    doc JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS attendance (
    id TEXT PRIMARY KEY,
    doc JSONB NOT NULL
);

CREATE INDEX IF NOT EXISTS attendance_doc_idx ON attendance USING GIN (doc jsonb_path_ops);
`

// InitSchema initializes the database schema
func InitSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return errors.Wrap(err, "error initializing database schema")
	}
	return nil
}
