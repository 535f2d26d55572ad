package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// PostgresStore keeps every collection as a table of JSONB documents, see Schema.
type PostgresStore struct {
	db *sql.DB
}

var _ Store = (*PostgresStore)(nil)

// OpenPostgres connects to dsn, pings it and makes sure the schema exists.
func OpenPostgres(ctx context.Context, dsn string, log *zap.Logger) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "error connecting to the database")
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "error pinging database")
	}
	if err := InitSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Info("connected to postgres")
	return &PostgresStore{db: db}, nil
}

func table(collection string) (string, error) {
	if err := checkCollection(collection); err != nil {
		return "", err
	}
	return pq.QuoteIdentifier(collection), nil
}

// toDocument renders v through its json tags as a JSON object.
func toDocument(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	doc := make(map[string]any)
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *PostgresStore) InsertMany(ctx context.Context, collection string, docs []any) error {
	tbl, err := table(collection)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "error starting transaction")
	}
	defer func() { _ = tx.Rollback() }()

	q := fmt.Sprintf("INSERT INTO %s (id, doc) VALUES ($1, $2)", tbl)
	for _, d := range docs {
		doc, err := toDocument(d)
		if err != nil {
			return errors.Wrapf(err, "encoding %s document", collection)
		}
		id, _ := doc["_id"].(string)
		if id == "" {
			id = uuid.NewString()
			doc["_id"] = id
		}
		raw, err := json.Marshal(doc)
		if err != nil {
			return errors.Wrapf(err, "encoding %s document", collection)
		}
		if _, err := tx.ExecContext(ctx, q, id, raw); err != nil {
			return errors.Wrapf(err, "inserting into %s", collection)
		}
	}
	return errors.Wrap(tx.Commit(), "error committing transaction")
}

// sortedQuery orders string values by byte order, whatever the database
// collation, and every other JSON type by jsonb comparison.
const sortedQuery = `
    SELECT doc FROM %s
    ORDER BY
        (CASE WHEN jsonb_typeof(doc -> $1::text) = 'string' THEN doc ->> $1::text END) COLLATE "C",
        doc -> $1::text,
        id`

func (s *PostgresStore) FindAll(ctx context.Context, collection, sortKey string, out any) error {
	tbl, err := table(collection)
	if err != nil {
		return err
	}

	var rows *sql.Rows
	if sortKey != "" {
		rows, err = s.db.QueryContext(ctx, fmt.Sprintf(sortedQuery, tbl), sortKey)
	} else {
		rows, err = s.db.QueryContext(ctx, fmt.Sprintf("SELECT doc FROM %s", tbl))
	}
	if err != nil {
		return errors.Wrapf(err, "querying %s", collection)
	}
	defer rows.Close()

	var raws [][]byte
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return errors.Wrapf(err, "scanning %s", collection)
		}
		raws = append(raws, raw)
	}
	if err := rows.Err(); err != nil {
		return errors.Wrapf(err, "querying %s", collection)
	}

	return decodeInto(out, len(raws), func(i int, dst any) error {
		return errors.Wrapf(json.Unmarshal(raws[i], dst), "decoding %s", collection)
	})
}

func (s *PostgresStore) DeleteAll(ctx context.Context, collection string) error {
	tbl, err := table(collection)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM "+tbl); err != nil {
		return errors.Wrapf(err, "clearing %s", collection)
	}
	return nil
}

// Upsert takes a transaction-scoped advisory lock on (collection, match) so
// concurrent upserts of the same key serialise instead of inserting twice.
func (s *PostgresStore) Upsert(ctx context.Context, collection string, match Filter, set any) error {
	tbl, err := table(collection)
	if err != nil {
		return err
	}
	matchJSON, err := json.Marshal(match)
	if err != nil {
		return errors.Wrapf(err, "encoding %s filter", collection)
	}
	fields, err := toDocument(set)
	if err != nil {
		return errors.Wrapf(err, "encoding %s document", collection)
	}
	delete(fields, "_id")
	setJSON, err := json.Marshal(fields)
	if err != nil {
		return errors.Wrapf(err, "encoding %s document", collection)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "error starting transaction")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", collection+string(matchJSON)); err != nil {
		return errors.Wrapf(err, "locking %s", collection)
	}

	res, err := tx.ExecContext(ctx, fmt.Sprintf(`
        UPDATE %[1]s SET doc = doc || $1::jsonb
        WHERE id = (SELECT id FROM %[1]s WHERE doc @> $2::jsonb ORDER BY id LIMIT 1)
    `, tbl), setJSON, matchJSON)
	if err != nil {
		return errors.Wrapf(err, "updating %s", collection)
	}
	updated, err := res.RowsAffected()
	if err != nil {
		return errors.Wrapf(err, "updating %s", collection)
	}

	if updated == 0 {
		doc := make(map[string]any, len(match)+len(fields)+1)
		for k, v := range match {
			doc[k] = v
		}
		for k, v := range fields {
			doc[k] = v
		}
		id := uuid.NewString()
		doc["_id"] = id
		raw, err := json.Marshal(doc)
		if err != nil {
			return errors.Wrapf(err, "encoding %s document", collection)
		}
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("INSERT INTO %s (id, doc) VALUES ($1, $2)", tbl), id, raw); err != nil {
			return errors.Wrapf(err, "inserting into %s", collection)
		}
	}
	return errors.Wrap(tx.Commit(), "error committing transaction")
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return errors.Wrap(s.db.PingContext(ctx), "error pinging database")
}

func (s *PostgresStore) Name() string { return "PostgreSQL" }

func (s *PostgresStore) Close(context.Context) error {
	return s.db.Close()
}
