// Package sqlite stores the record list in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gravitrone/cocoon/internal/record"
)

// Store keeps records in a single table ordered by position.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a store for path. Use ":memory:" for an in-memory database.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Open opens the database connection and creates the schema if needed.
func (s *Store) Open() error {
	conn, err := sql.Open("sqlite3", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := conn.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}
	if s.path != ":memory:" {
		if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
			conn.Close()
			return fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	s.db = conn
	if err := s.createSchema(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS records (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			type TEXT NOT NULL,
			owner TEXT NOT NULL DEFAULT '',
			default_field TEXT NOT NULL DEFAULT '',
			fields TEXT NOT NULL DEFAULT '{}',
			file_link TEXT NOT NULL DEFAULT '',
			is_temporary INTEGER NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_records_position ON records(position);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Load returns every record in stored order.
func (s *Store) Load(ctx context.Context) ([]record.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, owner, default_field, fields, file_link, is_temporary
		FROM records
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	out := []record.Record{}
	for rows.Next() {
		var (
			rec       record.Record
			fields    string
			temporary int
		)
		if err := rows.Scan(&rec.ID, &rec.Type, &rec.Owner, &rec.DefaultField, &fields, &rec.FileLink, &temporary); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		if err := json.Unmarshal([]byte(fields), &rec.Fields); err != nil {
			return nil, fmt.Errorf("decode fields of %s: %w", rec.ID, err)
		}
		rec.IsTemporary = temporary != 0
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return out, nil
}

// Save replaces the stored list with records in one transaction.
func (s *Store) Save(ctx context.Context, records []record.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM records"); err != nil {
		return fmt.Errorf("clear records: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (id, position, type, owner, default_field, fields, file_link, is_temporary)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		fields, err := json.Marshal(rec.Fields)
		if err != nil {
			return fmt.Errorf("encode fields of %s: %w", rec.ID, err)
		}
		temporary := 0
		if rec.IsTemporary {
			temporary = 1
		}
		if _, err := stmt.ExecContext(ctx, rec.ID, i, rec.Type, rec.Owner, rec.DefaultField, string(fields), rec.FileLink, temporary); err != nil {
			return fmt.Errorf("insert record %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
