package commandchest

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteBackend stores chest documents as rows of a single table. The
// document payload is identical to the file backend's, so the two backends
// are interchangeable.
type SQLiteBackend struct {
	db       *sql.DB
	validate KindValidator
	log      *slog.Logger
}

// OpenSQLite opens (and if necessary bootstraps) a chest database at path.
func OpenSQLite(path string, validate KindValidator, log *slog.Logger) (*SQLiteBackend, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if log == nil {
		log = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open chest db: %w", err)
	}
	// The single writer is the server's event thread; keep one connection so
	// sqlite never sees concurrent writers.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS chests (
		id       TEXT PRIMARY KEY,
		document BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create chests table: %w", err)
	}
	return &SQLiteBackend{db: db, validate: validate, log: log}, nil
}

// Name implements Backend.
func (b *SQLiteBackend) Name() string { return "sqlite" }

// LoadAll implements Backend. Malformed rows are logged and skipped.
func (b *SQLiteBackend) LoadAll() ([]*Chest, error) {
	rows, err := b.db.Query(`SELECT id, document FROM chests`)
	if err != nil {
		return nil, fmt.Errorf("query chests: %w", err)
	}
	defer rows.Close()

	var chests []*Chest
	for rows.Next() {
		var id string
		var doc []byte
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, fmt.Errorf("scan chest row: %w", err)
		}
		c, err := unmarshalChest(doc, b.validate)
		if err != nil {
			b.log.Warn("commandchest: failed to load chest row", "id", id, "error", err)
			continue
		}
		chests = append(chests, c)
	}
	return chests, rows.Err()
}

// Save implements Backend.
func (b *SQLiteBackend) Save(c *Chest) error {
	doc, err := marshalChest(c)
	if err != nil {
		return err
	}
	_, err = b.db.Exec(
		`INSERT INTO chests (id, document) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET document = excluded.document`,
		c.ID.String(), doc,
	)
	if err != nil {
		return fmt.Errorf("save chest %s: %w", c.ID, err)
	}
	return nil
}

// Delete implements Backend.
func (b *SQLiteBackend) Delete(id uuid.UUID) error {
	if _, err := b.db.Exec(`DELETE FROM chests WHERE id = ?`, id.String()); err != nil {
		return fmt.Errorf("delete chest %s: %w", id, err)
	}
	return nil
}

// Close implements Backend.
func (b *SQLiteBackend) Close() error { return b.db.Close() }
