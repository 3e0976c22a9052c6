// Package persistence provides SQLite-based board storage.
package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/hexclaim/internal/board"
)

// DB wraps a SQLite connection holding cell records, board events and
// metadata. It implements board.Store.
type DB struct {
	conn *sqlx.DB
	path string
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn, path: path}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS cells (
		idx INTEGER PRIMARY KEY,
		color TEXT NOT NULL,
		label TEXT NOT NULL,
		code_hash TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS board_events (
		id TEXT PRIMARY KEY,
		at INTEGER NOT NULL,
		kind TEXT NOT NULL,
		idx INTEGER NOT NULL,
		label TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS board_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_board_events_at ON board_events(at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

type cellRow struct {
	Idx       int    `db:"idx"`
	Color     string `db:"color"`
	Label     string `db:"label"`
	CodeHash  string `db:"code_hash"`
	UpdatedAt int64  `db:"updated_at"`
}

// GetCell loads one cell record. A missing row returns (nil, nil); a row
// that cannot hold a valid claim is treated the same way rather than
// poisoning the board.
func (db *DB) GetCell(index int) (*board.Record, error) {
	var row cellRow
	err := db.conn.Get(&row, "SELECT idx, color, label, code_hash, updated_at FROM cells WHERE idx = ?", index)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select cell %d: %w", index, err)
	}

	// Every stored record is a claim, so a row without a digest (or with
	// an over-budget label) is malformed. Treat it as no record.
	if row.CodeHash == "" || len([]rune(row.Label)) > board.MaxLabelLen {
		slog.Warn("malformed cell row ignored", "index", index)
		return nil, nil
	}

	return &board.Record{
		Color:    row.Color,
		Label:    row.Label,
		CodeHash: row.CodeHash,
	}, nil
}

// SetCell writes one cell record, replacing any previous row.
func (db *DB) SetCell(index int, rec board.Record) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO cells (idx, color, label, code_hash, updated_at) VALUES (?, ?, ?, ?, ?)",
		index, rec.Color, rec.Label, rec.CodeHash, time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("upsert cell %d: %w", index, err)
	}
	return nil
}

// CellEntry is a claimed cell as served to observers: no digest.
type CellEntry struct {
	Index int    `db:"idx" json:"index"`
	Color string `db:"color" json:"color"`
	Label string `db:"label" json:"label"`
}

// AllCells returns every claimed cell, ordered by index.
func (db *DB) AllCells() ([]CellEntry, error) {
	var rows []CellEntry
	err := db.conn.Select(&rows,
		"SELECT idx, color, label FROM cells WHERE code_hash != '' ORDER BY idx")
	if err != nil {
		return nil, fmt.Errorf("select cells: %w", err)
	}
	return rows, nil
}

// CountCells returns the number of claimed cells.
func (db *DB) CountCells() (int, error) {
	var n int
	err := db.conn.Get(&n, "SELECT COUNT(*) FROM cells WHERE code_hash != ''")
	return n, err
}

type eventRow struct {
	ID    string `db:"id"`
	At    int64  `db:"at"`
	Kind  string `db:"kind"`
	Idx   int    `db:"idx"`
	Label string `db:"label"`
}

// AppendEvent stores one board event.
func (db *DB) AppendEvent(e board.Event) error {
	_, err := db.conn.Exec(
		"INSERT OR IGNORE INTO board_events (id, at, kind, idx, label) VALUES (?, ?, ?, ?, ?)",
		e.ID, e.At.UnixMilli(), e.Kind, e.Index, e.Label,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// RecentEvents returns the most recent N events, oldest first.
func (db *DB) RecentEvents(limit int) ([]board.Event, error) {
	var rows []eventRow
	err := db.conn.Select(&rows,
		"SELECT id, at, kind, idx, label FROM board_events ORDER BY at DESC, id LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("select events: %w", err)
	}

	events := make([]board.Event, len(rows))
	for i, r := range rows {
		events[len(rows)-1-i] = board.Event{
			ID:    r.ID,
			At:    time.UnixMilli(r.At).UTC(),
			Kind:  r.Kind,
			Index: r.Idx,
			Label: r.Label,
		}
	}
	return events, nil
}

// SaveMeta stores a key-value pair in board metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO board_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value. Missing keys return "".
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM board_meta WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}

// FileSize returns the database file size in bytes, 0 when unknown.
func (db *DB) FileSize() int64 {
	info, err := os.Stat(db.path)
	if err != nil {
		return 0
	}
	return info.Size()
}
