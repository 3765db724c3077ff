package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/cmdset/internal/preset"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 1 - Initial schema
const currentSchemaVersion = 1

// ErrCorrupt indicates persisted or imported data that violates the table
// invariants (duplicate names, capacity overflow, malformed structure).
var ErrCorrupt = errors.New("corrupt preset data")

// openDB creates or opens the SQLite database at the given path, applying
// pragmas and schema migrations. Idempotent.
func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite supports one writer at a time; a single connection avoids
	// SQLITE_BUSY errors.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return db, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates tables if they don't exist and records the schema
// version. Idempotent.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}
	if version < currentSchemaVersion {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
			return fmt.Errorf("set user_version: %w", err)
		}
	}

	return nil
}

// insertRow appends one preset row at the given position.
func (m *Manager) insertRow(ctx context.Context, p preset.Preset, position int64) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO presets
		(id, name, command, encrypt, created_at, last_used, use_count, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		p.ID,
		p.Name,
		p.Command,
		boolToInt(p.Encrypt),
		p.CreatedAt,
		p.LastUsed,
		p.UseCount,
		position,
	)
	if err != nil {
		return fmt.Errorf("insert preset: %w", err)
	}
	return nil
}

func (m *Manager) deleteRow(ctx context.Context, name string) error {
	if _, err := m.db.ExecContext(ctx, `DELETE FROM presets WHERE name = ?`, name); err != nil {
		return fmt.Errorf("delete preset: %w", err)
	}
	return nil
}

func (m *Manager) updateUsageRow(ctx context.Context, name string, lastUsed int64, useCount int) error {
	if _, err := m.db.ExecContext(ctx, `
		UPDATE presets SET last_used = ?, use_count = ? WHERE name = ?
	`, lastUsed, useCount, name); err != nil {
		return fmt.Errorf("update usage: %w", err)
	}
	return nil
}

// loadAll reads every persisted preset in insertion order and returns the
// records plus the highest position in use.
func (m *Manager) loadAll(ctx context.Context) ([]preset.Preset, int64, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, name, command, encrypt, created_at, last_used, use_count, position
		FROM presets
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, 0, fmt.Errorf("query presets: %w", err)
	}
	defer rows.Close()

	var (
		presets []preset.Preset
		maxPos  int64
	)
	for rows.Next() {
		var (
			p        preset.Preset
			encrypt  int
			position int64
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Command, &encrypt, &p.CreatedAt, &p.LastUsed, &p.UseCount, &position); err != nil {
			return nil, 0, fmt.Errorf("scan preset: %w", err)
		}
		p.Encrypt = encrypt != 0
		p.Active = true
		presets = append(presets, p)
		if position > maxPos {
			maxPos = position
		}
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate presets: %w", err)
	}

	if presets == nil {
		presets = []preset.Preset{}
	}
	return presets, maxPos, nil
}

// saveAll rewrites the presets table from the given records, positions
// 1..n, in a single transaction.
func (m *Manager) saveAll(ctx context.Context, presets []preset.Preset) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save presets: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if _, err := tx.ExecContext(ctx, `DELETE FROM presets`); err != nil {
		return fmt.Errorf("save presets: clear: %w", err)
	}

	for i, p := range presets {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO presets
			(id, name, command, encrypt, created_at, last_used, use_count, position)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			p.ID,
			p.Name,
			p.Command,
			boolToInt(p.Encrypt),
			p.CreatedAt,
			p.LastUsed,
			p.UseCount,
			int64(i+1),
		); err != nil {
			return fmt.Errorf("save presets: insert %q: %w", p.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save presets: commit: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
