package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/roach88/cmdset/internal/preset"
	"github.com/roach88/cmdset/internal/vault"
)

// Manager orchestrates the preset table, the vault, and the persistence
// adapter. It is the unit of lifecycle: Open allocates everything, Close
// releases it. All mutations go through the manager.
type Manager struct {
	db      *sql.DB
	table   *preset.Table
	vault   *vault.Vault
	path    string
	nextPos int64
	closed  bool
}

// Open creates or opens the preset store under dir, loading persisted
// presets into memory. The vault is owned by the manager from here on and
// is closed by Close.
func Open(ctx context.Context, dir, file string, v *vault.Vault) (*Manager, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("init store: create working dir: %w", err)
	}

	path := filepath.Join(dir, file)
	db, err := openDB(path)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}

	m := &Manager{
		db:    db,
		table: preset.NewTable(),
		vault: v,
		path:  path,
	}

	if err := m.Reload(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("init store: %w", err)
	}
	return m, nil
}

// Path is the store database location.
func (m *Manager) Path() string {
	return m.path
}

// Count returns the number of active presets.
func (m *Manager) Count() int {
	return m.table.Count()
}

// Add validates the inputs, seals the command when encrypt is set, and
// inserts the preset, persisting it immediately. The plaintext of an
// encrypted command never reaches disk.
func (m *Manager) Add(ctx context.Context, name, command string, encrypt bool) (preset.Preset, error) {
	p, err := preset.New(name, command, encrypt)
	if err != nil {
		return preset.Preset{}, err
	}

	if encrypt {
		sealed, err := m.vault.Seal(command)
		if err != nil {
			return preset.Preset{}, fmt.Errorf("add %q: %w", p.Name, err)
		}
		p.Command = sealed
	}

	if err := m.table.Insert(p); err != nil {
		return preset.Preset{}, err
	}

	pos := m.nextPos + 1
	if err := m.insertRow(ctx, p, pos); err != nil {
		// Roll the in-memory insert back so memory and disk agree.
		_ = m.table.Remove(p.Name)
		return preset.Preset{}, fmt.Errorf("add %q: %w", p.Name, err)
	}
	m.nextPos = pos
	return p, nil
}

// Remove deletes the named preset from disk and memory.
// Fails with NOT_FOUND if no active preset matches.
func (m *Manager) Remove(ctx context.Context, name string) error {
	if _, ok := m.table.Find(name); !ok {
		return m.table.Remove(name) // NOT_FOUND with normalized name
	}
	if err := m.deleteRow(ctx, preset.NormalizeName(name)); err != nil {
		return fmt.Errorf("remove %q: %w", name, err)
	}
	return m.table.Remove(name)
}

// Find returns the stored record, command left in its stored
// representation: callers must Resolve encrypted presets before use.
func (m *Manager) Find(name string) (preset.Preset, bool) {
	return m.table.Find(name)
}

// Resolve returns the plaintext command for the named preset, decrypting
// through the vault when needed. Fails with vault.ErrDecryption on
// corrupt ciphertext; the caller must never run the stored bytes then.
func (m *Manager) Resolve(name string) (string, error) {
	p, ok := m.table.Find(name)
	if !ok {
		return "", &preset.Error{Code: preset.CodeNotFound, Message: "preset not found", Name: preset.NormalizeName(name)}
	}
	if !p.Encrypt {
		return p.Command, nil
	}
	plaintext, err := m.vault.Open(p.Command)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", p.Name, err)
	}
	return plaintext, nil
}

// List returns all active presets in insertion order, commands as stored.
// Encrypted commands are not decrypted here, so listings never leak
// secrets; callers resolve explicitly.
func (m *Manager) List() []preset.Preset {
	return m.table.List()
}

// UpdateUsage bumps use_count and last_used on the named preset and
// persists the new metadata. A vanished preset is a no-op.
func (m *Manager) UpdateUsage(ctx context.Context, name string) error {
	m.table.UpdateUsage(name, time.Now())
	p, ok := m.table.Find(name)
	if !ok {
		return nil
	}
	return m.updateUsageRow(ctx, p.Name, p.LastUsed, p.UseCount)
}

// Save rewrites the full presets table on disk from memory. Mutations
// already persist as they happen; Save exists so callers can force a
// clean rewrite. The in-memory store stays valid if the write fails.
func (m *Manager) Save(ctx context.Context) error {
	if err := m.saveAll(ctx, m.table.List()); err != nil {
		return err
	}
	m.nextPos = int64(m.table.Count())
	return nil
}

// Reload replaces the in-memory table with the persisted presets.
// Duplicate names or capacity overflow in the database are corrupt data,
// not silently dropped; on any failure the in-memory table is unchanged.
func (m *Manager) Reload(ctx context.Context) error {
	presets, maxPos, err := m.loadAll(ctx)
	if err != nil {
		return fmt.Errorf("load presets: %w", err)
	}
	if err := m.table.Reset(presets); err != nil {
		return fmt.Errorf("load presets: %w: %v", ErrCorrupt, err)
	}
	m.nextPos = maxPos
	return nil
}

// ClearSession wipes the vault's cached passphrase.
func (m *Manager) ClearSession() error {
	return m.vault.Clear()
}

// SessionActive reports whether a fresh passphrase cache exists.
func (m *Manager) SessionActive() bool {
	return m.vault.SessionActive()
}

// Close releases the database and zeroes the vault's key material.
// Idempotent. Close never persists: the database is already durable and
// an explicit Save is the only full rewrite.
func (m *Manager) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	m.vault.Close()
	if err := m.db.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}
