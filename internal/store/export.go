package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/cmdset/internal/preset"
)

// exportVersion tags the interchange envelope. Version 2.0 is the format
// the original preset files used; keeping it means old exports import
// cleanly.
const exportVersion = "2.0"

// envelope is the JSON interchange format for export and import.
// Encrypted commands travel as ciphertext, never plaintext.
type envelope struct {
	Version    string          `json:"version"`
	ExportedAt int64           `json:"exported_at,omitempty"`
	Count      int             `json:"count"`
	Presets    []preset.Preset `json:"presets"`
}

// Export writes all active presets to path as JSON.
func (m *Manager) Export(path string) error {
	presets := m.table.List()
	env := envelope{
		Version:    exportVersion,
		ExportedAt: time.Now().Unix(),
		Count:      len(presets),
		Presets:    presets,
	}

	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("export presets: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("export presets: %w", err)
	}
	return nil
}

// Import merges presets from a JSON export file into the store.
//
// Records whose names already exist are skipped, as are records that fail
// validation; importing stops silently once the table is full. Returns
// the number of presets imported. A file that cannot be parsed as an
// export envelope is ErrCorrupt and leaves the store untouched.
func (m *Manager) Import(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("import presets: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return 0, fmt.Errorf("import presets: %w: %v", ErrCorrupt, err)
	}
	if env.Presets == nil {
		return 0, fmt.Errorf("import presets: %w: missing presets array", ErrCorrupt)
	}

	imported := 0
	for _, p := range env.Presets {
		if m.table.Count() >= preset.MaxPresets {
			break
		}
		if p.Name == "" || p.Command == "" {
			continue
		}
		if len(p.Name) > preset.MaxNameLen || (!p.Encrypt && len(p.Command) > preset.MaxCommandLen) {
			continue
		}
		if _, exists := m.table.Find(p.Name); exists {
			continue
		}

		p.Name = preset.NormalizeName(p.Name)
		p.Active = true
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if p.CreatedAt == 0 {
			p.CreatedAt = time.Now().Unix()
		}

		if err := m.table.Insert(p); err != nil {
			return imported, fmt.Errorf("import presets: %w", err)
		}
		pos := m.nextPos + 1
		if err := m.insertRow(ctx, p, pos); err != nil {
			_ = m.table.Remove(p.Name)
			return imported, fmt.Errorf("import presets: %w", err)
		}
		m.nextPos = pos
		imported++
	}

	return imported, nil
}
