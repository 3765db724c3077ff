package preset

import (
	"fmt"
	"time"
)

// Table is the fixed-capacity ordered collection of preset records.
//
// Removed presets stay in the slice as inactive tombstones so insertion
// order is stable for survivors. Count reflects active presets only.
//
// Table is not safe for concurrent use; callers serialize access.
type Table struct {
	entries []Preset
	active  int
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{}
}

// Count returns the number of active presets.
func (t *Table) Count() int {
	return t.active
}

// Insert appends p to the table.
//
// Fails with EXISTS if an active preset with the same name exists, and
// with CAPACITY_EXCEEDED if the table already holds MaxPresets active
// presets. The table is unchanged on failure.
func (t *Table) Insert(p Preset) error {
	if t.active >= MaxPresets {
		return newCapacityError()
	}
	if _, ok := t.Find(p.Name); ok {
		return newExistsError(p.Name)
	}

	p.Active = true
	t.entries = append(t.entries, p)
	t.active++
	return nil
}

// Remove tombstones the active preset with the given name.
// Fails with NOT_FOUND if no active preset matches; the failure is
// idempotent and leaves the table unchanged.
func (t *Table) Remove(name string) error {
	name = NormalizeName(name)
	for i := range t.entries {
		if t.entries[i].Active && t.entries[i].Name == name {
			t.entries[i].Active = false
			t.active--
			return nil
		}
	}
	return newNotFoundError(name)
}

// Find returns a copy of the active preset with the given name.
// Comparison is exact and case-sensitive; tombstones are invisible.
func (t *Table) Find(name string) (Preset, bool) {
	name = NormalizeName(name)
	for i := range t.entries {
		if t.entries[i].Active && t.entries[i].Name == name {
			return t.entries[i], true
		}
	}
	return Preset{}, false
}

// List returns copies of all active presets in original insertion order.
// Returns an empty slice, not nil, when the table is empty.
func (t *Table) List() []Preset {
	out := make([]Preset, 0, t.active)
	for i := range t.entries {
		if t.entries[i].Active {
			out = append(out, t.entries[i])
		}
	}
	return out
}

// UpdateUsage bumps the usage counter and sets the last-used timestamp on
// the named preset. A preset that vanished between resolution and the
// usage update is a silent no-op: the execution already happened and there
// is nothing left to record it against.
func (t *Table) UpdateUsage(name string, when time.Time) {
	name = NormalizeName(name)
	for i := range t.entries {
		if t.entries[i].Active && t.entries[i].Name == name {
			t.entries[i].LastUsed = when.Unix()
			t.entries[i].UseCount++
			return
		}
	}
}

// Reset replaces the table contents with presets loaded from persistence,
// re-enforcing the insert invariants. Duplicate names or more than
// MaxPresets records are corrupt input and fail without mutating the
// table.
func (t *Table) Reset(presets []Preset) error {
	if len(presets) > MaxPresets {
		return newCapacityError()
	}
	seen := make(map[string]struct{}, len(presets))
	for _, p := range presets {
		if p.Name == "" {
			return newValidationError("loaded preset has empty name")
		}
		if _, dup := seen[p.Name]; dup {
			return &Error{Code: CodeExists, Message: fmt.Sprintf("duplicate preset name %q in loaded data", p.Name), Name: p.Name}
		}
		seen[p.Name] = struct{}{}
	}

	entries := make([]Preset, len(presets))
	copy(entries, presets)
	for i := range entries {
		entries[i].Active = true
	}
	t.entries = entries
	t.active = len(entries)
	return nil
}
