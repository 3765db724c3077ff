// Package preset defines the preset record and the bounded in-memory table
// that owns the store's core invariants.
//
// A preset is a named shell command line, optionally encrypted. The table
// holds at most MaxPresets active presets, enforces name uniqueness
// (exact, case-sensitive) among active entries, and preserves insertion
// order for listing. Removed presets become inactive tombstones so that
// survivors never reorder.
//
// Names are NFC-normalized at the validation boundary; comparison stays
// byte-exact after normalization.
package preset
