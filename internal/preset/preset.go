package preset

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// Capacity and field limits. Lengths are byte counts after NFC
// normalization of the name.
const (
	MaxPresets    = 100
	MaxNameLen    = 49
	MaxCommandLen = 499
)

// Preset is a named, stored command line, optionally encrypted.
//
// When Encrypt is true, Command holds ciphertext and must pass through the
// crypto boundary before use. Name is always plaintext.
type Preset struct {
	// ID is a stable identifier assigned at creation. It survives
	// persistence round-trips and never changes.
	ID string `json:"id"`

	// Name is unique among active presets, exact and case-sensitive.
	Name string `json:"name"`

	// Command is the stored representation: plaintext, or ciphertext
	// when Encrypt is set.
	Command string `json:"command"`

	// Encrypt is fixed at creation time.
	Encrypt bool `json:"encrypt"`

	// Active distinguishes live entries from tombstoned slots.
	Active bool `json:"-"`

	// CreatedAt is unix seconds, set once at creation.
	CreatedAt int64 `json:"created_at"`

	// LastUsed is unix seconds of the last successful execution;
	// 0 means never executed.
	LastUsed int64 `json:"last_used"`

	// UseCount increments on each successful execution.
	UseCount int `json:"use_count"`
}

// New validates inputs and builds a preset record with fresh identity and
// metadata. The command held by the returned preset is the plaintext the
// caller passed in; sealing it is the store manager's job.
//
// Validation fails, it never truncates: an oversized name or command is a
// VALIDATION_ERROR so a later execution can never see a silently mangled
// command.
func New(name, command string, encrypt bool) (Preset, error) {
	name = norm.NFC.String(name)

	if name == "" {
		return Preset{}, newValidationError("preset name must not be empty")
	}
	if len(name) > MaxNameLen {
		return Preset{}, newValidationError(fmt.Sprintf("preset name exceeds %d bytes", MaxNameLen))
	}
	if command == "" {
		return Preset{}, newValidationError("command must not be empty")
	}
	if len(command) > MaxCommandLen {
		return Preset{}, newValidationError(fmt.Sprintf("command exceeds %d bytes", MaxCommandLen))
	}

	return Preset{
		ID:        uuid.NewString(),
		Name:      name,
		Command:   command,
		Encrypt:   encrypt,
		Active:    true,
		CreatedAt: time.Now().Unix(),
		LastUsed:  0,
		UseCount:  0,
	}, nil
}

// NormalizeName applies the same NFC normalization New applies, so lookups
// and inserts agree on the stored form of a name.
func NormalizeName(name string) string {
	return norm.NFC.String(name)
}
