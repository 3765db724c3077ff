package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// sessionFile is the passphrase cache, 0600, under the working directory.
// First line: unix timestamp of caching. Second line: passphrase.
const sessionFile = ".cmdset_session"

func (v *Vault) sessionPath() string {
	return filepath.Join(v.dir, sessionFile)
}

// readSession returns the cached passphrase if the cache file exists and
// has not outlived the TTL.
func (v *Vault) readSession() ([]byte, bool) {
	if v.ttl <= 0 || v.dir == "" {
		return nil, false
	}

	data, err := os.ReadFile(v.sessionPath())
	if err != nil {
		return nil, false
	}

	lines := strings.SplitN(string(data), "\n", 3)
	if len(lines) < 2 {
		return nil, false
	}
	cachedAt, err := strconv.ParseInt(strings.TrimSpace(lines[0]), 10, 64)
	if err != nil {
		return nil, false
	}
	if time.Since(time.Unix(cachedAt, 0)) > v.ttl {
		_ = v.clearSession()
		return nil, false
	}

	pass := strings.TrimRight(lines[1], "\n")
	if pass == "" {
		return nil, false
	}
	return []byte(pass), true
}

// writeSession caches the passphrase with 0600 permissions.
func (v *Vault) writeSession(pass []byte) error {
	if v.ttl <= 0 || v.dir == "" {
		return nil
	}
	content := fmt.Sprintf("%d\n%s\n", time.Now().Unix(), pass)
	if err := os.WriteFile(v.sessionPath(), []byte(content), 0600); err != nil {
		return fmt.Errorf("write session cache: %w", err)
	}
	return nil
}

func (v *Vault) clearSession() error {
	if v.dir == "" {
		return nil
	}
	if err := os.Remove(v.sessionPath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear session cache: %w", err)
	}
	return nil
}

// SessionActive reports whether a fresh session cache exists on disk.
func (v *Vault) SessionActive() bool {
	_, ok := v.readSession()
	return ok
}
