package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cmdset/internal/preset"
	"github.com/roach88/cmdset/internal/vault"
)

const testStoreFile = "cmdset.db"

func openTestManager(t *testing.T, dir string) *Manager {
	t.Helper()
	v := vault.New(vault.Options{Dir: dir, Passphrase: "test passphrase"})
	m, err := Open(context.Background(), dir, testStoreFile, v)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestOpenCreatesStore(t *testing.T) {
	dir := t.TempDir()
	m := openTestManager(t, dir)

	assert.Equal(t, 0, m.Count())
	assert.Equal(t, filepath.Join(dir, testStoreFile), m.Path())
	_, err := os.Stat(m.Path())
	assert.NoError(t, err)
}

func TestAddAndFind(t *testing.T) {
	m := openTestManager(t, t.TempDir())
	ctx := context.Background()

	added, err := m.Add(ctx, "greet", "echo hello", false)
	require.NoError(t, err)
	assert.NotEmpty(t, added.ID)

	got, ok := m.Find("greet")
	require.True(t, ok)
	assert.Equal(t, "greet", got.Name)
	assert.Equal(t, "echo hello", got.Command)
	assert.False(t, got.Encrypt)

	resolved, err := m.Resolve("greet")
	require.NoError(t, err)
	assert.Equal(t, "echo hello", resolved)
}

func TestAddEncryptedStoresCiphertext(t *testing.T) {
	m := openTestManager(t, t.TempDir())
	ctx := context.Background()

	_, err := m.Add(ctx, "secret", "echo topsecret", true)
	require.NoError(t, err)

	got, ok := m.Find("secret")
	require.True(t, ok)
	assert.True(t, got.Encrypt)
	assert.NotEqual(t, "echo topsecret", got.Command)
	assert.NotContains(t, got.Command, "topsecret")

	resolved, err := m.Resolve("secret")
	require.NoError(t, err)
	assert.Equal(t, "echo topsecret", resolved)
}

func TestAddDuplicateFails(t *testing.T) {
	m := openTestManager(t, t.TempDir())
	ctx := context.Background()

	_, err := m.Add(ctx, "greet", "echo hello", false)
	require.NoError(t, err)

	_, err = m.Add(ctx, "greet", "echo other", false)
	require.Error(t, err)
	assert.True(t, preset.IsExists(err))
	assert.Equal(t, 1, m.Count())
}

func TestAddValidationLeavesStoreUnchanged(t *testing.T) {
	m := openTestManager(t, t.TempDir())
	ctx := context.Background()

	_, err := m.Add(ctx, "", "echo hello", false)
	require.Error(t, err)
	assert.True(t, preset.IsValidation(err))
	assert.Equal(t, 0, m.Count())
}

func TestCapacityExceeded(t *testing.T) {
	m := openTestManager(t, t.TempDir())
	ctx := context.Background()

	for i := 0; i < preset.MaxPresets; i++ {
		_, err := m.Add(ctx, fmt.Sprintf("p%d", i), "true", false)
		require.NoError(t, err)
	}

	_, err := m.Add(ctx, "overflow", "true", false)
	require.Error(t, err)
	assert.True(t, preset.IsCapacity(err))
	assert.Equal(t, preset.MaxPresets, m.Count())
}

func TestRemove(t *testing.T) {
	m := openTestManager(t, t.TempDir())
	ctx := context.Background()

	_, err := m.Add(ctx, "greet", "echo hello", false)
	require.NoError(t, err)

	require.NoError(t, m.Remove(ctx, "greet"))
	assert.Equal(t, 0, m.Count())
	_, ok := m.Find("greet")
	assert.False(t, ok)

	err = m.Remove(ctx, "greet")
	require.Error(t, err)
	assert.True(t, preset.IsNotFound(err))
}

func TestResolveNotFound(t *testing.T) {
	m := openTestManager(t, t.TempDir())

	_, err := m.Resolve("missing")
	require.Error(t, err)
	assert.True(t, preset.IsNotFound(err))
}

func TestResolveCorruptCiphertext(t *testing.T) {
	dir := t.TempDir()
	m := openTestManager(t, dir)
	ctx := context.Background()

	_, err := m.Add(ctx, "secret", "echo topsecret", true)
	require.NoError(t, err)

	// Corrupt the stored ciphertext behind the manager's back.
	_, err = m.db.ExecContext(ctx, `UPDATE presets SET command = ? WHERE name = ?`, "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA", "secret")
	require.NoError(t, err)
	require.NoError(t, m.Reload(ctx))

	_, err = m.Resolve("secret")
	require.Error(t, err)
	assert.True(t, vault.IsDecryptionError(err))
}

func TestPersistenceAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	m := openTestManager(t, dir)
	_, err := m.Add(ctx, "ls-all", "ls -la", false)
	require.NoError(t, err)
	secret, err := m.Add(ctx, "secret", "echo topsecret", true)
	require.NoError(t, err)
	require.NoError(t, m.UpdateUsage(ctx, "ls-all"))
	require.NoError(t, m.Close())

	reopened := openTestManager(t, dir)
	assert.Equal(t, 2, reopened.Count())

	got, ok := reopened.Find("ls-all")
	require.True(t, ok)
	assert.Equal(t, "ls -la", got.Command)
	assert.Equal(t, 1, got.UseCount)
	assert.NotZero(t, got.LastUsed)

	// Encrypted bytes survive untouched and still decrypt.
	gotSecret, ok := reopened.Find("secret")
	require.True(t, ok)
	assert.Equal(t, secret.Command, gotSecret.Command)
	assert.Equal(t, secret.ID, gotSecret.ID)
	resolved, err := reopened.Resolve("secret")
	require.NoError(t, err)
	assert.Equal(t, "echo topsecret", resolved)
}

func TestSaveReloadRoundTrip(t *testing.T) {
	m := openTestManager(t, t.TempDir())
	ctx := context.Background()

	for _, name := range []string{"alpha", "beta", "gamma"} {
		_, err := m.Add(ctx, name, "echo "+name, false)
		require.NoError(t, err)
	}
	require.NoError(t, m.Remove(ctx, "beta"))

	before := m.List()
	require.NoError(t, m.Save(ctx))
	require.NoError(t, m.Reload(ctx))
	assert.Equal(t, before, m.List())
}

func TestReloadDiscardsUnsavedState(t *testing.T) {
	m := openTestManager(t, t.TempDir())
	ctx := context.Background()

	_, err := m.Add(ctx, "keep", "true", false)
	require.NoError(t, err)

	// Mutate memory only, then reload from disk.
	m.table.UpdateUsage("keep", time.Now())
	require.NoError(t, m.Reload(ctx))

	got, ok := m.Find("keep")
	require.True(t, ok)
	assert.Equal(t, 0, got.UseCount)
}

func TestUpdateUsagePersists(t *testing.T) {
	m := openTestManager(t, t.TempDir())
	ctx := context.Background()

	_, err := m.Add(ctx, "greet", "echo hello", false)
	require.NoError(t, err)

	require.NoError(t, m.UpdateUsage(ctx, "greet"))
	require.NoError(t, m.Reload(ctx))

	got, ok := m.Find("greet")
	require.True(t, ok)
	assert.Equal(t, 1, got.UseCount)
	assert.GreaterOrEqual(t, got.LastUsed, got.CreatedAt)
}

func TestUpdateUsageVanishedIsNoop(t *testing.T) {
	m := openTestManager(t, t.TempDir())
	require.NoError(t, m.UpdateUsage(context.Background(), "missing"))
}

func TestListNeverDecrypts(t *testing.T) {
	m := openTestManager(t, t.TempDir())
	ctx := context.Background()

	_, err := m.Add(ctx, "secret", "echo topsecret", true)
	require.NoError(t, err)

	for _, p := range m.List() {
		assert.NotContains(t, p.Command, "topsecret")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	m := openTestManager(t, t.TempDir())
	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
}
