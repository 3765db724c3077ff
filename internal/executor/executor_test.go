package executor

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cmdset/internal/preset"
	"github.com/roach88/cmdset/internal/store"
	"github.com/roach88/cmdset/internal/vault"
)

func openTestManager(t *testing.T) *store.Manager {
	t.Helper()
	dir := t.TempDir()
	v := vault.New(vault.Options{Dir: dir, Passphrase: "test passphrase"})
	m, err := store.Open(context.Background(), dir, "cmdset.db", v)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func newTestExecutor() (*Executor, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &Executor{Stdout: out, Stderr: out}, out
}

func TestRunAppendsExtraArgs(t *testing.T) {
	ctx := context.Background()
	mgr := openTestManager(t)
	_, err := mgr.Add(ctx, "greet", "echo hello", false)
	require.NoError(t, err)

	exe, out := newTestExecutor()
	code, err := exe.Run(ctx, mgr, "greet", []string{"world"})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "hello world\n", out.String())
}

func TestRunUpdatesUsage(t *testing.T) {
	ctx := context.Background()
	mgr := openTestManager(t)
	added, err := mgr.Add(ctx, "greet", "echo hello", false)
	require.NoError(t, err)

	exe, _ := newTestExecutor()
	_, err = exe.Run(ctx, mgr, "greet", nil)
	require.NoError(t, err)

	got, ok := mgr.Find("greet")
	require.True(t, ok)
	assert.Equal(t, 1, got.UseCount)
	assert.GreaterOrEqual(t, got.LastUsed, added.CreatedAt)
}

func TestRunReturnsChildExitCode(t *testing.T) {
	ctx := context.Background()
	mgr := openTestManager(t)
	_, err := mgr.Add(ctx, "fail", "sh -c 'exit 7'", false)
	require.NoError(t, err)

	exe, _ := newTestExecutor()
	code, err := exe.Run(ctx, mgr, "fail", nil)
	require.NoError(t, err)
	assert.Equal(t, 7, code)

	// A nonzero child exit is still a successful execution.
	got, ok := mgr.Find("fail")
	require.True(t, ok)
	assert.Equal(t, 1, got.UseCount)
}

func TestRunNotFound(t *testing.T) {
	ctx := context.Background()
	mgr := openTestManager(t)

	exe, _ := newTestExecutor()
	_, err := exe.Run(ctx, mgr, "missing", nil)
	require.Error(t, err)
	assert.True(t, preset.IsNotFound(err))
}

func TestRunSpawnError(t *testing.T) {
	ctx := context.Background()
	mgr := openTestManager(t)
	_, err := mgr.Add(ctx, "ghost", "/nonexistent/binary-for-test", false)
	require.NoError(t, err)

	exe, _ := newTestExecutor()
	_, err = exe.Run(ctx, mgr, "ghost", nil)
	require.Error(t, err)
	assert.True(t, IsSpawnError(err))

	// Usage metadata only moves on a confirmed spawn+wait.
	got, ok := mgr.Find("ghost")
	require.True(t, ok)
	assert.Equal(t, 0, got.UseCount)
	assert.Zero(t, got.LastUsed)
}

func TestRunEncryptedPreset(t *testing.T) {
	ctx := context.Background()
	mgr := openTestManager(t)
	_, err := mgr.Add(ctx, "secret", "echo topsecret", true)
	require.NoError(t, err)

	exe, out := newTestExecutor()
	code, err := exe.Run(ctx, mgr, "secret", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "topsecret\n", out.String())
}

func TestRunDecryptionFailureNeverSpawns(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	marker := filepath.Join(t.TempDir(), "ran")

	sealer := vault.New(vault.Options{Dir: dir, Passphrase: "right"})
	mgr, err := store.Open(ctx, dir, "cmdset.db", sealer)
	require.NoError(t, err)
	_, err = mgr.Add(ctx, "secret", "touch "+marker, true)
	require.NoError(t, err)
	require.NoError(t, mgr.Close())

	// Reopen with the wrong passphrase: decryption must fail and the
	// command must not run.
	opener := vault.New(vault.Options{Dir: dir, Passphrase: "wrong"})
	mgr, err = store.Open(ctx, dir, "cmdset.db", opener)
	require.NoError(t, err)
	t.Cleanup(func() { _ = mgr.Close() })

	exe, _ := newTestExecutor()
	_, err = exe.Run(ctx, mgr, "secret", nil)
	require.Error(t, err)
	assert.True(t, vault.IsDecryptionError(err))

	_, statErr := os.Stat(marker)
	assert.True(t, os.IsNotExist(statErr), "child must not have spawned")

	got, ok := mgr.Find("secret")
	require.True(t, ok)
	assert.Equal(t, 0, got.UseCount)
}

func TestRunDirectArgvAvoidsShell(t *testing.T) {
	ctx := context.Background()
	mgr := openTestManager(t)
	_, err := mgr.Add(ctx, "greet", "echo hello", false)
	require.NoError(t, err)

	// Without a shell, the metacharacter is an argv literal, not a
	// command separator.
	exe, out := newTestExecutor()
	code, err := exe.Run(ctx, mgr, "greet", []string{";uname"})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "hello ;uname\n", out.String())
}

func TestRunShellCommand(t *testing.T) {
	ctx := context.Background()
	mgr := openTestManager(t)
	_, err := mgr.Add(ctx, "count", "echo one two | wc -w", false)
	require.NoError(t, err)

	exe, out := newTestExecutor()
	code, err := exe.Run(ctx, mgr, "count", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "2", string(bytes.TrimSpace(out.Bytes())))
}
