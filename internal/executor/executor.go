// Package executor runs resolved preset commands as child processes.
//
// Composition policy: a resolved command with no shell metacharacters is
// split into an argv vector and spawned directly, with extra arguments
// appended as discrete argv entries, so nothing is reinterpreted by a
// shell. A command that does use shell syntax (pipes, redirection,
// substitution, quoting) runs via `sh -c` with the extra arguments
// space-joined after it; in that mode the whole line is shell-interpreted
// and callers are responsible for sanitizing extra arguments.
package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/roach88/cmdset/internal/store"
)

// ErrSpawn indicates the child process could not be created. The preset's
// usage metadata is untouched in that case.
var ErrSpawn = errors.New("failed to spawn command")

// IsSpawnError reports whether err stems from a failed process spawn.
func IsSpawnError(err error) bool {
	return errors.Is(err, ErrSpawn)
}

// shellMeta are the characters that hand a command line over to the shell.
const shellMeta = "|&;<>()$`\\\"'*?[]#~\n\t"

// Executor spawns preset commands. The std streams default to the
// process's own; tests override them.
type Executor struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// New returns an executor wired to the process's std streams.
func New() *Executor {
	return &Executor{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run resolves the named preset through the manager, composes it with
// extraArgs, spawns the child, and waits for completion.
//
// Returns the child's exit status. Resolution failures (NOT_FOUND,
// DECRYPTION_ERROR) and spawn failures return an error and never bump
// usage metadata; ciphertext that failed to decrypt is never executed.
// A child that ran and exited nonzero is a successful execution with that
// code, and usage metadata is updated.
func (e *Executor) Run(ctx context.Context, mgr *store.Manager, name string, extraArgs []string) (int, error) {
	resolved, err := mgr.Resolve(name)
	if err != nil {
		return -1, err
	}

	cmd, err := e.compose(ctx, resolved, extraArgs)
	if err != nil {
		return -1, err
	}

	runErr := cmd.Run()
	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			return -1, fmt.Errorf("%w: %v", ErrSpawn, runErr)
		}
		// Spawn and wait succeeded; the child itself failed.
		e.recordUsage(ctx, mgr, name)
		return exitErr.ExitCode(), nil
	}

	e.recordUsage(ctx, mgr, name)
	return 0, nil
}

func (e *Executor) compose(ctx context.Context, command string, extraArgs []string) (*exec.Cmd, error) {
	var cmd *exec.Cmd
	if strings.ContainsAny(command, shellMeta) {
		line := command
		if len(extraArgs) > 0 {
			line += " " + strings.Join(extraArgs, " ")
		}
		cmd = exec.CommandContext(ctx, "sh", "-c", line)
	} else {
		argv := strings.Fields(command)
		if len(argv) == 0 {
			return nil, fmt.Errorf("%w: empty command", ErrSpawn)
		}
		argv = append(argv, extraArgs...)
		cmd = exec.CommandContext(ctx, argv[0], argv[1:]...)
	}

	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr
	return cmd, nil
}

// recordUsage bumps use_count and last_used after a confirmed spawn+wait.
// Best-effort: the child already ran, so a metadata write failure must
// not mask its exit status.
func (e *Executor) recordUsage(ctx context.Context, mgr *store.Manager, name string) {
	_ = mgr.UpdateUsage(ctx, name)
}
