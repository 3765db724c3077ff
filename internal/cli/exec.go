package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/cmdset/internal/executor"
)

// NewExecCommand creates the exec command.
func NewExecCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "exec <name> [args...]",
		Aliases: []string{"e", "run"},
		Short:   "Execute a stored preset",
		Long: `Execute a preset by name. Extra arguments are appended to the stored
command. The process exits with the child's own exit code.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(cmd, rootOpts, args[0], args[1:])
		},
	}

	return cmd
}

func runExec(cmd *cobra.Command, rootOpts *RootOptions, name string, extraArgs []string) error {
	mgr, _, err := openStore(cmd.Context(), rootOpts)
	if err != nil {
		return err
	}
	defer closeStore(mgr)

	exe := executor.New()
	exe.Stdin = cmd.InOrStdin()
	exe.Stdout = cmd.OutOrStdout()
	exe.Stderr = cmd.ErrOrStderr()

	code, err := exe.Run(cmd.Context(), mgr, name, extraArgs)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to execute preset", err)
	}
	if code != ExitSuccess {
		// Propagate the child's exit code without printing anything.
		return &ExitError{Code: code}
	}
	return nil
}
