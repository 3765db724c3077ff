package cli

import (
	"github.com/spf13/cobra"
)

// NewClearSessionCommand creates the clear-session command.
func NewClearSessionCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "clear-session",
		Aliases: []string{"cs"},
		Short:   "Forget the cached passphrase",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClearSession(cmd, rootOpts)
		},
	}

	return cmd
}

func runClearSession(cmd *cobra.Command, rootOpts *RootOptions) error {
	mgr, _, err := openStore(cmd.Context(), rootOpts)
	if err != nil {
		return err
	}
	defer closeStore(mgr)

	if err := mgr.ClearSession(); err != nil {
		return WrapExitError(ExitFailure, "failed to clear session", err)
	}

	formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
	if rootOpts.Format == "json" {
		return formatter.Success(map[string]string{"session": "cleared"})
	}
	return formatter.Success("Session cleared")
}
