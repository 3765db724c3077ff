package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewLoadCommand creates the load command.
func NewLoadCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Reload presets from the store file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(cmd, rootOpts)
		},
	}

	return cmd
}

func runLoad(cmd *cobra.Command, rootOpts *RootOptions) error {
	mgr, _, err := openStore(cmd.Context(), rootOpts)
	if err != nil {
		return err
	}
	defer closeStore(mgr)

	if err := mgr.Reload(cmd.Context()); err != nil {
		return WrapExitError(ExitFailure, "failed to load presets", err)
	}

	formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
	if rootOpts.Format == "json" {
		return formatter.Success(map[string]interface{}{"loaded": mgr.Count(), "path": mgr.Path()})
	}
	return formatter.Success(fmt.Sprintf("Loaded %d preset(s) from %s", mgr.Count(), mgr.Path()))
}
