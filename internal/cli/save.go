package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewSaveCommand creates the save command.
func NewSaveCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Force a full rewrite of the store file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSave(cmd, rootOpts)
		},
	}

	return cmd
}

func runSave(cmd *cobra.Command, rootOpts *RootOptions) error {
	mgr, _, err := openStore(cmd.Context(), rootOpts)
	if err != nil {
		return err
	}
	defer closeStore(mgr)

	if err := mgr.Save(cmd.Context()); err != nil {
		return WrapExitError(ExitFailure, "failed to save presets", err)
	}

	formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
	if rootOpts.Format == "json" {
		return formatter.Success(map[string]interface{}{"saved": mgr.Count(), "path": mgr.Path()})
	}
	return formatter.Success(fmt.Sprintf("Saved %d preset(s) to %s", mgr.Count(), mgr.Path()))
}
