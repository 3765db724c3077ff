package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/cmdset/internal/preset"
)

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show store and session status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, rootOpts)
		},
	}

	return cmd
}

func runStatus(cmd *cobra.Command, rootOpts *RootOptions) error {
	mgr, cfg, err := openStore(cmd.Context(), rootOpts)
	if err != nil {
		return err
	}
	defer closeStore(mgr)

	formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}

	if rootOpts.Format == "json" {
		return formatter.Success(map[string]interface{}{
			"presets":        mgr.Count(),
			"capacity":       preset.MaxPresets,
			"store_path":     mgr.Path(),
			"working_dir":    cfg.WorkingDir,
			"session_active": mgr.SessionActive(),
		})
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Presets:  %d / %d\n", mgr.Count(), preset.MaxPresets)
	fmt.Fprintf(&sb, "Store:    %s\n", mgr.Path())
	fmt.Fprintf(&sb, "Session:  %s", sessionLabel(mgr.SessionActive()))
	return formatter.Success(sb.String())
}

func sessionLabel(active bool) string {
	if active {
		return "active"
	}
	return "none"
}
