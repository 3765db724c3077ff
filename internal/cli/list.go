package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/cmdset/internal/preset"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored presets",
		Long: `List presets in insertion order. Encrypted presets show a marker
instead of the command text; they are never decrypted for listing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, rootOpts)
		},
	}

	return cmd
}

func runList(cmd *cobra.Command, rootOpts *RootOptions) error {
	mgr, _, err := openStore(cmd.Context(), rootOpts)
	if err != nil {
		return err
	}
	defer closeStore(mgr)

	presets := mgr.List()
	formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}

	if rootOpts.Format == "json" {
		return formatter.Success(presets)
	}
	return formatter.Success(formatPresetList(presets))
}

// formatPresetList renders the text listing. Encrypted entries never
// expose command text, only the stored ciphertext marker.
func formatPresetList(presets []preset.Preset) string {
	if len(presets) == 0 {
		return "No presets found"
	}

	var sb strings.Builder
	sb.WriteString("Stored presets:\n")
	for i, p := range presets {
		if p.Encrypt {
			fmt.Fprintf(&sb, "%3d. %s [encrypted]\n", i+1, p.Name)
		} else {
			fmt.Fprintf(&sb, "%3d. %s: %s\n", i+1, p.Name, p.Command)
		}
	}
	fmt.Fprintf(&sb, "Total: %d preset(s)", len(presets))
	return sb.String()
}
