package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// defaultExchangeFile is the default path for export and import.
const defaultExchangeFile = "cmdset_export.json"

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export presets to a JSON file",
		Long: `Write all presets to a JSON interchange file. Encrypted commands are
exported as their ciphertext; they stay sealed outside the store.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultExchangeFile
			if len(args) == 1 {
				path = args[0]
			}
			return runExport(cmd, rootOpts, path)
		},
	}

	return cmd
}

func runExport(cmd *cobra.Command, rootOpts *RootOptions, path string) error {
	mgr, _, err := openStore(cmd.Context(), rootOpts)
	if err != nil {
		return err
	}
	defer closeStore(mgr)

	if err := mgr.Export(path); err != nil {
		return WrapExitError(ExitFailure, "failed to export presets", err)
	}

	formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
	if rootOpts.Format == "json" {
		return formatter.Success(map[string]interface{}{"file": path, "count": mgr.Count()})
	}
	return formatter.Success(fmt.Sprintf("Exported %d preset(s) to %s", mgr.Count(), path))
}
