package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import presets from a JSON file",
		Long: `Merge presets from a JSON interchange file into the store. Entries
whose names already exist are skipped, and the import stops once the
store reaches capacity.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultExchangeFile
			if len(args) == 1 {
				path = args[0]
			}
			return runImport(cmd, rootOpts, path)
		},
	}

	return cmd
}

func runImport(cmd *cobra.Command, rootOpts *RootOptions, path string) error {
	mgr, _, err := openStore(cmd.Context(), rootOpts)
	if err != nil {
		return err
	}
	defer closeStore(mgr)

	imported, err := mgr.Import(cmd.Context(), path)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to import presets", err)
	}

	formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
	if rootOpts.Format == "json" {
		return formatter.Success(map[string]interface{}{"file": path, "imported": imported})
	}
	return formatter.Success(fmt.Sprintf("Imported %d preset(s) from %s", imported, path))
}
