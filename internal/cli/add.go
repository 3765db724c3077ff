package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// AddOptions holds options for the add command.
type AddOptions struct {
	Root    *RootOptions
	Encrypt bool
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddOptions{Root: rootOpts}

	cmd := &cobra.Command{
		Use:     "add <name> <command>",
		Aliases: []string{"a"},
		Short:   "Store a command under a name",
		Long: `Store a shell command under a short name for later execution.
With --encrypt the command text is sealed with a passphrase and only
decrypted at execution time.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd, opts, args[0], args[1])
		},
	}

	cmd.Flags().BoolVarP(&opts.Encrypt, "encrypt", "e", false, "encrypt the command text at rest")

	return cmd
}

func runAdd(cmd *cobra.Command, opts *AddOptions, name, command string) error {
	mgr, _, err := openStore(cmd.Context(), opts.Root)
	if err != nil {
		return err
	}
	defer closeStore(mgr)

	p, err := mgr.Add(cmd.Context(), name, command, opts.Encrypt)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to add preset", err)
	}

	formatter := &OutputFormatter{Format: opts.Root.Format, Writer: cmd.OutOrStdout()}
	if opts.Root.Format == "json" {
		return formatter.Success(p)
	}
	return formatter.Success(fmt.Sprintf("Added preset '%s'", p.Name))
}
