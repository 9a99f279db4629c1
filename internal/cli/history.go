package cli

import (
	"github.com/spf13/cobra"

	"github.com/harpproto/harp/internal/doc"
	"github.com/harpproto/harp/internal/identity"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	var layer string

	cmd := &cobra.Command{
		Use:           "history <dyad-id>",
		Short:         "List the epoch chain of a dyad, oldest first",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(rootOpts, cmd, identity.DyadID(args[0]), doc.Layer(layer))
		},
	}

	cmd.Flags().StringVar(&layer, "layer", "public", "privacy layer (public|shared|private)")

	return cmd
}

func runHistory(opts *RootOptions, cmd *cobra.Command, dyadID identity.DyadID, layer doc.Layer) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, cleanup, err := openState(opts)
	if err != nil {
		return err
	}
	defer cleanup()
	ctx := cmd.Context()

	rows, err := st.epochs(ctx, stateKey(dyadID, layer))
	if err != nil {
		return WrapExitError(ExitCommandError, "read epoch index", err)
	}
	if len(rows) == 0 {
		formatter.Error("DYAD_NOT_FOUND", "no epochs recorded for "+string(dyadID)+" (layer: "+string(layer)+")", nil)
		return NewExitError(ExitFailure, "dyad not found")
	}

	if opts.Format == "json" {
		return formatter.JSON(rows)
	}
	for _, r := range rows {
		formatter.Textf("epoch %-3d %s  %s  %s", r.Epoch, r.CID, r.Updated, r.Checksum)
	}
	return nil
}
