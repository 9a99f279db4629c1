package cli

import (
	"github.com/spf13/cobra"

	"github.com/harpproto/harp/internal/doc"
	"github.com/harpproto/harp/internal/identity"
)

// ShowResult is the payload for a successful show.
type ShowResult struct {
	Dyad     identity.DyadID `json:"dyad"`
	Layer    doc.Layer       `json:"layer"`
	Epoch    int64           `json:"epoch"`
	CID      string          `json:"cid"`
	Checksum string          `json:"checksum"`
	Document string          `json:"document"`
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	var layer string

	cmd := &cobra.Command{
		Use:           "show <dyad-id>",
		Short:         "Print the current epoch of a dyad",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(rootOpts, cmd, identity.DyadID(args[0]), doc.Layer(layer))
		},
	}

	cmd.Flags().StringVar(&layer, "layer", "public", "privacy layer (public|shared|private)")

	return cmd
}

func runShow(opts *RootOptions, cmd *cobra.Command, dyadID identity.DyadID, layer doc.Layer) error {
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

	d, cid, err := st.requireDyad(cmd.Context(), formatter, dyadID, layer)
	if err != nil {
		return err
	}

	if opts.Format == "json" {
		return formatter.JSON(ShowResult{
			Dyad:     dyadID,
			Layer:    layer,
			Epoch:    d.Frontmatter.Epoch,
			CID:      cid,
			Checksum: d.Frontmatter.Checksum,
			Document: doc.Serialize(d),
		})
	}
	// The document is its own display format.
	formatter.Writer.Write([]byte(doc.Serialize(d)))
	return nil
}
