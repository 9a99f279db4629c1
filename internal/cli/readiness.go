package cli

import (
	"github.com/spf13/cobra"

	"github.com/harpproto/harp/internal/doc"
	"github.com/harpproto/harp/internal/identity"
	"github.com/harpproto/harp/internal/score"
)

// NewReadinessCommand creates the readiness command.
func NewReadinessCommand(rootOpts *RootOptions) *cobra.Command {
	var layer string

	cmd := &cobra.Command{
		Use:           "readiness <dyad-id>",
		Short:         "Assess collaboration readiness of a dyad",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReadiness(rootOpts, cmd, identity.DyadID(args[0]), doc.Layer(layer))
		},
	}

	cmd.Flags().StringVar(&layer, "layer", "public", "privacy layer (public|shared|private)")

	return cmd
}

func runReadiness(opts *RootOptions, cmd *cobra.Command, dyadID identity.DyadID, layer doc.Layer) error {
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

	d, _, err := st.requireDyad(cmd.Context(), formatter, dyadID, layer)
	if err != nil {
		return err
	}

	r := score.AssessCollaborationReadiness(d)

	if opts.Format == "json" {
		return formatter.JSON(r)
	}
	formatter.Textf("Readiness: %s (epoch %d)", r.ReadinessLevel, r.SourceEpoch)
	formatter.Textf("  interactions:        %d", r.InteractionCount)
	formatter.Textf("  unresolved tensions: %d", r.UnresolvedTensions)
	formatter.Textf("  comm preferences:    %v", r.HasCommPreferences)
	formatter.Textf("  shared decisions:    %v", r.HasSharedDecisions)
	formatter.Textf("  payment history:     %v", r.PaymentHistory)
	return nil
}
