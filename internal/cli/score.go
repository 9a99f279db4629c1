package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/harpproto/harp/internal/doc"
	"github.com/harpproto/harp/internal/identity"
	"github.com/harpproto/harp/internal/score"
)

// NewScoreCommand creates the score command.
func NewScoreCommand(rootOpts *RootOptions) *cobra.Command {
	var layer string

	cmd := &cobra.Command{
		Use:           "score <dyad-id>",
		Short:         "Derive the trust score of a dyad's current epoch",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(rootOpts, cmd, identity.DyadID(args[0]), doc.Layer(layer))
		},
	}

	cmd.Flags().StringVar(&layer, "layer", "public", "privacy layer (public|shared|private)")

	return cmd
}

func runScore(opts *RootOptions, cmd *cobra.Command, dyadID identity.DyadID, layer doc.Layer) error {
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

	s := score.DeriveTrustScore(d, time.Now())

	if opts.Format == "json" {
		return formatter.JSON(s)
	}
	formatter.Textf("Trust score: %.3f (%s, epoch %d)", s.Score, s.Algorithm, s.SourceEpoch)
	formatter.Textf("  interactions:        %d", s.Factors[score.FactorInteractions])
	formatter.Textf("  trust signals:       %d", s.Factors[score.FactorTrustSignals])
	formatter.Textf("  decisions:           %d", s.Factors[score.FactorDecisions])
	formatter.Textf("  capabilities:        %d", s.Factors[score.FactorCapabilities])
	formatter.Textf("  resolved tensions:   %d", s.Factors[score.FactorResolvedTensions])
	formatter.Textf("  unresolved tensions: %d", s.Factors[score.FactorUnresolvedTensions])
	return nil
}
