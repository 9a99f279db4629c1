package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/harpproto/harp/internal/doc"
	"github.com/harpproto/harp/internal/identity"
)

// sectionFile is the YAML shape of a section given to `harp add`.
type sectionFile struct {
	Type    string `yaml:"type"`
	Title   string `yaml:"title"`
	Content string `yaml:"content"`
	Meta    *struct {
		Timestamp      string   `yaml:"timestamp"`
		Author         string   `yaml:"author"`
		Tags           []string `yaml:"tags"`
		Status         string   `yaml:"status"`
		Resolution     string   `yaml:"resolution"`
		AcknowledgedBy string   `yaml:"acknowledged_by"`
		DemonstratedIn []string `yaml:"demonstrated_in"`
		References     []struct {
			Type   string `yaml:"type"`
			ID     string `yaml:"id"`
			Tx     string `yaml:"tx"`
			Amount string `yaml:"amount"`
		} `yaml:"references"`
		Payment *struct {
			Amount  string `yaml:"amount"`
			Tx      string `yaml:"tx"`
			Purpose string `yaml:"purpose"`
		} `yaml:"payment"`
		Platform string `yaml:"platform"`
	} `yaml:"meta"`
}

// AddResult is the payload for a successful add.
type AddResult struct {
	Dyad     identity.DyadID `json:"dyad"`
	Layer    doc.Layer       `json:"layer"`
	Epoch    int64           `json:"epoch"`
	CID      string          `json:"cid"`
	Previous string          `json:"previous"`
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	var layer string

	cmd := &cobra.Command{
		Use:   "add <dyad-id> <section-file>",
		Short: "Add a section to a dyad, creating a new epoch",
		Long: `Append a section to the current epoch of a dyad. The section is read
from a YAML file:

  type: Interaction
  title: Kickoff call
  content: |
    We discussed the documentation project scope.
  meta:
    author: "airc:alice"
    tags: [kickoff, planning]

The document advances to a new epoch whose previous field links the
replaced epoch's content id.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(rootOpts, cmd, identity.DyadID(args[0]), doc.Layer(layer), args[1])
		},
	}

	cmd.Flags().StringVar(&layer, "layer", "public", "privacy layer (public|shared|private)")

	return cmd
}

func runAdd(opts *RootOptions, cmd *cobra.Command, dyadID identity.DyadID, layer doc.Layer, path string) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	sec, err := loadSectionFile(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "read section file", err)
	}

	st, cleanup, err := openState(opts)
	if err != nil {
		return err
	}
	defer cleanup()
	ctx := cmd.Context()

	current, previousCID, err := st.requireDyad(ctx, formatter, dyadID, layer)
	if err != nil {
		return err
	}

	next, err := current.WithSection(sec).NextEpoch(previousCID, time.Now())
	if err != nil {
		return WrapExitError(ExitCommandError, "advance epoch", err)
	}

	cid, _, err := st.storeEpoch(ctx, next)
	if err != nil {
		return WrapExitError(ExitCommandError, "store epoch", err)
	}

	key := stateKey(dyadID, layer)
	advanced, err := st.advancePointer(ctx, key, previousCID, cid)
	if err != nil {
		return WrapExitError(ExitCommandError, "advance pointer", err)
	}
	if !advanced {
		formatter.Error("EPOCH_CONFLICT",
			fmt.Sprintf("concurrent epoch advance on %s (layer: %s); retry against the new epoch", dyadID, layer), nil)
		return NewExitError(ExitFailure, "epoch conflict")
	}
	if err := st.appendEpoch(ctx, key, epochRow(next, cid)); err != nil {
		return WrapExitError(ExitCommandError, "record epoch", err)
	}

	formatter.VerboseLog("epoch %d -> %d (%s)", current.Frontmatter.Epoch, next.Frontmatter.Epoch, cid)

	if opts.Format == "json" {
		return formatter.JSON(AddResult{
			Dyad:     dyadID,
			Layer:    layer,
			Epoch:    next.Frontmatter.Epoch,
			CID:      cid,
			Previous: previousCID,
		})
	}
	formatter.Textf("Added %s section %q", sec.Type, sec.Title)
	formatter.Textf("Epoch %d stored at %s", next.Frontmatter.Epoch, cid)
	return nil
}

// loadSectionFile reads and converts a YAML section file.
func loadSectionFile(path string) (doc.Section, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return doc.Section{}, err
	}

	var sf sectionFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return doc.Section{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if sf.Type == "" || sf.Title == "" {
		return doc.Section{}, fmt.Errorf("section file needs both type and title")
	}
	if !doc.IsValidSectionType(doc.SectionType(sf.Type)) {
		return doc.Section{}, fmt.Errorf("invalid section type %q (custom types use the %q prefix)", sf.Type, doc.ExtensionPrefix)
	}

	var meta *doc.SectionMeta
	if sf.Meta != nil {
		meta = &doc.SectionMeta{
			Timestamp:      sf.Meta.Timestamp,
			Author:         sf.Meta.Author,
			Tags:           sf.Meta.Tags,
			Status:         doc.TensionStatus(sf.Meta.Status),
			Resolution:     sf.Meta.Resolution,
			AcknowledgedBy: sf.Meta.AcknowledgedBy,
			DemonstratedIn: sf.Meta.DemonstratedIn,
			Platform:       sf.Meta.Platform,
		}
		if meta.Timestamp == "" {
			meta.Timestamp = doc.FormatTime(time.Now())
		}
		for _, r := range sf.Meta.References {
			meta.References = append(meta.References, doc.Reference{
				Type: r.Type, ID: r.ID, Tx: r.Tx, Amount: r.Amount,
			})
		}
		if sf.Meta.Payment != nil {
			meta.Payment = &doc.Payment{
				Amount:  sf.Meta.Payment.Amount,
				Tx:      sf.Meta.Payment.Tx,
				Purpose: sf.Meta.Payment.Purpose,
			}
		}
	}

	return doc.NewSection(doc.SectionType(sf.Type), sf.Title, sf.Content, meta), nil
}
