package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/harpproto/harp/internal/doc"
	"github.com/harpproto/harp/internal/identity"
	"github.com/harpproto/harp/internal/storage"
)

// CreateResult is the payload for a successful create.
type CreateResult struct {
	Dyad  identity.DyadID `json:"dyad"`
	Layer doc.Layer       `json:"layer"`
	Epoch int64           `json:"epoch"`
	CID   string          `json:"cid"`
}

// NewCreateCommand creates the create command.
func NewCreateCommand(rootOpts *RootOptions) *cobra.Command {
	var layer string
	var preamble string

	cmd := &cobra.Command{
		Use:   "create <entityA> <entityB>",
		Short: "Create a dyad and its epoch 1 document",
		Long: `Create a new dyad between two entities and store its first epoch.

Entities are given as "id[,type[,name]]", for example:

  harp create "airc:alice,human,Alice" "erc8004:8453:42,agent,Atlas"

The type defaults to agent for erc8004 ids and human otherwise.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(rootOpts, cmd, args[0], args[1], doc.Layer(layer), preamble)
		},
	}

	cmd.Flags().StringVar(&layer, "layer", "public", "privacy layer (public|shared|private)")
	cmd.Flags().StringVar(&preamble, "preamble", "", "free-text preamble for the document")

	return cmd
}

func runCreate(opts *RootOptions, cmd *cobra.Command, specA, specB string, layer doc.Layer, preamble string) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	entityA, err := parseEntitySpec(specA)
	if err != nil {
		formatter.Error("INVALID_IDENTIFIER", err.Error(), nil)
		return NewExitError(ExitCommandError, "invalid entity")
	}
	entityB, err := parseEntitySpec(specB)
	if err != nil {
		formatter.Error("INVALID_IDENTIFIER", err.Error(), nil)
		return NewExitError(ExitCommandError, "invalid entity")
	}

	st, cleanup, err := openState(opts)
	if err != nil {
		return err
	}
	defer cleanup()
	ctx := cmd.Context()

	d, err := doc.Create(entityA, entityB, layer, preamble, time.Now())
	if err != nil {
		formatter.Error(errorCode(err), err.Error(), nil)
		return NewExitError(ExitFailure, "create document")
	}

	cid, _, err := st.storeEpoch(ctx, d)
	if err != nil {
		return WrapExitError(ExitCommandError, "store document", err)
	}

	key := stateKey(d.Frontmatter.Dyad, layer)
	created, err := st.initPointer(ctx, key, cid)
	if err != nil {
		return WrapExitError(ExitCommandError, "initialize pointer", err)
	}
	if !created {
		formatter.Error("EPOCH_CONFLICT",
			fmt.Sprintf("dyad already exists: %s (layer: %s)", d.Frontmatter.Dyad, layer), nil)
		return NewExitError(ExitFailure, "dyad already exists")
	}
	if err := st.appendEpoch(ctx, key, epochRow(d, cid)); err != nil {
		return WrapExitError(ExitCommandError, "record epoch", err)
	}

	formatter.VerboseLog("stored epoch 1 of %s at %s", d.Frontmatter.Dyad, cid)

	if opts.Format == "json" {
		return formatter.JSON(CreateResult{
			Dyad:  d.Frontmatter.Dyad,
			Layer: layer,
			Epoch: 1,
			CID:   cid,
		})
	}
	formatter.Textf("Created dyad %s (layer: %s)", d.Frontmatter.Dyad, layer)
	formatter.Textf("Epoch 1 stored at %s", cid)
	return nil
}

// parseEntitySpec parses "id[,type[,name]]" into a descriptor. The entity
// id is validated by normalization; type defaults by namespace.
func parseEntitySpec(spec string) (doc.EntityDescriptor, error) {
	parts := strings.SplitN(spec, ",", 3)
	id, err := identity.Normalize(strings.TrimSpace(parts[0]))
	if err != nil {
		return doc.EntityDescriptor{}, err
	}

	desc := doc.EntityDescriptor{ID: id, Type: doc.EntityHuman}
	if strings.HasPrefix(id, identity.PrefixERC8004) {
		desc.Type = doc.EntityAgent
		fields := strings.Split(id, ":")
		var meta doc.ERC8004Metadata
		fmt.Sscanf(fields[1], "%d", &meta.ChainID)
		fmt.Sscanf(fields[2], "%d", &meta.AgentID)
		desc.ERC8004 = &meta
	}
	if len(parts) > 1 {
		desc.Type = doc.EntityType(strings.TrimSpace(parts[1]))
	}
	if len(parts) > 2 {
		desc.Name = strings.TrimSpace(parts[2])
	}
	return desc, nil
}

func epochRow(d *doc.Document, cid string) storage.EpochRow {
	return storage.EpochRow{
		Epoch:    d.Frontmatter.Epoch,
		CID:      cid,
		Updated:  d.Frontmatter.Updated,
		Checksum: d.Frontmatter.Checksum,
	}
}

// errorCode maps library errors onto the taxonomy code for CLI output.
func errorCode(err error) string {
	switch {
	case identity.IsInvalidIdentifier(err):
		return "INVALID_IDENTIFIER"
	case identity.IsDegenerateDyad(err):
		return "DEGENERATE_DYAD"
	case doc.IsMalformedFrontmatter(err):
		return "MALFORMED_FRONTMATTER"
	case storage.IsNotFound(err):
		return "NOT_FOUND"
	}
	return "INTERNAL"
}
