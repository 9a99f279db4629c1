package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/harpproto/harp/internal/doc"
	"github.com/harpproto/harp/internal/identity"
)

// QuerySection is one matched section in query output.
type QuerySection struct {
	Type      doc.SectionType   `json:"type"`
	Title     string            `json:"title"`
	Timestamp string            `json:"timestamp,omitempty"`
	Author    identity.EntityID `json:"author,omitempty"`
	Tags      []string          `json:"tags,omitempty"`
	Content   string            `json:"content"`
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	var layer string
	var types []string
	var author string
	var tags []string
	var after, before string
	var limit int

	cmd := &cobra.Command{
		Use:           "query <dyad-id>",
		Short:         "Filter sections of a dyad's current epoch",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := doc.Filter{Author: author, Tags: tags, Limit: limit}
			for _, t := range types {
				f.Types = append(f.Types, doc.SectionType(t))
			}
			var err error
			if f.After, err = parseTimeFlag(after); err != nil {
				return WrapExitError(ExitCommandError, "parse --after", err)
			}
			if f.Before, err = parseTimeFlag(before); err != nil {
				return WrapExitError(ExitCommandError, "parse --before", err)
			}
			return runQuery(rootOpts, cmd, identity.DyadID(args[0]), doc.Layer(layer), f)
		},
	}

	cmd.Flags().StringVar(&layer, "layer", "public", "privacy layer (public|shared|private)")
	cmd.Flags().StringSliceVar(&types, "type", nil, "section types to keep (repeatable)")
	cmd.Flags().StringVar(&author, "author", "", "keep sections by this author")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "keep sections sharing any of these tags (repeatable)")
	cmd.Flags().StringVar(&after, "after", "", "keep sections strictly after this RFC 3339 time")
	cmd.Flags().StringVar(&before, "before", "", "keep sections strictly before this RFC 3339 time")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum sections to return (0 = all)")

	return cmd
}

func parseTimeFlag(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, s)
}

func runQuery(opts *RootOptions, cmd *cobra.Command, dyadID identity.DyadID, layer doc.Layer, f doc.Filter) error {
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

	matched := doc.FilterSections(d, f)

	if opts.Format == "json" {
		out := make([]QuerySection, 0, len(matched))
		for _, sec := range matched {
			qs := QuerySection{Type: sec.Type, Title: sec.Title, Content: sec.Content}
			if sec.Meta != nil {
				qs.Timestamp = sec.Meta.Timestamp
				qs.Author = sec.Meta.Author
				qs.Tags = sec.Meta.Tags
			}
			out = append(out, qs)
		}
		return formatter.JSON(out)
	}

	if len(matched) == 0 {
		formatter.Textf("No sections matched.")
		return nil
	}
	for i, sec := range matched {
		if i > 0 {
			fmt.Fprintln(formatter.Writer)
		}
		formatter.Writer.Write([]byte(doc.SerializeSection(sec)))
	}
	return nil
}
