package doc

import (
	"fmt"
	"strings"
)

// Delimiter is the frontmatter boundary line. It must appear verbatim twice
// in every serialized document.
const Delimiter = "---"

// Serialize produces the canonical text form of a document.
//
// The output is deterministic: frontmatter fields in fixed order, one block
// per entity, sections in document order each followed by a blank line,
// metadata fields emitted only when present, list values as indented blocks.
// The body checksum is recomputed here on every call; the checksum stored on
// the document is ignored.
//
// Serialize(Parse(Serialize(d))) == Serialize(d) for every valid document d.
func Serialize(d *Document) string {
	body := serializeBody(d)
	checksum := Checksum(body)

	fm := d.Frontmatter
	lines := []string{
		Delimiter,
		fmt.Sprintf("harp: %q", fm.Harp),
		fmt.Sprintf("dyad: %q", fm.Dyad),
		fmt.Sprintf("epoch: %d", fm.Epoch),
		fmt.Sprintf("created: %q", fm.Created),
		fmt.Sprintf("updated: %q", fm.Updated),
	}
	if fm.Previous != "" {
		lines = append(lines, fmt.Sprintf("previous: %q", fm.Previous))
	} else {
		lines = append(lines, "previous: null")
	}
	lines = append(lines,
		fmt.Sprintf("layer: %q", fm.Layer),
		"entities:",
	)
	for _, entity := range fm.Entities {
		lines = append(lines,
			fmt.Sprintf("  - id: %q", entity.ID),
			fmt.Sprintf("    type: %q", entity.Type),
		)
		if entity.Name != "" {
			lines = append(lines, fmt.Sprintf("    name: %q", entity.Name))
		}
		if entity.ERC8004 != nil {
			lines = append(lines,
				"    erc8004:",
				fmt.Sprintf("      chainId: %d", entity.ERC8004.ChainID),
				fmt.Sprintf("      agentId: %d", entity.ERC8004.AgentID),
			)
		}
	}
	lines = append(lines, fmt.Sprintf("checksum: %q", checksum))
	if len(fm.Signatures) > 0 {
		lines = append(lines, "signatures:")
		for _, sig := range fm.Signatures {
			lines = append(lines,
				fmt.Sprintf("  - entity: %q", sig.Entity),
				fmt.Sprintf("    sig: %q", sig.Sig),
				fmt.Sprintf("    scheme: %q", sig.Scheme),
			)
		}
	}
	lines = append(lines, Delimiter)

	return strings.Join(lines, "\n") + "\n\n" + body + "\n"
}

// serializeBody renders the preamble and sections, blank-line separated.
func serializeBody(d *Document) string {
	var parts []string
	if d.Preamble != "" {
		parts = append(parts, d.Preamble)
	}
	for i := range d.Sections {
		parts = append(parts, SerializeSection(d.Sections[i]))
	}
	return strings.TrimSpace(strings.Join(parts, "\n\n"))
}

// SerializeSection renders one section: heading line, optional metadata
// comment block, content. This is the exact form cached in Section.Raw.
func SerializeSection(s Section) string {
	lines := []string{fmt.Sprintf("## %s: %s", s.Type, s.Title)}
	if s.Meta != nil {
		lines = append(lines, "", serializeMeta(s.Meta))
	}
	if s.Content != "" {
		lines = append(lines, "", s.Content)
	}
	return strings.Join(lines, "\n")
}

// serializeMeta renders the metadata comment block. Known fields come first
// in a fixed order; unrecognized Extra keys follow in sorted order so the
// output stays deterministic.
func serializeMeta(meta *SectionMeta) string {
	lines := []string{"<!-- harp:meta"}

	if meta.Timestamp != "" {
		lines = append(lines, fmt.Sprintf("timestamp: %q", meta.Timestamp))
	}
	if meta.Author != "" {
		lines = append(lines, fmt.Sprintf("author: %q", meta.Author))
	}
	if len(meta.Tags) > 0 {
		lines = append(lines, "tags:")
		for _, tag := range meta.Tags {
			lines = append(lines, fmt.Sprintf("  - %q", tag))
		}
	}
	if meta.Status != "" {
		lines = append(lines, fmt.Sprintf("status: %q", meta.Status))
	}
	if meta.Resolution != "" {
		lines = append(lines, fmt.Sprintf("resolution: %q", meta.Resolution))
	}
	if meta.AcknowledgedBy != "" {
		lines = append(lines, fmt.Sprintf("acknowledged_by: %q", meta.AcknowledgedBy))
	}
	if len(meta.DemonstratedIn) > 0 {
		lines = append(lines, "demonstrated_in:")
		for _, ref := range meta.DemonstratedIn {
			lines = append(lines, fmt.Sprintf("  - %q", ref))
		}
	}
	if len(meta.References) > 0 {
		lines = append(lines, "references:")
		for i := range meta.References {
			lines = append(lines, serializeReference(&meta.References[i])...)
		}
	}
	if len(meta.Evidence) > 0 {
		lines = append(lines, "evidence:")
		for i := range meta.Evidence {
			ev := &meta.Evidence[i]
			if ev.InteractionRef != "" {
				lines = append(lines, fmt.Sprintf("  - interaction_ref: %q", ev.InteractionRef))
			} else if ev.Ref != nil {
				lines = append(lines, serializeReference(ev.Ref)...)
			}
		}
	}
	if meta.Payment != nil {
		lines = append(lines, "payment:")
		lines = append(lines, fmt.Sprintf("  amount: %q", meta.Payment.Amount))
		lines = append(lines, fmt.Sprintf("  tx: %q", meta.Payment.Tx))
		if meta.Payment.Purpose != "" {
			lines = append(lines, fmt.Sprintf("  purpose: %q", meta.Payment.Purpose))
		}
	}
	if meta.Platform != "" {
		lines = append(lines, fmt.Sprintf("platform: %q", meta.Platform))
	}
	for _, key := range meta.Extra.SortedKeys() {
		lines = append(lines, emitValue(key, meta.Extra[key], 0)...)
	}

	lines = append(lines, "-->")
	return strings.Join(lines, "\n")
}

// serializeReference renders one reference list item.
func serializeReference(ref *Reference) []string {
	lines := []string{fmt.Sprintf("  - type: %q", ref.Type)}
	if ref.ID != "" {
		lines = append(lines, fmt.Sprintf("    id: %q", ref.ID))
	}
	if ref.Tx != "" {
		lines = append(lines, fmt.Sprintf("    tx: %q", ref.Tx))
	}
	if ref.Amount != "" {
		lines = append(lines, fmt.Sprintf("    amount: %q", ref.Amount))
	}
	for _, key := range ref.Extra.SortedKeys() {
		if s, ok := scalarTokenOf(ref.Extra[key]); ok {
			lines = append(lines, fmt.Sprintf("    %s: %s", key, s))
		}
	}
	return lines
}

// emitValue renders one key and its value as dialect lines at the given
// indent depth. Lists may hold scalars or maps of scalars; maps hold
// scalars. Deeper nesting is outside the dialect and is dropped.
func emitValue(key string, v Value, depth int) []string {
	pad := strings.Repeat("  ", depth)
	switch val := v.(type) {
	case List:
		lines := []string{pad + key + ":"}
		for _, elem := range val {
			if tok, ok := scalarTokenOf(elem); ok {
				lines = append(lines, pad+"  - "+tok)
				continue
			}
			if m, ok := elem.(Map); ok {
				lines = append(lines, emitListMapItem(m, depth+1)...)
			}
		}
		return lines
	case Map:
		lines := []string{pad + key + ":"}
		for _, k := range val.SortedKeys() {
			if tok, ok := scalarTokenOf(val[k]); ok {
				lines = append(lines, pad+"  "+k+": "+tok)
			}
		}
		return lines
	default:
		if tok, ok := scalarTokenOf(v); ok {
			return []string{pad + key + ": " + tok}
		}
		return nil
	}
}

// emitListMapItem renders a map-valued list item.
func emitListMapItem(m Map, depth int) []string {
	pad := strings.Repeat("  ", depth)
	keys := m.SortedKeys()
	var lines []string
	for i, k := range keys {
		tok, ok := scalarTokenOf(m[k])
		if !ok {
			continue
		}
		if i == 0 {
			lines = append(lines, pad+"- "+k+": "+tok)
		} else {
			lines = append(lines, pad+"  "+k+": "+tok)
		}
	}
	return lines
}

// scalarTokenOf returns the emitted token for a scalar Value.
func scalarTokenOf(v Value) (string, bool) {
	switch v.(type) {
	case Null, Bool, Int, Float, String:
		return EmitScalar(v), true
	default:
		return "", false
	}
}
