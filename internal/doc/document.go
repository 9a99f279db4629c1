package doc

import (
	"fmt"
	"time"

	"github.com/harpproto/harp/internal/identity"
)

// FormatTime renders a timestamp the way document frontmatter and section
// metadata store them.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// Create builds the epoch 1 document for a dyad.
//
// Both descriptor ids are normalized and the descriptors are reordered to
// match the dyad id's sort order. The checksum depends on the serialized
// body while the serialized frontmatter carries the checksum, so this is the
// one place construction and checksum computation interleave: serialize the
// body, stamp the checksum, then serialize the whole document.
func Create(entityA, entityB EntityDescriptor, layer Layer, preamble string, now time.Time) (*Document, error) {
	if !ValidLayers[layer] {
		return nil, fmt.Errorf("invalid layer %q", layer)
	}

	dyadID, err := identity.ComputeDyadID(entityA.ID, entityB.ID)
	if err != nil {
		return nil, err
	}

	entityA.ID, err = identity.Normalize(entityA.ID)
	if err != nil {
		return nil, err
	}
	entityB.ID, err = identity.Normalize(entityB.ID)
	if err != nil {
		return nil, err
	}
	if entityB.ID < entityA.ID {
		entityA, entityB = entityB, entityA
	}

	ts := FormatTime(now)
	d := &Document{
		Frontmatter: Frontmatter{
			Harp:     Version,
			Dyad:     dyadID,
			Epoch:    1,
			Created:  ts,
			Updated:  ts,
			Previous: "",
			Layer:    layer,
			Entities: [2]EntityDescriptor{entityA, entityB},
		},
		Preamble: preamble,
	}

	d.Frontmatter.Checksum = Checksum(serializeBody(d))
	d.Raw = Serialize(d)
	return d, nil
}

// WithSection returns a copy of the document with the section appended.
// The raw cache is marked stale rather than eagerly reserialized; the cost
// is deferred to the next persistence point.
func (d *Document) WithSection(s Section) *Document {
	next := *d
	next.Sections = make([]Section, len(d.Sections)+1)
	copy(next.Sections, d.Sections)
	next.Sections[len(d.Sections)] = s
	next.Raw = ""
	return &next
}

// NextEpoch returns a copy of the document sealed as the next epoch:
// epoch+1, fresh updated timestamp, previous bound to the given content id,
// checksum and raw cleared for recomputation.
//
// Callers must have persisted the prior epoch already; an empty previous id
// is rejected.
func (d *Document) NextEpoch(previousID string, now time.Time) (*Document, error) {
	if previousID == "" {
		return nil, fmt.Errorf("next epoch requires the previous epoch's content id")
	}

	next := *d
	next.Sections = make([]Section, len(d.Sections))
	copy(next.Sections, d.Sections)
	next.Frontmatter.Epoch = d.Frontmatter.Epoch + 1
	next.Frontmatter.Updated = FormatTime(now)
	next.Frontmatter.Previous = previousID
	next.Frontmatter.Checksum = ""
	next.Raw = ""
	return &next, nil
}

// Ref returns the lightweight epoch pointer for this document once its
// content id is known.
func (d *Document) Ref(contentID string) EpochRef {
	return EpochRef{
		Epoch:     d.Frontmatter.Epoch,
		ContentID: contentID,
		Updated:   d.Frontmatter.Updated,
		Checksum:  d.Frontmatter.Checksum,
	}
}

// NewSection builds a section and fills its raw cache.
func NewSection(t SectionType, title, content string, meta *SectionMeta) Section {
	sec := Section{
		Type:    t,
		Title:   title,
		Meta:    meta,
		Content: content,
	}
	sec.Raw = SerializeSection(sec)
	return sec
}
