package doc

import (
	"strings"

	"github.com/harpproto/harp/internal/identity"
)

// Version is the protocol version written into new documents.
const Version = "0.1.0"

// Layer is a privacy scope. Each layer has its own independent epoch chain
// for the same dyad.
type Layer string

const (
	// LayerPublic is visible to anyone who queries the dyad.
	LayerPublic Layer = "public"

	// LayerShared is visible only to the two entities in the dyad.
	LayerShared Layer = "shared"

	// LayerPrivate is visible only to the author entity.
	LayerPrivate Layer = "private"
)

// ValidLayers defines the allowed privacy layers.
var ValidLayers = map[Layer]bool{
	LayerPublic:  true,
	LayerShared:  true,
	LayerPrivate: true,
}

// SectionType names a section's kind. The closed core set is below; custom
// types use the "x-" prefix (for example "x-MoltX-Bounty").
type SectionType string

const (
	SectionInteraction SectionType = "Interaction"
	SectionTrust       SectionType = "Trust"
	SectionContext     SectionType = "Context"
	SectionDecision    SectionType = "Decision"
	SectionCapability  SectionType = "Capability"
	SectionTension     SectionType = "Tension"
	SectionNote        SectionType = "Note"

	// ExtensionPrefix marks custom section types outside the core set.
	ExtensionPrefix = "x-"
)

// CoreSectionTypes is the closed set of spec-defined section types.
var CoreSectionTypes = map[SectionType]bool{
	SectionInteraction: true,
	SectionTrust:       true,
	SectionContext:     true,
	SectionDecision:    true,
	SectionCapability:  true,
	SectionTension:     true,
	SectionNote:        true,
}

// IsValidSectionType reports whether t is a core type or an extension type.
func IsValidSectionType(t SectionType) bool {
	return CoreSectionTypes[t] || strings.HasPrefix(string(t), ExtensionPrefix)
}

// EntityType classifies an entity as a human or an agent.
type EntityType string

const (
	EntityHuman EntityType = "human"
	EntityAgent EntityType = "agent"
)

// ERC8004Metadata carries onchain metadata for an agent entity.
type ERC8004Metadata struct {
	ChainID int64
	AgentID int64
}

// EntityDescriptor describes one entity as embedded in frontmatter.
// Immutable once embedded in a stored epoch.
type EntityDescriptor struct {
	// ID is the normalized entity identifier.
	ID identity.EntityID

	// Type is "human" or "agent".
	Type EntityType

	// Name is an optional display name.
	Name string

	// ERC8004 is set when the entity is an onchain agent.
	ERC8004 *ERC8004Metadata
}

// Signature attests to a document's contents. This core records signatures
// as opaque fields; it does not produce or verify them.
type Signature struct {
	Entity identity.EntityID
	Sig    string
	Scheme string
}

// Frontmatter is the structured header of a document.
type Frontmatter struct {
	// Harp is the protocol version (semver string).
	Harp string

	// Dyad is the canonical dyad identifier.
	Dyad identity.DyadID

	// Epoch is the monotonically increasing version, starting at 1.
	Epoch int64

	// Created is the ISO 8601 timestamp of dyad creation.
	Created string

	// Updated is the ISO 8601 timestamp of this epoch.
	Updated string

	// Previous is the content id of the prior epoch, empty for epoch 1.
	Previous string

	// Layer is the privacy scope of this chain.
	Layer Layer

	// Entities are exactly two descriptors in normalized-sort order.
	Entities [2]EntityDescriptor

	// Checksum is "sha256:<hex>" over the serialized body.
	Checksum string

	// Signatures are optional attestations.
	Signatures []Signature
}

// Document is one immutable epoch of a dyad's relational record.
type Document struct {
	Frontmatter Frontmatter

	// Preamble is the free text between the frontmatter and the first section.
	Preamble string

	// Sections are the typed blocks in document order.
	Sections []Section

	// Raw is the cached canonical text. Empty means stale: recompute with
	// Serialize before persisting or reading it as text.
	Raw string
}

// EpochRef is a lightweight pointer to one epoch, used for chain bookkeeping.
// Never embedded in the document body itself.
type EpochRef struct {
	Epoch     int64
	ContentID string
	Updated   string
	Checksum  string
}
