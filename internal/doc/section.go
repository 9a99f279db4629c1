package doc

import "github.com/harpproto/harp/internal/identity"

// TensionStatus is the lifecycle state of a Tension section.
type TensionStatus string

const (
	StatusResolved  TensionStatus = "resolved"
	StatusOngoing   TensionStatus = "ongoing"
	StatusEscalated TensionStatus = "escalated"
)

// Reference points at an external resource: a bounty, a thread, a
// transaction. Unknown keys are preserved in Extra so new reference
// vocabularies round-trip without a parser change.
type Reference struct {
	Type   string
	ID     string
	Tx     string
	Amount string

	// Extra holds unrecognized keys as opaque values.
	Extra Map
}

// Evidence backs a Trust section: either a back-reference to an Interaction
// section in the same document, or an external reference. Exactly one of the
// two fields is set.
type Evidence struct {
	InteractionRef string
	Ref            *Reference
}

// Payment records payment details attached to a section.
type Payment struct {
	Amount  string
	Tx      string
	Purpose string
}

// SectionMeta is the structured metadata carried in a section's comment
// block. The known fields are strongly typed; everything else lands in Extra
// as an opaque key-value bag and round-trips untouched.
type SectionMeta struct {
	// Timestamp is the ISO 8601 time the section was authored.
	Timestamp string

	// Author is the entity that authored the section.
	Author identity.EntityID

	// Tags categorize the section. Order is preserved.
	Tags []string

	// Status applies to Tension sections.
	Status TensionStatus

	// Resolution describes how a resolved Tension was settled.
	Resolution string

	// AcknowledgedBy is the entity that acknowledged a Decision.
	AcknowledgedBy identity.EntityID

	// DemonstratedIn lists interaction references for a Capability.
	DemonstratedIn []string

	// References link to external resources.
	References []Reference

	// Evidence backs Trust sections.
	Evidence []Evidence

	// Payment records payment details.
	Payment *Payment

	// Platform identifies the adapter that generated the section.
	Platform string

	// Extra holds unrecognized metadata keys as opaque values.
	Extra Map
}

// Section is a typed, titled block of document content representing one
// relational fact.
type Section struct {
	Type  SectionType
	Title string

	// Meta is the parsed metadata block; nil when the section has none.
	Meta *SectionMeta

	// Content is the section body, excluding heading and metadata block.
	Content string

	// Raw caches the exact serialization of {Type, Title, Meta, Content}.
	// Derived, never a second source of truth.
	Raw string
}
