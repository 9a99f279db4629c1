package score

import (
	"strings"

	"github.com/harpproto/harp/internal/doc"
)

// ReadinessLevel is a coarse maturity band for a relationship.
type ReadinessLevel string

const (
	ReadinessNew         ReadinessLevel = "new"
	ReadinessEmerging    ReadinessLevel = "emerging"
	ReadinessEstablished ReadinessLevel = "established"
	ReadinessMature      ReadinessLevel = "mature"
)

// CollaborationReadiness summarizes how ready two entities are to work
// together, based on the recorded history in one document epoch.
type CollaborationReadiness struct {
	HasHistory         bool           `json:"hasHistory"`
	InteractionCount   int            `json:"interactionCount"`
	UnresolvedTensions int            `json:"unresolvedTensions"`
	HasCommPreferences bool           `json:"hasCommPreferences"`
	HasSharedDecisions bool           `json:"hasSharedDecisions"`
	PaymentHistory     bool           `json:"paymentHistory"`
	ReadinessLevel     ReadinessLevel `json:"readinessLevel"`

	// SourceEpoch is the epoch the assessment was derived from.
	SourceEpoch int64 `json:"sourceEpoch"`
}

// AssessCollaborationReadiness reduces a document to a readiness summary.
//
// The readiness level is a step function over interaction and decision
// counts: zero interactions is "new", fewer than three is "emerging",
// fewer than eight interactions or fewer than two decisions is
// "established", and everything beyond that is "mature". A tension counts
// as unresolved unless its status is explicitly "resolved".
func AssessCollaborationReadiness(d *doc.Document) CollaborationReadiness {
	var interactions, contexts, decisions, unresolved int
	payment := false

	for i := range d.Sections {
		sec := &d.Sections[i]
		switch sec.Type {
		case doc.SectionInteraction:
			interactions++
		case doc.SectionContext:
			contexts++
		case doc.SectionDecision:
			decisions++
		case doc.SectionTension:
			if !resolved(sec) {
				unresolved++
			}
		}
		if !payment && sectionMentionsPayment(sec) {
			payment = true
		}
	}

	var level ReadinessLevel
	switch {
	case interactions == 0:
		level = ReadinessNew
	case interactions < 3:
		level = ReadinessEmerging
	case interactions < 8 || decisions < 2:
		level = ReadinessEstablished
	default:
		level = ReadinessMature
	}

	return CollaborationReadiness{
		HasHistory:         interactions > 0,
		InteractionCount:   interactions,
		UnresolvedTensions: unresolved,
		HasCommPreferences: contexts > 0,
		HasSharedDecisions: decisions > 0,
		PaymentHistory:     payment,
		ReadinessLevel:     level,
		SourceEpoch:        d.Frontmatter.Epoch,
	}
}

// sectionMentionsPayment detects payment evidence in a section: structured
// payment metadata, a "payment" tag, or the word appearing in the content.
func sectionMentionsPayment(sec *doc.Section) bool {
	if sec.Meta != nil {
		if sec.Meta.Payment != nil {
			return true
		}
		for _, tag := range sec.Meta.Tags {
			if tag == "payment" {
				return true
			}
		}
	}
	return strings.Contains(strings.ToLower(sec.Content), "payment")
}
