package adapter

import (
	"fmt"

	"github.com/harpproto/harp/internal/doc"
)

// MoltX bounty lifecycle event types.
const (
	MoltXBountyAccepted        = "bounty_accepted"
	MoltXBountyMilestone       = "bounty_milestone"
	MoltXBountyCompleted       = "bounty_completed"
	MoltXBountyPayment         = "bounty_payment"
	MoltXBountyDisputeFiled    = "bounty_dispute_filed"
	MoltXBountyDisputeResolved = "bounty_dispute_resolved"
	MoltXBountyEndorsement     = "bounty_endorsement"
)

var moltxEventTypes = map[string]bool{
	MoltXBountyAccepted:        true,
	MoltXBountyMilestone:       true,
	MoltXBountyCompleted:       true,
	MoltXBountyPayment:         true,
	MoltXBountyDisputeFiled:    true,
	MoltXBountyDisputeResolved: true,
	MoltXBountyEndorsement:     true,
}

// MoltX translates bounty board events across the bounty lifecycle:
// acceptance, milestones, completion, payment, disputes, endorsements.
type MoltX struct{}

var _ Adapter = MoltX{}

func (MoltX) Platform() string { return "moltx" }

func (MoltX) Description() string {
	return "MoltX bounty board: translates bounty lifecycle events into relational sections"
}

func (MoltX) Produces() []doc.SectionType {
	return []doc.SectionType{doc.SectionInteraction, doc.SectionTrust, doc.SectionTension}
}

func (MoltX) CanHandle(eventType string) bool {
	return moltxEventTypes[eventType]
}

func (m MoltX) Translate(e Event) []doc.Section {
	bountyID, _ := payloadInt(e.Payload, "bountyId")
	title := payloadString(e.Payload, "title")
	bountyRef := doc.Reference{Type: "bounty", ID: fmt.Sprintf("moltx:bounty:%d", bountyID)}

	switch e.EventType {
	case MoltXBountyAccepted:
		desc := payloadString(e.Payload, "description")
		if desc != "" {
			desc += " "
		}
		content := fmt.Sprintf("Joint bounty accepted on MoltX. %s\n\nBounty value: %s %s.",
			desc, m.amountOr(e, "TBD"), m.currency(e))
		return []doc.Section{doc.NewSection(doc.SectionInteraction,
			fmt.Sprintf("Bounty #%d accepted: %s", bountyID, title),
			content, m.meta(e, []string{"bounty", "moltx", "accepted"}, bountyRef))}

	case MoltXBountyMilestone:
		milestone := payloadString(e.Payload, "milestone")
		heading := milestone
		if heading == "" {
			heading = fmt.Sprintf("Bounty #%d", bountyID)
		}
		content := fmt.Sprintf("Milestone %q completed for bounty #%d (%s).", milestone, bountyID, title)
		return []doc.Section{doc.NewSection(doc.SectionInteraction,
			"Milestone completed: "+heading,
			content, m.meta(e, []string{"bounty", "moltx", "milestone"}, bountyRef))}

	case MoltXBountyCompleted:
		content := fmt.Sprintf("Bounty #%d (%s) completed successfully. Both entities fulfilled their roles.", bountyID, title)
		return []doc.Section{doc.NewSection(doc.SectionInteraction,
			fmt.Sprintf("Bounty #%d completed: %s", bountyID, title),
			content, m.meta(e, []string{"bounty", "moltx", "completed"}, bountyRef))}

	case MoltXBountyPayment:
		amount := payloadString(e.Payload, "amount")
		content := fmt.Sprintf("Payment of %s %s disbursed for bounty #%d (%s).",
			amount, m.currency(e), bountyID, title)
		meta := &doc.SectionMeta{
			Timestamp:  e.Timestamp,
			Author:     "system",
			Tags:       []string{"payment", "moltx"},
			References: []doc.Reference{bountyRef},
			Platform:   "moltx",
		}
		if tx := payloadString(e.Payload, "tx"); tx != "" {
			meta.Payment = &doc.Payment{
				Amount:  fmt.Sprintf("%s %s", amount, m.currency(e)),
				Tx:      tx,
				Purpose: fmt.Sprintf("Bounty #%d: %s", bountyID, title),
			}
		}
		return []doc.Section{doc.NewSection(doc.SectionInteraction,
			fmt.Sprintf("Payment for bounty #%d", bountyID), content, meta)}

	case MoltXBountyDisputeFiled:
		reason := payloadString(e.Payload, "disputeReason")
		if reason == "" {
			reason = "Not specified."
		}
		content := fmt.Sprintf("A dispute was filed on bounty #%d (%s).\n\nReason: %s", bountyID, title, reason)
		meta := m.meta(e, []string{"dispute", "moltx", "bounty"}, bountyRef)
		meta.Status = doc.StatusOngoing
		return []doc.Section{doc.NewSection(doc.SectionTension,
			fmt.Sprintf("Dispute on bounty #%d: %s", bountyID, title), content, meta)}

	case MoltXBountyDisputeResolved:
		resolution := payloadString(e.Payload, "resolution")
		if resolution == "" {
			resolution = "Resolved by mutual agreement"
		}
		content := fmt.Sprintf("The dispute on bounty #%d (%s) has been resolved.\n\nResolution: %s", bountyID, title, resolution)
		meta := m.meta(e, []string{"dispute", "moltx", "bounty", "resolved"}, bountyRef)
		meta.Status = doc.StatusResolved
		meta.Resolution = resolution
		return []doc.Section{doc.NewSection(doc.SectionTension,
			fmt.Sprintf("Dispute resolved: bounty #%d", bountyID), content, meta)}

	case MoltXBountyEndorsement:
		content := payloadString(e.Payload, "endorsement")
		if content == "" {
			content = fmt.Sprintf("Voluntary endorsement after completing bounty #%d (%s).", bountyID, title)
		}
		meta := &doc.SectionMeta{
			Timestamp: e.Timestamp,
			Author:    e.Actor(),
			Tags:      []string{"endorsement", "moltx", "trust"},
			Evidence:  []doc.Evidence{{Ref: &bountyRef}},
			Platform:  "moltx",
		}
		return []doc.Section{doc.NewSection(doc.SectionTrust,
			"Post-bounty endorsement: "+title, content, meta)}
	}
	return nil
}

func (MoltX) meta(e Event, tags []string, ref doc.Reference) *doc.SectionMeta {
	return &doc.SectionMeta{
		Timestamp:  e.Timestamp,
		Author:     e.Actor(),
		Tags:       tags,
		References: []doc.Reference{ref},
		Platform:   "moltx",
	}
}

func (MoltX) currency(e Event) string {
	if c := payloadString(e.Payload, "currency"); c != "" {
		return c
	}
	return "ETH"
}

func (MoltX) amountOr(e Event, fallback string) string {
	if a := payloadString(e.Payload, "amount"); a != "" {
		return a
	}
	return fallback
}
