package client

import (
	"context"

	"github.com/google/uuid"

	"github.com/harpproto/harp/internal/doc"
	"github.com/harpproto/harp/internal/identity"
)

// MessageType tags relationship messages exchanged between entities.
type MessageType string

const (
	MessagePropose MessageType = "harp_propose"
	MessageAccept  MessageType = "harp_accept"
	MessageDecline MessageType = "harp_decline"
	MessageUpdate  MessageType = "harp_update"
	MessageContext MessageType = "harp_context"
)

// Proposal invites another entity to open a dyad.
type Proposal struct {
	Type           MessageType       `json:"type"`
	MessageID      string            `json:"message_id"`
	From           identity.EntityID `json:"from"`
	To             identity.EntityID `json:"to"`
	Dyad           identity.DyadID   `json:"dyad"`
	InitialContext string            `json:"initial_context,omitempty"`
	Timestamp      string            `json:"timestamp"`
}

// ProposalResponse accepts or declines a proposal.
type ProposalResponse struct {
	Type      MessageType       `json:"type"`
	MessageID string            `json:"message_id"`
	From      identity.EntityID `json:"from"`
	To        identity.EntityID `json:"to"`
	Dyad      identity.DyadID   `json:"dyad"`
	Timestamp string            `json:"timestamp"`
	Reason    string            `json:"reason,omitempty"`
}

// UpdateNotification announces that a dyad advanced to a new epoch.
type UpdateNotification struct {
	Type      MessageType       `json:"type"`
	MessageID string            `json:"message_id"`
	From      identity.EntityID `json:"from"`
	To        identity.EntityID `json:"to"`
	Dyad      identity.DyadID   `json:"dyad"`
	Layer     doc.Layer         `json:"layer"`
	Epoch     int64             `json:"epoch"`
	CID       string            `json:"cid"`
	Timestamp string            `json:"timestamp"`
}

// ContextAttachment hands a dyad's current epoch to another party, with an
// optional digest of the sections worth reading first.
type ContextAttachment struct {
	Type             MessageType     `json:"type"`
	MessageID        string          `json:"message_id"`
	Dyad             identity.DyadID `json:"dyad"`
	Layer            doc.Layer       `json:"layer"`
	CID              string          `json:"cid"`
	RelevantSections []string        `json:"relevant_sections,omitempty"`
}

// Propose builds a dyad proposal from this client's identity to another
// entity. Both identifiers are normalized; a degenerate pair is rejected.
func (c *Client) Propose(to identity.EntityID, initialContext string) (*Proposal, error) {
	from, err := identity.Normalize(c.identity)
	if err != nil {
		return nil, err
	}
	to, err = identity.Normalize(to)
	if err != nil {
		return nil, err
	}
	dyad, err := identity.ComputeDyadID(from, to)
	if err != nil {
		return nil, err
	}
	return &Proposal{
		Type:           MessagePropose,
		MessageID:      uuid.NewString(),
		From:           from,
		To:             to,
		Dyad:           dyad,
		InitialContext: initialContext,
		Timestamp:      doc.FormatTime(c.now()),
	}, nil
}

// RespondToProposal builds an acceptance or decline for a received
// proposal. A reason is only meaningful on declines.
func (c *Client) RespondToProposal(p *Proposal, accept bool, reason string) (*ProposalResponse, error) {
	from, err := identity.Normalize(c.identity)
	if err != nil {
		return nil, err
	}
	t := MessageAccept
	if !accept {
		t = MessageDecline
	} else {
		reason = ""
	}
	return &ProposalResponse{
		Type:      t,
		MessageID: uuid.NewString(),
		From:      from,
		To:        p.From,
		Dyad:      p.Dyad,
		Timestamp: doc.FormatTime(c.now()),
		Reason:    reason,
	}, nil
}

// NotifyUpdate builds an epoch update notification for the dyad's current
// pointer. Returns DYAD_NOT_FOUND when the dyad is unknown.
func (c *Client) NotifyUpdate(ctx context.Context, to identity.EntityID, dyadID identity.DyadID, layer doc.Layer) (*UpdateNotification, error) {
	from, err := identity.Normalize(c.identity)
	if err != nil {
		return nil, err
	}
	to, err = identity.Normalize(to)
	if err != nil {
		return nil, err
	}

	d, err := c.GetDyad(ctx, dyadID, layer)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, &Error{Code: ErrCodeDyadNotFound, Dyad: dyadID, Layer: layer}
	}

	return &UpdateNotification{
		Type:      MessageUpdate,
		MessageID: uuid.NewString(),
		From:      from,
		To:        to,
		Dyad:      dyadID,
		Layer:     layer,
		Epoch:     d.Frontmatter.Epoch,
		CID:       c.CurrentCID(dyadID, layer),
		Timestamp: doc.FormatTime(c.now()),
	}, nil
}

// HandoffContext builds a context attachment for the dyad's current epoch.
// When section types are given, the attachment lists matching sections as
// "Type: Title" digests. Returns nil for an unknown dyad.
func (c *Client) HandoffContext(ctx context.Context, dyadID identity.DyadID, layer doc.Layer, types ...doc.SectionType) (*ContextAttachment, error) {
	cid := c.CurrentCID(dyadID, layer)
	if cid == "" {
		return nil, nil
	}

	var relevant []string
	if len(types) > 0 {
		d, err := c.load(ctx, cid)
		if err != nil {
			return nil, err
		}
		wanted := make(map[doc.SectionType]bool, len(types))
		for _, t := range types {
			wanted[t] = true
		}
		for _, sec := range d.Sections {
			if wanted[sec.Type] {
				relevant = append(relevant, string(sec.Type)+": "+sec.Title)
			}
		}
	}

	return &ContextAttachment{
		Type:             MessageContext,
		MessageID:        uuid.NewString(),
		Dyad:             dyadID,
		Layer:            layer,
		CID:              cid,
		RelevantSections: relevant,
	}, nil
}
