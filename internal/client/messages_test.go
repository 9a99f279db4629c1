package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harpproto/harp/internal/doc"
	"github.com/harpproto/harp/internal/identity"
)

func TestProposeNormalizesBothParties(t *testing.T) {
	c := New(Config{Identity: "airc:Alice ", Now: tickingClock()})

	p, err := c.Propose("airc:Bob", "Docs collaboration")
	require.NoError(t, err)

	assert.Equal(t, MessagePropose, p.Type)
	assert.Equal(t, identity.EntityID("airc:alice"), p.From)
	assert.Equal(t, identity.EntityID("airc:bob"), p.To)
	assert.Equal(t, identity.DyadID("harp:airc:alice:airc:bob"), p.Dyad)
	assert.Equal(t, "Docs collaboration", p.InitialContext)
	assert.NotEmpty(t, p.MessageID)
	assert.NotEmpty(t, p.Timestamp)
}

func TestProposeRejectsSelfDyad(t *testing.T) {
	c := New(Config{Identity: "airc:alice"})

	_, err := c.Propose("airc:Alice", "")
	require.Error(t, err)
	assert.True(t, identity.IsDegenerateDyad(err))
}

func TestRespondToProposal(t *testing.T) {
	proposer := New(Config{Identity: "airc:alice", Now: tickingClock()})
	responder := New(Config{Identity: "airc:bob", Now: tickingClock()})

	p, err := proposer.Propose("airc:bob", "")
	require.NoError(t, err)

	accept, err := responder.RespondToProposal(p, true, "ignored on accept")
	require.NoError(t, err)
	assert.Equal(t, MessageAccept, accept.Type)
	assert.Equal(t, identity.EntityID("airc:bob"), accept.From)
	assert.Equal(t, p.From, accept.To)
	assert.Equal(t, p.Dyad, accept.Dyad)
	assert.Empty(t, accept.Reason)

	decline, err := responder.RespondToProposal(p, false, "No capacity this month")
	require.NoError(t, err)
	assert.Equal(t, MessageDecline, decline.Type)
	assert.Equal(t, "No capacity this month", decline.Reason)
	assert.NotEqual(t, accept.MessageID, decline.MessageID)
}

func TestNotifyUpdateCarriesCurrentEpoch(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	d, _, err := c.CreateDyad(ctx, alice, atlas, doc.LayerPublic, "")
	require.NoError(t, err)
	dyad := d.Frontmatter.Dyad

	_, cid2, err := c.AddSection(ctx, dyad, doc.LayerPublic,
		doc.NewSection(doc.SectionInteraction, "Kickoff", "Met.", nil))
	require.NoError(t, err)

	n, err := c.NotifyUpdate(ctx, "erc8004:8453:42", dyad, doc.LayerPublic)
	require.NoError(t, err)
	assert.Equal(t, MessageUpdate, n.Type)
	assert.Equal(t, int64(2), n.Epoch)
	assert.Equal(t, cid2, n.CID)
	assert.Equal(t, doc.LayerPublic, n.Layer)

	_, err = c.NotifyUpdate(ctx, "airc:bob", "harp:airc:alice:airc:bob", doc.LayerPublic)
	require.Error(t, err)
	assert.True(t, IsDyadNotFound(err))
}

func TestHandoffContext(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	d, _, err := c.CreateDyad(ctx, alice, atlas, doc.LayerPublic, "")
	require.NoError(t, err)
	dyad := d.Frontmatter.Dyad

	_, _, err = c.AddSection(ctx, dyad, doc.LayerPublic,
		doc.NewSection(doc.SectionInteraction, "Kickoff", "Met.", nil))
	require.NoError(t, err)
	_, cid, err := c.AddSection(ctx, dyad, doc.LayerPublic,
		doc.NewSection(doc.SectionDecision, "Weekly sync", "Thursdays.", nil))
	require.NoError(t, err)

	att, err := c.HandoffContext(ctx, dyad, doc.LayerPublic, doc.SectionDecision)
	require.NoError(t, err)
	require.NotNil(t, att)
	assert.Equal(t, MessageContext, att.Type)
	assert.Equal(t, cid, att.CID)
	assert.Equal(t, []string{"Decision: Weekly sync"}, att.RelevantSections)

	// Without type filters the digest is omitted.
	bare, err := c.HandoffContext(ctx, dyad, doc.LayerPublic)
	require.NoError(t, err)
	require.NotNil(t, bare)
	assert.Empty(t, bare.RelevantSections)

	// Unknown dyads yield nil, mirroring GetDyad.
	missing, err := c.HandoffContext(ctx, "harp:airc:alice:airc:bob", doc.LayerPublic)
	require.NoError(t, err)
	assert.Nil(t, missing)
}
