package client

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harpproto/harp/internal/doc"
	"github.com/harpproto/harp/internal/identity"
	"github.com/harpproto/harp/internal/score"
	"github.com/harpproto/harp/internal/storage"
	"github.com/harpproto/harp/internal/testutil"
)

var (
	alice = doc.EntityDescriptor{ID: "airc:alice", Type: doc.EntityHuman, Name: "Alice"}
	atlas = doc.EntityDescriptor{
		ID:      "erc8004:8453:42",
		Type:    doc.EntityAgent,
		Name:    "Atlas",
		ERC8004: &doc.ERC8004Metadata{ChainID: 8453, AgentID: 42},
	}
)

// tickingClock advances one second per call, so each epoch gets a
// distinct Updated timestamp.
func tickingClock() func() time.Time {
	return testutil.NewClock(time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)).Now
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	return New(Config{Identity: "airc:alice", Now: tickingClock()})
}

func TestCreateDyadStoresEpochOne(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	d, cid, err := c.CreateDyad(ctx, alice, atlas, doc.LayerPublic, "Working together.")
	require.NoError(t, err)

	assert.Equal(t, int64(1), d.Frontmatter.Epoch)
	assert.Equal(t, identity.DyadID("harp:airc:alice:erc8004:8453:42"), d.Frontmatter.Dyad)
	assert.Equal(t, storage.ContentID(d.Raw), cid)
	assert.Equal(t, cid, c.CurrentCID(d.Frontmatter.Dyad, doc.LayerPublic))

	stored, err := c.Storage().Retrieve(ctx, cid)
	require.NoError(t, err)
	assert.Equal(t, d.Raw, stored)
}

func TestGetDyadUnknownReturnsNil(t *testing.T) {
	c := newTestClient(t)

	d, err := c.GetDyad(context.Background(), "harp:airc:alice:airc:bob", doc.LayerPublic)
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestGetDyadRoundTripsSerializedForm(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	created, _, err := c.CreateDyad(ctx, alice, atlas, doc.LayerPublic, "Hello.")
	require.NoError(t, err)

	got, err := c.GetDyad(ctx, created.Frontmatter.Dyad, doc.LayerPublic)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.Frontmatter, got.Frontmatter)
	assert.Equal(t, created.Preamble, got.Preamble)
	assert.Equal(t, created.Raw, doc.Serialize(got))
}

func TestAddSectionAdvancesEpochChain(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	d1, cid1, err := c.CreateDyad(ctx, alice, atlas, doc.LayerPublic, "")
	require.NoError(t, err)
	dyad := d1.Frontmatter.Dyad

	d2, cid2, err := c.AddSection(ctx, dyad, doc.LayerPublic,
		doc.NewSection(doc.SectionInteraction, "Kickoff", "We met.", nil))
	require.NoError(t, err)

	assert.Equal(t, int64(2), d2.Frontmatter.Epoch)
	assert.Equal(t, cid1, d2.Frontmatter.Previous)
	assert.Equal(t, d1.Frontmatter.Created, d2.Frontmatter.Created)
	assert.NotEqual(t, d1.Frontmatter.Updated, d2.Frontmatter.Updated)
	assert.NotEqual(t, cid1, cid2)
	assert.Equal(t, cid2, c.CurrentCID(dyad, doc.LayerPublic))

	// Trust score over the advanced epoch: one interaction, full marks.
	s, err := c.TrustScore(ctx, dyad, doc.LayerPublic)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, 1.0, s.Score)
	assert.Equal(t, int64(2), s.SourceEpoch)
}

func TestAddSectionUnknownDyad(t *testing.T) {
	c := newTestClient(t)

	_, _, err := c.AddSection(context.Background(), "harp:airc:alice:airc:bob", doc.LayerPublic,
		doc.NewSection(doc.SectionNote, "Lost", "x", nil))
	require.Error(t, err)
	assert.True(t, IsDyadNotFound(err))
}

func TestLayersKeepIndependentChains(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	d, _, err := c.CreateDyad(ctx, alice, atlas, doc.LayerPublic, "")
	require.NoError(t, err)
	_, _, err = c.CreateDyad(ctx, alice, atlas, doc.LayerShared, "")
	require.NoError(t, err)
	dyad := d.Frontmatter.Dyad

	_, _, err = c.AddSection(ctx, dyad, doc.LayerShared,
		doc.NewSection(doc.SectionNote, "Private aside", "x", nil))
	require.NoError(t, err)

	pub, err := c.GetDyad(ctx, dyad, doc.LayerPublic)
	require.NoError(t, err)
	shared, err := c.GetDyad(ctx, dyad, doc.LayerShared)
	require.NoError(t, err)

	assert.Equal(t, int64(1), pub.Frontmatter.Epoch)
	assert.Equal(t, int64(2), shared.Frontmatter.Epoch)
	assert.Empty(t, pub.Sections)
}

// hookStorage wraps a backend and runs a callback after each Store,
// giving tests a window between AddSection's store and its pointer swap.
type hookStorage struct {
	storage.Storage
	afterStore func()
}

func (h *hookStorage) Store(ctx context.Context, content string) (string, error) {
	id, err := h.Storage.Store(ctx, content)
	if h.afterStore != nil {
		h.afterStore()
	}
	return id, err
}

func TestAddSectionEpochConflict(t *testing.T) {
	ctx := context.Background()
	hook := &hookStorage{Storage: storage.NewMemory()}
	c := New(Config{Identity: "airc:alice", Storage: hook, Now: tickingClock()})

	d, _, err := c.CreateDyad(ctx, alice, atlas, doc.LayerPublic, "")
	require.NoError(t, err)
	dyad := d.Frontmatter.Dyad
	key := pointerKey(dyad, doc.LayerPublic)

	_, cid2, err := c.AddSection(ctx, dyad, doc.LayerPublic,
		doc.NewSection(doc.SectionNote, "First", "x", nil))
	require.NoError(t, err)

	// A competing writer advances the pointer while the next AddSection is
	// between its store and its compare-and-set.
	hook.afterStore = func() {
		hook.afterStore = nil
		c.mu.Lock()
		c.pointers[key] = "bafymemcompetingwriter"
		c.mu.Unlock()
	}

	_, _, err = c.AddSection(ctx, dyad, doc.LayerPublic,
		doc.NewSection(doc.SectionNote, "Second", "y", nil))
	require.Error(t, err)
	assert.True(t, IsEpochConflict(err))

	// The losing write must not have advanced the pointer or the history.
	assert.Equal(t, "bafymemcompetingwriter", c.CurrentCID(dyad, doc.LayerPublic))
	refs := c.EpochHistory(dyad, doc.LayerPublic)
	require.Len(t, refs, 2)
	assert.Equal(t, cid2, refs[1].ContentID)
}

func TestEpochHistoryAccumulates(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	d, cid1, err := c.CreateDyad(ctx, alice, atlas, doc.LayerPublic, "")
	require.NoError(t, err)
	dyad := d.Frontmatter.Dyad

	_, cid2, err := c.AddSection(ctx, dyad, doc.LayerPublic,
		doc.NewSection(doc.SectionInteraction, "Kickoff", "Met.", nil))
	require.NoError(t, err)
	_, cid3, err := c.AddSection(ctx, dyad, doc.LayerPublic,
		doc.NewSection(doc.SectionTrust, "Reliable", "Delivered.", nil))
	require.NoError(t, err)

	refs := c.EpochHistory(dyad, doc.LayerPublic)
	require.Len(t, refs, 3)
	assert.Equal(t, []string{cid1, cid2, cid3},
		[]string{refs[0].ContentID, refs[1].ContentID, refs[2].ContentID})
	assert.Equal(t, int64(1), refs[0].Epoch)
	assert.Equal(t, int64(3), refs[2].Epoch)

	// History for a layer never written is empty.
	assert.Empty(t, c.EpochHistory(dyad, doc.LayerPrivate))
}

func TestQuerySections(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	d, _, err := c.CreateDyad(ctx, alice, atlas, doc.LayerPublic, "")
	require.NoError(t, err)
	dyad := d.Frontmatter.Dyad

	_, _, err = c.AddSection(ctx, dyad, doc.LayerPublic,
		doc.NewSection(doc.SectionInteraction, "Kickoff", "Met.", nil))
	require.NoError(t, err)
	_, _, err = c.AddSection(ctx, dyad, doc.LayerPublic,
		doc.NewSection(doc.SectionNote, "Aside", "FYI.", nil))
	require.NoError(t, err)

	secs, err := c.QuerySections(ctx, dyad, doc.LayerPublic, doc.Filter{
		Types: []doc.SectionType{doc.SectionInteraction},
	})
	require.NoError(t, err)
	require.Len(t, secs, 1)
	assert.Equal(t, "Kickoff", secs[0].Title)

	// Unknown dyad queries come back empty.
	none, err := c.QuerySections(ctx, "harp:airc:alice:airc:bob", doc.LayerPublic, doc.Filter{})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestReadinessOverCurrentEpoch(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	d, _, err := c.CreateDyad(ctx, alice, atlas, doc.LayerPublic, "")
	require.NoError(t, err)
	dyad := d.Frontmatter.Dyad

	r, err := c.CollaborationReadiness(ctx, dyad, doc.LayerPublic)
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, score.ReadinessNew, r.ReadinessLevel)

	_, _, err = c.AddSection(ctx, dyad, doc.LayerPublic,
		doc.NewSection(doc.SectionInteraction, "Kickoff", "Met.", nil))
	require.NoError(t, err)

	r, err = c.CollaborationReadiness(ctx, dyad, doc.LayerPublic)
	require.NoError(t, err)
	assert.Equal(t, score.ReadinessEmerging, r.ReadinessLevel)

	missing, err := c.CollaborationReadiness(ctx, "harp:airc:alice:airc:bob", doc.LayerPublic)
	require.NoError(t, err)
	assert.Nil(t, missing)
}
