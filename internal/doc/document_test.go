package doc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEpochOne(t *testing.T) {
	alice := EntityDescriptor{ID: "airc:Alice", Type: EntityHuman}
	bob := EntityDescriptor{ID: "eth:0xABC", Type: EntityAgent}

	d, err := Create(alice, bob, LayerPublic, "Working together.", fixedNow())
	require.NoError(t, err)

	assert.Equal(t, "harp:airc:alice:eth:0xabc", d.Frontmatter.Dyad)
	assert.Equal(t, int64(1), d.Frontmatter.Epoch)
	assert.Equal(t, "", d.Frontmatter.Previous)
	assert.Equal(t, "2026-01-15T10:30:00Z", d.Frontmatter.Created)
	assert.Equal(t, d.Frontmatter.Created, d.Frontmatter.Updated)

	// Entities are normalized and ordered to match the dyad id.
	assert.Equal(t, "airc:alice", d.Frontmatter.Entities[0].ID)
	assert.Equal(t, "eth:0xabc", d.Frontmatter.Entities[1].ID)

	assert.NotEmpty(t, d.Raw)
	assert.Contains(t, d.Frontmatter.Checksum, ChecksumPrefix)
	assert.Equal(t, Serialize(d), d.Raw, "raw cache must match the serializer")
}

func TestCreateEntityOrderIndependent(t *testing.T) {
	alice := EntityDescriptor{ID: "airc:alice", Type: EntityHuman}
	bob := EntityDescriptor{ID: "eth:0xABC", Type: EntityAgent}

	ab, err := Create(alice, bob, LayerPublic, "", fixedNow())
	require.NoError(t, err)
	ba, err := Create(bob, alice, LayerPublic, "", fixedNow())
	require.NoError(t, err)

	assert.Equal(t, Serialize(ab), Serialize(ba))
}

func TestCreateRejectsDegenerateDyad(t *testing.T) {
	a := EntityDescriptor{ID: "airc:Same", Type: EntityHuman}
	b := EntityDescriptor{ID: "airc:same", Type: EntityAgent}

	_, err := Create(a, b, LayerPublic, "", fixedNow())
	require.Error(t, err)
}

func TestCreateRejectsInvalidLayer(t *testing.T) {
	a := EntityDescriptor{ID: "airc:a", Type: EntityHuman}
	b := EntityDescriptor{ID: "airc:b", Type: EntityHuman}

	_, err := Create(a, b, Layer("secret"), "", fixedNow())
	require.Error(t, err)
}

func TestWithSectionImmutability(t *testing.T) {
	a := EntityDescriptor{ID: "airc:a", Type: EntityHuman}
	b := EntityDescriptor{ID: "airc:b", Type: EntityHuman}

	base, err := Create(a, b, LayerPublic, "", fixedNow())
	require.NoError(t, err)

	next := base.WithSection(NewSection(SectionNote, "First", "Hello.", nil))

	assert.Empty(t, base.Sections, "original document is untouched")
	assert.NotEmpty(t, base.Raw)
	require.Len(t, next.Sections, 1)
	assert.Empty(t, next.Raw, "mutation marks the raw cache stale")
}

func TestNextEpochAdvancesChain(t *testing.T) {
	a := EntityDescriptor{ID: "airc:a", Type: EntityHuman}
	b := EntityDescriptor{ID: "airc:b", Type: EntityHuman}

	base, err := Create(a, b, LayerShared, "", fixedNow())
	require.NoError(t, err)

	later := fixedNow().Add(time.Hour)
	next, err := base.NextEpoch("bafymemdeadbeef", later)
	require.NoError(t, err)

	assert.Equal(t, base.Frontmatter.Epoch+1, next.Frontmatter.Epoch)
	assert.Equal(t, "bafymemdeadbeef", next.Frontmatter.Previous)
	assert.Equal(t, base.Frontmatter.Created, next.Frontmatter.Created)
	assert.Equal(t, FormatTime(later), next.Frontmatter.Updated)
	assert.Empty(t, next.Frontmatter.Checksum)
	assert.Empty(t, next.Raw)

	// The prior epoch is unchanged.
	assert.Equal(t, int64(1), base.Frontmatter.Epoch)
	assert.Equal(t, "", base.Frontmatter.Previous)
}

func TestNextEpochRequiresPreviousID(t *testing.T) {
	a := EntityDescriptor{ID: "airc:a", Type: EntityHuman}
	b := EntityDescriptor{ID: "airc:b", Type: EntityHuman}

	base, err := Create(a, b, LayerPublic, "", fixedNow())
	require.NoError(t, err)

	_, err = base.NextEpoch("", fixedNow())
	require.Error(t, err)
}

func TestNewSectionFillsRawCache(t *testing.T) {
	sec := NewSection(SectionDecision, "Use RFC3339", "All timestamps use RFC3339.", &SectionMeta{
		Timestamp: "2026-01-15T10:30:00Z",
		Author:    "airc:a",
	})

	assert.Equal(t, SerializeSection(sec), sec.Raw)
	assert.Contains(t, sec.Raw, "## Decision: Use RFC3339")
	assert.Contains(t, sec.Raw, "<!-- harp:meta")
}

func TestIsValidSectionType(t *testing.T) {
	assert.True(t, IsValidSectionType(SectionInteraction))
	assert.True(t, IsValidSectionType("x-MoltX-Bounty"))
	assert.False(t, IsValidSectionType("Gossip"))
}
