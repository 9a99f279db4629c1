package score

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/harpproto/harp/internal/doc"
)

func interactions(n int) []doc.Section {
	out := make([]doc.Section, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, doc.NewSection(doc.SectionInteraction, "Sync", "Met.", nil))
	}
	return out
}

func TestReadinessEmptyDocumentIsNew(t *testing.T) {
	got := AssessCollaborationReadiness(testDoc(1))

	assert.False(t, got.HasHistory)
	assert.Equal(t, 0, got.InteractionCount)
	assert.Equal(t, ReadinessNew, got.ReadinessLevel)
	assert.Equal(t, int64(1), got.SourceEpoch)
}

func TestReadinessLevels(t *testing.T) {
	tests := []struct {
		name         string
		interactions int
		decisions    int
		want         ReadinessLevel
	}{
		{"no history", 0, 0, ReadinessNew},
		{"one interaction", 1, 0, ReadinessEmerging},
		{"two interactions", 2, 5, ReadinessEmerging},
		{"few interactions", 3, 2, ReadinessEstablished},
		{"many interactions few decisions", 10, 1, ReadinessEstablished},
		{"mature", 8, 2, ReadinessMature},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			secs := interactions(tc.interactions)
			for i := 0; i < tc.decisions; i++ {
				secs = append(secs, doc.NewSection(doc.SectionDecision, "Call it", "Done.", nil))
			}
			got := AssessCollaborationReadiness(testDoc(1, secs...))
			assert.Equal(t, tc.want, got.ReadinessLevel)
		})
	}
}

func TestReadinessCountsUnresolvedTensions(t *testing.T) {
	d := testDoc(2,
		doc.NewSection(doc.SectionTension, "Open", "a", nil),
		doc.NewSection(doc.SectionTension, "Ongoing", "b", &doc.SectionMeta{Status: doc.StatusOngoing}),
		doc.NewSection(doc.SectionTension, "Closed", "c", &doc.SectionMeta{Status: doc.StatusResolved}),
	)

	got := AssessCollaborationReadiness(d)

	assert.Equal(t, 2, got.UnresolvedTensions)
}

func TestReadinessContextAndDecisionFlags(t *testing.T) {
	d := testDoc(1,
		doc.NewSection(doc.SectionContext, "Prefs", "Async only.", nil),
		doc.NewSection(doc.SectionDecision, "Timezone", "UTC everywhere.", nil),
	)

	got := AssessCollaborationReadiness(d)

	assert.True(t, got.HasCommPreferences)
	assert.True(t, got.HasSharedDecisions)
}

func TestReadinessPaymentDetection(t *testing.T) {
	tests := []struct {
		name string
		sec  doc.Section
		want bool
	}{
		{"structured payment", doc.NewSection(doc.SectionInteraction, "Bounty", "Disbursed.", &doc.SectionMeta{
			Payment: &doc.Payment{Amount: "1.5 ETH", Tx: "0xabc"},
		}), true},
		{"payment tag", doc.NewSection(doc.SectionNote, "Invoice", "Sent.", &doc.SectionMeta{
			Tags: []string{"payment"},
		}), true},
		{"content mention", doc.NewSection(doc.SectionInteraction, "Sync", "Discussed the Payment schedule.", nil), true},
		{"no payment evidence", doc.NewSection(doc.SectionInteraction, "Sync", "Discussed roadmap.", nil), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := AssessCollaborationReadiness(testDoc(1, tc.sec))
			assert.Equal(t, tc.want, got.PaymentHistory)
		})
	}
}
