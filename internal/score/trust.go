package score

import (
	"fmt"
	"math"
	"time"

	"github.com/harpproto/harp/internal/doc"
)

// TrustAlgorithm names the reduction DeriveTrustScore implements.
const TrustAlgorithm = "trust_simple_v1"

// Factor keys reported in DerivedScore.Factors.
const (
	FactorInteractions       = "interactions"
	FactorTrustSignals       = "trust_signals"
	FactorDecisions          = "decisions"
	FactorCapabilities       = "capabilities"
	FactorResolvedTensions   = "resolved_tensions"
	FactorUnresolvedTensions = "unresolved_tensions"
)

// DerivedScore is the output of a trust reduction over one document epoch.
type DerivedScore struct {
	// Algorithm identifies the scoring algorithm used.
	Algorithm string `json:"algorithm"`

	// Score is normalized to [0, 1], rounded to three decimal places.
	Score float64 `json:"score"`

	// Factors holds per-category section counts.
	Factors map[string]int `json:"factors"`

	// SourceSections lists every contributing section as "Type: Title",
	// in document order, for auditability.
	SourceSections []string `json:"source_sections"`

	// ComputedAt is when the score was computed.
	ComputedAt string `json:"computed_at"`

	// SourceEpoch is the epoch the score was derived from.
	SourceEpoch int64 `json:"source_epoch"`
}

// DeriveTrustScore reduces a document's sections to a trust score.
//
// Each section contributes to an achieved sum and a maximum-possible sum:
//
//	Interaction              +1.0 of 1.0
//	Trust                    +2.0 of 2.0
//	Decision (acknowledged)  +1.5 of 1.5
//	Decision (otherwise)     +0.5 of 1.5
//	Capability               +1.0 of 1.0
//	Tension (resolved)       +0.5 of 0.5
//	Tension (otherwise)      -2.0 of 0.5
//	Context / Note            0   of 0
//
// The final score is clamp(achieved/max, 0, 1) when max > 0, else 0. An
// unresolved Tension can drive the achieved sum negative without pushing the
// result below zero.
func DeriveTrustScore(d *doc.Document, now time.Time) DerivedScore {
	factors := map[string]int{
		FactorInteractions:       0,
		FactorTrustSignals:       0,
		FactorDecisions:          0,
		FactorCapabilities:       0,
		FactorResolvedTensions:   0,
		FactorUnresolvedTensions: 0,
	}
	sources := make([]string, 0, len(d.Sections))

	var achieved, max float64
	for i := range d.Sections {
		sec := &d.Sections[i]
		sources = append(sources, fmt.Sprintf("%s: %s", sec.Type, sec.Title))

		switch sec.Type {
		case doc.SectionInteraction:
			achieved += 1.0
			max += 1.0
			factors[FactorInteractions]++
		case doc.SectionTrust:
			achieved += 2.0
			max += 2.0
			factors[FactorTrustSignals]++
		case doc.SectionDecision:
			if sec.Meta != nil && sec.Meta.AcknowledgedBy != "" {
				achieved += 1.5
			} else {
				achieved += 0.5
			}
			max += 1.5
			factors[FactorDecisions]++
		case doc.SectionCapability:
			achieved += 1.0
			max += 1.0
			factors[FactorCapabilities]++
		case doc.SectionTension:
			if resolved(sec) {
				achieved += 0.5
				factors[FactorResolvedTensions]++
			} else {
				achieved -= 2.0
				factors[FactorUnresolvedTensions]++
			}
			max += 0.5
		}
	}

	var normalized float64
	if max > 0 {
		normalized = math.Min(1, math.Max(0, achieved/max))
	}

	return DerivedScore{
		Algorithm:      TrustAlgorithm,
		Score:          math.Round(normalized*1000) / 1000,
		Factors:        factors,
		SourceSections: sources,
		ComputedAt:     doc.FormatTime(now),
		SourceEpoch:    d.Frontmatter.Epoch,
	}
}

// resolved reports whether a Tension section has been marked resolved.
func resolved(sec *doc.Section) bool {
	return sec.Meta != nil && sec.Meta.Status == doc.StatusResolved
}
