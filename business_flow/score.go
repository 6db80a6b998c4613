package businessflow

import (
	"math"
)

// sectionWeights are the fixed aggregation weights. They sum to 100 when
// every section is present; missing sections renormalize the denominator.
var sectionWeights = map[string]int{
	SectionTitle:            15,
	SectionDescription:      15,
	SectionKeywordRelevance: 20,
	SectionTrend:            10,
	SectionCompetition:      10,
	SectionSerpFeatures:     5,
	SectionContentQuality:   15,
	SectionTechnicalSeo:     10,
}

// highPrioritySections mark the sections whose recommendations rank first
var highPrioritySections = map[string]struct{}{
	SectionTitle:            {},
	SectionDescription:      {},
	SectionKeywordRelevance: {},
}

// computeGlobalScore aggregates section scores into one 0-100 value. A failed
// section still contributes score 0 with its weight; a section absent from
// the bag contributes neither, shrinking the denominator.
func computeGlobalScore(outcome *AuditOutcome) int {
	weightedSum := 0
	totalWeight := 0
	for _, section := range outcome.Sections() {
		weight := sectionWeights[section.Section()]
		weightedSum += section.SectionScore() * weight
		totalWeight += weight
	}
	if totalWeight == 0 {
		return 0
	}
	score := int(math.Round(float64(weightedSum) / float64(totalWeight)))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// consolidateRecommendations merges every section's recommendation strings
// into one prioritized list: high-priority sections first, then the rest,
// each group in canonical section order. Duplicates are kept as-is.
func consolidateRecommendations(outcome *AuditOutcome) []Recommendation {
	var high, medium []Recommendation
	for _, section := range outcome.Sections() {
		name := section.Section()
		priority := PriorityMedium
		if _, ok := highPrioritySections[name]; ok {
			priority = PriorityHigh
		}
		for _, text := range section.SectionRecommendations() {
			rec := Recommendation{Section: name, Text: text, Priority: priority}
			if priority == PriorityHigh {
				high = append(high, rec)
			} else {
				medium = append(medium, rec)
			}
		}
	}
	return append(high, medium...)
}
