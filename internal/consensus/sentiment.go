package consensus

import (
	"strings"

	"github.com/aipulse/aipulse/internal/models"
)

// sentimentRatios summarizes a sentiment histogram as bucket ratios over
// the full total. Labels outside the three buckets still count toward the
// total, so ratios from noisy label sets stay conservative.
type sentimentRatios struct {
	positive float64
	negative float64
	critical float64
	total    int
}

func bucketSentiment(hist models.Histogram) sentimentRatios {
	var positive, negative, critical int
	total := hist.Total()

	for _, b := range hist {
		switch label := strings.ToLower(strings.TrimSpace(b.Label)); {
		case label == "positive" || label == "optimistic":
			positive += b.Count
		case label == "negative" || label == "pessimistic":
			negative += b.Count
		case strings.Contains(label, "critical"):
			critical += b.Count
		}
	}

	r := sentimentRatios{total: total}
	if total == 0 {
		return r
	}
	r.positive = float64(positive) / float64(total)
	r.negative = float64(negative) / float64(total)
	r.critical = float64(critical) / float64(total)
	return r
}

// criticalConsensusByDomain routes categories whose evidence skews
// critical or negative to the matching consensus type.
var criticalConsensusByDomain = map[Domain]models.ConsensusType{
	DomainRegulation:  models.ConsensusRegulatoryCritical,
	DomainSafety:      models.ConsensusSafetySecurity,
	DomainWarfare:     models.ConsensusWarfareDefense,
	DomainEthics:      models.ConsensusSocietalImpact,
	DomainSociety:     models.ConsensusSocietalImpact,
	DomainGeopolitics: models.ConsensusGeopolitical,
}

// classifyConsensus selects exactly one consensus type from the sentiment
// histogram and the category's domain. The policy is evaluated top to
// bottom, first match wins, and is total: every input maps to a type.
func classifyConsensus(hist models.Histogram, domain Domain) models.ConsensusType {
	r := bucketSentiment(hist)

	switch {
	case r.positive >= 0.6:
		return models.ConsensusPositiveGrowth
	case r.critical >= 0.25 || r.negative >= 0.35:
		if ct, ok := criticalConsensusByDomain[domain]; ok {
			return ct
		}
		return models.ConsensusRegulatoryCritical
	case r.positive >= 0.35 && r.negative <= 0.25:
		if domain == DomainBusiness {
			return models.ConsensusBusinessAutomation
		}
		return models.ConsensusPositiveGrowth
	default:
		return models.ConsensusMixed
	}
}
