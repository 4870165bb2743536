package consensus

import (
	"strings"
)

// Domain is the subject area assigned to a category. Each category is
// classified into exactly one domain before any band or sentiment work
// happens; both the timeline adjustment and the consensus keyword policy
// branch on this enum rather than re-matching category text.
type Domain string

const (
	DomainGeneral     Domain = "general"
	DomainHealthcare  Domain = "healthcare"
	DomainBusiness    Domain = "business"
	DomainRegulation  Domain = "regulation"
	DomainSoftware    Domain = "software"
	DomainRobotics    Domain = "robotics"
	DomainEthics      Domain = "ethics"
	DomainCarbon      Domain = "carbon"
	DomainSafety      Domain = "safety"
	DomainWarfare     Domain = "warfare"
	DomainSociety     Domain = "society"
	DomainGeopolitics Domain = "geopolitics"
)

type domainRule struct {
	domain   Domain
	keywords []string
}

// domainRules is evaluated in order; the first rule with a matching
// substring wins. A category satisfies at most one domain. The ordering
// follows the timeline adjustment table first, then the consensus-only
// domains, and changing it changes classification for categories whose
// names carry multiple keywords.
var domainRules = []domainRule{
	{DomainHealthcare, []string{"healthcare", "health", "medical"}},
	{DomainBusiness, []string{"business", "automation", "work", "employment"}},
	{DomainRegulation, []string{"regulation", "copyright", "antitrust", "law"}},
	{DomainSoftware, []string{"software", "developer", "coding"}},
	{DomainRobotics, []string{"robotics", "robot"}},
	{DomainEthics, []string{"ethics", "ethical"}},
	{DomainCarbon, []string{"carbon", "energy", "climate"}},
	{DomainSafety, []string{"safety", "security", "risk", "trust"}},
	{DomainWarfare, []string{"warfare", "military", "defense"}},
	{DomainSociety, []string{"society", "societal"}},
	{DomainGeopolitics, []string{"geopolitics", "sovereignty", "nationalism"}},
}

// ClassifyDomain assigns a domain to a category name. Matching is
// case-insensitive substring matching against the fixed rule table.
// Categories matching no rule are DomainGeneral.
func ClassifyDomain(category string) Domain {
	name := strings.ToLower(category)
	for _, rule := range domainRules {
		for _, kw := range rule.keywords {
			if strings.Contains(name, kw) {
				return rule.domain
			}
		}
	}
	return DomainGeneral
}

// timelineAdjustment nudges a band to reflect domain-specific adoption
// dynamics. anchorStart forces the band to begin at index 0; maxWidth,
// when positive, caps the band width after the deltas apply.
type timelineAdjustment struct {
	anchorStart bool
	startDelta  int
	endDelta    int
	maxWidth    int
}

// domainAdjustments holds the per-domain timeline nudges. Healthcare
// shifts later for regulatory lag, business earlier for commercial
// adoption pressure, regulation and carbon anchor at the present and
// stretch out, software compresses to a near-term window.
var domainAdjustments = map[Domain]timelineAdjustment{
	DomainHealthcare: {startDelta: 1, endDelta: 2},
	DomainBusiness:   {startDelta: -1, endDelta: -1},
	DomainRegulation: {anchorStart: true, endDelta: 3},
	DomainSoftware:   {startDelta: -1, endDelta: -1, maxWidth: 2},
	DomainRobotics:   {startDelta: 2, endDelta: 2},
	DomainEthics:     {anchorStart: true, endDelta: 2},
	DomainCarbon:     {anchorStart: true, endDelta: 4},
}

// adjustBand applies the domain's timeline nudge, if any, and re-clamps
// the band to [0, maxIndex]. end >= start holds on return.
func adjustBand(start, end int, domain Domain, maxIndex int) (int, int) {
	adj, ok := domainAdjustments[domain]
	if !ok {
		return start, end
	}

	if adj.anchorStart {
		start = 0
	} else {
		start += adj.startDelta
	}
	end += adj.endDelta

	if adj.maxWidth > 0 && end-start > adj.maxWidth {
		end = start + adj.maxWidth
	}

	return clampBand(start, end, maxIndex)
}
