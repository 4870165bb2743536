package consensus

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aipulse/aipulse/internal/models"
)

// CuratedScenario is a pre-authored illustrative outlier for a domain.
// These are editorial content, not statistics: they are appended whenever
// a category falls in their domain, regardless of the evidence.
type CuratedScenario struct {
	Index    int             `yaml:"index" json:"index"`
	Label    string          `yaml:"label" json:"label"`
	Polarity models.Polarity `yaml:"polarity" json:"polarity"`
}

// CuratedScenarioLibrary holds the versioned per-domain scenario table.
// It is loaded once at startup (from YAML or the compiled-in default) and
// read-only afterwards, so it is safe for concurrent use.
type CuratedScenarioLibrary struct {
	Version   int
	scenarios map[Domain][]CuratedScenario
}

// Scenarios returns the curated scenarios for a domain, in authored order.
func (l *CuratedScenarioLibrary) Scenarios(domain Domain) []CuratedScenario {
	return l.scenarios[domain]
}

// Markers materializes the domain's curated scenarios as outlier markers
// for a category, clamping positions to the valid timeline range.
func (l *CuratedScenarioLibrary) Markers(category string, domain Domain, maxIndex int) []models.OutlierMarker {
	scenarios := l.scenarios[domain]
	if len(scenarios) == 0 {
		return nil
	}

	markers := make([]models.OutlierMarker, 0, len(scenarios))
	for _, s := range scenarios {
		x := s.Index
		if x < 0 {
			x = 0
		}
		if x > maxIndex {
			x = maxIndex
		}
		markers = append(markers, models.OutlierMarker{
			Category:           category,
			XPosition:          x,
			Label:              s.Label,
			Polarity:           s.Polarity,
			SupportingArticles: []models.ArticleRef{},
		})
	}
	return markers
}

type scenarioFile struct {
	Version int                          `yaml:"version"`
	Domains map[string][]CuratedScenario `yaml:"domains"`
}

// LoadScenarioLibrary reads a scenario table from a YAML file. The file
// is keyed by domain name; unknown domain keys are rejected so typos do
// not silently drop scenarios.
func LoadScenarioLibrary(path string) (*CuratedScenarioLibrary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var file scenarioFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse scenario file: %w", err)
	}

	lib := &CuratedScenarioLibrary{
		Version:   file.Version,
		scenarios: make(map[Domain][]CuratedScenario, len(file.Domains)),
	}

	for name, scenarios := range file.Domains {
		domain := Domain(name)
		if !knownDomain(domain) {
			return nil, fmt.Errorf("unknown domain %q in scenario file", name)
		}
		for _, s := range scenarios {
			if s.Polarity != models.PolarityOptimistic && s.Polarity != models.PolarityPessimistic {
				return nil, fmt.Errorf("invalid polarity %q for domain %q", s.Polarity, name)
			}
		}
		lib.scenarios[domain] = scenarios
	}

	return lib, nil
}

func knownDomain(d Domain) bool {
	if d == DomainGeneral {
		return true
	}
	for _, rule := range domainRules {
		if rule.domain == d {
			return true
		}
	}
	return false
}

// DefaultScenarioLibrary returns the compiled-in scenario table, used when
// no external YAML file is configured.
func DefaultScenarioLibrary() *CuratedScenarioLibrary {
	return &CuratedScenarioLibrary{
		Version: 1,
		scenarios: map[Domain][]CuratedScenario{
			DomainBusiness: {
				{Index: 1, Label: "Enterprise pilots scale ahead of schedule", Polarity: models.PolarityOptimistic},
				{Index: 7, Label: "ROI skepticism stalls broad rollouts", Polarity: models.PolarityPessimistic},
			},
			DomainHealthcare: {
				{Index: 2, Label: "Diagnostic tools clear fast-track approval", Polarity: models.PolarityOptimistic},
				{Index: 8, Label: "Clinical validation cycles slip by years", Polarity: models.PolarityPessimistic},
			},
			DomainRegulation: {
				{Index: 0, Label: "Landmark rulings arrive within months", Polarity: models.PolarityPessimistic},
				{Index: 5, Label: "Harmonized frameworks unlock deployment", Polarity: models.PolarityOptimistic},
			},
			DomainEthics: {
				{Index: 1, Label: "Industry standards emerge from self-governance", Polarity: models.PolarityOptimistic},
				{Index: 6, Label: "Public backlash forces course corrections", Polarity: models.PolarityPessimistic},
			},
			DomainSoftware: {
				{Index: 0, Label: "Assistant tooling becomes the default workflow", Polarity: models.PolarityOptimistic},
				{Index: 4, Label: "Maintenance burden of generated code mounts", Polarity: models.PolarityPessimistic},
			},
			DomainSociety: {
				{Index: 2, Label: "Reskilling programs absorb displacement", Polarity: models.PolarityOptimistic},
				{Index: 7, Label: "Labor disruption outpaces policy response", Polarity: models.PolarityPessimistic},
			},
			DomainRobotics: {
				{Index: 3, Label: "Warehouse automation hits cost parity", Polarity: models.PolarityOptimistic},
				{Index: 9, Label: "General-purpose robotics stays a demo", Polarity: models.PolarityPessimistic},
			},
			DomainCarbon: {
				{Index: 2, Label: "Grid optimization delivers measurable savings", Polarity: models.PolarityOptimistic},
				{Index: 8, Label: "Compute demand outgrows efficiency gains", Polarity: models.PolarityPessimistic},
			},
		},
	}
}
