package models

import (
	"time"
)

// ConsensusType classifies the dominant reading of the evidence for one
// category. The set is closed; exactly one type is selected per category
// per forecast.
type ConsensusType string

const (
	ConsensusPositiveGrowth     ConsensusType = "positive_growth"
	ConsensusMixed              ConsensusType = "mixed_consensus"
	ConsensusRegulatoryCritical ConsensusType = "regulatory_critical"
	ConsensusSafetySecurity     ConsensusType = "safety_security"
	ConsensusWarfareDefense     ConsensusType = "warfare_defense"
	ConsensusGeopolitical       ConsensusType = "geopolitical"
	ConsensusBusinessAutomation ConsensusType = "business_automation"
	ConsensusSocietalImpact     ConsensusType = "societal_impact"
)

// ConsensusTypeInfo carries the display metadata associated with a
// consensus type. The registry below is immutable after init; call sites
// look types up through Info() rather than keeping their own label maps.
type ConsensusTypeInfo struct {
	Label    string `json:"label"`
	StyleKey string `json:"style_key"`
}

// AllConsensusTypes lists every consensus type in display order.
var AllConsensusTypes = []ConsensusType{
	ConsensusPositiveGrowth,
	ConsensusMixed,
	ConsensusRegulatoryCritical,
	ConsensusSafetySecurity,
	ConsensusWarfareDefense,
	ConsensusGeopolitical,
	ConsensusBusinessAutomation,
	ConsensusSocietalImpact,
}

var consensusTypeRegistry = map[ConsensusType]ConsensusTypeInfo{
	ConsensusPositiveGrowth:     {Label: "Positive Growth", StyleKey: "growth"},
	ConsensusMixed:              {Label: "Mixed Consensus", StyleKey: "mixed"},
	ConsensusRegulatoryCritical: {Label: "Regulatory Critical", StyleKey: "regulatory"},
	ConsensusSafetySecurity:     {Label: "Safety & Security", StyleKey: "safety"},
	ConsensusWarfareDefense:     {Label: "Warfare & Defense", StyleKey: "warfare"},
	ConsensusGeopolitical:       {Label: "Geopolitical", StyleKey: "geopolitical"},
	ConsensusBusinessAutomation: {Label: "Business Automation", StyleKey: "business"},
	ConsensusSocietalImpact:     {Label: "Societal Impact", StyleKey: "societal"},
}

// Info returns the display metadata for the consensus type. Unknown types
// fall back to mixed-consensus metadata rather than panicking.
func (t ConsensusType) Info() ConsensusTypeInfo {
	if info, ok := consensusTypeRegistry[t]; ok {
		return info
	}
	return consensusTypeRegistry[ConsensusMixed]
}

// Polarity marks an outlier marker as a dissenting optimistic or
// pessimistic scenario.
type Polarity string

const (
	PolarityOptimistic  Polarity = "optimistic"
	PolarityPessimistic Polarity = "pessimistic"
)

// ConsensusBand is a timeline interval where the weight of evidence for a
// category clusters. Start and End are timeline indices clamped to
// [0, MaxIndex]; Start <= End always holds.
type ConsensusBand struct {
	Category string        `json:"category"`
	Start    int           `json:"start"`
	End      int           `json:"end"`
	Type     ConsensusType `json:"consensus_type"`
	Label    string        `json:"label"`
	StyleKey string        `json:"style_key"`
}

// OutlierMarker is a single dissenting scenario plotted off the consensus
// band. Marker order within a category is significant: the first marker is
// the most prominent for display.
type OutlierMarker struct {
	Category           string       `json:"category"`
	XPosition          int          `json:"x_position"`
	Label              string       `json:"label"`
	Polarity           Polarity     `json:"polarity"`
	SupportingArticles []ArticleRef `json:"supporting_articles"`
}

// CategoryError records a per-category processing failure. Categories that
// fail are substituted with a safe default band; the error is surfaced here
// so callers can distinguish a "Data Error" band from a genuine mixed
// consensus classification.
type CategoryError struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

func (e CategoryError) Error() string {
	return e.Category + ": " + e.Message
}

// ForecastResult is the complete analytic artifact handed to the render
// layer. Bands and Outliers are index-aligned with Themes. The value is
// immutable once assembled; the engine holds no reference after returning.
type ForecastResult struct {
	Topic          string            `json:"topic"`
	Timeframe      string            `json:"timeframe"`
	Themes         []string          `json:"themes"`
	Bands          []ConsensusBand   `json:"bands"`
	Outliers       [][]OutlierMarker `json:"outliers"`
	TotalArticles  int               `json:"total_articles"`
	CategoryErrors []CategoryError   `json:"category_errors,omitempty"`
}

// ForecastSnapshot is a stored forecast result, persisted by the scheduler
// so dashboard reads hit a warm result instead of recomputing.
type ForecastSnapshot struct {
	ID        string         `json:"id"`
	Topic     string         `json:"topic"`
	Timeframe string         `json:"timeframe"`
	Result    ForecastResult `json:"result"`
	CreatedAt time.Time      `json:"created_at"`
}
