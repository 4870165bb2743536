package consensus

import (
	"fmt"
	"strings"

	"github.com/aipulse/aipulse/internal/models"
)

// Fixed plot positions for statistical outliers: dissenting optimism is
// drawn early on the timeline, dissenting pessimism late.
const (
	rapidAdoptionIndex = 1
	delayedImpactIndex = 6
)

// StatisticalOutlierDetector derives dissenting-scenario markers from
// sentiment ratios alone. It is pure and deterministic; curated scenarios
// live in CuratedScenarioLibrary and are composed by the engine.
type StatisticalOutlierDetector struct {
	params Params
}

// NewStatisticalOutlierDetector constructs a detector with the given params.
func NewStatisticalOutlierDetector(params Params) *StatisticalOutlierDetector {
	return &StatisticalOutlierDetector{params: params}
}

// Detect emits zero, one, or two markers for a category. Histograms with
// totals at or below MinCountForStatisticalOutliers produce nothing, to
// avoid reading signal into sparse data.
func (d *StatisticalOutlierDetector) Detect(category string, sentiment models.Histogram) []models.OutlierMarker {
	total := sentiment.Total()
	if total <= d.params.MinCountForStatisticalOutliers {
		return nil
	}

	var optimistic, hyperbolic, pessimistic, critical int
	for _, b := range sentiment {
		switch label := strings.ToLower(strings.TrimSpace(b.Label)); {
		case label == "optimistic":
			optimistic += b.Count
		case label == "hyperbolic":
			hyperbolic += b.Count
		case label == "pessimistic":
			pessimistic += b.Count
		case strings.Contains(label, "critical"):
			critical += b.Count
		}
	}

	ft := float64(total)
	optimisticRatio := float64(optimistic) / ft
	hyperbolicRatio := float64(hyperbolic) / ft
	pessimisticRatio := float64(pessimistic) / ft
	criticalRatio := float64(critical) / ft

	var markers []models.OutlierMarker

	if optimisticRatio > 0.4 || hyperbolicRatio > 0.2 {
		markers = append(markers, models.OutlierMarker{
			Category:           category,
			XPosition:          rapidAdoptionIndex,
			Label:              fmt.Sprintf("Rapid adoption: %s", category),
			Polarity:           models.PolarityOptimistic,
			SupportingArticles: []models.ArticleRef{},
		})
	}

	if pessimisticRatio > 0.3 || criticalRatio > 0.3 {
		markers = append(markers, models.OutlierMarker{
			Category:           category,
			XPosition:          delayedImpactIndex,
			Label:              fmt.Sprintf("Delayed impact: %s", category),
			Polarity:           models.PolarityPessimistic,
			SupportingArticles: []models.ArticleRef{},
		})
	}

	return markers
}
