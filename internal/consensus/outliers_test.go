package consensus

import (
	"testing"

	"github.com/aipulse/aipulse/internal/models"
)

func TestDetectSkipsSparseHistograms(t *testing.T) {
	d := NewStatisticalOutlierDetector(DefaultParams())

	hist := models.Histogram{
		{Label: "optimistic", Count: 5},
	}
	if markers := d.Detect("AI Business", hist); markers != nil {
		t.Fatalf("expected no markers for total <= %d, got %d",
			DefaultParams().MinCountForStatisticalOutliers, len(markers))
	}
}

func TestDetect(t *testing.T) {
	d := NewStatisticalOutlierDetector(DefaultParams())

	tests := []struct {
		name           string
		hist           models.Histogram
		wantPolarities []models.Polarity
		wantPositions  []int
	}{
		{
			name: "optimistic ratio triggers rapid adoption marker",
			hist: models.Histogram{
				{Label: "optimistic", Count: 5},
				{Label: "neutral", Count: 5},
			},
			wantPolarities: []models.Polarity{models.PolarityOptimistic},
			wantPositions:  []int{rapidAdoptionIndex},
		},
		{
			name: "hyperbolic ratio triggers rapid adoption marker",
			hist: models.Histogram{
				{Label: "hyperbolic", Count: 3},
				{Label: "neutral", Count: 7},
			},
			wantPolarities: []models.Polarity{models.PolarityOptimistic},
			wantPositions:  []int{rapidAdoptionIndex},
		},
		{
			name: "pessimistic ratio triggers delayed impact marker",
			hist: models.Histogram{
				{Label: "pessimistic", Count: 4},
				{Label: "neutral", Count: 6},
			},
			wantPolarities: []models.Polarity{models.PolarityPessimistic},
			wantPositions:  []int{delayedImpactIndex},
		},
		{
			name: "critical ratio triggers delayed impact marker",
			hist: models.Histogram{
				{Label: "critical", Count: 4},
				{Label: "neutral", Count: 6},
			},
			wantPolarities: []models.Polarity{models.PolarityPessimistic},
			wantPositions:  []int{delayedImpactIndex},
		},
		{
			name: "polarized evidence yields both markers, optimistic first",
			hist: models.Histogram{
				{Label: "optimistic", Count: 5},
				{Label: "pessimistic", Count: 4},
				{Label: "neutral", Count: 1},
			},
			wantPolarities: []models.Polarity{models.PolarityOptimistic, models.PolarityPessimistic},
			wantPositions:  []int{rapidAdoptionIndex, delayedImpactIndex},
		},
		{
			name: "balanced evidence yields nothing",
			hist: models.Histogram{
				{Label: "positive", Count: 5},
				{Label: "negative", Count: 5},
			},
			wantPolarities: nil,
			wantPositions:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			markers := d.Detect("AI Software", tt.hist)

			if len(markers) != len(tt.wantPolarities) {
				t.Fatalf("got %d markers, want %d", len(markers), len(tt.wantPolarities))
			}
			for i, m := range markers {
				if m.Polarity != tt.wantPolarities[i] {
					t.Errorf("marker %d polarity = %q, want %q", i, m.Polarity, tt.wantPolarities[i])
				}
				if m.XPosition != tt.wantPositions[i] {
					t.Errorf("marker %d position = %d, want %d", i, m.XPosition, tt.wantPositions[i])
				}
				if m.Category != "AI Software" {
					t.Errorf("marker %d category = %q", i, m.Category)
				}
				if m.Label == "" {
					t.Errorf("marker %d has empty label", i)
				}
				if m.SupportingArticles == nil {
					t.Errorf("marker %d supporting articles should be empty, not nil", i)
				}
			}
		})
	}
}
