package models

import (
	"encoding/json"
	"testing"
)

func TestConsensusTypeInfo(t *testing.T) {
	for _, ct := range AllConsensusTypes {
		info := ct.Info()
		if info.Label == "" {
			t.Errorf("consensus type %q has no label", ct)
		}
		if info.StyleKey == "" {
			t.Errorf("consensus type %q has no style key", ct)
		}
	}
}

func TestConsensusTypeInfoUnknownFallsBack(t *testing.T) {
	info := ConsensusType("made_up").Info()
	want := ConsensusMixed.Info()
	if info != want {
		t.Errorf("unknown type info = %+v, want mixed fallback %+v", info, want)
	}
}

func TestCategoryErrorError(t *testing.T) {
	err := CategoryError{Category: "AI Safety", Message: "query timeout"}
	if got := err.Error(); got != "AI Safety: query timeout" {
		t.Errorf("Error() = %q", got)
	}
}

func TestForecastResultRoundTrip(t *testing.T) {
	result := ForecastResult{
		Topic:     "ai",
		Timeframe: "30",
		Themes:    []string{"AI Business"},
		Bands: []ConsensusBand{
			{Category: "AI Business", Start: 0, End: 2, Type: ConsensusPositiveGrowth, Label: "Positive Growth", StyleKey: "growth"},
		},
		Outliers: [][]OutlierMarker{
			{{Category: "AI Business", XPosition: 1, Label: "Rapid adoption: AI Business", Polarity: PolarityOptimistic, SupportingArticles: []ArticleRef{}}},
		},
		TotalArticles: 42,
	}

	data, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded ForecastResult
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if decoded.Bands[0].Type != ConsensusPositiveGrowth {
		t.Errorf("decoded type = %q", decoded.Bands[0].Type)
	}
	if decoded.Outliers[0][0].Polarity != PolarityOptimistic {
		t.Errorf("decoded polarity = %q", decoded.Outliers[0][0].Polarity)
	}
	if len(decoded.CategoryErrors) != 0 {
		t.Errorf("empty category errors should stay empty, got %v", decoded.CategoryErrors)
	}
}
