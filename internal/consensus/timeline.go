package consensus

import (
	"math"
	"strings"

	"github.com/aipulse/aipulse/internal/models"
)

const (
	// Neutral defaults used when a time-to-impact histogram is empty.
	// These are documented fallbacks, not error conditions.
	neutralMean   = 2.0
	neutralSpread = 1.0

	// Unrecognized time labels land mid-near-term rather than failing.
	defaultTimeIndex = 2
)

// timeIndexTable maps time-to-impact labels to discrete timeline indices.
// Lookup is case-insensitive; labels outside the table use
// defaultTimeIndex.
var timeIndexTable = map[string]int{
	"immediate":   0,
	"now":         0,
	"short-term":  1,
	"short term":  1,
	"near-term":   1,
	"mid-term":    3,
	"mid term":    3,
	"medium-term": 3,
	"medium term": 3,
	"long-term":   6,
	"long term":   6,
	"unknown":     2,
}

// timeIndex resolves a histogram label to its timeline index.
func timeIndex(label string) int {
	if idx, ok := timeIndexTable[strings.ToLower(strings.TrimSpace(label))]; ok {
		return idx
	}
	return defaultTimeIndex
}

// weightedTimeline converts a time-to-impact histogram into a weighted
// mean position and a spread (standard deviation) on the discrete
// timeline. Pure and deterministic for a given histogram; an empty
// histogram yields the neutral defaults.
func weightedTimeline(hist models.Histogram) (mean, spread float64) {
	total := hist.Total()
	if total == 0 {
		return neutralMean, neutralSpread
	}

	weighted := 0.0
	for _, b := range hist {
		weighted += float64(timeIndex(b.Label)) * float64(b.Count)
	}
	mean = weighted / float64(total)

	variance := 0.0
	for _, b := range hist {
		diff := float64(timeIndex(b.Label)) - mean
		variance += diff * diff * float64(b.Count)
	}
	variance /= float64(total)

	return mean, math.Sqrt(variance)
}
