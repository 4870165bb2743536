package consensus

import (
	"time"
)

// Params holds the tuning knobs for the forecasting engine. Zero values
// are never used directly; construct via DefaultParams and override.
type Params struct {
	// MaxCategories bounds how many categories one forecast renders.
	MaxCategories int
	// MaxIndex is the last valid timeline index (0..MaxIndex).
	MaxIndex int
	// NarrowSpreadThreshold selects the narrow band when spread falls below it.
	NarrowSpreadThreshold float64
	// WideSpreadThreshold selects the wide band when spread exceeds it.
	WideSpreadThreshold float64
	// MinCountForNarrowBand forces the narrow band on sparse histograms.
	MinCountForNarrowBand int
	// MinCountForStatisticalOutliers gates statistical outlier detection.
	MinCountForStatisticalOutliers int
	// CategoryTimeout bounds the distribution queries for one category.
	CategoryTimeout time.Duration
}

// DefaultParams returns the engine defaults.
func DefaultParams() Params {
	return Params{
		MaxCategories:                  8,
		MaxIndex:                       10,
		NarrowSpreadThreshold:          0.5,
		WideSpreadThreshold:            2.0,
		MinCountForNarrowBand:          10,
		MinCountForStatisticalOutliers: 5,
		CategoryTimeout:                10 * time.Second,
	}
}

// sizeBand converts (weighted mean, spread, total count) into a clamped
// [start, end] interval. Policy order matters: sparse or tightly clustered
// evidence gets a narrow band, highly dispersed evidence a wide one,
// everything else a medium band.
func (p Params) sizeBand(mean, spread float64, total int) (start, end int) {
	var lo, hi float64

	switch {
	case spread < p.NarrowSpreadThreshold || total < p.MinCountForNarrowBand:
		lo, hi = mean-1, mean+1
	case spread > p.WideSpreadThreshold:
		lo, hi = mean-2, mean+4
	default:
		lo, hi = mean-1, mean+2
	}

	max := float64(p.MaxIndex)
	if lo < 0 {
		lo = 0
	}
	if hi > max {
		hi = max
	}

	return clampBand(int(lo), int(hi), p.MaxIndex)
}

// clampBand clamps both bounds to [0, maxIndex] and guarantees
// end >= start, widening by one index when clamping collapses the
// interval at the boundary.
func clampBand(start, end, maxIndex int) (int, int) {
	if start < 0 {
		start = 0
	}
	if start > maxIndex {
		start = maxIndex
	}
	if end < 0 {
		end = 0
	}
	if end > maxIndex {
		end = maxIndex
	}
	if end < start {
		end = start + 1
		if end > maxIndex {
			end = maxIndex
		}
		if start > end {
			start = end
		}
	}
	return start, end
}
