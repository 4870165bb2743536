package consensus

import (
	"testing"
)

func TestSizeBand(t *testing.T) {
	p := DefaultParams()

	tests := []struct {
		name      string
		mean      float64
		spread    float64
		total     int
		wantStart int
		wantEnd   int
	}{
		{
			name: "tight cluster gets narrow band",
			mean: 0.2, spread: 0.4, total: 10,
			wantStart: 0, wantEnd: 1,
		},
		{
			name: "sparse evidence forces narrow band despite spread",
			mean: 5, spread: 3, total: 4,
			wantStart: 4, wantEnd: 6,
		},
		{
			name: "dispersed evidence gets wide band",
			mean: 5, spread: 2.5, total: 20,
			wantStart: 3, wantEnd: 9,
		},
		{
			name: "moderate evidence gets medium band",
			mean: 5, spread: 1.0, total: 20,
			wantStart: 4, wantEnd: 7,
		},
		{
			name: "band never extends below zero",
			mean: 0.5, spread: 2.5, total: 20,
			wantStart: 0, wantEnd: 4,
		},
		{
			name: "band never extends past the max index",
			mean: 9.5, spread: 2.5, total: 20,
			wantStart: 7, wantEnd: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := p.sizeBand(tt.mean, tt.spread, tt.total)
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("sizeBand(%v, %v, %d) = (%d, %d), want (%d, %d)",
					tt.mean, tt.spread, tt.total, start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestSizeBandBoundsInvariant(t *testing.T) {
	p := DefaultParams()

	for mean := -2.0; mean <= 14.0; mean += 0.5 {
		for spread := 0.0; spread <= 4.0; spread += 0.5 {
			for _, total := range []int{0, 3, 10, 100} {
				start, end := p.sizeBand(mean, spread, total)
				if start < 0 || end > p.MaxIndex || start > end {
					t.Fatalf("sizeBand(%v, %v, %d) = (%d, %d) violates 0 <= start <= end <= %d",
						mean, spread, total, start, end, p.MaxIndex)
				}
			}
		}
	}
}

func TestClampBand(t *testing.T) {
	tests := []struct {
		name       string
		start, end int
		maxIndex   int
		wantStart  int
		wantEnd    int
	}{
		{"within range untouched", 2, 5, 10, 2, 5},
		{"negative start clamped", -3, 4, 10, 0, 4},
		{"end past max clamped", 6, 14, 10, 6, 10},
		{"inverted interval widened", 5, 3, 10, 5, 6},
		{"inversion at the max boundary collapses", 12, 3, 10, 10, 10},
		{"both negative", -5, -2, 10, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := clampBand(tt.start, tt.end, tt.maxIndex)
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("clampBand(%d, %d, %d) = (%d, %d), want (%d, %d)",
					tt.start, tt.end, tt.maxIndex, start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}
