package consensus

import (
	"testing"
)

func TestClassifyDomain(t *testing.T) {
	tests := []struct {
		category string
		want     Domain
	}{
		{"AI Healthcare", DomainHealthcare},
		{"Medical Imaging", DomainHealthcare},
		{"Business Automation", DomainBusiness},
		{"Future of Work", DomainBusiness},
		{"AI Regulation", DomainRegulation},
		{"Copyright Disputes", DomainRegulation},
		{"Software Development", DomainSoftware},
		{"Coding Assistants", DomainSoftware},
		{"Robotics", DomainRobotics},
		{"AI Ethics", DomainEthics},
		{"Carbon Footprint", DomainCarbon},
		{"Energy Demand", DomainCarbon},
		{"AI Safety", DomainSafety},
		{"Security Risks", DomainSafety},
		{"Autonomous Warfare", DomainWarfare},
		{"Military Applications", DomainWarfare},
		{"Societal Impact", DomainSociety},
		{"AI Sovereignty", DomainGeopolitics},
		{"Quantum Computing", DomainGeneral},
		{"", DomainGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			if got := ClassifyDomain(tt.category); got != tt.want {
				t.Errorf("ClassifyDomain(%q) = %q, want %q", tt.category, got, tt.want)
			}
		})
	}
}

// Categories whose names carry keywords from several rules must resolve
// to exactly one domain, decided by rule order.
func TestClassifyDomainFirstMatchWins(t *testing.T) {
	tests := []struct {
		category string
		want     Domain
	}{
		{"Healthcare Regulation", DomainHealthcare},
		{"Business Ethics", DomainBusiness},
		{"Military Robotics", DomainRobotics},
		{"Safety Law", DomainRegulation},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			if got := ClassifyDomain(tt.category); got != tt.want {
				t.Errorf("ClassifyDomain(%q) = %q, want %q", tt.category, got, tt.want)
			}
		})
	}
}

func TestAdjustBand(t *testing.T) {
	const maxIndex = 10

	tests := []struct {
		name       string
		start, end int
		domain     Domain
		wantStart  int
		wantEnd    int
	}{
		{"healthcare shifts later", 2, 4, DomainHealthcare, 3, 6},
		{"business shifts earlier", 2, 4, DomainBusiness, 1, 3},
		{"regulation anchors at present and stretches", 2, 4, DomainRegulation, 0, 7},
		{"software compresses to a near-term window", 2, 6, DomainSoftware, 1, 3},
		{"robotics shifts later", 1, 2, DomainRobotics, 3, 4},
		{"ethics anchors at present", 3, 5, DomainEthics, 0, 7},
		{"carbon anchors and stretches far", 3, 5, DomainCarbon, 0, 9},
		{"general is untouched", 2, 4, DomainGeneral, 2, 4},
		{"safety has no timeline adjustment", 2, 4, DomainSafety, 2, 4},
		{"business clamp at zero", 0, 1, DomainBusiness, 0, 0},
		{"healthcare clamp at max", 9, 10, DomainHealthcare, 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := adjustBand(tt.start, tt.end, tt.domain, maxIndex)
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("adjustBand(%d, %d, %q) = (%d, %d), want (%d, %d)",
					tt.start, tt.end, tt.domain, start, end, tt.wantStart, tt.wantEnd)
			}
			if start < 0 || end > maxIndex || start > end {
				t.Errorf("adjusted band (%d, %d) out of bounds", start, end)
			}
		})
	}
}
