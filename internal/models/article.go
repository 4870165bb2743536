package models

// ArticleRef is a lightweight reference to an analyzed article. The
// forecasting engine never owns article data; markers carry references only.
type ArticleRef struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	URL    string `json:"url,omitempty"`
	Source string `json:"source,omitempty"`
}

// Bucket is a single labeled count within a histogram.
type Bucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Histogram is an ordered set of labeled counts. Ordering is fixed by the
// distribution source so that aggregation over a histogram is deterministic.
type Histogram []Bucket

// Total returns the sum of all counts in the histogram.
func (h Histogram) Total() int {
	total := 0
	for _, b := range h {
		total += b.Count
	}
	return total
}

// Count returns the count for the given label, or zero when absent.
func (h Histogram) Count(label string) int {
	for _, b := range h {
		if b.Label == label {
			return b.Count
		}
	}
	return 0
}

// CategoryDistribution bundles the per-category evidence used to derive a
// consensus band: a sentiment histogram and a time-to-impact histogram.
// Produced fresh per request and immutable once fetched.
type CategoryDistribution struct {
	Category     string    `json:"category"`
	Sentiment    Histogram `json:"sentiment"`
	TimeToImpact Histogram `json:"time_to_impact"`
	Total        int       `json:"total"`
}
