package stats

import (
	"moviesense/internal/sentiment"
	"moviesense/internal/store"
)

// Stats summarizes one user's review sentiment. Percents are 0 when there
// are no reviews, not a division fault.
type Stats struct {
	Total           int     `json:"total"`
	Positive        int     `json:"positive"`
	Negative        int     `json:"negative"`
	PositivePercent float64 `json:"positive_percent"`
	NegativePercent float64 `json:"negative_percent"`
}

// Aggregate computes sentiment counts and percentages over a review
// collection. Pure: no I/O, inputs untouched, and the result depends only on
// the multiset of labels, not their order.
func Aggregate(reviews []store.Review) Stats {
	s := Stats{Total: len(reviews)}

	for _, r := range reviews {
		if r.Sentiment == string(sentiment.Positive) {
			s.Positive++
		}
	}
	s.Negative = s.Total - s.Positive

	if s.Total > 0 {
		s.PositivePercent = float64(s.Positive) / float64(s.Total) * 100
		s.NegativePercent = float64(s.Negative) / float64(s.Total) * 100
	}

	return s
}
