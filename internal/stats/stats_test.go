package stats

import (
	"math"
	"testing"

	"moviesense/internal/store"
)

func reviewsWith(sentiments ...string) []store.Review {
	reviews := make([]store.Review, len(sentiments))
	for i, s := range sentiments {
		reviews[i] = store.Review{ID: int64(i + 1), Sentiment: s}
	}
	return reviews
}

func TestAggregateEmpty(t *testing.T) {
	got := Aggregate(nil)
	want := Stats{}
	if got != want {
		t.Errorf("Aggregate(nil) = %+v, want all zeroes", got)
	}
}

func TestAggregateMixed(t *testing.T) {
	got := Aggregate(reviewsWith("Positive", "Positive", "Negative"))

	if got.Total != 3 || got.Positive != 2 || got.Negative != 1 {
		t.Errorf("unexpected counts: %+v", got)
	}
	if math.Abs(got.PositivePercent-66.7) > 0.1 {
		t.Errorf("positive percent %f, want 66.7±0.1", got.PositivePercent)
	}
	if math.Abs(got.NegativePercent-33.3) > 0.1 {
		t.Errorf("negative percent %f, want 33.3±0.1", got.NegativePercent)
	}
}

func TestAggregateOrderInsensitive(t *testing.T) {
	a := Aggregate(reviewsWith("Positive", "Negative", "Negative"))
	b := Aggregate(reviewsWith("Negative", "Negative", "Positive"))
	if a != b {
		t.Errorf("order changed the result: %+v vs %+v", a, b)
	}
}

func TestAggregateDoesNotMutateInput(t *testing.T) {
	reviews := reviewsWith("Positive", "Negative")
	before := make([]store.Review, len(reviews))
	copy(before, reviews)

	Aggregate(reviews)

	for i := range reviews {
		if reviews[i] != before[i] {
			t.Fatalf("input review %d mutated", i)
		}
	}
}
