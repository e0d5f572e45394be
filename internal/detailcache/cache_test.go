package detailcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"moviesense/internal/catalog"
	"moviesense/internal/store"
)

type fakeClock struct {
	current time.Time
}

func (c *fakeClock) now() time.Time { return c.current }

func (c *fakeClock) advance(d time.Duration) { c.current = c.current.Add(d) }

func viewFor(imdbID string, reviews ...store.Review) *DetailView {
	return &DetailView{
		Movie:   &catalog.Movie{ImdbID: imdbID, Title: "Some Movie"},
		Reviews: reviews,
	}
}

func countingPopulate(calls *int, view *DetailView) PopulateFunc {
	return func(ctx context.Context) (*DetailView, error) {
		*calls++
		return view, nil
	}
}

func TestGetOrPopulateCachesResult(t *testing.T) {
	clock := &fakeClock{current: time.Now()}
	c := NewWithClock(time.Hour, clock.now)

	calls := 0
	populate := countingPopulate(&calls, viewFor("tt0111161"))

	first, err := c.GetOrPopulate(context.Background(), "tt0111161", populate)
	if err != nil {
		t.Fatalf("GetOrPopulate: %v", err)
	}
	second, err := c.GetOrPopulate(context.Background(), "tt0111161", populate)
	if err != nil {
		t.Fatalf("GetOrPopulate: %v", err)
	}

	if calls != 1 {
		t.Errorf("expected one population, got %d", calls)
	}
	if first != second {
		t.Error("expected both reads to return the same cached view")
	}
}

func TestGetOrPopulateExpiresAfterTTL(t *testing.T) {
	clock := &fakeClock{current: time.Now()}
	c := NewWithClock(24*time.Hour, clock.now)

	calls := 0
	populate := countingPopulate(&calls, viewFor("tt0111161"))

	if _, err := c.GetOrPopulate(context.Background(), "tt0111161", populate); err != nil {
		t.Fatal(err)
	}

	clock.advance(23 * time.Hour)
	if _, err := c.GetOrPopulate(context.Background(), "tt0111161", populate); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("entry expired early: %d populations", calls)
	}

	clock.advance(2 * time.Hour)
	if _, err := c.GetOrPopulate(context.Background(), "tt0111161", populate); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("expected repopulation after TTL, got %d populations", calls)
	}
}

func TestInvalidateForcesRepopulation(t *testing.T) {
	c := New(time.Hour)

	calls := 0
	populate := countingPopulate(&calls, viewFor("tt0111161"))

	if _, err := c.GetOrPopulate(context.Background(), "tt0111161", populate); err != nil {
		t.Fatal(err)
	}
	if err := c.Invalidate(context.Background(), "tt0111161"); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if _, err := c.GetOrPopulate(context.Background(), "tt0111161", populate); err != nil {
		t.Fatal(err)
	}

	if calls != 2 {
		t.Errorf("expected a guaranteed miss after invalidation, got %d populations", calls)
	}
}

func TestInvalidateIsIdempotent(t *testing.T) {
	c := New(time.Hour)

	// Missing key is a no-op, twice in a row is the same as once.
	for i := 0; i < 2; i++ {
		if err := c.Invalidate(context.Background(), "tt0111161"); err != nil {
			t.Fatalf("Invalidate #%d: %v", i+1, err)
		}
	}
}

func TestPopulateErrorsAreNotCached(t *testing.T) {
	c := New(time.Hour)

	boom := errors.New("upstream unavailable")
	calls := 0
	failing := func(ctx context.Context) (*DetailView, error) {
		calls++
		return nil, boom
	}

	for i := 0; i < 3; i++ {
		if _, err := c.GetOrPopulate(context.Background(), "tt0111161", failing); !errors.Is(err, boom) {
			t.Fatalf("expected populate error, got %v", err)
		}
	}
	if calls != 3 {
		t.Errorf("errors must not populate the cache: %d calls", calls)
	}

	// A later successful populate works normally.
	ok := 0
	if _, err := c.GetOrPopulate(context.Background(), "tt0111161", countingPopulate(&ok, viewFor("tt0111161"))); err != nil {
		t.Fatal(err)
	}
	if ok != 1 {
		t.Errorf("expected a fresh population, got %d", ok)
	}
}

func TestInvalidationDuringPopulationWins(t *testing.T) {
	c := New(time.Hour)

	stale := viewFor("tt0111161")
	// The entry is invalidated while this population is in flight; its
	// result must be served once but never stored.
	if _, err := c.GetOrPopulate(context.Background(), "tt0111161", func(ctx context.Context) (*DetailView, error) {
		if err := c.Invalidate(ctx, "tt0111161"); err != nil {
			return nil, err
		}
		return stale, nil
	}); err != nil {
		t.Fatal(err)
	}

	calls := 0
	got, err := c.GetOrPopulate(context.Background(), "tt0111161", countingPopulate(&calls, viewFor("tt0111161")))
	if err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Error("the stale in-flight population must not have been cached")
	}
	if got == stale {
		t.Error("served the snapshot that lost to the invalidation")
	}
}

func TestSnapshotIsReplacedWhole(t *testing.T) {
	c := New(time.Hour)

	old := viewFor("tt0111161", store.Review{ID: 1, Sentiment: "Positive"})
	if _, err := c.GetOrPopulate(context.Background(), "tt0111161", func(ctx context.Context) (*DetailView, error) {
		return old, nil
	}); err != nil {
		t.Fatal(err)
	}

	if err := c.Invalidate(context.Background(), "tt0111161"); err != nil {
		t.Fatal(err)
	}

	fresh := viewFor("tt0111161", store.Review{ID: 1, Sentiment: "Positive"}, store.Review{ID: 2, Sentiment: "Negative"})
	got, err := c.GetOrPopulate(context.Background(), "tt0111161", func(ctx context.Context) (*DetailView, error) {
		return fresh, nil
	})
	if err != nil {
		t.Fatal(err)
	}

	if got != fresh {
		t.Error("expected the new snapshot, not a mix with the invalidated one")
	}
	if len(old.Reviews) != 1 {
		t.Error("population must not mutate a previously served snapshot")
	}
}
