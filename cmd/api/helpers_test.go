package main

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"

	"moviesense/internal/catalog"
	"moviesense/internal/detailcache"
	"moviesense/internal/sentiment"
	"moviesense/internal/store"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// fakeClassifier marks texts containing "wonderful" positive, everything
// else negative, with fixed confidences.
type fakeClassifier struct{}

func (fakeClassifier) Classify(text string) sentiment.Prediction {
	if strings.Contains(text, "wonderful") {
		return sentiment.Prediction{Label: sentiment.Positive, Confidence: 0.873, Raw: 1}
	}
	return sentiment.Prediction{Label: sentiment.Negative, Confidence: 0.75, Raw: 0}
}

// fakeCatalog serves movies from a map and fails on demand.
type fakeCatalog struct {
	movies map[string]*catalog.Movie
	err    error
}

func (f *fakeCatalog) Search(ctx context.Context, query string, page int) (*catalog.SearchResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	items := make([]catalog.SearchItem, 0, len(f.movies))
	for _, m := range f.movies {
		items = append(items, catalog.SearchItem{Title: m.Title, ImdbID: m.ImdbID})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ImdbID < items[j].ImdbID })
	if len(items) == 0 {
		return nil, catalog.ErrNotFound
	}
	return &catalog.SearchResult{Items: items, TotalResults: len(items)}, nil
}

func (f *fakeCatalog) GetByID(ctx context.Context, imdbID string) (*catalog.Movie, error) {
	if f.err != nil {
		return nil, f.err
	}
	movie, ok := f.movies[imdbID]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return movie, nil
}

// fakeReviewsStore keeps reviews in memory with the same ordering contract
// as the real store: most recent (highest id) first, authors joined.
type fakeReviewsStore struct {
	nextID  int64
	reviews []store.Review
	failing bool
}

var errStoreDown = errors.New("store unreachable")

func (f *fakeReviewsStore) Create(ctx context.Context, review *store.Review) error {
	if f.failing {
		return errStoreDown
	}
	f.nextID++
	review.ID = f.nextID
	review.CreatedAt = time.Now()
	f.reviews = append(f.reviews, *review)
	return nil
}

func (f *fakeReviewsStore) Delete(ctx context.Context, reviewID int64) (*store.Review, error) {
	for i, r := range f.reviews {
		if r.ID == reviewID {
			f.reviews = append(f.reviews[:i], f.reviews[i+1:]...)
			return &r, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeReviewsStore) list(match func(store.Review) bool) []store.Review {
	var out []store.Review
	for _, r := range f.reviews {
		if match(r) {
			r.Username = "gopher"
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (f *fakeReviewsStore) ListByUser(ctx context.Context, userID int64) ([]store.Review, error) {
	return f.list(func(r store.Review) bool { return r.UserID == userID }), nil
}

func (f *fakeReviewsStore) ListByItem(ctx context.Context, imdbID string) ([]store.Review, error) {
	return f.list(func(r store.Review) bool { return r.ImdbID != nil && *r.ImdbID == imdbID }), nil
}

func (f *fakeReviewsStore) ListAll(ctx context.Context) ([]store.Review, error) {
	return f.list(func(store.Review) bool { return true }), nil
}

type fakeUsersStore struct {
	users map[int64]*store.User
}

func (f *fakeUsersStore) Create(ctx context.Context, user *store.User) error { return nil }

func (f *fakeUsersStore) GetByID(ctx context.Context, id int64) (*store.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeUsersStore) GetByEmail(ctx context.Context, email string) (*store.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, store.ErrNotFound
}

// failingCache wraps a real cache but pretends invalidation is broken.
type failingCache struct {
	detailcache.Service
}

var errCacheDown = errors.New("cache backend down")

func (f *failingCache) Invalidate(ctx context.Context, itemID string) error {
	return errCacheDown
}

func newTestApplication(reviews *fakeReviewsStore, cat *fakeCatalog, cache detailcache.Service) *application {
	return &application{
		config:     config{env: "test"},
		logger:     zap.NewNop().Sugar(),
		classifier: fakeClassifier{},
		catalog:    cat,
		store: store.Storage{
			Users:   &fakeUsersStore{},
			Reviews: reviews,
		},
		detailCache: cache,
	}
}

func withUser(r *http.Request, user *store.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), userCtx, user))
}

// newTestRouter mounts the handlers that need chi URL params, without the
// token middleware; tests inject the user straight into the context.
func newTestRouter(app *application) http.Handler {
	r := chi.NewRouter()
	r.Route("/v1", func(r chi.Router) {
		r.Get("/movies", app.searchMoviesHandler)
		r.Get("/movies/{imdbID}", app.movieDetailsHandler)
		r.Get("/users/me/reviews", app.profileHandler)
		r.Route("/admin", func(r chi.Router) {
			r.Use(app.RequireAdmin)
			r.Get("/reviews", app.adminListReviewsHandler)
			r.Delete("/reviews/{reviewID}", app.deleteReviewHandler)
		})
	})
	return r
}
