package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"moviesense/internal/catalog"
	"moviesense/internal/detailcache"
	"moviesense/internal/params"

	"github.com/go-chi/chi/v5"
)

type searchMoviesResponse struct {
	Results    []catalog.SearchItem `json:"results"`
	Pagination params.Pagination    `json:"pagination"`
}

// searchMoviesHandler godoc
//
//	@Summary		Searches the movie catalog
//	@Description	Proxies a free-text search to the external catalog, one page of ten results at a time
//	@Tags			movies
//	@Produce		json
//	@Param			s		query		string	true	"Search term"
//	@Param			page	query		int		false	"Page number, starting at 1"
//	@Success		200		{object}	searchMoviesResponse
//	@Failure		400		{object}	error	"Missing search term"
//	@Failure		502		{object}	error	"Catalog unreachable"
//	@Security		ApiKeyAuth
//	@Router			/movies [get]
func (app *application) searchMoviesHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("s")
	if query == "" {
		app.badRequestResponse(w, r, errors.New("missing search term"))
		return
	}
	page := params.ParsePage(r.URL.Query())

	result, err := app.catalog.Search(r.Context(), query, page)
	if err != nil {
		// "Movie not found!" from upstream is an empty result, not a fault.
		if errors.Is(err, catalog.ErrNotFound) {
			resp := searchMoviesResponse{
				Results:    []catalog.SearchItem{},
				Pagination: params.NewPagination(page, 0),
			}
			app.jsonResponse(w, http.StatusOK, resp)
			return
		}
		app.badGatewayResponse(w, r, err)
		return
	}

	resp := searchMoviesResponse{
		Results:    result.Items,
		Pagination: params.NewPagination(page, result.TotalResults),
	}
	if err := app.jsonResponse(w, http.StatusOK, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}

// movieDetailsHandler godoc
//
//	@Summary		Fetches the detail view for one movie
//	@Description	Catalog metadata joined with stored reviews, cached per item with a 24h TTL
//	@Tags			movies
//	@Produce		json
//	@Param			imdbID	path		string	true	"IMDb id"
//	@Success		200		{object}	detailcache.DetailView
//	@Failure		404		{object}	error	"Unknown IMDb id"
//	@Failure		502		{object}	error	"Catalog unreachable"
//	@Security		ApiKeyAuth
//	@Router			/movies/{imdbID} [get]
func (app *application) movieDetailsHandler(w http.ResponseWriter, r *http.Request) {
	imdbID := chi.URLParam(r, "imdbID")

	view, err := app.detailCache.GetOrPopulate(r.Context(), imdbID, app.populateDetailView(imdbID))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.badGatewayResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, view); err != nil {
		app.internalServerError(w, r, err)
	}
}

// populateDetailView builds the enriched aggregate on a cache miss: catalog
// metadata first, then the join with stored reviews. A failed or not-found
// lookup aborts population so nothing negative is cached.
func (app *application) populateDetailView(imdbID string) detailcache.PopulateFunc {
	return func(ctx context.Context) (*detailcache.DetailView, error) {
		movie, err := app.catalog.GetByID(ctx, imdbID)
		if err != nil {
			return nil, err
		}

		reviews, err := app.store.Reviews.ListByItem(ctx, imdbID)
		if err != nil {
			return nil, err
		}

		return &detailcache.DetailView{
			Movie:       movie,
			Reviews:     reviews,
			PopulatedAt: time.Now(),
		}, nil
	}
}
