package catalog

import (
	"context"
	"errors"
)

// ErrNotFound covers both an unknown IMDb id and a search with no matches.
// Transport and upstream faults are returned as ordinary wrapped errors;
// callers treat both cases as "no data" and only pick different messages.
var ErrNotFound = errors.New("no catalog data for that request")

// Service is the read-only lookup contract against the external catalog.
type Service interface {
	Search(ctx context.Context, query string, page int) (*SearchResult, error)
	GetByID(ctx context.Context, imdbID string) (*Movie, error)
}

// Movie is the full metadata payload for one catalog item.
type Movie struct {
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Rated      string `json:"Rated"`
	Released   string `json:"Released"`
	Runtime    string `json:"Runtime"`
	Genre      string `json:"Genre"`
	Director   string `json:"Director"`
	Actors     string `json:"Actors"`
	Plot       string `json:"Plot"`
	Poster     string `json:"Poster"`
	ImdbRating string `json:"imdbRating"`
	ImdbID     string `json:"imdbID"`
}

// SearchItem is one row of a search response.
type SearchItem struct {
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	ImdbID string `json:"imdbID"`
	Type   string `json:"Type"`
	Poster string `json:"Poster"`
}

// SearchResult carries one page of matches plus the upstream total count.
type SearchResult struct {
	Items        []SearchItem `json:"items"`
	TotalResults int          `json:"total_results"`
}
