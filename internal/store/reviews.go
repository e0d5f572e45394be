package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Review is immutable once created: the sentiment label and confidence are
// computed at submission time and never revisited. ImdbID is nil for reviews
// not tied to a catalog item.
type Review struct {
	ID         int64     `json:"id"`
	Content    string    `json:"content"`
	Sentiment  string    `json:"sentiment"`
	Confidence float64   `json:"confidence"`
	UserID     int64     `json:"user_id"`
	ImdbID     *string   `json:"imdb_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`

	// Joined field
	Username string `json:"username,omitempty"`
}

type ReviewsStore struct {
	db *pgxpool.Pool
}

func (s *ReviewsStore) Create(ctx context.Context, review *Review) error {
	query := `
	  INSERT INTO reviews (content, sentiment, confidence, user_id, imdb_id)
	  VALUES ($1, $2, $3, $4, $5)
	  RETURNING id, created_at
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return s.db.QueryRow(ctx, query,
		review.Content,
		review.Sentiment,
		review.Confidence,
		review.UserID,
		review.ImdbID,
	).Scan(&review.ID, &review.CreatedAt)
}

// Delete removes a review and returns the deleted row, so the caller can
// invalidate the item's cached detail view without a prior read.
func (s *ReviewsStore) Delete(ctx context.Context, reviewID int64) (*Review, error) {
	query := `
	  DELETE FROM reviews
	  WHERE id = $1
	  RETURNING id, content, sentiment, confidence, user_id, imdb_id, created_at
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var review Review
	err := s.db.QueryRow(ctx, query, reviewID).Scan(
		&review.ID,
		&review.Content,
		&review.Sentiment,
		&review.Confidence,
		&review.UserID,
		&review.ImdbID,
		&review.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (s *ReviewsStore) ListByUser(ctx context.Context, userID int64) ([]Review, error) {
	query := `
	  SELECT id, content, sentiment, confidence, user_id, imdb_id, created_at
	  FROM reviews
	  WHERE user_id = $1
	  ORDER BY id DESC
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReviews(rows, false)
}

// ListByItem returns the reviews for one catalog item joined with their
// authors, most recent first.
func (s *ReviewsStore) ListByItem(ctx context.Context, imdbID string) ([]Review, error) {
	query := `
	  SELECT r.id, r.content, r.sentiment, r.confidence, r.user_id, r.imdb_id, r.created_at, u.username
	  FROM reviews r
	  JOIN users u ON u.id = r.user_id
	  WHERE r.imdb_id = $1
	  ORDER BY r.id DESC
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, query, imdbID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReviews(rows, true)
}

// ListAll backs the moderation view: every review with its author.
func (s *ReviewsStore) ListAll(ctx context.Context) ([]Review, error) {
	query := `
	  SELECT r.id, r.content, r.sentiment, r.confidence, r.user_id, r.imdb_id, r.created_at, u.username
	  FROM reviews r
	  JOIN users u ON u.id = r.user_id
	  ORDER BY r.id DESC
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReviews(rows, true)
}

func scanReviews(rows pgx.Rows, withAuthor bool) ([]Review, error) {
	var reviews []Review
	for rows.Next() {
		var review Review
		dest := []any{
			&review.ID,
			&review.Content,
			&review.Sentiment,
			&review.Confidence,
			&review.UserID,
			&review.ImdbID,
			&review.CreatedAt,
		}
		if withAuthor {
			dest = append(dest, &review.Username)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}
