package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"moviesense/internal/store"

	"github.com/go-chi/chi/v5"
)

type createReviewPayload struct {
	Content string  `json:"content" validate:"required,max=5000"`
	ImdbID  *string `json:"imdb_id,omitempty" validate:"omitempty,imdbid"`
}

type createReviewResponse struct {
	Status            string        `json:"status"`
	Sentiment         string        `json:"sentiment"`
	Prediction        int           `json:"prediction"`
	ConfidencePercent string        `json:"confidence_percent"`
	Review            *store.Review `json:"review"`
}

// createReviewHandler runs the predict-and-persist flow: classify the text,
// commit the labeled review, then invalidate the item's cached detail view.
// The commit is the point of no return; an invalidation fault is logged and
// the submission still reports success.
//
//	@Summary		Submits a review for sentiment analysis
//	@Description	Classifies the text, stores the review and returns the label with its confidence
//	@Tags			reviews
//	@Accept			json
//	@Produce		json
//	@Param			payload		body		createReviewPayload	true	"Review text and optional IMDb id"
//	@Param			redirect	query		bool				false	"Answer with a 303 to the movie detail route"
//	@Success		201			{object}	createReviewResponse
//	@Failure		400			{object}	error	"Bad request"
//	@Failure		500			{object}	error	"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/reviews [post]
func (app *application) createReviewHandler(w http.ResponseWriter, r *http.Request) {
	var payload createReviewPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := getUserFromContext(r)

	// Classified. Pure call, no I/O; confidence is the max posterior and is
	// never recomputed after this point.
	prediction := app.classifier.Classify(payload.Content)

	// Persisted.
	review := &store.Review{
		Content:    payload.Content,
		Sentiment:  string(prediction.Label),
		Confidence: prediction.Confidence,
		UserID:     user.ID,
		ImdbID:     payload.ImdbID,
	}
	if err := app.store.Reviews.Create(r.Context(), review); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	// Cache invalidated. The review is already durable, so a cache fault
	// must not fail the request; stale-but-available beats a lost review.
	if payload.ImdbID != nil {
		if err := app.detailCache.Invalidate(r.Context(), *payload.ImdbID); err != nil {
			app.logger.Warnw("cache invalidation failed, entry may serve stale reviews",
				"imdb_id", *payload.ImdbID, "review_id", review.ID, "error", err)
		}
	}

	app.logger.Infow("review scored and saved",
		"review_id", review.ID,
		"sentiment", review.Sentiment,
		"confidence", review.Confidence,
	)

	// Reported.
	if r.URL.Query().Get("redirect") == "true" && payload.ImdbID != nil {
		http.Redirect(w, r, "/v1/movies/"+*payload.ImdbID, http.StatusSeeOther)
		return
	}

	resp := createReviewResponse{
		Status:            "success",
		Sentiment:         review.Sentiment,
		Prediction:        prediction.Raw,
		ConfidencePercent: fmt.Sprintf("%.1f", prediction.Confidence*100),
		Review:            review,
	}
	if err := app.jsonResponse(w, http.StatusCreated, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}

// adminListReviewsHandler godoc
//
//	@Summary		Lists every review with its author
//	@Tags			admin
//	@Produce		json
//	@Success		200	{array}		store.Review
//	@Failure		403	{object}	error	"Not a moderator"
//	@Security		ApiKeyAuth
//	@Router			/admin/reviews [get]
func (app *application) adminListReviewsHandler(w http.ResponseWriter, r *http.Request) {
	reviews, err := app.store.Reviews.ListAll(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if reviews == nil {
		reviews = []store.Review{}
	}
	if err := app.jsonResponse(w, http.StatusOK, reviews); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteReviewHandler removes a review and, when it was tied to a catalog
// item, drops that item's cached detail view before answering, so the next
// read repopulates from current data.
//
//	@Summary		Deletes a review (moderation)
//	@Tags			admin
//	@Produce		json
//	@Param			reviewID	path		int	true	"Review id"
//	@Success		200			{object}	map[string]string
//	@Failure		404			{object}	error	"Unknown review id"
//	@Security		ApiKeyAuth
//	@Router			/admin/reviews/{reviewID} [delete]
func (app *application) deleteReviewHandler(w http.ResponseWriter, r *http.Request) {
	reviewID, err := strconv.ParseInt(chi.URLParam(r, "reviewID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid review ID"))
		return
	}

	deleted, err := app.store.Reviews.Delete(r.Context(), reviewID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if deleted.ImdbID != nil {
		if err := app.detailCache.Invalidate(r.Context(), *deleted.ImdbID); err != nil {
			app.logger.Warnw("cache invalidation failed, entry may serve a deleted review",
				"imdb_id", *deleted.ImdbID, "review_id", deleted.ID, "error", err)
		}
	}

	app.logger.Infow("review deleted", "review_id", deleted.ID, "moderator_id", getUserFromContext(r).ID)

	if err := app.jsonResponse(w, http.StatusOK, map[string]string{"message": "review deleted"}); err != nil {
		app.internalServerError(w, r, err)
	}
}
