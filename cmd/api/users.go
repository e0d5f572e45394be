package main

import (
	"net/http"

	"moviesense/internal/stats"
	"moviesense/internal/store"
)

type profileResponse struct {
	Reviews []store.Review `json:"reviews"`
	Stats   stats.Stats    `json:"stats"`
}

// profileHandler godoc
//
//	@Summary		Shows the authenticated user's reviews and sentiment stats
//	@Tags			users
//	@Produce		json
//	@Success		200	{object}	profileResponse
//	@Failure		401	{object}	error	"Unauthorized"
//	@Security		ApiKeyAuth
//	@Router			/users/me/reviews [get]
func (app *application) profileHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	reviews, err := app.store.Reviews.ListByUser(r.Context(), user.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	resp := profileResponse{
		Reviews: reviews,
		Stats:   stats.Aggregate(reviews),
	}
	if resp.Reviews == nil {
		resp.Reviews = []store.Review{}
	}

	if err := app.jsonResponse(w, http.StatusOK, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}
