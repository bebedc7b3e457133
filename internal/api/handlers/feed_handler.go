package handlers

import (
	"net/http"

	"github.com/kliksy/kliksy-be/internal/services"
)

// FeedHandler serves the public feed.
type FeedHandler struct {
	memes services.MemeServiceProvider
}

// NewFeedHandler creates a new FeedHandler.
func NewFeedHandler(memes services.MemeServiceProvider) *FeedHandler {
	return &FeedHandler{memes: memes}
}

// List returns one page of public memes across all users, newest first.
func (h *FeedHandler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.memes.PublicFeed(r.Context(), queryInt(r, "page"), queryInt(r, "pageSize"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
