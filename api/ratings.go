package api

import (
	"net/http"

	"github.com/garnizeh/skillswap/api/schemas"
	"github.com/garnizeh/skillswap/internal/metrics"
	"github.com/garnizeh/skillswap/internal/ratings"
)

type RatingsHandler struct {
	svc *Services
}

func NewRatingsHandler(svc *Services) *RatingsHandler {
	return &RatingsHandler{svc: svc}
}

type ratingRequest struct {
	SwapRequestID int64   `json:"swap_request_id"`
	RatedID       int64   `json:"rated_id"`
	Rating        int     `json:"rating"`
	Feedback      *string `json:"feedback"`
}

func (h *RatingsHandler) AddRating(w http.ResponseWriter, r *http.Request) {
	var req ratingRequest
	if err := decodeBody(w, r, h.svc.Schemas, schemas.Rating, &req); err != nil {
		writeError(w, r, err)
		return
	}
	in := ratings.AddInput{
		SwapRequestID: req.SwapRequestID,
		RaterID:       principal(r),
		RatedID:       req.RatedID,
		Score:         req.Rating,
	}
	if req.Feedback != nil {
		in.Feedback = *req.Feedback
	}

	id, err := h.svc.Ratings.Add(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	metrics.RecordRating(req.Rating)
	writeJSON(w, idResponse{ID: id, Message: "Rating added successfully"}, http.StatusOK)
}
