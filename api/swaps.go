package api

import (
	"net/http"

	"github.com/garnizeh/skillswap/api/schemas"
	"github.com/garnizeh/skillswap/internal/metrics"
	"github.com/garnizeh/skillswap/internal/swaps"
	"github.com/garnizeh/skillswap/pkg/models"
)

type SwapsHandler struct {
	svc *Services
}

func NewSwapsHandler(svc *Services) *SwapsHandler {
	return &SwapsHandler{svc: svc}
}

type swapCreateRequest struct {
	ProviderID   int64   `json:"provider_id"`
	SkillOffered string  `json:"skill_offered"`
	SkillWanted  string  `json:"skill_wanted"`
	Message      *string `json:"message"`
}

type swapStatusRequest struct {
	Status models.SwapStatus `json:"status"`
}

func (h *SwapsHandler) CreateSwap(w http.ResponseWriter, r *http.Request) {
	var req swapCreateRequest
	if err := decodeBody(w, r, h.svc.Schemas, schemas.SwapCreate, &req); err != nil {
		writeError(w, r, err)
		return
	}
	in := swaps.CreateInput{
		RequesterID:  principal(r),
		ProviderID:   req.ProviderID,
		SkillOffered: req.SkillOffered,
		SkillWanted:  req.SkillWanted,
	}
	if req.Message != nil {
		in.Message = *req.Message
	}

	id, err := h.svc.Swaps.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	metrics.RecordSwapEvent("created")
	writeJSON(w, idResponse{ID: id, Message: "Swap request created successfully"}, http.StatusOK)
}

func (h *SwapsHandler) ListSwaps(w http.ResponseWriter, r *http.Request) {
	lists, err := h.svc.Swaps.List(r.Context(), principal(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, lists, http.StatusOK)
}

func (h *SwapsHandler) GetSwap(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	s, err := h.svc.Swaps.Get(r.Context(), id, principal(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, s, http.StatusOK)
}

// UpdateStatus lets the provider accept or reject a pending request.
func (h *SwapsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req swapStatusRequest
	if err := decodeBody(w, r, h.svc.Schemas, schemas.SwapStatus, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Swaps.Transition(r.Context(), id, req.Status, principal(r)); err != nil {
		writeError(w, r, err)
		return
	}
	metrics.RecordSwapEvent(string(req.Status))
	writeJSON(w, messageResponse{Message: "Swap status updated successfully"}, http.StatusOK)
}

// DeleteSwap withdraws a pending request. Anything else is a successful no-op.
func (h *SwapsHandler) DeleteSwap(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	removed, err := h.svc.Swaps.Delete(r.Context(), id, principal(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if removed {
		metrics.RecordSwapEvent("deleted")
	}
	writeJSON(w, messageResponse{Message: "Swap request deleted successfully"}, http.StatusOK)
}
