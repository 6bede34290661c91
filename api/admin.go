package api

import (
	"net/http"

	"github.com/garnizeh/skillswap/api/schemas"
)

const adminPerPage = 20

type AdminHandler struct {
	svc *Services
}

func NewAdminHandler(svc *Services) *AdminHandler {
	return &AdminHandler{svc: svc}
}

type banRequest struct {
	IsBanned *bool `json:"is_banned"`
}

type adminFlagRequest struct {
	IsAdmin bool `json:"is_admin"`
}

type postMessageRequest struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, perPage := pagination(r, adminPerPage)
	res, err := h.svc.Admin.ListUsers(r.Context(), page, perPage)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, res, http.StatusOK)
}

// BanUser sets the ban flag; a missing is_banned means ban.
func (h *AdminHandler) BanUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req banRequest
	if err := decodeBody(w, r, h.svc.Schemas, schemas.Ban, &req); err != nil {
		writeError(w, r, err)
		return
	}
	banned := true
	if req.IsBanned != nil {
		banned = *req.IsBanned
	}
	if err := h.svc.Admin.SetBanned(r.Context(), id, banned); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, messageResponse{Message: "User ban status updated successfully"}, http.StatusOK)
}

func (h *AdminHandler) SetAdmin(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req adminFlagRequest
	if err := decodeBody(w, r, h.svc.Schemas, schemas.AdminFlag, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Admin.SetAdmin(r.Context(), id, req.IsAdmin); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, messageResponse{Message: "User admin status updated successfully"}, http.StatusOK)
}

func (h *AdminHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	var req postMessageRequest
	if err := decodeBody(w, r, h.svc.Schemas, schemas.Message, &req); err != nil {
		writeError(w, r, err)
		return
	}
	id, err := h.svc.Admin.PostMessage(r.Context(), req.Title, req.Message)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, idResponse{ID: id, Message: "Message posted successfully"}, http.StatusOK)
}

// ListMessages is open to every authenticated user.
func (h *AdminHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.svc.Admin.Messages(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, msgs, http.StatusOK)
}
