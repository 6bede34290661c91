package api

import "net/http"

const searchPerPage = 10

type UsersHandler struct {
	svc *Services
}

func NewUsersHandler(svc *Services) *UsersHandler {
	return &UsersHandler{svc: svc}
}

func (h *UsersHandler) Search(w http.ResponseWriter, r *http.Request) {
	page, perPage := pagination(r, searchPerPage)
	res, err := h.svc.Profiles.Search(r.Context(), r.URL.Query().Get("q"), page, perPage)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, res, http.StatusOK)
}
