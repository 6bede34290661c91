package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/garnizeh/skillswap/api/schemas"
	"github.com/garnizeh/skillswap/pkg/models"
)

type SkillsHandler struct {
	svc *Services
}

func NewSkillsHandler(svc *Services) *SkillsHandler {
	return &SkillsHandler{svc: svc}
}

type skillRequest struct {
	SkillName   string  `json:"skill_name"`
	Description *string `json:"description"`
}

// AddSkill handles POST /api/skills/{kind}.
func (h *SkillsHandler) AddSkill(w http.ResponseWriter, r *http.Request) {
	var req skillRequest
	if err := decodeBody(w, r, h.svc.Schemas, schemas.Skill, &req); err != nil {
		writeError(w, r, err)
		return
	}
	var description string
	if req.Description != nil {
		description = *req.Description
	}

	kind := models.SkillKind(mux.Vars(r)["kind"])
	id, err := h.svc.Skills.Add(r.Context(), kind, principal(r), req.SkillName, description)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, idResponse{ID: id, Message: "Skill added successfully"}, http.StatusOK)
}

// RemoveSkill deletes one of the caller's skills. Other users' skill ids are ignored.
func (h *SkillsHandler) RemoveSkill(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	kind := models.SkillKind(mux.Vars(r)["kind"])
	if err := h.svc.Skills.Remove(r.Context(), kind, principal(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, messageResponse{Message: "Skill removed successfully"}, http.StatusOK)
}
