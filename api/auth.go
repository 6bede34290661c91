package api

import (
	"net/http"

	"github.com/garnizeh/skillswap/api/schemas"
	"github.com/garnizeh/skillswap/internal/apperr"
	"github.com/garnizeh/skillswap/internal/credentials"
	"github.com/garnizeh/skillswap/internal/metrics"
	"github.com/garnizeh/skillswap/pkg/models"
)

type AuthHandler struct {
	svc *Services
}

// NewAuthHandler creates a new AuthHandler with required dependencies.
func NewAuthHandler(svc *Services) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type registerRequest struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     string  `json:"name"`
	Location *string `json:"location"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(w, r, h.svc.Schemas, schemas.Register, &req); err != nil {
		writeError(w, r, err)
		return
	}

	in := credentials.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	}
	if req.Location != nil {
		in.Location = *req.Location
	}

	ctx := r.Context()
	id, err := h.svc.Credentials.Register(ctx, in)
	metrics.RecordAuth("register", err)
	if err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.svc.Repo.GetUserByID(ctx, id)
	if err != nil {
		writeError(w, r, apperr.Internal(err))
		return
	}
	if user == nil {
		writeError(w, r, apperr.NotFound("user"))
		return
	}
	h.respondWithSession(w, r, user, http.StatusOK)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(w, r, h.svc.Schemas, schemas.Login, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.svc.Credentials.Authenticate(r.Context(), req.Username, req.Password)
	metrics.RecordAuth("login", err)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.respondWithSession(w, r, user, http.StatusOK)
}

func (h *AuthHandler) respondWithSession(w http.ResponseWriter, r *http.Request, user *models.User, status int) {
	token, err := h.svc.Credentials.IssueSession(user.ID)
	if err != nil {
		writeError(w, r, apperr.Internal(err))
		return
	}
	writeJSON(w, authResponse{Token: token, User: user}, status)
}
