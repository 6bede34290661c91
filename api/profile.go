package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/garnizeh/skillswap/api/schemas"
	"github.com/garnizeh/skillswap/internal/apperr"
	"github.com/garnizeh/skillswap/internal/metrics"
	"github.com/garnizeh/skillswap/pkg/models"
)

// multipartOverhead leaves room for boundaries and headers around the file part.
const multipartOverhead = 1 << 20

type ProfileHandler struct {
	svc *Services
}

func NewProfileHandler(svc *Services) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

type filenameResponse struct {
	Filename string `json:"filename"`
}

func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Profiles.Profile(r.Context(), principal(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, p, http.StatusOK)
}

func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var upd models.ProfileUpdate
	if err := decodeBody(w, r, h.svc.Schemas, schemas.ProfileUpdate, &upd); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Profiles.Update(r.Context(), principal(r), upd); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, messageResponse{Message: "Profile updated successfully"}, http.StatusOK)
}

// UploadPhoto accepts a multipart "file" part and stores it as the caller's profile photo.
func (h *ProfileHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	limit := h.svc.Uploads.MaxBytes()
	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)
	if err := r.ParseMultipartForm(multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, apperr.Validation("file is too large"))
			return
		}
		writeError(w, r, apperr.Validation("No file provided"))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, apperr.Validation("No file provided"))
		return
	}
	defer file.Close()
	if header.Filename == "" {
		writeError(w, r, apperr.Validation("No file selected"))
		return
	}

	name, err := h.svc.Uploads.SaveProfilePhoto(r.Context(), principal(r), header.Filename, file)
	metrics.RecordUpload(err)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, filenameResponse{Filename: name}, http.StatusOK)
}

// ServeUpload streams a stored photo. Unknown or unsafe names get 404.
func (h *ProfileHandler) ServeUpload(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Uploads.Path(mux.Vars(r)["filename"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	http.ServeFile(w, r, p)
}
