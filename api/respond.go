package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/garnizeh/skillswap/api/schemas"
	"github.com/garnizeh/skillswap/internal/apperr"
)

const maxJSONBody = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type idResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response", slog.Any("err", err))
	}
}

// statusFor maps an error kind to its HTTP status.
func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation, apperr.KindConflict:
		return http.StatusBadRequest
	case apperr.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindInvalidState:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError is the single place errors become HTTP responses. Internal causes are logged, never returned.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ae *apperr.Error
	if !errors.As(err, &ae) || ae.Kind == apperr.KindInternal {
		logger.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("request_id", RequestIDFrom(r.Context())),
			slog.Any("err", err),
		)
		writeJSON(w, errorResponse{Error: "internal server error"}, http.StatusInternalServerError)
		return
	}
	writeJSON(w, errorResponse{Error: ae.Message}, statusFor(ae.Kind))
}

// decodeBody reads the request body, validates it against the named schema and decodes it into dst.
// An empty body is treated as {}.
func decodeBody(w http.ResponseWriter, r *http.Request, v *schemas.Loader, schema string, dst any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err != nil {
		return apperr.Validation("invalid request body")
	}
	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte("{}")
	}
	if err := v.Validate(r.Context(), schema, body); err != nil {
		var ve *schemas.ValidationError
		if errors.As(err, &ve) {
			return apperr.Validation(ve.Error())
		}
		return apperr.Internal(err)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return apperr.Validation("invalid request body")
	}
	return nil
}

// pathID parses a positive integer path variable.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("invalid " + name)
	}
	return id, nil
}
