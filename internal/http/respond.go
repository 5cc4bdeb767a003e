package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/mauv0809/clubhouse/internal/club"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// statusFor maps a domain error onto its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, club.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, club.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, club.ErrInvalid), errors.Is(err, club.ErrNotPending),
		errors.Is(err, club.ErrInvalidDecision), errors.Is(err, club.ErrConflict):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// writeError answers with {"detail": ...}. Only domain errors expose their message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	var ce *club.Error
	if status == http.StatusInternalServerError || !errors.As(err, &ce) {
		log.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeDetail(w, status, http.StatusText(status))
		return
	}
	log.Debug("Request refused", "method", r.Method, "path", r.URL.Path, "status", status, "detail", ce.Detail)
	writeDetail(w, status, ce.Detail)
}

// decodeJSON reads the request body into v. An empty body leaves v untouched.
func decodeJSON(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return club.Invalid("Malformed request body: %v", err)
}

func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, club.NotFound("Not found.")
	}
	return id, nil
}
