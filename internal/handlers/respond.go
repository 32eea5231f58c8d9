package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"fixiBack/internal/models"
)

// Logger is the logging surface handlers need for unexpected failures.
type Logger interface {
	Errorf(format string, args ...interface{})
}

const maxJSONBody = 1 << 20

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, models.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrInvalidTransition):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status code and writes {"error": message}.
// Internal failures are logged and answered with a generic message.
func writeError(w http.ResponseWriter, log Logger, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError && log != nil {
		log.Errorf("%s %s: %v", r.Method, r.URL.Path, err)
	}
	writeJSON(w, status, map[string]string{"error": models.Message(err)})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return models.InvalidInput("invalid request body: %v", err)
	}
	return nil
}
