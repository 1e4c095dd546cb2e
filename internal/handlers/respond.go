package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/jslopes/journal-backend/internal/apierror"
)

// Envelope is the standard response body: {status, message?, data?}.
// The read-entries endpoint is the one documented exception; it returns a
// bare array for compatibility with existing clients.
type Envelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, apiErr *apierror.APIError) {
	writeJSON(w, apiErr.Status, Envelope{Status: "error", Message: apiErr.Message})
}

// decodeJSON decodes a request body into dst. A field of the wrong JSON type
// is rejected with the field named in the error rather than coerced to zero.
func decodeJSON(r io.Reader, dst any) *apierror.APIError {
	if err := json.NewDecoder(r).Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return apierror.InvalidType(typeErr.Field)
		}
		return apierror.InvalidType("")
	}
	return nil
}
