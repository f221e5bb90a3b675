package handlers

import (
	"encoding/json"
	"net/http"

	"accountd/internal/apperrors"
)

// Every response uses the same envelope; errors are distinguished from
// success only by statusCode >= 400 and carry no data field.
type envelope struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data,omitempty"`
	Message    string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{StatusCode: status, Data: data, Message: message})
}

func writeError(w http.ResponseWriter, err error) {
	appErr := apperrors.From(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.Status)
	_ = json.NewEncoder(w).Encode(envelope{StatusCode: appErr.Status, Message: appErr.Message})
}
