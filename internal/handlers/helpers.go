package handlers

import (
	"encoding/json"
	"net/http"
	"time"
)

// maxErrorMessageLength bounds messages echoed back to clients.
const maxErrorMessageLength = 200

// envelope is the JSON body shape shared by every handler in this package.
type envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
	Message   string `json:"message,omitempty"`
	Timestamp string `json:"timestamp"`
}

func writeEnvelope(w http.ResponseWriter, status int, body envelope) {
	body.Timestamp = time.Now().UTC().Format(time.RFC3339)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent, so an encode failure cannot change the status.
	_ = json.NewEncoder(w).Encode(body)
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	writeEnvelope(w, status, envelope{Success: true, Data: data})
}

func respondJSONError(w http.ResponseWriter, status int, errorType, message string) {
	if len(message) > maxErrorMessageLength {
		message = message[:maxErrorMessageLength] + "..."
	}
	writeEnvelope(w, status, envelope{Error: errorType, Message: message})
}
