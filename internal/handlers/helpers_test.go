package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected Content-Type 'application/json', got '%s'", ct)
	}
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	ts, ok := body["timestamp"].(string)
	if !ok {
		t.Fatal("Expected timestamp to be present")
	}
	if _, err := time.Parse(time.RFC3339, ts); err != nil {
		t.Errorf("Timestamp %q is not RFC3339: %v", ts, err)
	}
	return body
}

func TestRespondJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		data    any
		hasData bool
	}{
		{name: "object", status: http.StatusOK, data: map[string]string{"route": "site/index"}, hasData: true},
		{name: "nil data", status: http.StatusCreated, data: nil, hasData: false},
		{name: "array", status: http.StatusOK, data: []string{"a", "b"}, hasData: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			respondJSON(rec, tt.status, tt.data)

			if rec.Code != tt.status {
				t.Errorf("Expected status %d, got %d", tt.status, rec.Code)
			}
			body := decodeEnvelope(t, rec)
			if success, _ := body["success"].(bool); !success {
				t.Error("Expected success to be true")
			}
			if _, ok := body["data"]; ok != tt.hasData {
				t.Errorf("data present = %v, want %v", ok, tt.hasData)
			}
		})
	}
}

func TestRespondJSONError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		message   string
		wantLen   int
		truncated bool
	}{
		{name: "short message", message: "route query parameter is required", wantLen: 33},
		{name: "long message truncated", message: strings.Repeat("x", 300), wantLen: maxErrorMessageLength + 3, truncated: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			respondJSONError(rec, http.StatusBadRequest, "Bad Request", tt.message)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", rec.Code)
			}
			body := decodeEnvelope(t, rec)
			if success, _ := body["success"].(bool); success {
				t.Error("Expected success to be false")
			}
			if body["error"] != "Bad Request" {
				t.Errorf("Expected error 'Bad Request', got %v", body["error"])
			}
			msg, _ := body["message"].(string)
			if len(msg) != tt.wantLen {
				t.Errorf("message length = %d, want %d", len(msg), tt.wantLen)
			}
			if tt.truncated && !strings.HasSuffix(msg, "...") {
				t.Error("Expected truncated message to end with '...'")
			}
		})
	}
}
