package middleware

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/benvon/routecors/internal/cors"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

func TestSecurityHeaders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		hsts     bool
		tls      bool
		wantHSTS bool
	}{
		{name: "plain http", hsts: true, tls: false, wantHSTS: false},
		{name: "tls with hsts", hsts: true, tls: true, wantHSTS: true},
		{name: "tls without hsts", hsts: false, tls: true, wantHSTS: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := SecurityHeaders(tt.hsts)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))
			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			if tt.tls {
				req.TLS = &tls.ConnectionState{}
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
				t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
			}
			if got := rec.Header().Get("Content-Security-Policy"); got != "default-src 'none'" {
				t.Errorf("Content-Security-Policy = %q", got)
			}
			if got := rec.Header().Get("Strict-Transport-Security") != ""; got != tt.wantHSTS {
				t.Errorf("HSTS present = %v, want %v", got, tt.wantHSTS)
			}
		})
	}
}

func TestSecurityHeadersOnTerminatedPreflight(t *testing.T) {
	t.Parallel()

	cfg, err := cors.NewConfig(cors.Settings{AllowedOrigin: "*"})
	if err != nil {
		t.Fatalf("NewConfig() error = %v", err)
	}
	r := mux.NewRouter()
	r.Use(SecurityHeaders(false))
	r.Use(CORS(StaticPipeline(cfg), zap.NewNop()))
	r.HandleFunc("/{controller}/{action}", func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run for a terminated preflight")
	}).Methods(http.MethodOptions)

	req := httptest.NewRequest(http.MethodOptions, "/site/index", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("Expected X-Frame-Options on preflight response")
	}
}
