package cors

import (
	"errors"
	"net/http"
	"testing"
)

type fakeRoute struct {
	route string
	calls int
}

func (f *fakeRoute) CurrentRoute() string {
	f.calls++
	return f.route
}

type fakeHeaders struct {
	values map[string]string
	calls  int
}

func (f *fakeHeaders) Header(name string) (string, bool) {
	f.calls++
	v, ok := f.values[name]
	return v, ok
}

type fakeTerminator struct {
	terminated bool
}

func (f *fakeTerminator) Terminate() { f.terminated = true }

func mustConfig(t *testing.T, s Settings) *Config {
	t.Helper()
	cfg, err := NewConfig(s)
	if err != nil {
		t.Fatalf("NewConfig() error = %v", err)
	}
	return cfg
}

func TestEvaluate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		settings Settings
		route    string
		method   string
		headers  RequestHeaders
		want     Decision
	}{
		{
			name:     "disabled without allowed origin",
			settings: Settings{AllowedRoutes: "*"},
			route:    "site/index",
			method:   http.MethodGet,
			headers:  originHeaders("https://example.com"),
			want:     NotApplicable,
		},
		{
			name:     "route not allowed",
			settings: Settings{AllowedOrigin: "example.com", AllowedRoutes: []string{"api/*"}},
			route:    "site/index",
			method:   http.MethodGet,
			headers:  originHeaders("https://example.com"),
			want:     NotApplicable,
		},
		{
			name:     "origin not matched",
			settings: Settings{AllowedOrigin: "example.com", AllowedRoutes: "*"},
			route:    "site/index",
			method:   http.MethodGet,
			headers:  originHeaders("https://evil.com"),
			want:     NotApplicable,
		},
		{
			name:     "allowed GET",
			settings: Settings{AllowedOrigin: "example.com", AllowedRoutes: "*"},
			route:    "site/index",
			method:   http.MethodGet,
			headers:  originHeaders("https://example.com"),
			want:     Decision{Allowed: true, Origin: "https://example.com"},
		},
		{
			name:     "allowed POST with overrides",
			settings: Settings{AllowedOrigin: "*.example.com", AllowedRoutes: []string{"api/*"}, AllowMethods: "GET, POST", AllowHeaders: "Content-Type"},
			route:    "api/create",
			method:   http.MethodPost,
			headers:  originHeaders("https://app.example.com"),
			want:     Decision{Allowed: true, Origin: "https://app.example.com", AllowMethods: "GET, POST", AllowHeaders: "Content-Type"},
		},
		{
			name:     "preflight terminates",
			settings: Settings{AllowedOrigin: "*", AllowedRoutes: "*"},
			route:    "site/index",
			method:   http.MethodOptions,
			headers:  originHeaders("https://example.com"),
			want:     Decision{Allowed: true, Origin: "https://example.com", Terminate: true},
		},
		{
			name:     "preflight from disallowed origin",
			settings: Settings{AllowedOrigin: "example.com"},
			route:    "site/index",
			method:   http.MethodOptions,
			headers:  originHeaders("https://evil.com"),
			want:     NotApplicable,
		},
		{
			name:     "routes default to any",
			settings: Settings{AllowedOrigin: "example.com"},
			route:    "",
			method:   http.MethodGet,
			headers:  originHeaders("https://example.com"),
			want:     Decision{Allowed: true, Origin: "https://example.com"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := mustConfig(t, tt.settings)
			got := Evaluate(cfg, tt.route, tt.method, tt.headers)
			if got != tt.want {
				t.Errorf("Evaluate() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestEvaluateIsIdempotent(t *testing.T) {
	t.Parallel()

	cfg := mustConfig(t, Settings{AllowedOrigin: "*.example.com", AllowedRoutes: []string{"site/*"}, AllowMethods: "GET"})
	headers := originHeaders("https://sub.example.com")

	first := Evaluate(cfg, "site/index", http.MethodOptions, headers)
	for i := 0; i < 10; i++ {
		if got := Evaluate(cfg, "site/index", http.MethodOptions, headers); got != first {
			t.Fatalf("Evaluate() call %d = %+v, want %+v", i, got, first)
		}
	}
}

func TestEvaluateNilConfig(t *testing.T) {
	t.Parallel()

	if got := Evaluate(nil, "site/index", http.MethodGet, originHeaders("https://example.com")); got != NotApplicable {
		t.Errorf("Evaluate(nil) = %+v, want NotApplicable", got)
	}
}

func TestPipelineProcess(t *testing.T) {
	t.Parallel()

	t.Run("preflight writes headers then terminates", func(t *testing.T) {
		t.Parallel()
		p := NewPipeline(mustConfig(t, Settings{AllowedOrigin: "example.com", AllowMethods: "GET, POST", AllowHeaders: "Authorization"}))
		rp := &fakeRoute{route: "site/index"}
		hp := &fakeHeaders{values: map[string]string{HeaderOrigin: "https://example.com"}}
		term := &fakeTerminator{}
		out := http.Header{}

		d := p.Process(http.MethodOptions, rp, hp, out, term)

		if !d.Allowed || !d.Terminate {
			t.Fatalf("Process() = %+v, want allowed preflight", d)
		}
		if !term.terminated {
			t.Error("Expected terminator to be invoked")
		}
		if got := out.Get(HeaderAllowOrigin); got != "https://example.com" {
			t.Errorf("Expected %s 'https://example.com', got '%s'", HeaderAllowOrigin, got)
		}
		if got := out.Get(HeaderAllowMethods); got != "GET, POST" {
			t.Errorf("Expected %s 'GET, POST', got '%s'", HeaderAllowMethods, got)
		}
		if got := out.Get(HeaderAllowHeaders); got != "Authorization" {
			t.Errorf("Expected %s 'Authorization', got '%s'", HeaderAllowHeaders, got)
		}
		if got := out.Get(HeaderVary); got != HeaderOrigin {
			t.Errorf("Expected Vary 'Origin', got '%s'", got)
		}
	})

	t.Run("simple request is not terminated", func(t *testing.T) {
		t.Parallel()
		p := NewPipeline(mustConfig(t, Settings{AllowedOrigin: "example.com"}))
		term := &fakeTerminator{}
		out := http.Header{}

		d := p.Process(http.MethodGet, &fakeRoute{route: "site/index"}, &fakeHeaders{values: map[string]string{HeaderOrigin: "https://example.com"}}, out, term)

		if !d.Allowed || d.Terminate {
			t.Fatalf("Process() = %+v, want allowed without termination", d)
		}
		if term.terminated {
			t.Error("Expected terminator not to be invoked")
		}
		if _, ok := out[HeaderAllowMethods]; ok {
			t.Error("Expected no Access-Control-Allow-Methods without override")
		}
		if _, ok := out[HeaderAllowHeaders]; ok {
			t.Error("Expected no Access-Control-Allow-Headers without override")
		}
	})

	t.Run("disallowed route skips header lookup", func(t *testing.T) {
		t.Parallel()
		p := NewPipeline(mustConfig(t, Settings{AllowedOrigin: "*", AllowedRoutes: []string{"api/*"}}))
		hp := &fakeHeaders{values: map[string]string{HeaderOrigin: "https://example.com"}}
		term := &fakeTerminator{}
		out := http.Header{}

		d := p.Process(http.MethodOptions, &fakeRoute{route: "site/index"}, hp, out, term)

		if d != NotApplicable {
			t.Errorf("Process() = %+v, want NotApplicable", d)
		}
		if hp.calls != 0 {
			t.Errorf("Expected no header lookups, got %d", hp.calls)
		}
		if len(out) != 0 || term.terminated {
			t.Error("Expected no headers and no termination")
		}
	})

	t.Run("disabled config skips route lookup", func(t *testing.T) {
		t.Parallel()
		p := NewPipeline(nil)
		rp := &fakeRoute{route: "site/index"}

		d := p.Process(http.MethodGet, rp, &fakeHeaders{}, http.Header{}, &fakeTerminator{})

		if d != NotApplicable {
			t.Errorf("Process() = %+v, want NotApplicable", d)
		}
		if rp.calls != 0 {
			t.Errorf("Expected no route lookups, got %d", rp.calls)
		}
	})

	t.Run("nil terminator is tolerated", func(t *testing.T) {
		t.Parallel()
		p := NewPipeline(mustConfig(t, Settings{AllowedOrigin: "*"}))
		d := p.Process(http.MethodOptions, &fakeRoute{}, &fakeHeaders{values: map[string]string{HeaderOrigin: "https://example.com"}}, http.Header{}, nil)
		if !d.Terminate {
			t.Errorf("Process() = %+v, want Terminate", d)
		}
	})
}

func TestNewConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		settings    Settings
		expectError bool
		wantField   string
		enabled     bool
	}{
		{name: "empty settings", settings: Settings{}, enabled: false},
		{name: "origin only", settings: Settings{AllowedOrigin: "example.com"}, enabled: true},
		{name: "full", settings: Settings{AllowedOrigin: "*", AllowedRoutes: []any{"site/*"}, AllowMethods: "GET"}, enabled: true},
		{name: "non-string origin", settings: Settings{AllowedOrigin: 12}, expectError: true, wantField: "allowedOrigin"},
		{name: "bare string routes", settings: Settings{AllowedOrigin: "*", AllowedRoutes: "site/index"}, expectError: true, wantField: "allowedRoutes"},
		{name: "map routes", settings: Settings{AllowedOrigin: "*", AllowedRoutes: map[string]string{}}, expectError: true, wantField: "allowedRoutes"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg, err := NewConfig(tt.settings)
			if tt.expectError {
				if !IsInvalidConfiguration(err) {
					t.Fatalf("Expected InvalidConfiguration, got %v", err)
				}
				var cfgErr *ConfigError
				if !errors.As(err, &cfgErr) {
					t.Fatalf("Expected *ConfigError, got %T", err)
				}
				if cfgErr.Field != tt.wantField {
					t.Errorf("Expected field %q, got %q", tt.wantField, cfgErr.Field)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if cfg.Enabled() != tt.enabled {
				t.Errorf("Enabled() = %v, want %v", cfg.Enabled(), tt.enabled)
			}
		})
	}
}
