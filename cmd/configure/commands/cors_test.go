package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/benvon/routecors/internal/cors"
)

func runCors(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewCorsCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCorsCheckInline(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		contains []string
	}{
		{
			name: "allowed preflight",
			args: []string{"check", "--route", "site/index", "--origin", "https://app.example.com", "--method", "OPTIONS",
				"--allowed-origin", "*.example.com", "--allowed-routes", "site/*", "--allow-methods", "GET, POST"},
			contains: []string{
				"Access-Control-Allow-Origin: https://app.example.com",
				"Access-Control-Allow-Methods: GET, POST",
				"Preflight",
			},
		},
		{
			name: "masked wildcard",
			args: []string{"check", "--route", "site/index", "--origin", "https://sub.example.com",
				"--allowed-origin", "plain.com,*.example.com"},
			contains: []string{"Not applicable"},
		},
		{
			name: "route not allowed",
			args: []string{"check", "--route", "admin/index", "--origin", "https://example.com",
				"--allowed-origin", "example.com", "--allowed-routes", "site/*"},
			contains: []string{"Not applicable"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out, err := runCors(t, tt.args...)
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("Expected output to contain %q, got:\n%s", want, out)
				}
			}
		})
	}
}

func TestCorsValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		yaml    string
		invalid bool
		want    string
	}{
		{name: "valid", yaml: "allowedOrigin: example.com\nallowedRoutes: [\"site/*\"]\n", want: "Valid."},
		{name: "disabled", yaml: "allowMethods: GET\n", want: "CORS stays disabled"},
		{name: "non-string origin", yaml: "allowedOrigin: 42\n", invalid: true},
		{name: "scalar routes", yaml: "allowedOrigin: example.com\nallowedRoutes: site/index\n", invalid: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), "cors.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0o600); err != nil {
				t.Fatalf("Failed to write file: %v", err)
			}
			out, err := runCors(t, "validate", path)
			if tt.invalid {
				if !cors.IsInvalidConfiguration(err) {
					t.Errorf("Expected InvalidConfiguration, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.want, out)
			}
		})
	}
}

func TestCorsCheckRequiresRoute(t *testing.T) {
	t.Parallel()

	if _, err := runCors(t, "check", "--allowed-origin", "*"); err == nil {
		t.Error("Expected error without --route")
	}
}
