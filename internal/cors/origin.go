package cors

import (
	"net/url"
	"regexp"
	"strings"
)

// OriginSpec is either the allow-any sentinel or an ordered list of origin patterns.
type OriginSpec struct {
	all      bool
	patterns []originPattern
}

type originPattern struct {
	raw string
	// set only for patterns containing "*"
	bare   string
	suffix *regexp.Regexp
}

// AnyOrigin returns the OriginSpec that allows every origin.
func AnyOrigin() OriginSpec {
	return OriginSpec{all: true}
}

// ParseOriginSpec converts a raw configuration value into an OriginSpec.
// The value must be "*" or a comma-separated list of hostnames and "*suffix" patterns.
func ParseOriginSpec(v any) (OriginSpec, error) {
	raw, ok := v.(string)
	if !ok {
		return OriginSpec{}, &ConfigError{Field: "allowedOrigin", Value: v, Reason: "must be a string"}
	}
	if raw == AnyValue {
		return AnyOrigin(), nil
	}
	var spec OriginSpec
	for _, part := range strings.Split(raw, ",") {
		candidate := strings.ReplaceAll(part, " ", "")
		if candidate == "" {
			continue
		}
		spec.patterns = append(spec.patterns, compileOriginPattern(candidate))
	}
	if len(spec.patterns) == 0 {
		return OriginSpec{}, &ConfigError{Field: "allowedOrigin", Value: v, Reason: "must not be empty"}
	}
	return spec, nil
}

// MustParseOriginSpec is like ParseOriginSpec but panics on error.
func MustParseOriginSpec(v any) OriginSpec {
	spec, err := ParseOriginSpec(v)
	if err != nil {
		panic(err)
	}
	return spec
}

func compileOriginPattern(candidate string) originPattern {
	p := originPattern{raw: candidate}
	if !strings.Contains(candidate, "*") {
		return p
	}
	// "*.example.com" matches "example.com" itself and any host ending in ".example.com".
	if len(candidate) > 2 {
		p.bare = candidate[2:]
	}
	p.suffix = regexp.MustCompile(regexp.QuoteMeta(candidate[1:]) + "$")
	return p
}

// IsAny reports whether the spec is the allow-any sentinel.
func (s OriginSpec) IsAny() bool { return s.all }

// String renders the spec the way it is written in configuration.
func (s OriginSpec) String() string {
	if s.all {
		return AnyValue
	}
	parts := make([]string, len(s.patterns))
	for i, p := range s.patterns {
		parts[i] = p.raw
	}
	return strings.Join(parts, ",")
}

// ResolveOrigin returns the request's Origin header value when the origin is permitted.
// The second result is false when no header should be emitted.
//
// Patterns are tried in order. The first pattern without a "*" decides the outcome
// on its own, so a plain hostname listed before wildcard patterns hides them.
func ResolveOrigin(spec OriginSpec, headers RequestHeaders) (string, bool) {
	origin, ok := headers.Get(HeaderOrigin)
	if !ok {
		return "", false
	}
	host := originHost(origin)
	if host == "" {
		return "", false
	}
	if spec.all {
		return origin, true
	}
	for _, p := range spec.patterns {
		if p.suffix == nil {
			if host == p.raw {
				return origin, true
			}
			return "", false
		}
		if host == p.bare || p.suffix.MatchString(host) {
			return origin, true
		}
	}
	return "", false
}

func originHost(origin string) string {
	u, err := url.Parse(origin)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
