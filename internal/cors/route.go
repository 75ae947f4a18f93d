package cors

import (
	"strconv"
	"strings"
)

// AnyValue is the sentinel that allows every origin or every route.
const AnyValue = "*"

// RouteSpec is either the allow-any sentinel or an ordered list of route patterns.
// A pattern ending in "*" matches every route sharing the text before the "*".
type RouteSpec struct {
	all      bool
	patterns []string
}

// AnyRoute returns the RouteSpec that allows every route.
func AnyRoute() RouteSpec {
	return RouteSpec{all: true}
}

// RouteList returns a RouteSpec over the given patterns.
func RouteList(patterns ...string) RouteSpec {
	return RouteSpec{patterns: append([]string(nil), patterns...)}
}

// IsAny reports whether the spec is the allow-any sentinel.
func (s RouteSpec) IsAny() bool { return s.all }

// Patterns returns a copy of the configured patterns.
func (s RouteSpec) Patterns() []string {
	return append([]string(nil), s.patterns...)
}

// String renders the spec the way it is written in configuration.
func (s RouteSpec) String() string {
	if s.all {
		return AnyValue
	}
	return strings.Join(s.patterns, ",")
}

// ParseRouteSpec converts a raw configuration value into a RouteSpec.
// Accepted values are the string "*" or a sequence of strings.
func ParseRouteSpec(v any) (RouteSpec, error) {
	switch raw := v.(type) {
	case string:
		if raw == AnyValue {
			return AnyRoute(), nil
		}
		return RouteSpec{}, &ConfigError{Field: "allowedRoutes", Value: v, Reason: `must be "*" or a list of routes`}
	case []string:
		return RouteList(raw...), nil
	case []any:
		patterns := make([]string, 0, len(raw))
		for i, item := range raw {
			s, ok := item.(string)
			if !ok {
				return RouteSpec{}, &ConfigError{
					Field:  "allowedRoutes",
					Value:  item,
					Reason: "entry " + strconv.Itoa(i) + " is not a string",
				}
			}
			patterns = append(patterns, s)
		}
		return RouteList(patterns...), nil
	default:
		return RouteSpec{}, &ConfigError{Field: "allowedRoutes", Value: v, Reason: `must be "*" or a list of routes`}
	}
}

// IsRouteAllowed reports whether currentRoute is eligible for CORS treatment.
// Routes are compared as given; no case folding or slash trimming happens here.
func IsRouteAllowed(spec RouteSpec, currentRoute string) bool {
	if spec.all {
		return true
	}
	for _, p := range spec.patterns {
		if p == currentRoute {
			return true
		}
	}
	for _, p := range spec.patterns {
		if !strings.HasSuffix(p, "*") {
			continue
		}
		prefix := p[:len(p)-1]
		if len(currentRoute) < len(prefix) {
			continue
		}
		if currentRoute[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}
