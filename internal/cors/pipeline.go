package cors

import (
	"net/http"
	"strings"
)

// RouteProvider exposes the route the host dispatched the request to,
// in controllerID/actionID form.
type RouteProvider interface {
	CurrentRoute() string
}

// HeaderProvider exposes the incoming request headers by case-insensitive name.
type HeaderProvider interface {
	Header(name string) (string, bool)
}

// ResponseTerminator ends the response once CORS headers are written.
type ResponseTerminator interface {
	Terminate()
}

// Decision is the outcome of one evaluation. The zero value is NotApplicable.
type Decision struct {
	Allowed bool
	// Origin is echoed in Access-Control-Allow-Origin.
	Origin string
	// AllowMethods and AllowHeaders are emitted only when non-empty.
	AllowMethods string
	AllowHeaders string
	// Terminate is set for preflight (OPTIONS) requests.
	Terminate bool
}

// NotApplicable means no CORS header is emitted and the request proceeds unchanged.
var NotApplicable = Decision{}

// WriteHeaders sets the response headers for an allowed decision. It does nothing otherwise.
func (d Decision) WriteHeaders(h http.Header) {
	if !d.Allowed {
		return
	}
	h.Set(HeaderAllowOrigin, d.Origin)
	if d.AllowMethods != "" {
		h.Set(HeaderAllowMethods, d.AllowMethods)
	}
	if d.AllowHeaders != "" {
		h.Set(HeaderAllowHeaders, d.AllowHeaders)
	}
	h.Add(HeaderVary, HeaderOrigin)
}

// Evaluate decides whether the request gets CORS headers. It reads only its arguments.
func Evaluate(cfg *Config, currentRoute, method string, headers RequestHeaders) Decision {
	if cfg == nil || !cfg.enabled {
		return NotApplicable
	}
	if !IsRouteAllowed(cfg.routes, currentRoute) {
		return NotApplicable
	}
	return resolve(cfg, method, headers)
}

func resolve(cfg *Config, method string, headers RequestHeaders) Decision {
	origin, ok := ResolveOrigin(cfg.origins, headers)
	if !ok {
		return NotApplicable
	}
	return Decision{
		Allowed:      true,
		Origin:       origin,
		AllowMethods: cfg.allowMethods,
		AllowHeaders: cfg.allowHeaders,
		Terminate:    strings.EqualFold(method, http.MethodOptions),
	}
}

// Pipeline runs Evaluate against the host's capabilities and applies the result.
type Pipeline struct {
	cfg *Config
}

// NewPipeline creates a pipeline over cfg. A nil cfg behaves like Disabled().
func NewPipeline(cfg *Config) *Pipeline {
	if cfg == nil {
		cfg = Disabled()
	}
	return &Pipeline{cfg: cfg}
}

// Config returns the configuration the pipeline evaluates against.
func (p *Pipeline) Config() *Config { return p.cfg }

// Process evaluates one request. On an allowed decision the headers are written to out,
// and for preflight requests the terminator is invoked after that.
// The route is only resolved when CORS is enabled, and headers only when the route is allowed.
func (p *Pipeline) Process(method string, rp RouteProvider, hp HeaderProvider, out http.Header, t ResponseTerminator) Decision {
	if !p.cfg.enabled {
		return NotApplicable
	}
	route := rp.CurrentRoute()
	if !IsRouteAllowed(p.cfg.routes, route) {
		return NotApplicable
	}
	d := resolve(p.cfg, method, CollectHeaders(hp))
	if !d.Allowed {
		return d
	}
	d.WriteHeaders(out)
	if d.Terminate && t != nil {
		t.Terminate()
	}
	return d
}
