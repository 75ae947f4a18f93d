package middleware

import (
	"net/http"
	"strings"

	"github.com/benvon/routecors/internal/cors"
	logpkg "github.com/benvon/routecors/internal/logger"
	"github.com/benvon/routecors/internal/telemetry"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// PipelineSource returns the CORS pipeline to apply to the current request.
type PipelineSource interface {
	Pipeline() *cors.Pipeline
}

type staticSource struct {
	p *cors.Pipeline
}

func (s staticSource) Pipeline() *cors.Pipeline { return s.p }

// StaticPipeline returns a PipelineSource that always yields the pipeline for cfg.
func StaticPipeline(cfg *cors.Config) PipelineSource {
	return staticSource{p: cors.NewPipeline(cfg)}
}

// CORS creates CORS middleware for a gorilla/mux router. It must be installed with
// Router.Use so that the matched route is known when it runs.
// Preflight requests that receive CORS headers end with 204 and never reach next.
func CORS(source PipelineSource, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := &routeProvider{r: r}
			term := &responseTerminator{w: w}

			d := source.Pipeline().Process(r.Method, route, headerProvider(r.Header), w.Header(), term)

			telemetry.AnnotateDecision(r.Context(), route.id, d)
			if d.Allowed {
				logger.Debug("cors_decision",
					zap.String("method", r.Method),
					zap.String("route", logpkg.SanitizeRoute(route.id)),
					zap.String("origin", logpkg.SanitizeOrigin(d.Origin)),
					zap.Bool("preflight", d.Terminate),
				)
			}

			if term.terminated {
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RouteID returns the controllerID/actionID of the matched mux route. It prefers the
// {controller} and {action} path variables, then the route name, then the path template.
func RouteID(r *http.Request) string {
	vars := mux.Vars(r)
	if c, a := vars["controller"], vars["action"]; c != "" && a != "" {
		return c + "/" + a
	}
	route := mux.CurrentRoute(r)
	if route == nil {
		return ""
	}
	if name := route.GetName(); name != "" {
		return name
	}
	if tpl, err := route.GetPathTemplate(); err == nil {
		return strings.Trim(tpl, "/")
	}
	return ""
}

// routeProvider resolves the route id lazily and remembers it for logging.
type routeProvider struct {
	r  *http.Request
	id string
}

func (p *routeProvider) CurrentRoute() string {
	p.id = RouteID(p.r)
	return p.id
}

type headerProvider http.Header

func (h headerProvider) Header(name string) (string, bool) {
	values := http.Header(h).Values(name)
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}

type responseTerminator struct {
	w          http.ResponseWriter
	terminated bool
}

func (t *responseTerminator) Terminate() {
	t.w.WriteHeader(http.StatusNoContent)
	t.terminated = true
}
