package handlers

import (
	"net/http"

	"github.com/benvon/routecors/internal/cors"
	"github.com/gorilla/mux"
)

// PipelineSource returns the CORS pipeline currently in effect.
type PipelineSource interface {
	Pipeline() *cors.Pipeline
}

// ActionHandler serves the demo controller/action endpoints and the CORS preview.
type ActionHandler struct {
	source PipelineSource
}

// NewActionHandler creates a new action handler
func NewActionHandler(source PipelineSource) *ActionHandler {
	return &ActionHandler{source: source}
}

// RegisterRoutes registers routes on the given router. Every route accepts OPTIONS so
// that preflight requests reach the CORS middleware with the real route matched.
func (h *ActionHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/cors/preview", h.Preview).Methods(http.MethodGet, http.MethodOptions).Name("cors/preview")
	r.HandleFunc("/{controller}/{action}", h.Action).Methods(http.MethodGet, http.MethodPost, http.MethodOptions)
}

// Action echoes the dispatched controller and action.
func (h *ActionHandler) Action(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	vars := mux.Vars(r)
	respondJSON(w, http.StatusOK, map[string]string{
		"controller": vars["controller"],
		"action":     vars["action"],
		"method":     r.Method,
	})
}

// PreviewResponse is the body of GET /cors/preview.
type PreviewResponse struct {
	Route        string `json:"route"`
	Origin       string `json:"origin"`
	Method       string `json:"method"`
	Allowed      bool   `json:"allowed"`
	AllowOrigin  string `json:"allow_origin,omitempty"`
	AllowMethods string `json:"allow_methods,omitempty"`
	AllowHeaders string `json:"allow_headers,omitempty"`
	Terminate    bool   `json:"terminate"`
}

// Preview evaluates the active CORS configuration for ?route=&origin=&method=
// without affecting the current response.
func (h *ActionHandler) Preview(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	q := r.URL.Query()
	route, origin := q.Get("route"), q.Get("origin")
	if route == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "route query parameter is required")
		return
	}
	method := q.Get("method")
	if method == "" {
		method = http.MethodGet
	}

	headers := cors.RequestHeaders{}
	if origin != "" {
		headers[cors.HeaderOrigin] = origin
	}
	d := cors.Evaluate(h.source.Pipeline().Config(), route, method, headers)

	respondJSON(w, http.StatusOK, PreviewResponse{
		Route:        route,
		Origin:       origin,
		Method:       method,
		Allowed:      d.Allowed,
		AllowOrigin:  d.Origin,
		AllowMethods: d.AllowMethods,
		AllowHeaders: d.AllowHeaders,
		Terminate:    d.Terminate,
	})
}
