package cors

import (
	"net/textproto"
	"strings"
)

// Request header names the pipeline reads.
const (
	HeaderOrigin                      = "Origin"
	HeaderAccessControlRequestMethod  = "Access-Control-Request-Method"
	HeaderAccessControlRequestHeaders = "Access-Control-Request-Headers"
)

// Response header names the pipeline emits.
const (
	HeaderAllowOrigin  = "Access-Control-Allow-Origin"
	HeaderAllowMethods = "Access-Control-Allow-Methods"
	HeaderAllowHeaders = "Access-Control-Allow-Headers"
	HeaderVary         = "Vary"
)

var requestHeaderNames = []string{
	HeaderOrigin,
	HeaderAccessControlRequestMethod,
	HeaderAccessControlRequestHeaders,
}

// RequestHeaders holds the CORS-relevant request headers of one request.
// Keys are canonical header names and absent headers have no key.
type RequestHeaders map[string]string

// Get looks a header up by name, ignoring case on both the name and the stored keys.
func (h RequestHeaders) Get(name string) (string, bool) {
	if v, ok := h[textproto.CanonicalMIMEHeaderKey(name)]; ok {
		return v, true
	}
	for k, v := range h {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}

// CollectHeaders copies the CORS-relevant headers out of the host's header set.
func CollectHeaders(hp HeaderProvider) RequestHeaders {
	h := make(RequestHeaders, len(requestHeaderNames))
	for _, name := range requestHeaderNames {
		if v, ok := hp.Header(name); ok {
			h[name] = v
		}
	}
	return h
}
