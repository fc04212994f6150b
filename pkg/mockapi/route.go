// Package mockapi provides the request-interception layer: an ordered
// route table that synthesizes HTTP responses from an in-memory record
// set instead of contacting a real endpoint.
//
// The router has two faces. As an http.RoundTripper it is injected into
// an http.Client so outbound calls never leave the process; unmatched
// requests either pass through to a real transport or, in strict mode,
// fail hard. As an http.Handler it serves the same routes over real
// HTTP for demos.
package mockapi

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
)

// Request is the matched view of an intercepted HTTP request handed to
// a route handler.
type Request struct {
	// Method is the HTTP method.
	Method string
	// Path is the URL path that matched.
	Path string
	// Params holds values captured by :name template segments.
	Params map[string]string
	// Query holds the parsed query string.
	Query url.Values
	// Body is the raw request body; empty for bodyless requests.
	Body []byte
}

// Response is a synthesized HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// HandlerFunc produces a response for a matched request. Handlers never
// return errors; failures are ordinary responses with error statuses.
type HandlerFunc func(*Request) *Response

// Route is a single interception rule: exact method match plus a path
// template. Templates support :name parameter segments, e.g.
// "/users/:id".
type Route struct {
	Method  string
	Path    string
	Handler HandlerFunc
}

// JSON builds a response with an application/json body. Marshal failure
// is a programming error in a fixed handler set and panics.
func JSON(status int, v any) *Response {
	body, err := json.Marshal(v)
	if err != nil {
		panic("mockapi: unmarshalable response payload: " + err.Error())
	}
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	return &Response{StatusCode: status, Header: h, Body: body}
}

// Empty builds a bodyless response.
func Empty(status int) *Response {
	return &Response{StatusCode: status, Header: http.Header{}}
}

// ErrorResponse is the JSON error payload for synthesized failures.
type ErrorResponse struct {
	Error string `json:"error"`
	ID    string `json:"id,omitempty"`
}

// matchPath checks path against a :name template, segment by segment.
// Returns captured params and whether it matched. A template matches
// only paths with the same number of segments.
func matchPath(pattern, path string) (map[string]string, bool) {
	patternParts := strings.Split(strings.Trim(pattern, "/"), "/")
	pathParts := strings.Split(strings.Trim(path, "/"), "/")

	if len(patternParts) != len(pathParts) {
		return nil, false
	}

	var params map[string]string
	for i, part := range patternParts {
		if strings.HasPrefix(part, ":") {
			if pathParts[i] == "" {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string)
			}
			params[part[1:]] = pathParts[i]
			continue
		}
		if part != pathParts[i] {
			return nil, false
		}
	}

	return params, true
}
