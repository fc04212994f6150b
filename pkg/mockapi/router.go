package mockapi

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/appsim/appsim/internal/id"
	"github.com/appsim/appsim/pkg/logging"
)

// UnmatchedError is returned by strict-mode RoundTrip when no route
// matches. In a test context an unmatched request is a hard failure.
type UnmatchedError struct {
	Method string
	URL    string
}

func (e *UnmatchedError) Error() string {
	return fmt.Sprintf("mockapi: no route matches %s %s", e.Method, e.URL)
}

// RouterOptions configures a Router.
type RouterOptions struct {
	// Strict makes unmatched requests fail with *UnmatchedError instead
	// of passing through. Use in tests.
	Strict bool
	// Next is the transport unmatched requests fall through to when not
	// strict. Defaults to http.DefaultTransport.
	Next http.RoundTripper
	// Logger defaults to a no-op logger.
	Logger *slog.Logger
}

// Router matches intercepted requests against an ordered route list,
// first match wins. The base list is fixed at construction; tests may
// append or override rules transiently.
type Router struct {
	mu     sync.RWMutex
	routes []Route

	strict bool
	next   http.RoundTripper
	log    *slog.Logger
}

// NewRouter creates a router over the given routes, evaluated in order.
func NewRouter(opts RouterOptions, routes ...Route) *Router {
	if opts.Next == nil {
		opts.Next = http.DefaultTransport
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	return &Router{
		routes: routes,
		strict: opts.Strict,
		next:   opts.Next,
		log:    opts.Logger,
	}
}

// Append adds routes after the existing ones.
func (r *Router) Append(routes ...Route) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, routes...)
}

// Override prepends a rule so it wins over any existing route for the
// same method and template. Intended for transient test overrides.
func (r *Router) Override(method, path string, h HandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append([]Route{{Method: method, Path: path, Handler: h}}, r.routes...)
}

// match finds the first route matching method and path.
func (r *Router) match(method, path string) (HandlerFunc, map[string]string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rt := range r.routes {
		if rt.Method != method {
			continue
		}
		if params, ok := matchPath(rt.Path, path); ok {
			return rt.Handler, params, true
		}
	}
	return nil, nil, false
}

// RoundTrip implements http.RoundTripper. Matched requests are answered
// in-process; unmatched requests pass through to the next transport, or
// fail in strict mode. Each handler runs on the caller's goroutine, so
// a slow route never blocks other in-flight requests.
func (r *Router) RoundTrip(req *http.Request) (*http.Response, error) {
	handler, params, ok := r.match(req.Method, req.URL.Path)
	if !ok {
		if r.strict {
			return nil, &UnmatchedError{Method: req.Method, URL: req.URL.String()}
		}
		r.log.Debug("request passed through", "method", req.Method, "url", req.URL.String())
		return r.next.RoundTrip(req)
	}

	var body []byte
	if req.Body != nil {
		var err error
		body, err = io.ReadAll(req.Body)
		_ = req.Body.Close()
		if err != nil {
			return nil, err
		}
	}

	rid := id.UUID()
	resp := handler(&Request{
		Method: req.Method,
		Path:   req.URL.Path,
		Params: params,
		Query:  req.URL.Query(),
		Body:   body,
	})
	r.log.Debug("mock route handled",
		"requestId", rid,
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
	)

	header := resp.Header
	if header == nil {
		header = http.Header{}
	}
	header = header.Clone()
	header.Set("X-Request-Id", rid)

	return &http.Response{
		Status:        fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
		StatusCode:    resp.StatusCode,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(resp.Body)),
		ContentLength: int64(len(resp.Body)),
		Request:       req,
	}, nil
}

// ServeHTTP implements http.Handler so the same route table can be
// served over real HTTP. Unmatched requests get a 404.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	handler, params, ok := r.match(req.Method, req.URL.Path)
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = writeJSON(w, ErrorResponse{Error: "no route matches " + req.Method + " " + req.URL.Path})
		return
	}

	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
	}

	resp := handler(&Request{
		Method: req.Method,
		Path:   req.URL.Path,
		Params: params,
		Query:  req.URL.Query(),
		Body:   body,
	})

	for k, vs := range resp.Header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.Header().Set("X-Request-Id", id.UUID())
	w.WriteHeader(resp.StatusCode)
	if len(resp.Body) > 0 {
		_, _ = w.Write(resp.Body)
	}
}

func writeJSON(w io.Writer, v any) error {
	data := JSON(http.StatusOK, v).Body
	_, err := w.Write(data)
	return err
}

var (
	_ http.RoundTripper = (*Router)(nil)
	_ http.Handler      = (*Router)(nil)
)
