// Package router is a small method-aware HTTP mux with named path
// parameters and structured request logging.
package router

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

type HandlerFunc func(http.ResponseWriter, *http.Request)

type route struct {
	method   string
	segments []string
	handler  HandlerFunc
}

type Router struct {
	routes []route
	logger *zap.Logger
}

func New(logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{logger: logger.Named("http")}
}

// register adds a route. Path segments starting with ':' capture the
// matching request segment as a named parameter.
func (r *Router) register(method, path string, handler HandlerFunc) {
	r.routes = append(r.routes, route{
		method:   method,
		segments: splitPath(path),
		handler:  handler,
	})
}

func (r *Router) GET(path string, handler HandlerFunc)  { r.register(http.MethodGet, path, handler) }
func (r *Router) POST(path string, handler HandlerFunc) { r.register(http.MethodPost, path, handler) }
func (r *Router) PUT(path string, handler HandlerFunc)  { r.register(http.MethodPut, path, handler) }
func (r *Router) DELETE(path string, handler HandlerFunc) {
	r.register(http.MethodDelete, path, handler)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	start := time.Now()
	lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

	segments := splitPath(req.URL.Path)
	handler, params, pathKnown := r.match(req.Method, segments)

	switch {
	case handler != nil:
		if len(params) > 0 {
			req = req.WithContext(context.WithValue(req.Context(), paramsKey{}, params))
		}
		handler(lrw, req)
	case pathKnown:
		http.Error(lrw, "Method Not Allowed", http.StatusMethodNotAllowed)
	default:
		http.Error(lrw, "Not Found", http.StatusNotFound)
	}

	r.logger.Info("request",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", lrw.statusCode),
		zap.Duration("duration", time.Since(start)),
	)
}

// match finds the handler for a method and path. pathKnown reports
// whether any route matched the path regardless of method.
func (r *Router) match(method string, segments []string) (HandlerFunc, map[string]string, bool) {
	pathKnown := false
	for _, rt := range r.routes {
		params, ok := matchSegments(rt.segments, segments)
		if !ok {
			continue
		}
		pathKnown = true
		if rt.method == method {
			return rt.handler, params, true
		}
	}
	return nil, nil, pathKnown
}

func matchSegments(pattern, actual []string) (map[string]string, bool) {
	if len(pattern) != len(actual) {
		return nil, false
	}
	var params map[string]string
	for i, seg := range pattern {
		if strings.HasPrefix(seg, ":") {
			if params == nil {
				params = map[string]string{}
			}
			params[seg[1:]] = actual[i]
			continue
		}
		if seg != actual[i] {
			return nil, false
		}
	}
	return params, true
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

type paramsKey struct{}

// Param returns the named path parameter captured for the request.
func Param(req *http.Request, name string) string {
	params, _ := req.Context().Value(paramsKey{}).(map[string]string)
	return params[name]
}

// Start blocks serving HTTP on addr.
func (r *Router) Start(addr string) error {
	r.logger.Info("server listening", zap.String("addr", addr))
	return http.ListenAndServe(addr, r)
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}
