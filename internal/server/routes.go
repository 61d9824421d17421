package server

import (
	"encoding/json"
	"net/http"
	"strings"
)

// RouteDoc describes one registered API route.
type RouteDoc struct {
	Method      string `json:"method"`
	Pattern     string `json:"pattern"`
	Summary     string `json:"summary,omitempty"`
	ExampleBody string `json:"example_body,omitempty"`
}

// Router is a ServeMux that remembers what was registered on it, so the
// API can describe itself at runtime.
type Router struct {
	mux    *http.ServeMux
	routes []RouteDoc
}

func NewRouter() *Router {
	return &Router{mux: http.NewServeMux()}
}

// Handle registers h for "METHOD /pattern" and records its doc entry.
func (rt *Router) Handle(methodAndPattern, summary, exampleBody string, h http.HandlerFunc) {
	method, pattern, _ := strings.Cut(methodAndPattern, " ")
	rt.routes = append(rt.routes, RouteDoc{
		Method:      method,
		Pattern:     pattern,
		Summary:     summary,
		ExampleBody: exampleBody,
	})
	rt.mux.HandleFunc(methodAndPattern, h)
}

// HandleUndocumented registers h without a doc entry.
func (rt *Router) HandleUndocumented(methodAndPattern string, h http.HandlerFunc) {
	rt.mux.HandleFunc(methodAndPattern, h)
}

func (rt *Router) Routes() []RouteDoc {
	out := make([]RouteDoc, len(rt.routes))
	copy(out, rt.routes)
	return out
}

// Docs serves the registered route list.
// GET /api/routes
func (rt *Router) Docs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(rt.Routes())
}

func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rt.mux.ServeHTTP(w, r)
}
