// Package debughttp exposes internal/debuggraph's current edge snapshot
// over HTTP, for a developer to curl or point a browser at while running
// the demo host app. Like the graph itself, this is purely observational.
package debughttp

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/novywave/reactivecore/internal/debuggraph"
)

// NewRouter builds a chi router serving the connection graph at
// GET /debug/graph.
func NewRouter(graph *debuggraph.Graph) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/debug/graph", func(w http.ResponseWriter, r *http.Request) {
		edges := graph.Snapshot()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(edges)
	})
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return r
}
