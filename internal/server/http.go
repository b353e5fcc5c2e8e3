package server

import (
	"encoding/json"
	"net/http"
)

// NewHTTPHandler returns an http.Handler with all routes registered.
func (s *EntityServer) NewHTTPHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /entities", s.handleCreateEntity)
	mux.HandleFunc("GET /entities", s.handleListEntities)
	mux.HandleFunc("GET /entities/{id}", s.handleGetEntity)
	mux.HandleFunc("PUT /entities/{id}", s.handleUpdateEntity)
	mux.HandleFunc("DELETE /entities/{id}", s.handleDeleteEntity)
	mux.HandleFunc("GET /health", s.handleHealth)
	return RequestLogMiddleware(mux)
}

// handleHealth handles GET /health. It runs a trivial query against the
// store; a failure reports the service as unavailable.
func (s *EntityServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
