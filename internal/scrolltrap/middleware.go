// Package scrolltrap provides HTTP middleware helpers for the adapter
// server: request IDs for tracing and CORS headers so a browser-hosted
// rendering layer can talk to the local server.
package scrolltrap

import (
	"net/http"

	"github.com/google/uuid"
)

// AddRequestID adds a unique request ID to the response headers.
// If a request ID already exists in the request header, it is reused.
func AddRequestID(w http.ResponseWriter, r *http.Request) string {
	requestID := r.Header.Get("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	w.Header().Set("X-Request-ID", requestID)
	return requestID
}

// AddCORSHeaders adds CORS headers to enable cross-origin requests.
// Only adds headers if an Origin header is present in the request.
func AddCORSHeaders(w http.ResponseWriter, r *http.Request) {
	origin := r.Header.Get("Origin")
	if origin != "" {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Requested-With, X-Request-ID")
		w.Header().Set("Access-Control-Max-Age", "3600")
	}
}

// HandleOptions handles OPTIONS requests for CORS preflight.
func HandleOptions(w http.ResponseWriter, r *http.Request) {
	AddCORSHeaders(w, r)
	w.WriteHeader(http.StatusNoContent)
}
