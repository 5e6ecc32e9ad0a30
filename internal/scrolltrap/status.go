// Package scrolltrap provides the health check endpoint and server
// statistics: total/success/error request counters and uptime.
package scrolltrap

import (
	"net/http"
	"sync/atomic"
	"time"
)

// ServerStats tracks server statistics.
// All counters are atomic for thread-safe access.
type ServerStats struct {
	RequestsTotal   int64     `json:"requests_total"`
	RequestsSuccess int64     `json:"requests_success"`
	RequestsError   int64     `json:"requests_error"`
	StartTime       time.Time `json:"start_time"`
}

var serverStats = &ServerStats{
	StartTime: time.Now(),
}

// IncrementRequestsTotal increments the total request counter.
func IncrementRequestsTotal() {
	atomic.AddInt64(&serverStats.RequestsTotal, 1)
}

// IncrementRequestsSuccess increments the success request counter.
func IncrementRequestsSuccess() {
	atomic.AddInt64(&serverStats.RequestsSuccess, 1)
}

// IncrementRequestsError increments the error request counter.
func IncrementRequestsError() {
	atomic.AddInt64(&serverStats.RequestsError, 1)
}

// HandleHealth serves the /health endpoint with uptime and request stats.
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	AddCORSHeaders(w, r)
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":           "ok",
		"uptime_seconds":   int(time.Since(serverStats.StartTime).Seconds()),
		"requests_total":   atomic.LoadInt64(&serverStats.RequestsTotal),
		"requests_success": atomic.LoadInt64(&serverStats.RequestsSuccess),
		"requests_error":   atomic.LoadInt64(&serverStats.RequestsError),
	})
}
