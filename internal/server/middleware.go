package server

import (
	"log/slog"
	"net/http"
	"time"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// requestIDAlphabet is the character set for generated request ids.
const requestIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestLogMiddleware assigns each request a short id, echoes it in the
// X-Request-Id response header, and logs method, path, status, and duration.
func RequestLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-Id")
		if reqID == "" {
			if id, err := nanoid.Generate(requestIDAlphabet, 12); err == nil {
				reqID = id
			}
		}
		w.Header().Set("X-Request-Id", reqID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		slog.Info("request",
			"request_id", reqID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
