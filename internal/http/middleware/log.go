package middleware

import (
	"net/http"
	"time"

	"diary/internal/logging"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestLog logs one line per request once the response is written.
func RequestLog(log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			args := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", chimw.GetReqID(r.Context()),
			}
			if status >= http.StatusInternalServerError {
				log.Warn(r.Context(), "request failed", args...)
				return
			}
			log.Info(r.Context(), "request", args...)
		})
	}
}
