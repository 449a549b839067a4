package http

import (
	"log/slog"
	"net/http"

	"github.com/secmon-lab/idswatch/pkg/utils/clock"
	"github.com/secmon-lab/idswatch/pkg/utils/logging"
	"github.com/secmon-lab/idswatch/pkg/utils/request_id"
)

type statusResponseWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusResponseWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusResponseWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

func (w *statusResponseWriter) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// loggingMiddleware tags the request with an ID and writes one access log
// line per request. Headers and bodies are never logged since they carry
// bearer tokens and passwords.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, reqID := request_id.FromRequest(r)
		ctx = logging.WithAttrs(ctx, slog.String("request_id", reqID))
		logger := logging.From(ctx)
		w.Header().Set(request_id.Header, reqID)

		start := clock.Now(ctx)
		sw := &statusResponseWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r.WithContext(ctx))

		logger.Info("Access Log",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("query", r.URL.Query()),
			slog.String("remote", r.RemoteAddr),
			slog.Int("status", sw.Status()),
			slog.Duration("duration", clock.Since(ctx, start)),
		)
	})
}
