package http_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/gt"
	server "github.com/secmon-lab/idswatch/pkg/controller/http"
	"github.com/secmon-lab/idswatch/pkg/utils/logging"
)

func TestPanicRecoveryMiddleware(t *testing.T) {
	r := chi.NewRouter()
	r.Use(server.PanicRecoveryMiddleware)
	r.Get("/panic", func(w http.ResponseWriter, r *http.Request) {
		panic("secret internal detail")
	})

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	gt.Value(t, rec.Code).Equal(http.StatusInternalServerError)
	gt.S(t, rec.Body.String()).
		Contains("internal server error").
		NotContains("secret internal detail")
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	r := chi.NewRouter()
	r.Use(func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := logging.New(&buf, slog.LevelDebug, logging.FormatJSON, false)
			h.ServeHTTP(w, r.WithContext(logging.With(r.Context(), logger)))
		})
	})
	r.Use(server.LoggingMiddleware)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest("GET", "/?page=2", nil)
	req.Header.Set("Authorization", "Bearer test_token")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	gt.S(t, buf.String()).Contains(`"method":"GET"`)
	gt.S(t, buf.String()).Contains(`"path":"/"`)
	gt.S(t, buf.String()).Contains(`"status":418`)
	gt.S(t, buf.String()).Contains(`"request_id":"`)
	gt.S(t, buf.String()).NotContains(`test_token`)
	gt.True(t, w.Header().Get("X-Request-Id") != "")

	var entry map[string]any
	gt.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	gt.Equal(t, entry["request_id"], any(w.Header().Get("X-Request-Id")))
}

func TestCORSMiddleware(t *testing.T) {
	called := false
	h := server.CORSMiddleware("*")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("preflight stops the chain", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/alerts", nil))
		gt.Equal(t, rec.Code, http.StatusNoContent)
		gt.False(t, called)
		gt.Equal(t, rec.Header().Get("Access-Control-Allow-Methods"), "GET,POST,PUT,DELETE,OPTIONS")
		gt.Equal(t, rec.Header().Get("Vary"), "")
	})

	t.Run("other methods pass through", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/alerts", nil))
		gt.Equal(t, rec.Code, http.StatusOK)
		gt.True(t, called)
		gt.Equal(t, rec.Header().Get("Access-Control-Allow-Origin"), "*")
	})
}

func TestQueryHelpers(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?severity=Alta,%20Media&severity=Baja&severity=&page=3&pageSize=x", nil)

	gt.A(t, server.QueryList(req, "severity")).Equal([]string{"Alta", "Media", "Baja"})
	gt.A(t, server.QueryList(req, "type")).Length(0)
	gt.Equal(t, server.QueryInt(req, "page"), 3)
	gt.Equal(t, server.QueryInt(req, "pageSize"), 0)
	gt.Equal(t, server.QueryInt(req, "missing"), 0)
}

func TestReportDays(t *testing.T) {
	testCases := []struct {
		input json.Number
		want  int
	}{
		{"", 0},
		{"14", 14},
		{"7.9", 7},
		{"-3", 0},
		{"abc", 0},
		{"NaN", 0},
		{"10000000", 3650},
		{"1e300", 3650},
	}
	for _, tc := range testCases {
		t.Run(string(tc.input), func(t *testing.T) {
			gt.Equal(t, server.ReportDays(tc.input), tc.want)
		})
	}
}

func TestClientMetadata(t *testing.T) {
	t.Run("desktop browser", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "10.1.2.3:54321"
		req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

		md := server.ClientMetadata(req)
		gt.Equal(t, md.IP, "10.1.2.3")
		gt.Equal(t, md.Browser, "Chrome")
		gt.Equal(t, md.OS, "Windows")
		gt.Equal(t, md.Device, "desktop")
	})

	t.Run("missing user agent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.Header.Del("User-Agent")
		req.RemoteAddr = "10.1.2.3"

		md := server.ClientMetadata(req)
		gt.Equal(t, md.IP, "10.1.2.3")
		gt.Equal(t, md.UserAgent, "desconocido")
		gt.Equal(t, md.Browser, "")
	})
}
