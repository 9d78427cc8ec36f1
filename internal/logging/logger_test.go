package logging

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerWithWriter(&buf, true)

	log.WithFields(map[string]any{"user_id": "u-1"}).Info("hello", "k", "v")

	out := buf.String()
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, "msg=hello")
	assert.Contains(t, out, "user_id=u-1")
	assert.Contains(t, out, "k=v")
}

func TestLogger_ProductionIsJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerWithWriter(&buf, false)

	log.Debug("hidden")
	log.Info("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.HasPrefix(out, "{"), "expected JSON output, got %q", out)
}

func TestGetLoggerFromContext(t *testing.T) {
	log := Nop()
	ctx := WithLogger(context.Background(), log)

	assert.Same(t, log, GetLoggerFromContext(ctx))
	assert.NotNil(t, GetLoggerFromContext(context.Background()))
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerWithWriter(&buf, true)

	var fromCtx *Logger
	h := middleware.RequestID(RequestLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx = GetLoggerFromContext(r.Context())
		w.WriteHeader(http.StatusNotFound)
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/me", nil))

	require.NotNil(t, fromCtx)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	out := buf.String()
	assert.Contains(t, out, "request completed")
	assert.Contains(t, out, "status=404")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "path=/users/me")
}

func TestRequestLogger_RecordsBytesAndRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerWithWriter(&buf, false)

	h := middleware.RequestID(RequestLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("hello"))
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/login", nil))

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	out := buf.String()
	assert.Contains(t, out, `"status":200`)
	assert.Contains(t, out, `"bytes":5`)
	assert.Contains(t, out, `"level":"INFO"`)
}

func TestRequestLogger_QuietPaths(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerWithWriter(&buf, false)

	h := RequestLogger(log, "/health")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Empty(t, buf.String(), "prod logger drops debug lines")

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/users/me", nil))
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
}
