package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDB struct{ err error }

func (f fakeDB) PingContext(context.Context) error { return f.err }

type fakeEngine bool

func (f fakeEngine) Ready() bool { return bool(f) }

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestRoot(t *testing.T) {
	rec := get(t, NewRouter(fakeDB{}, fakeEngine(true), quiet()), "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, WelcomeText, rec.Body.String())
}

func TestHealthz(t *testing.T) {
	rec := get(t, NewRouter(fakeDB{err: errors.New("down")}, fakeEngine(false), quiet()), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyz(t *testing.T) {
	tests := []struct {
		name    string
		db      fakeDB
		ready   bool
		code    int
		message string
	}{
		{name: "ready", ready: true, code: http.StatusOK},
		{name: "db down", db: fakeDB{err: errors.New("closed")}, ready: true, code: http.StatusServiceUnavailable, message: "database connection failed"},
		{name: "no catalog", ready: false, code: http.StatusServiceUnavailable, message: "catalog not loaded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, NewRouter(tt.db, fakeEngine(tt.ready), quiet()), "/readyz")
			assert.Equal(t, tt.code, rec.Code)

			var body HealthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.message, body.Message)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := NewRouter(fakeDB{}, fakeEngine(true), quiet())
	get(t, h, "/healthz")

	rec := get(t, h, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `path="/healthz"`)
}
