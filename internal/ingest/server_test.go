package ingest

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, webDir string) (*Server, *Store) {
	t.Helper()
	store := newTestStore(t)
	srv := NewServer(store, webDir, slog.New(slog.NewTextHandler(io.Discard, nil)))
	srv.now = func() time.Time { return fixedNow }
	return srv, store
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestServer_Health(t *testing.T) {
	srv, _ := newTestServer(t, "")
	h := srv.Handler()

	for _, path := range []string{"/health", "/api/health"} {
		rec := do(t, h, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "healthy", body["status"])
		assert.Equal(t, "2025-01-02T03:04:05Z", body["timestamp"])
	}
}

func TestServer_Info(t *testing.T) {
	srv, _ := newTestServer(t, "")

	rec := do(t, srv.Handler(), http.MethodGet, "/api/info", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Performance Dashboard Server", body["name"])
	assert.Contains(t, body["endpoints"], "updateData")
}

func TestServer_UpdateAndRead(t *testing.T) {
	srv, _ := newTestServer(t, "")
	h := srv.Handler()

	rec := do(t, h, http.MethodGet, "/api/performance-data", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No data available yet", decode(t, rec)["error"])

	rec = do(t, h, http.MethodPost, "/api/update-performance",
		`{"members":[{"name":"Alice"}],"extra":"kept"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Data updated successfully", body["message"])
	assert.Equal(t, "2025-01-02T03:04:05.000Z", body["timestamp"])
	assert.EqualValues(t, 1, body["membersCount"])
	assert.NotEmpty(t, body["revision"])

	rec = do(t, h, http.MethodGet, "/api/performance-data", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	doc := decode(t, rec)
	assert.Equal(t, "2025-01-02T03:04:05.000Z", doc["lastUpdated"])
	assert.Equal(t, "kept", doc["extra"])
}

func TestServer_UpdateRejectsInvalidJSON(t *testing.T) {
	srv, store := newTestServer(t, "")
	h := srv.Handler()

	for _, body := range []string{`{not json`, `[1,2,3]`} {
		rec := do(t, h, http.MethodPost, "/api/update-performance", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Equal(t, false, decode(t, rec)["success"])
	}
	_, err := store.Read()
	assert.ErrorIs(t, err, ErrNoData)
}

func TestServer_LastUpdated(t *testing.T) {
	srv, _ := newTestServer(t, "")
	h := srv.Handler()

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/last-updated", "").Code)

	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/api/update-performance", `{}`).Code)

	rec := do(t, h, http.MethodGet, "/api/last-updated", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode(t, rec)["lastModified"])
}

func TestServer_CORS(t *testing.T) {
	srv, _ := newTestServer(t, "")

	rec := do(t, srv.Handler(), http.MethodOptions, "/api/update-performance", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestServer_RequestID(t *testing.T) {
	srv, _ := newTestServer(t, "")
	h := srv.Handler()

	rec := do(t, h, http.MethodGet, "/health", "")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
}

func TestServer_StaticFiles(t *testing.T) {
	web := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(web, "index.html"), []byte("<h1>dashboard</h1>"), 0o644))
	srv, _ := newTestServer(t, web)

	rec := do(t, srv.Handler(), http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "dashboard")
}

func TestServer_UnknownMethod(t *testing.T) {
	srv, _ := newTestServer(t, "")

	rec := do(t, srv.Handler(), http.MethodGet, "/api/update-performance", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestServer_Metrics(t *testing.T) {
	srv, _ := newTestServer(t, "")
	h := srv.Handler()

	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/api/update-performance", `{"members":[{"name":"A"},{"name":"B"}]}`).Code)
	require.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/update-performance", `[]`).Code)

	rec := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `perfdash_snapshot_updates_total{result="ok"} 1`)
	assert.Contains(t, body, `perfdash_snapshot_updates_total{result="invalid"} 1`)
	assert.Contains(t, body, "perfdash_snapshot_members 2")
	assert.Contains(t, body, `route="POST /api/update-performance"`)
}

func TestRecover(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := RequestID(Recover(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))

	rec := do(t, h, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal Server Error", decode(t, rec)["error"])
}
