package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogem/telemetry-log/config"
	"github.com/blogem/telemetry-log/controllers"
	"github.com/blogem/telemetry-log/database"
	"github.com/blogem/telemetry-log/models"
	"github.com/blogem/telemetry-log/repositories"
	"github.com/blogem/telemetry-log/services"
)

type testApp struct {
	handler   http.Handler
	storePath string
	staticDir string
}

func newTestApp(t *testing.T, tweak func(cfg *config.Config)) *testApp {
	t.Helper()

	dir := t.TempDir()
	cfg := &config.Config{
		Port:               "0",
		StorePath:          filepath.Join(dir, "memory.json"),
		StaticDir:          filepath.Join(dir, "public"),
		MaxBodyBytes:       1 << 20,
		HistoryLimit:       20,
		MaxHistoryLimit:    500,
		RateLimitBurst:     10,
		CORSAllowedOrigins: []string{"*"},
		RequestTimeout:     5 * time.Second,
		ShutdownTimeout:    time.Second,
	}
	if tweak != nil {
		tweak(cfg)
	}
	require.NoError(t, cfg.Validate())

	require.NoError(t, os.MkdirAll(cfg.StaticDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.StaticDir, "index.html"), []byte("<h1>dashboard</h1>"), 0o644))

	store, err := database.InitializeStore(cfg.StorePath)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srvs := services.NewServices(repositories.NewRepositories(store), logger)
	ctrl := controllers.NewControllers(srvs, controllers.Options{
		MaxBodyBytes:    cfg.MaxBodyBytes,
		HistoryLimit:    cfg.HistoryLimit,
		MaxHistoryLimit: cfg.MaxHistoryLimit,
		ServiceName:     serviceName,
	})

	handler, err := setupRouter(ctrl, cfg, logger)
	require.NoError(t, err)

	return &testApp{
		handler:   handler,
		storePath: cfg.StorePath,
		staticDir: cfg.StaticDir,
	}
}

func (a *testApp) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decodeStatus(t *testing.T, rec *httptest.ResponseRecorder) models.StatusResponse {
	t.Helper()

	var resp models.StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

func TestPostThenGetReturnsEntry(t *testing.T) {
	app := newTestApp(t, nil)

	rec := app.do(t, http.MethodPost, "/log-telemetry", `{"operator": "alpha", "pulse": 72}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeStatus(t, rec)
	assert.Equal(t, "success", resp.Status)
	assert.NotEmpty(t, resp.Message)

	rec = app.do(t, http.MethodGet, "/get-dashboard-data", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"operator": "alpha", "pulse": 72}`, rec.Body.String())
}

func TestGetReturnsOnlyLastEntry(t *testing.T) {
	app := newTestApp(t, nil)

	require.Equal(t, http.StatusOK, app.do(t, http.MethodPost, "/log-telemetry", `{"seq": 1}`).Code)
	require.Equal(t, http.StatusOK, app.do(t, http.MethodPost, "/log-telemetry", `{"seq": 2}`).Code)

	rec := app.do(t, http.MethodGet, "/get-dashboard-data", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"seq": 2}`, rec.Body.String())

	// store keeps both, in order, as an indented array
	content, err := os.ReadFile(app.storePath)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"seq": 1}, {"seq": 2}]`, string(content))
	assert.Contains(t, string(content), "\n    {")
}

func TestPostRejectsEmptyPayloads(t *testing.T) {
	app := newTestApp(t, nil)

	for _, body := range []string{"", "null", "{}", "[]"} {
		rec := app.do(t, http.MethodPost, "/log-telemetry", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)
		assert.Equal(t, "error", decodeStatus(t, rec).Status)
	}

	rec := app.do(t, http.MethodPost, "/log-telemetry", `{"broken":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// nothing reached the store
	rec = app.do(t, http.MethodGet, "/get-dashboard-data", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPostRejectsOversizedBody(t *testing.T) {
	app := newTestApp(t, func(cfg *config.Config) { cfg.MaxBodyBytes = 16 })

	rec := app.do(t, http.MethodPost, "/log-telemetry", `{"payload": "far more than sixteen bytes"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestGetWithoutStoreFile(t *testing.T) {
	app := newTestApp(t, nil)
	require.NoError(t, os.Remove(app.storePath))

	rec := app.do(t, http.MethodGet, "/get-dashboard-data", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decodeStatus(t, rec).Message, "no telemetry store found")
}

func TestUnreadableStoreIsServerError(t *testing.T) {
	app := newTestApp(t, nil)
	require.NoError(t, os.Remove(app.storePath))
	require.NoError(t, os.Mkdir(app.storePath, 0o755))

	for _, target := range []string{"/get-dashboard-data", "/api/data"} {
		rec := app.do(t, http.MethodGet, target, "")
		assert.Equal(t, http.StatusInternalServerError, rec.Code, target)
		resp := decodeStatus(t, rec)
		assert.Equal(t, "error", resp.Status, target)
		assert.Contains(t, resp.Message, "is a directory", target)
	}
}

func TestEntriesKeepHTMLCharacters(t *testing.T) {
	app := newTestApp(t, nil)

	require.Equal(t, http.StatusOK, app.do(t, http.MethodPost, "/log-telemetry", `{"html": "<b>&</b>"}`).Code)

	rec := app.do(t, http.MethodGet, "/get-dashboard-data", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"html":"<b>&</b>"}`, rec.Body.String())

	rec = app.do(t, http.MethodGet, "/api/data", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `[{"html":"<b>&</b>"}]`)

	content, err := os.ReadFile(app.storePath)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"html": "<b>&</b>"`)
}

func TestGetWithEmptyStore(t *testing.T) {
	app := newTestApp(t, nil)

	rec := app.do(t, http.MethodGet, "/get-dashboard-data", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decodeStatus(t, rec).Message, "telemetry store is empty")
}

func TestCorruptStoreIsTreatedAsEmpty(t *testing.T) {
	app := newTestApp(t, nil)
	require.NoError(t, os.WriteFile(app.storePath, []byte("{{ not json"), 0o644))

	rec := app.do(t, http.MethodGet, "/get-dashboard-data", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decodeStatus(t, rec).Message, "telemetry store is corrupt")

	rec = app.do(t, http.MethodGet, "/api/data", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"history": [], "vitals": {"uplink_status": "ACTIVE", "entry_count": 0}}`, rec.Body.String())

	rec = app.do(t, http.MethodPost, "/log-telemetry", `{"after": "corruption"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(t, http.MethodGet, "/get-dashboard-data", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"after": "corruption"}`, rec.Body.String())

	quarantined, err := filepath.Glob(app.storePath + ".corrupt-*")
	require.NoError(t, err)
	require.Len(t, quarantined, 1)
	content, err := os.ReadFile(quarantined[0])
	require.NoError(t, err)
	assert.Equal(t, "{{ not json", string(content))
}

func TestHistoryEndpoint(t *testing.T) {
	app := newTestApp(t, func(cfg *config.Config) { cfg.MaxHistoryLimit = 50 })

	for i := 1; i <= 3; i++ {
		require.Equal(t, http.StatusOK, app.do(t, http.MethodPost, "/log-telemetry", fmt.Sprintf(`{"seq": %d}`, i)).Code)
	}

	rec := app.do(t, http.MethodGet, "/api/data?limit=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"history": [{"seq": 2}, {"seq": 3}], "vitals": {"uplink_status": "ACTIVE", "entry_count": 3}}`, rec.Body.String())

	rec = app.do(t, http.MethodGet, "/api/data", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var history models.DashboardHistory
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	assert.Len(t, history.History, 3)

	// limits above the maximum are clamped, not rejected
	assert.Equal(t, http.StatusOK, app.do(t, http.MethodGet, "/api/data?limit=100000", "").Code)

	for _, bad := range []string{"0", "-1", "ten"} {
		assert.Equal(t, http.StatusBadRequest, app.do(t, http.MethodGet, "/api/data?limit="+bad, "").Code, "limit %q", bad)
	}
}

func TestConcurrentPostsAreAllKept(t *testing.T) {
	app := newTestApp(t, nil)

	const posts = 20
	var wg sync.WaitGroup
	for i := 0; i < posts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec := app.do(t, http.MethodPost, "/log-telemetry", fmt.Sprintf(`{"n": %d}`, i))
			assert.Equal(t, http.StatusOK, rec.Code)
		}(i)
	}
	wg.Wait()

	rec := app.do(t, http.MethodGet, fmt.Sprintf("/api/data?limit=%d", posts), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var history models.DashboardHistory
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	assert.Equal(t, posts, history.Vitals.EntryCount)
}

func TestRateLimitedIngest(t *testing.T) {
	app := newTestApp(t, func(cfg *config.Config) {
		cfg.RateLimitPerMinute = 1
		cfg.RateLimitBurst = 1
	})

	assert.Equal(t, http.StatusOK, app.do(t, http.MethodPost, "/log-telemetry", `{"a": 1}`).Code)
	assert.Equal(t, http.StatusTooManyRequests, app.do(t, http.MethodPost, "/log-telemetry", `{"a": 2}`).Code)

	// reads are not limited
	assert.Equal(t, http.StatusOK, app.do(t, http.MethodGet, "/get-dashboard-data", "").Code)
}

func TestRateLimitIgnoresForwardedHeadersFromUntrustedPeers(t *testing.T) {
	app := newTestApp(t, func(cfg *config.Config) {
		cfg.RateLimitPerMinute = 1
		cfg.RateLimitBurst = 1
	})

	accepted := 0
	for i := 0; i < 20; i++ {
		req := httptest.NewRequest(http.MethodPost, "/log-telemetry", strings.NewReader(fmt.Sprintf(`{"n": %d}`, i)))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = "198.51.100.4:40000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i))
		rec := httptest.NewRecorder()
		app.handler.ServeHTTP(rec, req)
		if rec.Code == http.StatusOK {
			accepted++
		}
	}
	assert.Equal(t, 1, accepted)
}

func TestRateLimitTrustedProxyForwardsClient(t *testing.T) {
	app := newTestApp(t, func(cfg *config.Config) {
		cfg.RateLimitPerMinute = 1
		cfg.RateLimitBurst = 1
		cfg.TrustedProxies = []string{"10.0.0.0/8"}
	})

	send := func(client string) int {
		req := httptest.NewRequest(http.MethodPost, "/log-telemetry", strings.NewReader(`{"a": 1}`))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = "10.0.0.1:8080"
		req.Header.Set("X-Forwarded-For", client)
		rec := httptest.NewRecorder()
		app.handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("203.0.113.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("203.0.113.1"))
	assert.Equal(t, http.StatusOK, send("203.0.113.2"))
}

func TestHealthAndMetrics(t *testing.T) {
	app := newTestApp(t, nil)

	rec := app.do(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "healthy", "service": "telemetry-log"}`, rec.Body.String())

	require.Equal(t, http.StatusOK, app.do(t, http.MethodPost, "/log-telemetry", `{"a": 1}`).Code)

	rec = app.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "telemetry_entries_ingested_total")
	assert.Contains(t, rec.Body.String(), `route="/log-telemetry"`)
}

func TestStaticDashboardPages(t *testing.T) {
	app := newTestApp(t, nil)

	rec := app.do(t, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>dashboard</h1>")

	assert.Equal(t, http.StatusNotFound, app.do(t, http.MethodGet, "/missing.html", "").Code)
}

func TestStaticDirectoriesAreNotListed(t *testing.T) {
	app := newTestApp(t, nil)
	require.NoError(t, os.MkdirAll(filepath.Join(app.staticDir, "assets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(app.staticDir, "assets", "app.js"), []byte("console.log(1)"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(app.staticDir, "history"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(app.staticDir, "history", "index.html"), []byte("<h1>history</h1>"), 0o644))

	rec := app.do(t, http.MethodGet, "/assets/", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotContains(t, rec.Body.String(), "app.js")

	assert.Equal(t, http.StatusOK, app.do(t, http.MethodGet, "/assets/app.js", "").Code)

	rec = app.do(t, http.MethodGet, "/history/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>history</h1>")
}

func TestCORSPreflight(t *testing.T) {
	app := newTestApp(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/log-telemetry", nil)
	req.Header.Set("Origin", "http://dashboard.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")

	rec := httptest.NewRecorder()
	app.handler.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
}
