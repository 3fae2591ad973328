package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/geocoder89/standupbot/internal/app"
	"github.com/geocoder89/standupbot/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

func testConfig() config.Config {
	return config.Config{
		Env:                 "test",
		Storage:             "memory",
		CacheBackend:        "memory",
		JWTSecret:           "test-secret-key",
		JWTAccessTTLMinutes: 60,
		RateLimitPerMinute:  0,
		MaxBodyBytes:        1 << 20,
	}
}

func newTestApp(t *testing.T, cfg config.Config) *app.App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))

	a, err := app.New(context.Background(), cfg, logger, prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	t.Cleanup(a.Close)
	return a
}

func doRequest(t *testing.T, h http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			rdr = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			if err != nil {
				t.Fatalf("marshal body: %v", err)
			}
			rdr = bytes.NewReader(raw)
		}
	}

	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
}

func sessionToken(t *testing.T, h http.Handler, email string) string {
	t.Helper()

	w := doRequest(t, h, http.MethodPost, "/auth/session", map[string]string{"email": email}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("session for %s: %d %s", email, w.Code, w.Body.String())
	}

	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	decode(t, w, &resp)
	return resp.AccessToken
}
