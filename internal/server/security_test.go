package server

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestAuthMiddleware(t *testing.T) {
	apiKey := "secret-key"
	detector := NewSuspiciousActivityDetector(DefaultDetectorConfig())
	handler := AuthMiddleware(apiKey, nil, detector)(okHandler)

	tests := []struct {
		name           string
		providedKey    string
		path           string
		expectedStatus int
	}{
		// CASE 1: Best Case
		{"Valid API Key", apiKey, "/api/v1/sessions", http.StatusOK},

		// CASE 4: Invalid Case
		{"Invalid API Key", "wrong-key", "/api/v1/sessions", http.StatusUnauthorized},
		{"Missing API Key", "", "/api/v1/sessions", http.StatusUnauthorized},

		// CASE 2: Edge Case
		{"Public Path - Healthz", "", "/healthz", http.StatusOK},
		{"Public Path - Metrics", "", "/metrics", http.StatusOK},
		{"Public Path - Version", "", "/version", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.providedKey != "" {
				req.Header.Set(HeaderAPIKey, tt.providedKey)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}

	detector.mu.Lock()
	defer detector.mu.Unlock()
	assert.Equal(t, 2, detector.failedAuthByIP["192.0.2.1"], "httptest requests come from 192.0.2.1")
}

func TestRateLimitMiddleware(t *testing.T) {
	cfg := DefaultDetectorConfig()
	cfg.MaxRequests = 10
	detector := NewSuspiciousActivityDetector(cfg)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	detector.now = func() time.Time { return now }
	detector.windowStart = now

	handler := RateLimitMiddleware(nil, detector)(okHandler)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/1", nil)
	req.RemoteAddr = "192.168.1.100:1234"

	for i := 0; i < cfg.MaxRequests; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i)
	}

	// CASE 3: Boundary Case
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"error":"Too Many Requests"}`, rec.Body.String())

	// a new window resets the budget
	now = now.Add(cfg.Window + time.Second)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestExtractIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	req.Header.Set(HeaderForwardedFor, "203.0.113.9, 198.51.100.7")

	assert.Equal(t, "10.0.0.1", extractIP(req, nil), "untrusted peer cannot spoof")
	assert.Equal(t, "198.51.100.7", extractIP(req, []string{"10.0.0.1"}))
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	rec := httptest.NewRecorder()

	SecurityHeadersMiddleware()(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, HeaderValueNoSniff, rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, HeaderValueDeny, rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, HeaderValueNoReferrer, rec.Header().Get("Referrer-Policy"))
	assert.Equal(t, HeaderValueNoStore, rec.Header().Get("Cache-Control"))
}

func TestLoggingMiddleware_RedactsSecrets(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/1", nil)
	req.Header.Set(HeaderAPIKey, "secret-key-123")
	req.Header.Set(HeaderAuthorization, "Bearer mytoken")
	req.Header.Set("User-Agent", "TestAgent")
	req.Header.Set(HeaderRequestID, "req-42")
	rec := httptest.NewRecorder()

	loggingMiddleware(okHandler).ServeHTTP(rec, req)

	out := buf.String()
	require.Contains(t, out, LogMsgRequestHeaders)
	assert.NotContains(t, out, "secret-key-123")
	assert.NotContains(t, out, "Bearer mytoken")
	assert.Contains(t, out, "TestAgent")
	assert.Equal(t, "req-42", rec.Header().Get(HeaderRequestID))
}
