package router

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/metalworks/storefront/internal/config"
	"github.com/metalworks/storefront/internal/http/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestCORSPolicyAllowOrigin(t *testing.T) {
	cases := []struct {
		name        string
		origins     []string
		credentials bool
		origin      string
		want        string
	}{
		{name: "wildcard without credentials", origins: []string{"*"}, origin: "https://example.com", want: "*"},
		{name: "wildcard with credentials echoes origin", origins: []string{"*"}, credentials: true, origin: "https://example.com", want: "https://example.com"},
		{name: "allow-list match ignores case and trailing slash", origins: []string{"https://Shop.example.com/"}, origin: "https://shop.example.com", want: "https://shop.example.com"},
		{name: "allow-list miss", origins: []string{"https://a.example.com"}, origin: "https://x.example.com", want: ""},
		{name: "no origin header", origins: []string{"https://a.example.com"}, origin: "", want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			policy := newCORSPolicy(config.CORSConfig{AllowedOrigins: tc.origins, AllowCredentials: tc.credentials})
			if got := policy.allowOrigin(tc.origin); got != tc.want {
				t.Fatalf("allowOrigin(%q) want %q got %q", tc.origin, tc.want, got)
			}
		})
	}
}

func TestCORSMiddlewarePreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(CORSMiddleware(config.CORSConfig{AllowedOrigins: []string{"https://shop.example.com"}, AllowCredentials: true, MaxAge: 600}))
	r.POST("/api/orders", func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/orders", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight status want 204 got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "https://shop.example.com" {
		t.Fatalf("unexpected allow origin: %q", w.Header().Get("Access-Control-Allow-Origin"))
	}
	if w.Header().Get("Access-Control-Allow-Credentials") != "true" || w.Header().Get("Access-Control-Max-Age") != "600" {
		t.Fatalf("preflight headers missing: %v", w.Header())
	}
	if !strings.Contains(w.Header().Get("Access-Control-Allow-Headers"), "Authorization") {
		t.Fatalf("default allowed headers should include Authorization")
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/orders", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("simple request status want 201 got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "" || w.Header().Get("Access-Control-Allow-Credentials") != "" {
		t.Fatalf("disallowed origin should get no CORS grant: %v", w.Header())
	}
}

func TestAcceptRequestID(t *testing.T) {
	cases := []struct {
		raw  string
		want string
		ok   bool
	}{
		{raw: " req-123 ", want: "req-123", ok: true},
		{raw: "", ok: false},
		{raw: "has space", ok: false},
		{raw: "line\nbreak", ok: false},
		{raw: strings.Repeat("a", maxRequestIDLength+1), ok: false},
	}
	for _, tc := range cases {
		got, ok := acceptRequestID(tc.raw)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("acceptRequestID(%q) = (%q,%v), want (%q,%v)", tc.raw, got, ok, tc.want, tc.ok)
		}
	}
}

func TestLoggerMiddlewareLevels(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.DebugLevel)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(zap.New(core)))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/boom", func(c *gin.Context) {
		response.Fail(c, response.NewAppError(response.CodeInternal, "failed", errors.New("db down")))
	})

	for _, path := range []string{"/ok", "/missing", "/boom"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	entries := logs.AllUntimed()
	if len(entries) != 3 {
		t.Fatalf("expected 3 access log entries, got %d", len(entries))
	}
	wantLevels := []zapcore.Level{zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel}
	for i, entry := range entries {
		if entry.Level != wantLevels[i] {
			t.Fatalf("entry %d level want %s got %s", i, wantLevels[i], entry.Level)
		}
	}
	failed := entries[2].ContextMap()
	if failed["route"] != "/boom" || failed["request_id"] == "" {
		t.Fatalf("unexpected failed entry fields: %v", failed)
	}
	errs, _ := failed["errors"].([]interface{})
	if len(errs) != 1 || !strings.Contains(errs[0].(string), "db down") {
		t.Fatalf("internal cause should be logged, got %v", failed["errors"])
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": response.RequestID(c)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "req-123")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if w.Header().Get(requestIDHeader) != "req-123" {
		t.Fatalf("response request id want req-123 got %s", w.Header().Get(requestIDHeader))
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["request_id"] != "req-123" {
		t.Fatalf("context request id want req-123 got %s", resp["request_id"])
	}

	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if strings.TrimSpace(w2.Header().Get(requestIDHeader)) == "" {
		t.Fatalf("generated request id should not be blank")
	}
}

func TestUserJWTAuthMiddlewareRejectsBadHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		secret string
		header string
	}{
		{name: "missing secret", secret: "", header: "Bearer abc"},
		{name: "missing header", secret: "s", header: ""},
		{name: "not bearer", secret: "s", header: "Token abc"},
		{name: "garbage token", secret: "s", header: "Bearer not-a-jwt"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.Use(RequestIDMiddleware())
			r.Use(UserJWTAuthMiddleware(tc.secret, nopCustomerRepo{}))
			r.GET("/api/cart", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"ok": true})
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("status want 401 got %d", w.Code)
			}
			var body response.ErrorBody
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("unmarshal response failed: %v", err)
			}
			if body.Message == "" || body.RequestID == "" {
				t.Fatalf("error body should carry message and request id: %+v", body)
			}
		})
	}
}
