package router

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
)

// memoryRateLimitCounter 进程内计数器，只用于测试
type memoryRateLimitCounter struct {
	mu     sync.Mutex
	counts map[string]int64
}

func newMemoryRateLimitCounter() *memoryRateLimitCounter {
	return &memoryRateLimitCounter{counts: map[string]int64{}}
}

func (m *memoryRateLimitCounter) Hit(_ context.Context, key string, rule RateLimitRule) (RateLimitHit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[key]++
	return RateLimitHit{Count: m.counts[key], TTLSeconds: int64(rule.WindowSeconds)}, nil
}

func TestKeyByIPAndJSONField(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"userEmail":" Test@Example.com "}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.RemoteAddr = "1.2.3.4:5678"

	key := KeyByIPAndJSONField("userEmail")(c)
	if key != "test@example.com|1.2.3.4" {
		t.Fatalf("key want test@example.com|1.2.3.4 got %s", key)
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		t.Fatalf("read body after key extraction failed: %v", err)
	}
	if !strings.Contains(string(body), "Test@Example.com") {
		t.Fatalf("request body should be restored after reading field")
	}
}

func TestRateLimitMiddlewareWithoutCounter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RateLimitMiddleware(nil, RateLimitRule{WindowSeconds: 60, MaxRequests: 1}, KeyByIP))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status want 200 got %d", i+1, w.Code)
		}
	}
}

func TestRateLimitMiddlewareRejectsAfterMaxAttempts(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	rule := RateLimitRule{Prefix: "mw:rate:login", WindowSeconds: 60, MaxRequests: 2}
	r.Use(RateLimitMiddleware(newMemoryRateLimitCounter(), rule, KeyByIP))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		codes = append(codes, w.Code)
		if i == 2 && w.Header().Get("Retry-After") != "60" {
			t.Fatalf("Retry-After want 60 got %q", w.Header().Get("Retry-After"))
		}
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected status sequence: %v", codes)
	}
}

type failingRateLimitCounter struct{}

func (failingRateLimitCounter) Hit(context.Context, string, RateLimitRule) (RateLimitHit, error) {
	return RateLimitHit{}, errors.New("redis down")
}

type blockedRateLimitCounter struct{ ttl int64 }

func (b blockedRateLimitCounter) Hit(context.Context, string, RateLimitRule) (RateLimitHit, error) {
	return RateLimitHit{Count: -1, TTLSeconds: b.ttl, Blocked: true}, nil
}

func serveOnce(t *testing.T, counter RateLimitCounter, rule RateLimitRule) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimitMiddleware(counter, rule, nil))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	return w
}

func TestRateLimitMiddlewareCounterFailureIsUnavailable(t *testing.T) {
	w := serveOnce(t, failingRateLimitCounter{}, RateLimitRule{WindowSeconds: 60, MaxRequests: 5})
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status want 503 got %d", w.Code)
	}
}

func TestRateLimitMiddlewareBlockedUsesBlockTTL(t *testing.T) {
	rule := RateLimitRule{WindowSeconds: 60, MaxRequests: 5, BlockSeconds: 900, Message: "Locked for %d seconds."}
	w := serveOnce(t, blockedRateLimitCounter{ttl: 840}, rule)
	if w.Code != http.StatusTooManyRequests || w.Header().Get("Retry-After") != "840" {
		t.Fatalf("unexpected response %d retry-after=%q", w.Code, w.Header().Get("Retry-After"))
	}
	if !strings.Contains(w.Body.String(), "Locked for 840 seconds.") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestRateLimitRuleRetryAfter(t *testing.T) {
	rule := RateLimitRule{WindowSeconds: 30, MaxRequests: 1}
	if got := rule.retryAfter(RateLimitHit{TTLSeconds: 12}); got != 12 {
		t.Fatalf("ttl should win, got %d", got)
	}
	if got := rule.retryAfter(RateLimitHit{TTLSeconds: -1}); got != 30 {
		t.Fatalf("missing ttl should fall back to window, got %d", got)
	}
	if got := (RateLimitRule{}).retryAfter(RateLimitHit{}); got != 1 {
		t.Fatalf("minimum wait is 1 second, got %d", got)
	}
	if rule.key("a|b") != "a|b" || (RateLimitRule{Prefix: "mw:rate"}).key("x") != "mw:rate:x" {
		t.Fatalf("unexpected key composition")
	}
}

func TestKeyByIPAndJSONFieldKeepsLargeBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	padding := strings.Repeat("a", rateLimitBodyPeek)
	raw := `{"userEmail":"big@example.com","note":"` + padding + `"}`

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(raw))
	c.Request.RemoteAddr = "5.6.7.8:1000"

	if key := KeyByIPAndJSONField("userEmail")(c); key != "5.6.7.8" {
		t.Fatalf("oversized body should fall back to ip, got %s", key)
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil || string(body) != raw {
		t.Fatalf("request body must be restored in full, len=%d err=%v", len(body), err)
	}
}
