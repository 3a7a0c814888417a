package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func rlRouter(rl *RateLimiter, pre ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	for _, h := range pre {
		r.Use(h)
	}
	r.Use(rl.Handler())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func TestRateLimiterAllowsWithinBurst(t *testing.T) {
	rl := NewRateLimiter(100, 2, KeyByUserOrIP())
	r := rlRouter(rl)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, w.Code)
		}
	}
}

func TestRateLimiterBlocksWhenExhausted(t *testing.T) {
	// No refill to speak of, burst of one.
	rl := NewRateLimiter(0.0001, 1, KeyByUserOrIP())
	r := rlRouter(rl)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("first request: status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: status = %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After header")
	}
}

func TestRateLimiterKeyedPerUser(t *testing.T) {
	rl := NewRateLimiter(0.0001, 1, KeyByUserOrIP())

	var user string
	r := rlRouter(rl, func(c *gin.Context) {
		c.Set(userIDKey, user)
		c.Next()
	})

	user = "alice"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("alice first: %d", w.Code)
	}

	// A different user has a fresh bucket.
	user = "bob"
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("bob first: %d", w.Code)
	}

	user = "alice"
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("alice second: %d, want 429", w.Code)
	}
}

func TestRateLimiterBypassOnReplay(t *testing.T) {
	rl := NewRateLimiter(0.0001, 1, KeyByUserOrIP())
	r := rlRouter(rl, func(c *gin.Context) {
		c.Set(ctxKeyRateBypass, true)
		c.Next()
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("bypassed request %d: status = %d", i, w.Code)
		}
	}
}
