package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_CountersAndPathFallback(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Metrics())
	r.GET("/chat/:chatId", func(c *gin.Context) {
		c.String(http.StatusOK, `{"chat":{}}`)
	})
	r.GET("/nobody", func(c *gin.Context) {
		c.Status(http.StatusNoContent) // no body, size stays -1
	})

	baseOK := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/chat/:chatId", "200"))
	base404 := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/does-not-exist", "404"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/chat/c-123", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("GET /chat/c-123 -> %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/does-not-exist", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("GET /does-not-exist -> %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nobody", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("GET /nobody -> %d", w.Code)
	}

	// Matched routes are labeled with the route pattern, not the raw URL.
	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/chat/:chatId", "200")); got != baseOK+1 {
		t.Fatalf("counter /chat/:chatId 200 = %v, want %v", got, baseOK+1)
	}
	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/chat/c-123", "200")); got != 0 {
		t.Fatalf("raw URL leaked into labels: %v", got)
	}
	// Unmatched routes fall back to the raw path.
	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/does-not-exist", "404")); got != base404+1 {
		t.Fatalf("counter 404 fallback = %v, want %v", got, base404+1)
	}
	// Gauge drains once requests complete.
	if inflight := testutil.ToFloat64(httpInflight); inflight != 0 {
		t.Fatalf("httpInflight = %v, want 0", inflight)
	}
}
