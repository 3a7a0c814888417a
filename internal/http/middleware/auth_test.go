package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type stubVerifier struct {
	userID string
	err    error
}

func (s *stubVerifier) Verify(string) (string, error) {
	return s.userID, s.err
}

func authRouter(v TokenVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Auth(v))
	r.GET("/me", func(c *gin.Context) {
		uid, _ := UserID(c)
		c.String(http.StatusOK, uid)
	})
	return r
}

func TestAuthAcceptsBearerToken(t *testing.T) {
	r := authRouter(&stubVerifier{userID: "u-1"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK || w.Body.String() != "u-1" {
		t.Errorf("status=%d body=%q", w.Code, w.Body.String())
	}
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	r := authRouter(&stubVerifier{userID: "u-1"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuthRejectsMalformedHeader(t *testing.T) {
	r := authRouter(&stubVerifier{userID: "u-1"})

	for _, hdr := range []string{"good-token", "Basic abc", "Bearer "} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", hdr)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("header %q: status = %d, want 401", hdr, w.Code)
		}
	}
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	r := authRouter(&stubVerifier{err: errors.New("bad sig")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer forged")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}
