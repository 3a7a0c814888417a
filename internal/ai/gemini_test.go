package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestGemini(t *testing.T, h http.HandlerFunc) (*GeminiClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewGeminiClient("test-key", "gemini-2.5-flash", time.Second)
	if err != nil {
		t.Fatalf("NewGeminiClient: %v", err)
	}
	c.baseURL = srv.URL
	return c, srv
}

func TestGenerateTextHappyPath(t *testing.T) {
	var gotPath, gotKey string
	var gotBody generateRequest

	c, _ := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(generateResponse{
			Candidates: []candidate{
				{Content: content{Parts: []part{{Text: "hello back"}}}},
			},
		})
	})

	out, err := c.GenerateText(context.Background(), "hello")
	if err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if out != "hello back" {
		t.Errorf("out = %q", out)
	}
	if !strings.HasSuffix(gotPath, "/models/gemini-2.5-flash:generateContent") {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("key = %q", gotKey)
	}
	if len(gotBody.Contents) != 1 || gotBody.Contents[0].Parts[0].Text != "hello" {
		t.Errorf("request body = %+v", gotBody)
	}
}

func TestGenerateTextAPIError(t *testing.T) {
	c, _ := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
	})

	_, err := c.GenerateText(context.Background(), "hi")
	if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("err = %v, want api error message", err)
	}
}

func TestGenerateTextEmptyCandidates(t *testing.T) {
	c, _ := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	})

	if _, err := c.GenerateText(context.Background(), "hi"); err == nil {
		t.Error("expected error for empty candidate list")
	}
}

func TestNewGeminiClientValidation(t *testing.T) {
	if _, err := NewGeminiClient("  ", "m", time.Second); err == nil {
		t.Error("expected error for blank api key")
	}
}

func TestNormalizeModel(t *testing.T) {
	cases := map[string]string{
		"models/gemini-2.5-flash": "gemini-2.5-flash",
		"gemini-2.5-pro":          "gemini-2.5-pro",
		"":                        "gemini-2.5-flash",
		"  ":                      "gemini-2.5-flash",
	}
	for in, want := range cases {
		if got := normalizeModel(in); got != want {
			t.Errorf("normalizeModel(%q) = %q, want %q", in, got, want)
		}
	}
}
