package embedder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL, time.Second, time.Second)
}

func TestQuery(t *testing.T) {
	var gotReq queryRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/query" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		_, _ = w.Write([]byte(`{"results":[{"text":"chunk one","metadata":{"page":3,"chunk_index":0}}]}`))
	})

	chunks, err := c.Query(context.Background(), "what is inertia", []string{"p1", "p2"}, 4)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(chunks) != 1 || chunks[0].Text != "chunk one" {
		t.Fatalf("chunks = %+v", chunks)
	}
	if chunks[0].Metadata.Page == nil || *chunks[0].Metadata.Page != 3 {
		t.Errorf("page = %v", chunks[0].Metadata.Page)
	}
	if gotReq.Question != "what is inertia" || gotReq.TopK != 4 || len(gotReq.PdfIDs) != 2 {
		t.Errorf("request = %+v", gotReq)
	}
}

func TestQueryNullPage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[{"text":"x","metadata":{"page":null,"chunk_index":1}}]}`))
	})
	chunks, err := c.Query(context.Background(), "q", []string{"p1"}, 4)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if chunks[0].Metadata.Page != nil {
		t.Errorf("page = %v, want nil", chunks[0].Metadata.Page)
	}
}

func TestQueryEmptyCandidateSetSkipsNetwork(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected network call")
	})
	chunks, err := c.Query(context.Background(), "q", nil, 4)
	if err != nil || chunks != nil {
		t.Errorf("Query = %v, %v", chunks, err)
	}
}

func TestQueryServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	if _, err := c.Query(context.Background(), "q", []string{"p1"}, 4); err == nil {
		t.Error("expected error")
	}
}

func TestRandomChunks(t *testing.T) {
	var gotReq randomChunksRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/random_chunks" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		_, _ = w.Write([]byte(`{"chunks":[{"text":"a"},{"text":"b"}]}`))
	})

	chunks, err := c.RandomChunks(context.Background(), "pdf-1", 10)
	if err != nil {
		t.Fatalf("RandomChunks: %v", err)
	}
	if len(chunks) != 2 {
		t.Errorf("chunks = %+v", chunks)
	}
	if gotReq.PdfID != "pdf-1" || gotReq.Count != 10 {
		t.Errorf("request = %+v", gotReq)
	}
}

func TestChunkAndEmbed(t *testing.T) {
	var gotReq chunkAndEmbedRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chunk_and_embed" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		w.WriteHeader(http.StatusOK)
	})

	if err := c.ChunkAndEmbed(context.Background(), "/uploads/f.pdf", "doc-1", true); err != nil {
		t.Fatalf("ChunkAndEmbed: %v", err)
	}
	if gotReq.FilePath != "/uploads/f.pdf" || gotReq.DocID != "doc-1" || !gotReq.IsDefault {
		t.Errorf("request = %+v", gotReq)
	}
}

func TestNewTrimsTrailingSlash(t *testing.T) {
	c := New("http://example.test///", 0, 0)
	if strings.HasSuffix(c.baseURL, "/") {
		t.Errorf("baseURL = %q", c.baseURL)
	}
}
