// Package embedder provides the HTTP client for the external
// embedding/retrieval microservice. The service owns chunking, embedding,
// and vector search; this client only speaks its small JSON API:
//
//   - POST /query          {question, pdf_ids, top_k}   -> ranked chunks
//   - POST /random_chunks  {pdf_id, count}              -> sampled chunks
//   - POST /chunk_and_embed {file_path, doc_id, is_default} -> 200 (async)
//
// The client carries fixed per-operation timeouts and no retry policy:
// request-path failures are degraded or surfaced by the caller.
package embedder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ChunkMetadata carries the position of a chunk within its source document.
type ChunkMetadata struct {
	Page       *int `json:"page"`
	ChunkIndex int  `json:"chunk_index"`
}

// Chunk is one retrieval unit of PDF text with page/position metadata.
type Chunk struct {
	Text     string        `json:"text"`
	Metadata ChunkMetadata `json:"metadata"`
}

// Client calls the embedding/retrieval service.
type Client struct {
	baseURL       string
	queryClient   *http.Client
	ingestClient  *http.Client
}

// New constructs a Client for the given base URL. Trailing slashes are
// stripped so path joining stays predictable.
func New(baseURL string, queryTimeout, ingestTimeout time.Duration) *Client {
	if queryTimeout <= 0 {
		queryTimeout = 10 * time.Second
	}
	if ingestTimeout <= 0 {
		ingestTimeout = 20 * time.Second
	}
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		queryClient:  &http.Client{Timeout: queryTimeout},
		ingestClient: &http.Client{Timeout: ingestTimeout},
	}
}

type queryRequest struct {
	Question string   `json:"question"`
	PdfIDs   []string `json:"pdf_ids"`
	TopK     int      `json:"top_k"`
}

type queryResponse struct {
	Results []Chunk `json:"results"`
}

// Query returns the top-K chunks relevant to question across the candidate
// document set. An empty candidate set yields an empty result without a
// network call.
func (c *Client) Query(ctx context.Context, question string, pdfIDs []string, topK int) ([]Chunk, error) {
	if len(pdfIDs) == 0 {
		return nil, nil
	}
	var resp queryResponse
	err := c.doJSON(ctx, c.queryClient, c.baseURL+"/query", queryRequest{
		Question: question,
		PdfIDs:   pdfIDs,
		TopK:     topK,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Results, nil
}

type randomChunksRequest struct {
	PdfID string `json:"pdf_id"`
	Count int    `json:"count"`
}

type randomChunksResponse struct {
	Chunks []Chunk `json:"chunks"`
}

// RandomChunks returns up to count randomly sampled chunks from one document.
func (c *Client) RandomChunks(ctx context.Context, pdfID string, count int) ([]Chunk, error) {
	var resp randomChunksResponse
	err := c.doJSON(ctx, c.queryClient, c.baseURL+"/random_chunks", randomChunksRequest{
		PdfID: pdfID,
		Count: count,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Chunks, nil
}

type chunkAndEmbedRequest struct {
	FilePath  string `json:"file_path"`
	DocID     string `json:"doc_id"`
	IsDefault bool   `json:"is_default,omitempty"`
}

// ChunkAndEmbed asks the service to chunk and index a stored PDF. Callers
// invoke it from a background goroutine; failures are logged and swallowed
// there, never failing the originating upload.
func (c *Client) ChunkAndEmbed(ctx context.Context, filePath, docID string, isDefault bool) error {
	return c.doJSON(ctx, c.ingestClient, c.baseURL+"/chunk_and_embed", chunkAndEmbedRequest{
		FilePath:  filePath,
		DocID:     docID,
		IsDefault: isDefault,
	}, nil)
}

func (c *Client) doJSON(ctx context.Context, hc *http.Client, url string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("embedder: %s returned %s", url, resp.Status)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
