// Package ai integrates the external Gemini generative-language API. It
// provides a small REST client plus the prompt building, response parsing,
// and fallback logic for the three generation tasks the application needs:
// answering a student's question, generating quiz questions, and suggesting
// video topics.
//
// The client is constructed once at process start and injected into the
// services that need it; there are no package-level singletons.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// outboundReqs counts generateContent calls by outcome so dashboards can
// watch error rates on the external dependency.
var outboundReqs = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "gemini_requests_total",
		Help: "Total number of Gemini generateContent calls.",
	},
	[]string{"outcome"},
)

func init() {
	prometheus.MustRegister(outboundReqs)
}

// Generator is the minimal contract services depend on. The concrete
// GeminiClient satisfies it; tests substitute stubs.
type Generator interface {
	// GenerateText returns the model's free-text response for a prompt.
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// GeminiClient calls the Gemini REST API (generateContent).
type GeminiClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewGeminiClient constructs a client with the provided API key and model.
func NewGeminiClient(apiKey, model string, timeout time.Duration) (*GeminiClient, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key required")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &GeminiClient{
		apiKey:     apiKey,
		model:      normalizeModel(model),
		baseURL:    defaultGeminiBaseURL,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// GenerateText returns the generated response for a prompt.
func (c *GeminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	reqBody := generateRequest{
		Contents: []content{
			{
				Role:  "user",
				Parts: []part{{Text: prompt}},
			},
		},
	}
	var resp generateResponse
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	if err := c.doJSON(ctx, url, reqBody, &resp); err != nil {
		outboundReqs.WithLabelValues("error").Inc()
		return "", err
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		outboundReqs.WithLabelValues("empty").Inc()
		return "", fmt.Errorf("empty response from gemini")
	}
	outboundReqs.WithLabelValues("ok").Inc()
	return resp.Candidates[0].Content.Parts[0].Text, nil
}

func normalizeModel(model string) string {
	model = strings.TrimSpace(model)
	model = strings.TrimPrefix(model, "models/")
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return model
}

func (c *GeminiClient) doJSON(ctx context.Context, url string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		var errResp errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		if errResp.Error.Message != "" {
			return fmt.Errorf("gemini api error: %s", errResp.Error.Message)
		}
		return fmt.Errorf("gemini api error: %s", resp.Status)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type candidate struct {
	Content content `json:"content"`
}

type generateResponse struct {
	Candidates []candidate `json:"candidates"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}
