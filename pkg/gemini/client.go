// Package gemini calls the Generative Language generateContent endpoint.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dtnitsch/cp-hints/models"
)

// Fixed generation parameters for hint requests.
var DefaultGenerationConfig = GenerationConfig{
	Temperature:     0.4,
	TopK:            32,
	TopP:            1,
	MaxOutputTokens: 4096,
}

type GenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type Part struct {
	Text string `json:"text"`
}

type Content struct {
	Parts []Part `json:"parts"`
}

type GenerateRequest struct {
	Contents         []Content        `json:"contents"`
	GenerationConfig GenerationConfig `json:"generationConfig"`
}

type GenerateResponse struct {
	Candidates []struct {
		Content Content `json:"content"`
	} `json:"candidates"`
}

type errorBody struct {
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Config configures a Client. A zero Timeout keeps the transport default.
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	model      string
	genConfig  GenerationConfig
}

func NewClient(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = models.DefaultEndpoint
	}
	model := cfg.Model
	if model == "" {
		model = models.DefaultModel
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    baseURL,
		model:      model,
		genConfig:  DefaultGenerationConfig,
	}
}

// Model returns the model name requests are sent to.
func (c *Client) Model() string { return c.model }

// Complete sends prompt and returns the first candidate's first part.
// Transport failures are returned as plain errors; API failures as
// models.HintError of kind ErrUpstreamError.
func (c *Client) Complete(ctx context.Context, apiKey, prompt string) (string, error) {
	body, err := json.Marshal(GenerateRequest{
		Contents:         []Content{{Parts: []Part{{Text: prompt}}}},
		GenerationConfig: c.genConfig,
	})
	if err != nil {
		return "", fmt.Errorf("marshal gemini request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(apiKey), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call gemini: %w", redactKey(err, apiKey))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", upstreamError(resp)
	}

	var payload GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", &models.HintError{Kind: models.ErrUpstreamError, Message: "decode gemini response", Err: err}
	}

	if len(payload.Candidates) == 0 || len(payload.Candidates[0].Content.Parts) == 0 {
		return "", &models.HintError{Kind: models.ErrUpstreamError, Message: "gemini response has no candidates"}
	}
	return payload.Candidates[0].Content.Parts[0].Text, nil
}

func (c *Client) endpoint(apiKey string) string {
	return fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, url.PathEscape(c.model), url.QueryEscape(apiKey))
}

// upstreamError reads the API's {"error":{"message":...}} body.
func upstreamError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil || body.Error == nil || body.Error.Message == "" {
		return &models.HintError{
			Kind:    models.ErrUpstreamError,
			Message: fmt.Sprintf("API request failed with status %d", resp.StatusCode),
		}
	}
	return &models.HintError{
		Kind:    models.ErrUpstreamError,
		Message: "API request failed: " + body.Error.Message,
	}
}

// redactKey keeps the key out of *url.Error messages, which embed the
// request URL.
func redactKey(err error, apiKey string) error {
	if apiKey == "" {
		return err
	}
	msg := strings.ReplaceAll(err.Error(), url.QueryEscape(apiKey), "REDACTED")
	if msg == err.Error() {
		return err
	}
	return fmt.Errorf("%s", msg)
}
