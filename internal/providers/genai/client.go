package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"server/internal/domain"
	"server/internal/infra"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-1.5-flash"
	defaultTimeout = 60 * time.Second

	// DefaultMaxRetries bounds how many additional attempts follow the first
	// failed network call.
	DefaultMaxRetries = 3
	// DefaultRetryDelay is the wait before the first retry; it doubles on
	// every subsequent retry (500ms, 1s, 2s).
	DefaultRetryDelay = 500 * time.Millisecond
)

// Options controls how the generation client is configured. Credentials are
// injected here rather than read from the environment so tests can substitute
// doubles.
type Options struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
	Logger     *infra.Logger
	MaxRetries int
	RetryDelay time.Duration

	// Sleep overrides the inter-attempt wait. Tests inject a recorder here.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Client invokes a Gemini-style generateContent endpoint and extracts a raw
// JSON payload from the response text. Retries with exponential backoff wrap
// the network call only; fence stripping and JSON parsing happen once, after
// the call succeeds.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *infra.Logger
	maxRetries int
	retryDelay time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
}

// Request carries the natural-language prompt plus the structural shape hint
// that biases the model toward parseable output.
type Request struct {
	Prompt     string
	SchemaHint string
}

type generateContentRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text,omitempty"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature,omitempty"`
	CandidateCount   int     `json:"candidateCount,omitempty"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// NewClient validates the options and constructs a generation client.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("genai: api key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultModel
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	maxRetries := opts.MaxRetries
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	retryDelay := opts.RetryDelay
	if retryDelay <= 0 {
		retryDelay = DefaultRetryDelay
	}
	sleep := opts.Sleep
	if sleep == nil {
		sleep = waitFor
	}
	return &Client{
		apiKey:     opts.APIKey,
		baseURL:    baseURL,
		model:      model,
		httpClient: httpClient,
		logger:     opts.Logger,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		sleep:      sleep,
	}, nil
}

// Model returns the configured model identifier.
func (c *Client) Model() string { return c.model }

// GenerateJSON runs one generation and returns the decoded JSON value carried
// in the model's text response. Network failures are retried with backoff up
// to the configured bound; a response that parses but violates the caller's
// schema is the caller's problem.
func (c *Client) GenerateJSON(ctx context.Context, req Request) (any, error) {
	text, err := c.generateText(ctx, c.composePrompt(req))
	if err != nil {
		return nil, err
	}
	stripped := trimCodeFence(text)
	var decoded any
	if err := json.Unmarshal([]byte(stripped), &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedOutput, err)
	}
	return decoded, nil
}

func (c *Client) composePrompt(req Request) string {
	sb := &strings.Builder{}
	sb.WriteString(req.Prompt)
	if hint := strings.TrimSpace(req.SchemaHint); hint != "" {
		sb.WriteString(" Respond strictly with JSON matching this schema: ")
		sb.WriteString(hint)
	}
	return sb.String()
}

// generateText performs the network call wrapped by the retry policy. Only
// transport errors and non-2xx statuses are retried; the last error is
// propagated once attempts are exhausted.
func (c *Client) generateText(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.retryDelay << (attempt - 1)
			if c.logger != nil {
				c.logger.Warn().Err(lastErr).Int("attempt", attempt).Dur("delay", delay).Msg("genai: retrying generation")
			}
			if err := c.sleep(ctx, delay); err != nil {
				return "", err
			}
		}
		text, err := c.callOnce(ctx, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err
	}
	return "", lastErr
}

func (c *Client) callOnce(ctx context.Context, prompt string) (string, error) {
	payload := generateContentRequest{
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: prompt}},
		}},
		GenerationConfig: &generationConfig{
			Temperature:      0.7,
			CandidateCount:   1,
			ResponseMimeType: "application/json",
		},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return "", fmt.Errorf("genai: encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), &buf)
	if err != nil {
		return "", fmt.Errorf("genai: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: status %d: %s", domain.ErrProviderFailure, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	var out generateContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", domain.ErrProviderFailure, err)
	}
	text := extractText(out)
	if text == "" {
		return "", fmt.Errorf("%w: response carried no text candidate", domain.ErrProviderFailure)
	}
	return text, nil
}

func (c *Client) endpoint() string {
	return fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, url.PathEscape(c.model))
}

func extractText(resp generateContentResponse) string {
	for _, cand := range resp.Candidates {
		for _, p := range cand.Content.Parts {
			if strings.TrimSpace(p.Text) != "" {
				return p.Text
			}
		}
	}
	return ""
}

// trimCodeFence removes a leading and trailing triple-backtick fence line so
// fenced and bare JSON parse identically.
func trimCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```JSON")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}

func waitFor(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
