package shelfwise

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// Client is the shelfwise API client entry point.
type Client struct {
	baseURL string
	apiKey  string
	hc      *http.Client
	obs     *observer
}

// New creates a Client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("shelfwise: base URL required")
	}
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	hc := cfg.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: defaultTimeout}
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  cfg.apiKey,
		hc:      hc,
		obs:     obs,
	}, nil
}

// Documents returns the document service.
func (c *Client) Documents() *DocumentService {
	return &DocumentService{client: c}
}

// Search runs a full-text search.
func (c *Client) Search(ctx context.Context, req SearchRequest) (out SearchResponse, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	err = c.doJSON(ctx, http.MethodPost, "/api/v1/search", req, &out)
	return out, err
}

// Chat sends one conversational message.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (out ChatResponse, err error) {
	start := time.Now()
	defer func() { c.obs.observe("chat", start, err) }()

	err = c.doJSON(ctx, http.MethodPost, "/api/v1/chat", req, &out)
	return out, err
}

// Suggestions fetches example queries. conversationContext may be empty;
// limit <= 0 uses the server default.
func (c *Client) Suggestions(ctx context.Context, conversationContext string, limit int) (out []string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("suggestions", start, err) }()

	q := url.Values{}
	if conversationContext != "" {
		q.Set("context", conversationContext)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/api/v1/suggestions"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp struct {
		Suggestions []string `json:"suggestions"`
	}
	if err = c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Suggestions, nil
}

// Health probes the server's component health. A degraded server still
// returns a report; only transport failures return an error.
func (c *Client) Health(ctx context.Context) (out HealthReport, err error) {
	start := time.Now()
	defer func() { c.obs.observe("health", start, err) }()

	resp, err := c.do(ctx, http.MethodGet, "/health", "", nil)
	if err != nil {
		return HealthReport{}, err
	}
	defer resp.Body.Close()

	if err = json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return HealthReport{}, fmt.Errorf("shelfwise: decode health: %w", err)
	}
	return out, nil
}

// doJSON performs a request with an optional JSON body and decodes the
// JSON response into out. Non-2xx responses become *APIError.
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("shelfwise: encode request: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	resp, err := c.do(ctx, method, path, contentType, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("shelfwise: decode response: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("shelfwise: build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("shelfwise: %s %s: %w", method, path, err)
	}
	return resp, nil
}

func decodeJSON(resp *http.Response, out any) error {
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("shelfwise: decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err == nil {
		var body struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &body) == nil && body.Code != "" {
			apiErr.Code = body.Code
			apiErr.Message = body.Message
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
