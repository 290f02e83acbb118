package workable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	defaultSubdomain         = "case-consulting"
	defaultRequestsPerSecond = 1
	defaultBurst             = 10
)

// NewClient instantiates a Workable API client
func NewClient(cfg Config) (*Client, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		sub := cfg.Subdomain
		if sub == "" {
			sub = defaultSubdomain
		}
		baseURL = fmt.Sprintf("https://%s.workable.com/spi/v3", sub)
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("workable: parse base url: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRequestsPerSecond
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(rps), defaultBurst),
	}, nil
}

// CreateCandidate adds a candidate to the job identified by shortcode and
// returns the id Workable assigned.
func (c *Client) CreateCandidate(ctx context.Context, token, shortcode string, candidate Candidate) (CreatedCandidate, error) {
	if c == nil {
		return CreatedCandidate{}, fmt.Errorf("workable: client is nil")
	}
	if shortcode == "" {
		return CreatedCandidate{}, fmt.Errorf("workable: job shortcode is required")
	}

	endpoint := fmt.Sprintf("%s/jobs/%s/candidates", c.baseURL, url.PathEscape(shortcode))

	var payload candidateResponse
	if err := c.post(ctx, token, endpoint, candidate, &payload); err != nil {
		return CreatedCandidate{}, err
	}

	created := CreatedCandidate{ID: payload.ID}
	if payload.Candidate != nil {
		created = *payload.Candidate
	}
	if created.ID == "" {
		return CreatedCandidate{}, fmt.Errorf("workable: create candidate response has no id")
	}

	return created, nil
}

// CreateComment attaches a comment to an existing candidate
func (c *Client) CreateComment(ctx context.Context, token, candidateID string, comment Comment) error {
	if c == nil {
		return fmt.Errorf("workable: client is nil")
	}
	if candidateID == "" {
		return fmt.Errorf("workable: candidate id is required")
	}

	endpoint := fmt.Sprintf("%s/candidates/%s/comments", c.baseURL, url.PathEscape(candidateID))
	return c.post(ctx, token, endpoint, comment, nil)
}

func (c *Client) post(ctx context.Context, token, endpoint string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("workable: rate limit wait: %w", err)
	}

	buf, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("workable: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(buf))
	if err != nil {
		return fmt.Errorf("workable: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("workable: request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("workable: decode response: %w", err)
	}
	return nil
}

// APIError is a non-2xx response from Workable
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("workable: API error (%d): %s", e.StatusCode, e.Body)
}
