// Package github is a small best-effort client for the GitHub REST and GraphQL APIs.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ppiankov/ideaboard/internal/cache"
	"github.com/ppiankov/ideaboard/internal/model"
	"github.com/ppiankov/ideaboard/internal/ratelimit"
	"github.com/ppiankov/ideaboard/internal/util"
)

// ErrNoToken is returned without any I/O when no token is configured
var ErrNoToken = errors.New("github: no token configured")

// ErrNotFound is returned when the API answers but the requested object is absent
var ErrNotFound = errors.New("github: not found")

// APIError is a non-2xx response
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("github: %s %s: %d %s", e.Method, e.URL, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("github: %s %s: %d", e.Method, e.URL, e.StatusCode)
}

// Options configures a Client
type Options struct {
	Token        string
	APIURL       string
	GraphQLURL   string
	UserAgent    string
	Timeout      time.Duration
	MaxBodyBytes int64

	HTTPClient *http.Client       // Optional; built from the proxy settings when nil
	Cache      cache.Cache        // Optional response cache
	CacheTTL   time.Duration
	Limiter    *ratelimit.Limiter // Optional per-host pacing
	Logger     *slog.Logger
}

// OptionsFromConfig builds client options from the run configuration
func OptionsFromConfig(cfg *model.Config, c cache.Cache, logger *slog.Logger) Options {
	return Options{
		Token:        cfg.GitHub.Token,
		APIURL:       cfg.GitHub.APIURL,
		GraphQLURL:   cfg.GitHub.GraphQLURL,
		UserAgent:    cfg.HTTP.UserAgent,
		Timeout:      cfg.HTTP.Timeout,
		MaxBodyBytes: cfg.HTTP.MaxBodyBytes,
		HTTPClient: &http.Client{
			Timeout: cfg.HTTP.Timeout,
			Transport: &http.Transport{
				Proxy:               util.NewProxyFunc(cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, cfg.HTTP.NoProxy),
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		Cache:    c,
		CacheTTL: cfg.Cache.TTL,
		Limiter:  ratelimit.New(cfg.GitHub.RequestsPerSecond, cfg.GitHub.Burst),
		Logger:   logger,
	}
}

// Client issues authenticated, bounded, single-attempt API calls
type Client struct {
	opts Options
	http *http.Client
	log  *slog.Logger
}

// NewClient creates a client, filling unset options with defaults
func NewClient(opts Options) *Client {
	if opts.APIURL == "" {
		opts.APIURL = "https://api.github.com"
	}
	if opts.GraphQLURL == "" {
		opts.GraphQLURL = strings.TrimRight(opts.APIURL, "/") + "/graphql"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 5_000_000
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "BLT-Ideas-Page-Generator"
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Client{opts: opts, http: httpClient, log: logger}
}

// HasToken reports whether authenticated calls can be made
func (c *Client) HasToken() bool {
	return c.opts.Token != ""
}

// Get performs a REST GET of path (relative to the API URL) and decodes JSON into out
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := strings.TrimRight(c.opts.APIURL, "/") + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	body, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return nil
}

// GraphQLError is one entry of a GraphQL "errors" array
type GraphQLError struct {
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
}

// GraphQLErrors is returned when the response carries errors
type GraphQLErrors []GraphQLError

func (e GraphQLErrors) Error() string {
	msgs := make([]string, len(e))
	for i, ge := range e {
		msgs[i] = ge.Message
	}
	return "github graphql: " + strings.Join(msgs, "; ")
}

// Query runs a GraphQL query and decodes its "data" member into out
func (c *Client) Query(ctx context.Context, query string, variables map[string]any, out any) error {
	payload, err := json.Marshal(map[string]any{
		"query":     query,
		"variables": variables,
	})
	if err != nil {
		return fmt.Errorf("encode graphql request: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, c.opts.GraphQLURL, payload)
	if err != nil {
		return err
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors GraphQLErrors   `json:"errors"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("decode graphql response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		return envelope.Errors
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return fmt.Errorf("graphql response has no data: %w", ErrNotFound)
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decode graphql data: %w", err)
	}
	return nil
}

// do sends one request and returns the body of a 2xx response.
// Successful bodies are cached; failures never are.
func (c *Client) do(ctx context.Context, method, endpoint string, payload []byte) ([]byte, error) {
	if !c.HasToken() {
		return nil, ErrNoToken
	}

	key := cache.Key(method, endpoint, payload)
	if c.opts.Cache != nil {
		if cached, ok := c.opts.Cache.Get(key); ok {
			c.log.Debug("github cache hit", "method", method, "url", endpoint)
			return cached, nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	if c.opts.Limiter != nil {
		if err := c.opts.Limiter.Wait(ctx, endpoint); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.opts.Token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	req.Header.Set("User-Agent", c.opts.UserAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.Debug("github request", "method", method, "url", endpoint)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.opts.MaxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			Method:     method,
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(body),
		}
	}

	if c.opts.Cache != nil {
		if err := c.opts.Cache.Set(key, body, c.opts.CacheTTL); err != nil {
			c.log.Debug("github cache write failed", "error", err)
		}
	}

	return body, nil
}

// errorMessage pulls the "message" member out of a GitHub error body
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		return payload.Message
	}
	return ""
}
