// Package http provides the HTTP transport used by all API clients.
package http

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

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rmmkit/ninja/internal/auth"
	"github.com/rmmkit/ninja/internal/constants"
	"github.com/rmmkit/ninja/pkg/ninja"
)

// Logger is the structured logging interface the client reports through.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Request describes an API request.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Headers map[string]string
	Body    interface{}
}

// Response holds the raw result of an API request.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Client is an HTTP client for the NinjaRMM API with retries, bearer
// authentication and optional response caching.
type Client struct {
	baseURL           string
	tokenManager      auth.TokenManager
	httpClient        *retryablehttp.Client
	logger            Logger
	debug             bool
	userAgent         string
	cacheManager      *ninja.CacheManager
	convertTimestamps bool
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger for the client.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables debug logging of requests and responses.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRetryConfig overrides the retry behavior.
func WithRetryConfig(maxRetries int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = maxRetries
		c.httpClient.RetryWaitMin = waitMin
		c.httpClient.RetryWaitMax = waitMax
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient.Timeout = timeout
	}
}

// WithCache enables response caching. The manager's policy decides which
// requests are cached.
func WithCache(manager *ninja.CacheManager) Option {
	return func(c *Client) {
		c.cacheManager = manager
	}
}

// WithTimestampConversion enables converting epoch timestamp fields in
// responses to ISO 8601 strings.
func WithTimestampConversion(convert bool) Option {
	return func(c *Client) {
		c.convertTimestamps = convert
	}
}

// NewClient creates a new API client for the given base URL.
func NewClient(baseURL string, tokenManager auth.TokenManager, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = constants.DefaultRetryMax
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	retryClient.Logger = nil

	client := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		tokenManager: tokenManager,
		httpClient:   retryClient,
		userAgent:    "ninja-go-client/1.0",
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Do executes a request against the API. Error responses are parsed into
// *ninja.APIError; a 401 triggers one token refresh and retry when a token
// manager is configured.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if resp, ok := c.cachedResponse(ctx, req); ok {
		return resp, nil
	}

	resp, err := c.doOnce(ctx, req)
	if err != nil {
		return resp, err
	}

	if resp.StatusCode == http.StatusUnauthorized && c.tokenManager != nil {
		refreshErr := c.tokenManager.RefreshToken(ctx)
		if refreshErr == nil {
			resp, err = c.doOnce(ctx, req)
			if err != nil {
				return resp, err
			}
		}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return resp, ninja.ParseAPIError(resp.StatusCode, resp.Body)
	}

	c.convertResponseTimestamps(resp)
	c.storeInCache(ctx, req, resp)

	return resp, nil
}

//nolint:funlen // Request assembly is sequential and clearer in one place
func (c *Client) doOnce(ctx context.Context, req *Request) (*Response, error) {
	fullURL := c.baseURL + req.Path
	if len(req.Query) > 0 {
		fullURL += "?" + req.Query.Encode()
	}

	var bodyReader io.Reader

	if req.Body != nil {
		bodyBytes, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}

		bodyReader = bytes.NewReader(bodyBytes)
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	if c.tokenManager != nil {
		token, err := c.tokenManager.GetToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("getting auth token: %w", err)
		}

		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	c.logRequest(req, fullURL)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       body,
	}

	c.logResponse(resp)

	return resp, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodGet,
		Path:   path,
		Query:  query,
	})
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodPost,
		Path:   path,
		Body:   body,
	})
}

// Put performs a PUT request.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodPut,
		Path:   path,
		Body:   body,
	})
}

// Patch performs a PATCH request.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodPatch,
		Path:   path,
		Body:   body,
	})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodDelete,
		Path:   path,
	})
}

func (c *Client) cacheKey(req *Request) string {
	params := make(map[string]string, len(req.Query))
	for key := range req.Query {
		params[key] = req.Query.Get(key)
	}

	return c.cacheManager.GetCacheKey(req.Method, req.Path, params)
}

func (c *Client) cachedResponse(ctx context.Context, req *Request) (*Response, bool) {
	if c.cacheManager == nil || !c.cacheManager.ShouldCache(req.Method, req.Path, http.StatusOK) {
		return nil, false
	}

	data, err := c.cacheManager.Get(ctx, c.cacheKey(req))
	if err != nil {
		return nil, false
	}

	return &Response{
		StatusCode: http.StatusOK,
		Body:       data,
	}, true
}

func (c *Client) storeInCache(ctx context.Context, req *Request, resp *Response) {
	if c.cacheManager == nil || !c.cacheManager.ShouldCache(req.Method, req.Path, resp.StatusCode) {
		return
	}

	_ = c.cacheManager.Set(ctx, c.cacheKey(req), resp.Body, cacheTTL(req.Path))
}

// cacheTTL picks a TTL for a response path. Device state churns faster than
// the organization roster, so device responses expire sooner.
func cacheTTL(path string) time.Duration {
	switch {
	case strings.HasPrefix(path, "/v2/organization"):
		return constants.OrganizationsCacheTTL
	case strings.HasPrefix(path, "/v2/device"):
		return constants.DevicesCacheTTL
	default:
		return constants.DefaultCacheTTL
	}
}

func (c *Client) convertResponseTimestamps(resp *Response) {
	if !c.convertTimestamps || len(resp.Body) == 0 {
		return
	}

	var data interface{}

	err := json.Unmarshal(resp.Body, &data)
	if err != nil {
		return
	}

	converted := ninja.ConvertTimestampsInData(data, nil)

	body, err := json.Marshal(converted)
	if err != nil {
		return
	}

	resp.Body = body
}

func (c *Client) logRequest(req *Request, fullURL string) {
	if !c.debug || c.logger == nil {
		return
	}

	c.logger.Debug("HTTP Request", map[string]interface{}{
		"method": req.Method,
		"url":    fullURL,
	})
}

func (c *Client) logResponse(resp *Response) {
	if !c.debug || c.logger == nil {
		return
	}

	c.logger.Debug("HTTP Response", map[string]interface{}{
		"status": resp.StatusCode,
		"size":   len(resp.Body),
	})
}
