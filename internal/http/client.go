// Package http implements the shared request engine every resource
// client dispatches through: auth injection, URL construction, response
// decoding, and translation of failure responses into the typed error
// taxonomy in pkg/sonar.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fivetwenty-io/sonar/internal/auth"
	"github.com/fivetwenty-io/sonar/internal/constants"
	"github.com/fivetwenty-io/sonar/pkg/sonar"
	"github.com/hashicorp/go-retryablehttp"
)

// Shape selects the decoding strategy requested for a response body.
type Shape int

const (
	// ShapeJSON decodes the body as JSON; an empty body decodes to nothing.
	ShapeJSON Shape = iota
	// ShapeText returns the body as text.
	ShapeText
	// ShapeBytes returns the raw body bytes.
	ShapeBytes
)

// Request represents an API request. It is created per call and consumed
// once.
type Request struct {
	Method string
	Path   string
	// Query carries unordered query parameters.
	Query url.Values
	// RawQuery, when set, is used verbatim as the encoded query string
	// and wins over Query. The v2 query builder produces it so that its
	// ordering contract survives URL construction.
	RawQuery string
	Headers  map[string]string
	// Body is marshaled as JSON unless it is a []byte or io.Reader.
	Body  interface{}
	Shape Shape
}

// Response represents an API response with the body fully read.
type Response struct {
	StatusCode int
	Headers    nethttp.Header
	Body       []byte
}

// JSON decodes the response body into v. An empty body is tolerated and
// leaves v untouched, since some endpoints answer 204 or an empty 200
// that is not valid JSON.
func (r *Response) JSON(v interface{}) error {
	if len(bytes.TrimSpace(r.Body)) == 0 {
		return nil
	}

	err := json.Unmarshal(r.Body, v)
	if err != nil {
		return fmt.Errorf("decoding response body: %w", err)
	}

	return nil
}

// Text returns the response body as a string.
func (r *Response) Text() string {
	return string(r.Body)
}

// Logger interface for HTTP client logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Client is the HTTP client used by all resource clients. Configuration
// is read-only after construction, so concurrent calls against one
// instance are safe.
type Client struct {
	baseURL      string
	organization string
	provider     sonar.AuthProvider
	retryClient  *retryablehttp.Client
	logger       Logger
	debug        bool
	userAgent    string
}

// Option configures the client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging through the configured
// logger.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithOrganization appends an organization query parameter to every
// request that does not already carry one.
func WithOrganization(organization string) Option {
	return func(c *Client) {
		c.organization = organization
	}
}

// WithRetryConfig enables retries for transient failures (5xx, 429,
// connection errors). Without it every call is a single attempt.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.retryClient.RetryMax = retryMax
		c.retryClient.RetryWaitMin = waitMin
		c.retryClient.RetryWaitMax = waitMax
	}
}

// NewClient creates a new HTTP client for the given base URL and
// credential provider. A nil provider means unauthenticated requests.
func NewClient(baseURL string, provider sonar.AuthProvider, opts ...Option) *Client {
	if provider == nil {
		provider = auth.NoAuth{}
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.Logger = nil
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	// Keep the final response when retries are exhausted so failure
	// statuses reach the error classifier instead of being discarded.
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client := &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		provider:    provider,
		retryClient: retryClient,
		userAgent:   "sonar-go-client",
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Do executes a request and returns the response. Failure responses are
// translated into the typed error taxonomy; the response is returned
// alongside the error so callers can still inspect the status code.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	return c.do(ctx, req, false)
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodGet, Path: path, Query: query})
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodPost, Path: path, Body: body})
}

// PostForm performs a POST request carrying parameters in the query
// string, the convention several of the service's v1 write endpoints use.
func (c *Client) PostForm(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodPost, Path: path, Query: query})
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodPut, Path: path, Body: body})
}

// Patch performs a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodPatch, Path: path, Body: body})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodDelete, Path: path})
}

func (c *Client) do(ctx context.Context, req *Request, v2 bool) (*Response, error) {
	httpResp, fullURL, err := c.send(ctx, req, v2)
	if err != nil {
		return nil, err
	}

	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &sonar.NetworkError{URL: fullURL, Err: err}
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       body,
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"method":      req.Method,
			"url":         fullURL,
			"status_code": resp.StatusCode,
			"body_size":   len(body),
		})
	}

	if resp.StatusCode >= nethttp.StatusBadRequest {
		if v2 {
			return resp, sonar.ClassifyV2Response(resp.StatusCode, resp.Headers, body)
		}

		return resp, sonar.ClassifyResponse(resp.StatusCode, resp.Headers, body)
	}

	if v2 && resp.StatusCode == nethttp.StatusNoContent {
		// The v2 API answers 204 for writes; callers decode an empty
		// object instead of failing on an empty body.
		resp.Body = []byte("{}")
	}

	return resp, nil
}

// send issues the network call and returns the live response without
// reading the body. Transport failures come back as *sonar.NetworkError
// unless the context was cancelled, in which case the cancellation is
// propagated as such.
func (c *Client) send(ctx context.Context, req *Request, v2 bool) (*nethttp.Response, string, error) {
	fullURL, err := c.buildURL(req)
	if err != nil {
		return nil, "", err
	}

	bodyReader, err := encodeBody(req.Body)
	if err != nil {
		return nil, "", err
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, bodyReader)
	if err != nil {
		return nil, "", fmt.Errorf("creating request: %w", err)
	}

	c.applyHeaders(httpReq.Header, req, v2)

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    fullURL,
		})
	}

	httpResp, err := c.retryClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, "", fmt.Errorf("request cancelled: %w", ctx.Err())
		}

		return nil, "", &sonar.NetworkError{URL: fullURL, Err: err}
	}

	return httpResp, fullURL, nil
}

// applyHeaders builds the final header set: content negotiation first,
// then the auth provider, then caller-supplied headers last so the
// caller wins on conflicts.
func (c *Client) applyHeaders(header nethttp.Header, req *Request, v2 bool) {
	if v2 {
		header.Set("Content-Type", "application/json")
		header.Set("Accept", "application/json")
	} else if req.Shape == ShapeJSON {
		header.Set("Content-Type", "application/json")
		header.Set("Accept", "application/json")
	}

	if c.userAgent != "" {
		header.Set("User-Agent", c.userAgent)
	}

	c.provider.Apply(header)

	for key, value := range req.Headers {
		header.Set(key, value)
	}
}

// buildURL joins the base URL and path, merges query parameters, and
// appends the configured organization exactly once when the target does
// not already carry one. A pre-encoded RawQuery is kept verbatim to
// preserve its key ordering.
func (c *Client) buildURL(req *Request) (string, error) {
	parsed, err := url.Parse(c.baseURL + req.Path)
	if err != nil {
		return "", fmt.Errorf("building request URL: %w", err)
	}

	if req.RawQuery != "" {
		raw := req.RawQuery
		if c.organization != "" && !rawQueryHasKey(raw, "organization") {
			raw += "&organization=" + url.QueryEscape(c.organization)
		}

		parsed.RawQuery = raw

		return parsed.String(), nil
	}

	query := parsed.Query()
	for key, values := range req.Query {
		query[key] = values
	}

	if c.organization != "" && query.Get("organization") == "" {
		query.Set("organization", c.organization)
	}

	parsed.RawQuery = query.Encode()

	return parsed.String(), nil
}

func rawQueryHasKey(rawQuery, key string) bool {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return false
	}

	return values.Get(key) != ""
}

func encodeBody(body interface{}) (io.Reader, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return bytes.NewReader(b), nil
	case io.Reader:
		return b, nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}

		return bytes.NewReader(data), nil
	}
}
