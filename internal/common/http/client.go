package http

import (
	"context"
	"crypto/tls"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/textproto"
	"strings"
	"syscall"
	"time"

	"service-gateway/internal/common/errors"
)

// ClientConfig holds outbound HTTP client configuration
type ClientConfig struct {
	Timeout             time.Duration
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	MaxConnsPerHost     int
	IdleConnTimeout     time.Duration
	DisableKeepAlives   bool
	DisableCompression  bool
	InsecureSkipVerify  bool
	FollowRedirects     bool
	Transport           http.RoundTripper
}

// DefaultClientConfig returns the gateway pool defaults: 500 connections in
// total, 100 per upstream host
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Timeout:             30 * time.Second,
		MaxIdleConns:        500,
		MaxIdleConnsPerHost: 100,
		MaxConnsPerHost:     100,
		IdleConnTimeout:     90 * time.Second,
		DisableCompression:  true,
	}
}

// ClientOption is a function that modifies ClientConfig
type ClientOption func(*ClientConfig)

// WithTimeout sets the client timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *ClientConfig) {
		c.Timeout = timeout
	}
}

// WithMaxIdleConns sets the maximum number of idle connections
func WithMaxIdleConns(max int) ClientOption {
	return func(c *ClientConfig) {
		c.MaxIdleConns = max
	}
}

// WithMaxConnsPerHost caps idle and active connections per upstream host
func WithMaxConnsPerHost(max int) ClientOption {
	return func(c *ClientConfig) {
		c.MaxConnsPerHost = max
		c.MaxIdleConnsPerHost = max
	}
}

// WithIdleConnTimeout sets the idle connection timeout
func WithIdleConnTimeout(timeout time.Duration) ClientOption {
	return func(c *ClientConfig) {
		c.IdleConnTimeout = timeout
	}
}

// WithoutKeepAlives disables keep-alives
func WithoutKeepAlives() ClientOption {
	return func(c *ClientConfig) {
		c.DisableKeepAlives = true
	}
}

// WithFollowRedirects makes the client follow upstream redirects instead of
// passing them back to the caller
func WithFollowRedirects() ClientOption {
	return func(c *ClientConfig) {
		c.FollowRedirects = true
	}
}

// WithTransport sets a custom transport
func WithTransport(transport http.RoundTripper) ClientOption {
	return func(c *ClientConfig) {
		c.Transport = transport
	}
}

// WithInsecureSkipVerify disables SSL certificate verification
func WithInsecureSkipVerify() ClientOption {
	return func(c *ClientConfig) {
		c.InsecureSkipVerify = true
	}
}

// NewHTTPClient creates a new HTTP client with the given options
func NewHTTPClient(opts ...ClientOption) *http.Client {
	cfg := DefaultClientConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return newHTTPClient(cfg)
}

func newHTTPClient(cfg ClientConfig) *http.Client {
	transport := cfg.Transport
	if transport == nil {
		httpTransport := &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        cfg.MaxIdleConns,
			MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
			MaxConnsPerHost:     cfg.MaxConnsPerHost,
			IdleConnTimeout:     cfg.IdleConnTimeout,
			DisableKeepAlives:   cfg.DisableKeepAlives,
			DisableCompression:  cfg.DisableCompression,
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout: 10 * time.Second,
		}
		if cfg.InsecureSkipVerify {
			httpTransport.TLSClientConfig = &tls.Config{
				InsecureSkipVerify: true,
			}
		}
		transport = httpTransport
	}

	client := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: transport,
	}
	if !cfg.FollowRedirects {
		client.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}
	return client
}

// Response is a fully buffered upstream response
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	Duration   time.Duration
}

// StreamResponse is an upstream response whose body the caller must close
type StreamResponse struct {
	StatusCode int
	Headers    http.Header
	Body       io.ReadCloser
}

// Executor performs one outbound exchange. Any HTTP status is a successful
// exchange; a non-nil error always means the exchange itself failed.
type Executor interface {
	Execute(ctx context.Context, method, url string, headers http.Header, body io.Reader) (*Response, error)
}

// Streamer is an Executor that can hand back an unread body
type Streamer interface {
	Executor
	Stream(ctx context.Context, method, url string, headers http.Header, body io.Reader) (*StreamResponse, error)
}

// Client is the default Executor on a pooled net/http client
type Client struct {
	client *http.Client
}

// NewClient creates an executor with the given options
func NewClient(opts ...ClientOption) *Client {
	return &Client{client: NewHTTPClient(opts...)}
}

// HTTPClient exposes the underlying client
func (c *Client) HTTPClient() *http.Client {
	return c.client
}

// Execute sends the request and buffers the whole response body
func (c *Client) Execute(ctx context.Context, method, url string, headers http.Header, body io.Reader) (*Response, error) {
	start := time.Now()

	resp, err := c.do(ctx, method, url, headers, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError("failed to read upstream response", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       data,
		Duration:   time.Since(start),
	}, nil
}

// Stream sends the request and returns without reading the body
func (c *Client) Stream(ctx context.Context, method, url string, headers http.Header, body io.Reader) (*StreamResponse, error) {
	resp, err := c.do(ctx, method, url, headers, body)
	if err != nil {
		return nil, err
	}
	return &StreamResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       resp.Body,
	}, nil
}

// sizedBody is a body whose length the caller already knows
type sizedBody struct {
	io.Reader
	size int64
}

// SizedBody attaches a known length to body so the upstream request carries
// Content-Length instead of chunked encoding. Unknown sizes return body as is.
func SizedBody(body io.Reader, size int64) io.Reader {
	if body == nil || size <= 0 {
		return body
	}
	return &sizedBody{Reader: body, size: size}
}

func (c *Client) do(ctx context.Context, method, url string, headers http.Header, body io.Reader) (*http.Response, error) {
	sized, hasSize := body.(*sizedBody)
	if hasSize {
		body = sized.Reader
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, transportError(fmt.Sprintf("invalid upstream request %s %s", method, url), err)
	}
	if hasSize {
		req.ContentLength = sized.size
	}
	CopyHeaders(req.Header, headers)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, transportError("upstream request failed", err)
	}
	return resp, nil
}

func transportError(msg string, err error) *errors.AppError {
	return errors.TransportError(msg, err, IsUnavailable(err))
}

// IsUnavailable reports whether err is a connection refusal or a timeout,
// the failures surfaced to callers as 503 rather than 502
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	var netErr net.Error
	return stderrors.As(err, &netErr) && netErr.Timeout()
}

var hopByHopHeaders = map[string]struct{}{
	"Connection":          {},
	"Keep-Alive":          {},
	"Proxy-Authenticate":  {},
	"Proxy-Authorization": {},
	"Proxy-Connection":    {},
	"Te":                  {},
	"Trailer":             {},
	"Transfer-Encoding":   {},
	"Upgrade":             {},
	"Content-Length":      {},
	"Host":                {},
}

// CopyHeaders copies end-to-end headers from src to dst, skipping hop-by-hop
// headers and any header named in src's Connection header
func CopyHeaders(dst, src http.Header) {
	if src == nil {
		return
	}
	connection := map[string]struct{}{}
	for _, v := range src.Values("Connection") {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				connection[textproto.CanonicalMIMEHeaderKey(name)] = struct{}{}
			}
		}
	}

	for name, values := range src {
		key := textproto.CanonicalMIMEHeaderKey(name)
		if _, hop := hopByHopHeaders[key]; hop {
			continue
		}
		if _, listed := connection[key]; listed {
			continue
		}
		for _, v := range values {
			dst.Add(key, v)
		}
	}
}
