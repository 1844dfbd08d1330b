// Package client wraps http.Client with the request defaults the platform
// endpoints expect: a desktop User-Agent, compressed transfer, retry with
// backoff for transient failures, and optional egress from a random address
// inside an IPv6 block.
package client

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/DjDeveloperr/ytdl-core/errs"
	"github.com/DjDeveloperr/ytdl-core/internal/logger"
)

const (
	defaultTimeout = 30 * time.Second
	defaultRetries = 3

	userAgentValue = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 3 * time.Second
)

// defaultTransport is a tuned HTTP transport reused across clients.
// Compression is negotiated and decoded by this package, not the transport,
// so the brotli encoding can be offered too.
var defaultTransport = &http.Transport{
	Proxy:                 http.ProxyFromEnvironment,
	MaxIdleConns:          100,
	MaxIdleConnsPerHost:   10,
	IdleConnTimeout:       90 * time.Second,
	TLSHandshakeTimeout:   10 * time.Second,
	ExpectContinueTimeout: 1 * time.Second,
	ResponseHeaderTimeout: 10 * time.Second,
	ForceAttemptHTTP2:     true,
	DisableCompression:    true,
	ReadBufferSize:        16 * 1024,
	WriteBufferSize:       16 * 1024,
	DialContext: (&net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext,
}

// Config holds optional client parameters. Zero values use defaults.
type Config struct {
	Timeout   time.Duration
	Retries   int
	UserAgent string
	// Headers are added to every request. A Cookie entry here enables the
	// authenticated watch-page flow.
	Headers map[string]string
	// Lang sets the Accept-Language header.
	Lang     string
	ProxyURL string
	// IPv6Block, in CIDR form such as "2001:db8::/32", makes every
	// connection dial from a random address inside the block.
	IPv6Block string
}

// Client wraps http.Client with retry/backoff and default headers.
type Client struct {
	HTTPClient *http.Client
	Retries    int
	UserAgent  string
	Headers    map[string]string
	Lang       string
}

// New creates a new Client with a tuned Transport, default timeout, and retries.
func New() *Client {
	return &Client{
		HTTPClient: &http.Client{
			Timeout:   defaultTimeout,
			Transport: defaultTransport,
		},
		Retries:   defaultRetries,
		UserAgent: userAgentValue,
	}
}

// NewWith creates a new client with provided config. Zero values use defaults.
func NewWith(cfg Config) (*Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	retries := cfg.Retries
	if retries <= 0 {
		retries = defaultRetries
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = userAgentValue
	}

	tr := defaultTransport.Clone()
	if cfg.ProxyURL != "" {
		proxyFunc, err := proxyFromURLString(cfg.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("parse proxy url: %w", err)
		}
		tr.Proxy = proxyFunc
	}
	if cfg.IPv6Block != "" {
		dial, err := ipv6BlockDialer(cfg.IPv6Block)
		if err != nil {
			return nil, err
		}
		tr.DialContext = dial
	}

	return &Client{
		HTTPClient: &http.Client{
			Timeout:   timeout,
			Transport: tr,
		},
		Retries:   retries,
		UserAgent: ua,
		Headers:   cfg.Headers,
		Lang:      cfg.Lang,
	}, nil
}

// Get performs a GET request with a retry policy for transient errors (HTTP
// 5xx or network failures). 4xx responses are returned as a StatusError
// without retrying. The response body is transparently decompressed.
func (c *Client) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	return c.GetWithHeaders(ctx, rawURL, nil)
}

// GetWithHeaders is Get with extra per-request headers layered over the
// client's own.
func (c *Client) GetWithHeaders(ctx context.Context, rawURL string, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	retries := c.Retries
	if retries < 1 {
		retries = 1
	}

	var lastErr error
	backoff := initialBackoff
	for attempt := 0; attempt < retries; attempt++ {
		if attempt > 0 {
			logger.WithComponent(logger.ComponentClient).Debug("retrying request", map[string]interface{}{
				"url":     rawURL,
				"attempt": attempt,
			})
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
		}

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode >= 400 {
			resp.Body.Close()
			statusErr := &errs.StatusError{URL: rawURL, Code: resp.StatusCode}
			if resp.StatusCode == http.StatusTooManyRequests {
				return nil, fmt.Errorf("%w: %w", errs.ErrRateLimited, statusErr)
			}
			if !statusErr.Retryable() {
				return nil, statusErr
			}
			lastErr = statusErr
			continue
		}
		if err := decompressResponse(resp); err != nil {
			resp.Body.Close()
			return nil, err
		}
		return resp, nil
	}
	return nil, lastErr
}

// GetBody fetches rawURL and returns the full decompressed body.
func (c *Client) GetBody(ctx context.Context, rawURL string) ([]byte, error) {
	return c.GetBodyWithHeaders(ctx, rawURL, nil)
}

// GetBodyWithHeaders fetches rawURL with extra headers and returns the full
// decompressed body.
func (c *Client) GetBodyWithHeaders(ctx context.Context, rawURL string, headers map[string]string) ([]byte, error) {
	resp, err := c.GetWithHeaders(ctx, rawURL, headers)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.userAgent())
	req.Header.Set("Accept-Encoding", acceptEncodings)
	if c.Lang != "" {
		req.Header.Set("Accept-Language", c.Lang)
	}
	for k, v := range c.Headers {
		req.Header.Set(k, v)
	}
}

func (c *Client) userAgent() string {
	if c.UserAgent == "" {
		return userAgentValue
	}
	return c.UserAgent
}

// proxyFromURLString parses a proxy URL and returns a Proxy function.
func proxyFromURLString(raw string) (func(*http.Request) (*url.URL, error), error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	return http.ProxyURL(u), nil
}
