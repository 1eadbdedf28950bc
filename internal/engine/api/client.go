// Package api is the client for the remote catalog and planning service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/rendis/tourplan/internal/observability"
)

const DefaultBaseURL = "http://localhost:5000"

// APIError is a failure reported by the service, either through a non-2xx
// status or a success=false envelope.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

// ErrMalformed wraps bodies that are not the expected JSON envelope.
var ErrMalformed = errors.New("malformed response")

type Options struct {
	// ProxyURL routes requests through an HTTP or SOCKS5 proxy.
	ProxyURL string
	// RPS paces outgoing requests; zero means 10 per second.
	RPS    float64
	Logger zerolog.Logger
	// HTTPClient overrides the default transport, mostly for tests.
	HTTPClient *http.Client
}

type Client struct {
	http *http.Client
	base string
	rl   *rate.Limiter
	log  zerolog.Logger
}

func NewClient(base string, opts Options) *Client {
	if base == "" {
		base = DefaultBaseURL
	}
	if opts.RPS <= 0 {
		opts.RPS = 10
	}

	hc := opts.HTTPClient
	if hc == nil {
		dialer := &net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}
		transport := &http.Transport{
			DialContext:         dialer.DialContext,
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		}
		if opts.ProxyURL != "" {
			if proxyParsed, err := url.Parse(opts.ProxyURL); err == nil {
				transport.Proxy = http.ProxyURL(proxyParsed)
			}
		}
		// No client-wide timeout: every call carries its own context deadline.
		hc = &http.Client{Transport: transport}
	}

	return &Client{
		http: hc,
		base: strings.TrimRight(base, "/"),
		rl:   rate.NewLimiter(rate.Limit(opts.RPS), max(1, int(opts.RPS))),
		log:  opts.Logger,
	}
}

func (c *Client) BaseURL() string { return c.base }

type envelope struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
}

// do sends one request and decodes the JSON body into out. There are no
// retries; callers decide whether to try again.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	reqURL := c.base + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		rdr = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, rdr)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		observability.ObserveExternal(path, 0, time.Since(start))
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()
	observability.ObserveExternal(path, resp.StatusCode, time.Since(start))
	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("api call")

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading body: %w", err)
	}

	var env envelope
	envErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := fmt.Sprintf("HTTP error! status: %d", resp.StatusCode)
		if envErr == nil && env.Error != "" {
			msg = env.Error
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}
	if envErr != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, envErr)
	}
	if env.Success != nil && !*env.Success {
		msg := env.Error
		if msg == "" {
			msg = "request failed"
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}
