// Package api is the HTTP client for the takeoff admin REST API.
//
// Every call is bound to one base URL, forwards cookies through a shared jar,
// and picks its content type from the payload (JSON or multipart). Errors
// leaving this package are always *Failure.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"takeoffadmin/internal/logging"

	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"
)

// Options configures a Client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client performs admin API calls.
type Client struct {
	base  *url.URL
	http  *http.Client
	mu    sync.RWMutex
	token string
}

// New creates a client bound to opts.BaseURL with a cookie jar attached.
func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", opts.BaseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: scheme must be http or https", opts.BaseURL)
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	if hc.Jar == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		hc.Jar = jar
	}
	if opts.Timeout > 0 {
		hc.Timeout = opts.Timeout
	}

	logging.API("client bound to %s (timeout %s)", base, hc.Timeout)
	return &Client{base: base, http: hc}, nil
}

// BaseURL returns the bound base URL.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// SetToken sets the bearer token sent with every request. Empty clears it.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
	if token == "" {
		logging.APIDebug("bearer token cleared")
	} else {
		logging.APIDebug("bearer token set")
	}
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Get performs a GET.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodGet, path, query, nil)
}

// Post performs a POST.
func (c *Client) Post(ctx context.Context, path string, body Body) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPost, path, nil, body)
}

// Put performs a PUT.
func (c *Client) Put(ctx context.Context, path string, body Body) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPut, path, nil, body)
}

// Delete performs a DELETE.
func (c *Client) Delete(ctx context.Context, path string) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

// Do performs exactly one request and returns the response body unchanged.
// A nil body is sent as an empty JSON request.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body Body) (json.RawMessage, error) {
	requestID := uuid.New().String()
	log := logging.Get(logging.CategoryAPI).WithRequestID(requestID)
	timer := logging.StartTimer(logging.CategoryAPI, method+" "+path)
	defer timer.StopWithThreshold(5 * time.Second)

	u := c.resolve(path, query)

	var reader io.Reader
	contentType := "application/json"
	if body != nil {
		r, ct, err := body.Encode()
		if err != nil {
			log.Warn("%s %s: request not sent: %v", method, path, err)
			return nil, NewLocalFailure(err)
		}
		reader, contentType = r, ct
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, NewTransportFailure(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	log.Debug("%s %s", method, u)
	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn("%s %s: transport error: %v", method, u, err)
		return nil, NewTransportFailure(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewTransportFailure(fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		f := NewServerFailure(resp.StatusCode, data)
		log.Warn("%s %s: %d %s", method, u, resp.StatusCode, f.Message)
		return nil, f
	}

	if len(data) == 0 {
		return json.RawMessage("{}"), nil
	}
	if !json.Valid(data) {
		return nil, NewMalformedFailure(data, "response from %s is not JSON", path)
	}

	log.Info("%s %s: %d (%d bytes)", method, u, resp.StatusCode, len(data))
	return json.RawMessage(data), nil
}

func (c *Client) resolve(path string, query url.Values) string {
	// path is already escaped by the caller, so it is joined as text.
	u := strings.TrimRight(c.base.String(), "/") + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}
