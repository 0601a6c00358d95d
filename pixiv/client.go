package pixiv

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"pixiv-novel-downloader/config"
)

// envelope is the uniform response wrapper of the pixiv ajax API.
type envelope struct {
	Error   bool            `json:"error"`
	Message string          `json:"message"`
	Body    json.RawMessage `json:"body"`
}

// Client is the remote content gateway: one explicitly owned HTTP session
// carrying the user agent, referer, and auth cookie. It is injected into the
// pipeline by reference; the cookie can be swapped at runtime through
// UpdateCookie instead of mutating any global state.
type Client struct {
	mu     sync.Mutex
	resty  *resty.Client
	cookie string
}

func NewClient(cfg *config.Config) *Client {
	client := resty.New()
	client.SetBaseURL(cfg.BaseURL)
	client.SetLogger(disableLogger{})
	client.SetTransport(&http.Transport{
		DialContext: (&net.Dialer{
			Timeout: 10 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
	})
	client.SetTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second)
	client.SetHeaders(map[string]string{
		"User-Agent":      cfg.UserAgent,
		"Referer":         cfg.Referer,
		"Accept-Language": cfg.AcceptLanguage,
	})
	if cfg.Proxy.Enabled && cfg.Proxy.URL != "" {
		client.SetProxy(cfg.Proxy.URL)
	}
	return &Client{resty: client, cookie: cfg.Auth.Cookie}
}

// UpdateCookie swaps the auth cookie on the live session. Requests issued
// after the call carry the new credential. The cookie lives on the Client,
// not in the resty header map, so an update never mutates state a request in
// flight is reading.
func (c *Client) UpdateCookie(cookie string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cookie = cookie
}

// FetchJSON performs one GET against the remote API and unpacks the response
// envelope. Transport faults, non-200 statuses, and malformed envelopes come
// back as *TransportError; an envelope with the error flag set comes back as
// *RemoteError. A single attempt, no retries.
func (c *Client) FetchJSON(ctx context.Context, path string, query map[string]string) (json.RawMessage, error) {
	c.mu.Lock()
	req := c.resty.R()
	if c.cookie != "" {
		req.SetHeader("Cookie", c.cookie)
	}
	c.mu.Unlock()

	req.SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}

	resp, err := req.Get(path)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, &TransportError{Err: fmt.Errorf("unexpected status: %v", resp.Status())}
	}

	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return nil, &TransportError{Err: fmt.Errorf("failed to decode envelope: %w", err)}
	}
	if env.Error {
		return nil, &RemoteError{Message: env.Message}
	}
	return env.Body, nil
}

type disableLogger struct{}

func (d disableLogger) Errorf(string, ...interface{}) {}
func (d disableLogger) Warnf(string, ...interface{})  {}
func (d disableLogger) Debugf(string, ...interface{}) {}
