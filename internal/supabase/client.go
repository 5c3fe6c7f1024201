package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
)

const (
	restPath    = "/rest/v1"
	authPath    = "/auth/v1"
	storagePath = "/storage/v1"

	// TokenKey is the fixed key under which the access token is persisted.
	TokenKey = "supabase_access_token"
)

// ClientConfig identifies the backend project. It is immutable once a Client
// has been built from it.
type ClientConfig struct {
	BaseURL   string
	PublicKey string
}

// DataURL returns the tabular data endpoint.
func (c ClientConfig) DataURL() string { return c.base() + restPath }

// AuthURL returns the authentication endpoint.
func (c ClientConfig) AuthURL() string { return c.base() + authPath }

// StorageURL returns the object storage endpoint.
func (c ClientConfig) StorageURL() string { return c.base() + storagePath }

func (c ClientConfig) base() string {
	return strings.TrimSuffix(c.BaseURL, "/")
}

// Client talks to the data, auth and storage APIs of a Supabase project and
// attaches the current credential to every request.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
	store      TokenStore
	logger     *slog.Logger

	mu          sync.RWMutex
	accessToken string
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the transport. The default client has no timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTokenStore sets where the credential is persisted.
func WithTokenStore(store TokenStore) Option {
	return func(c *Client) { c.store = store }
}

// WithLogger sets the logger used for non-fatal failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient builds a client and restores any credential left in the token
// store by a previous session.
func NewClient(cfg ClientConfig, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	if cfg.PublicKey == "" {
		return nil, fmt.Errorf("public key is required")
	}

	c := &Client{
		config:     cfg,
		httpClient: &http.Client{},
		store:      NewMemoryStore(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	token, err := c.store.Get()
	if err != nil {
		c.logger.Warn("failed to restore session", slog.Any("error", err))
	} else if token != "" {
		c.accessToken = token
	}

	return c, nil
}

// Config returns the configuration the client was built with.
func (c *Client) Config() ClientConfig {
	return c.config
}

// WithAccessToken returns a client that shares this client's configuration and
// transport but holds its own in-memory credential.
func (c *Client) WithAccessToken(token string) *Client {
	return &Client{
		config:      c.config,
		httpClient:  c.httpClient,
		store:       NewMemoryStore(),
		logger:      c.logger,
		accessToken: token,
	}
}

// AccessToken returns the credential currently held in memory, or "".
func (c *Client) AccessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

// StoredToken reads the persisted credential back from the token store.
func (c *Client) StoredToken() (string, error) {
	return c.store.Get()
}

// setAccessToken and clearAccessToken hold mu across the store write so the
// in-memory credential and the persisted one always match the last writer.
func (c *Client) setAccessToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.accessToken = token
	if err := c.store.Set(token); err != nil {
		c.logger.Warn("failed to persist session", slog.Any("error", err))
	}
}

func (c *Client) clearAccessToken() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.accessToken = ""
	if err := c.store.Clear(); err != nil {
		c.logger.Warn("failed to clear persisted session", slog.Any("error", err))
	}
}

// bearer returns the credential, falling back to the public key for
// anonymous access.
func (c *Client) bearer() string {
	if token := c.AccessToken(); token != "" {
		return token
	}
	return c.config.PublicKey
}

func (c *Client) setDefaultHeaders(req *http.Request) {
	req.Header.Set("apikey", c.config.PublicKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")
	req.Header.Set("Authorization", "Bearer "+c.bearer())
}

// newJSONRequest builds a request carrying the default headers and, when data
// is non-nil, its JSON encoding as the body.
func (c *Client) newJSONRequest(ctx context.Context, method, url string, data any) (*http.Request, error) {
	var body io.Reader
	if data != nil {
		jsonData, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setDefaultHeaders(req)
	return req, nil
}

// send executes req and returns the response with its body fully read.
func (c *Client) send(req *http.Request) (*http.Response, []byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return resp, body, nil
}

// do executes req and returns the status code and full body.
func (c *Client) do(req *http.Request) (int, []byte, error) {
	resp, body, err := c.send(req)
	if resp == nil {
		return 0, nil, err
	}
	return resp.StatusCode, body, err
}

// reasonPhrase returns the status line text after the code, e.g. "Not Found"
// for "404 Not Found".
func reasonPhrase(resp *http.Response) string {
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason == "" {
		return http.StatusText(resp.StatusCode)
	}
	return reason
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
