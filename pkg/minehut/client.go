// Package minehut is a small client for the public Minehut API covering the
// endpoints needed to describe a server: the server itself, the icon catalogue
// and the add-on catalogue.
package minehut

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the public Minehut API
	DefaultBaseURL = "https://api.minehut.com"

	// DefaultTimeout bounds a single request
	DefaultTimeout = 10 * time.Second

	defaultUserAgent = "hutbot (+https://github.com/latoulicious/hutbot)"

	// maxErrorBody caps how much of an error response is kept
	maxErrorBody = 512
)

// Endpoint names, used as metric labels
const (
	EndpointServer = "server"
	EndpointIcons  = "icons"
	EndpointAddons = "addons"
)

// ErrServerNotFound is returned when no server has the requested name
var ErrServerNotFound = errors.New("minehut: server not found")

// APIError is returned for any non 2xx response
type APIError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("minehut: %s returned status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("minehut: %s returned status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// RequestObserver receives one call per completed request
type RequestObserver interface {
	ObserveRequest(endpoint string, statusCode int, took time.Duration)
}

// Client talks to the Minehut API
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	observer   RequestObserver
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithMetrics reports request counts and latency to observer
func WithMetrics(observer RequestObserver) Option {
	return func(c *Client) {
		c.observer = observer
	}
}

// NewClient creates a client rooted at baseURL. An empty baseURL selects the
// public API.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		userAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type serverResponse struct {
	Server *Server `json:"server"`
}

// GetServer fetches a server by its name
func (c *Client) GetServer(ctx context.Context, name string) (*Server, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrServerNotFound
	}

	endpoint := fmt.Sprintf("/server/%s?byName=true", url.PathEscape(name))

	var resp serverResponse
	if err := c.get(ctx, EndpointServer, endpoint, &resp); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrServerNotFound, name)
		}
		return nil, err
	}

	if resp.Server == nil || resp.Server.Name == "" {
		return nil, fmt.Errorf("%w: %s", ErrServerNotFound, name)
	}
	return resp.Server, nil
}

// ActiveIcon resolves the icon currently selected by server. It returns nil
// without error when the server has no active icon or the icon is unknown.
func (c *Client) ActiveIcon(ctx context.Context, server *Server) (*Icon, error) {
	if server == nil || server.ActiveIconID == "" {
		return nil, nil
	}

	var icons []Icon
	if err := c.get(ctx, EndpointIcons, "/servers/icons", &icons); err != nil {
		return nil, err
	}

	for i := range icons {
		if icons[i].ID == server.ActiveIconID {
			return &icons[i], nil
		}
	}
	return nil, nil
}

// InstalledContent resolves the add-ons installed on server, in installation
// order. Installed ids missing from the catalogue are skipped.
func (c *Client) InstalledContent(ctx context.Context, server *Server) ([]Addon, error) {
	if server == nil || len(server.InstalledContent) == 0 {
		return nil, nil
	}

	var catalogue []Addon
	if err := c.get(ctx, EndpointAddons, "/addons", &catalogue); err != nil {
		return nil, err
	}

	byID := make(map[string]Addon, len(catalogue))
	for _, addon := range catalogue {
		if addon.Category == "" {
			addon.Category = DefaultAddonCategory
		}
		byID[addon.ID] = addon
	}

	addons := make([]Addon, 0, len(server.InstalledContent))
	for _, item := range server.InstalledContent {
		if addon, ok := byID[item.ContentID]; ok {
			addons = append(addons, addon)
		}
	}
	return addons, nil
}

// get performs a GET request against path and decodes the JSON body into out
func (c *Client) get(ctx context.Context, endpoint, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("minehut: failed to create %s request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(endpoint, 0, time.Since(start))
		return fmt.Errorf("minehut: %s request failed: %w", endpoint, err)
	}
	defer resp.Body.Close()
	c.observe(endpoint, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("minehut: failed to decode %s response: %w", endpoint, err)
	}
	return nil
}

func (c *Client) observe(endpoint string, statusCode int, took time.Duration) {
	if c.observer != nil {
		c.observer.ObserveRequest(endpoint, statusCode, took)
	}
}
