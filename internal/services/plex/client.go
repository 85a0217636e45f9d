package plex

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	productName    = "plexdate"
	productVersion = "0.1.0"
	userAgent      = "plexdate-go/" + productVersion
	defaultTimeout = 30 * time.Second
)

// HTTPDoer abstracts http.Client.Do for testing.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client performs authenticated requests against one Plex server.
type Client struct {
	baseURL  string
	token    string
	clientID string
	http     HTTPDoer
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP backend.
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) {
		if doer != nil {
			c.http = doer
		}
	}
}

// WithTimeout sets the request timeout of the default HTTP backend. It has no
// effect after WithHTTPClient.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if hc, ok := c.http.(*http.Client); ok && timeout > 0 {
			hc.Timeout = timeout
		}
	}
}

// WithClientIdentifier pins the X-Plex-Client-Identifier header.
func WithClientIdentifier(id string) Option {
	return func(c *Client) {
		if strings.TrimSpace(id) != "" {
			c.clientID = strings.TrimSpace(id)
		}
	}
}

// NewClient constructs a client for baseURL authenticated with token.
func NewClient(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:    strings.TrimSpace(token),
		clientID: strings.ReplaceAll(uuid.New().String(), "-", ""),
		http:     &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the normalized server address.
func (c *Client) BaseURL() string { return c.baseURL }

// Server describes the identity reported by the server root endpoint.
type Server struct {
	FriendlyName      string
	MachineIdentifier string
	Version           string
	Platform          string
}

// Connect verifies the token against the server root. A rejected token yields
// ErrUnauthorized; any other failure is a *ConnectionError.
func (c *Client) Connect(ctx context.Context) (*Server, error) {
	var root struct {
		FriendlyName      string `xml:"friendlyName,attr"`
		MachineIdentifier string `xml:"machineIdentifier,attr"`
		Version           string `xml:"version,attr"`
		Platform          string `xml:"platform,attr"`
	}
	if err := c.do(ctx, http.MethodGet, "/", nil, &root); err != nil {
		if errors.Is(err, ErrUnauthorized) {
			return nil, err
		}
		var connErr *ConnectionError
		if errors.As(err, &connErr) {
			return nil, err
		}
		if errors.Is(err, ErrNotFound) {
			return nil, &ConnectionError{
				URL:        c.baseURL,
				StatusCode: http.StatusNotFound,
				Err:        errors.New("no plex server at this address"),
			}
		}
		return nil, &ConnectionError{URL: c.baseURL, Err: err}
	}
	return &Server{
		FriendlyName:      root.FriendlyName,
		MachineIdentifier: root.MachineIdentifier,
		Version:           root.Version,
		Platform:          root.Platform,
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return fmt.Errorf("build plex request: %w", err)
	}
	c.applyHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return &ConnectionError{URL: c.baseURL + path, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		_, _ = io.Copy(io.Discard, resp.Body)
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%s %s: %w", method, path, ErrNotFound)
	case resp.StatusCode >= http.StatusMultipleChoices:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &ConnectionError{
			URL:        c.baseURL + path,
			StatusCode: resp.StatusCode,
			Err:        errors.New(strings.TrimSpace(string(body))),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := xml.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode plex %s response: %w", path, err)
	}
	return nil
}

func (c *Client) applyHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/xml")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Plex-Token", c.token)
	req.Header.Set("X-Plex-Client-Identifier", c.clientID)
	req.Header.Set("X-Plex-Product", productName)
	req.Header.Set("X-Plex-Version", productVersion)
	req.Header.Set("X-Plex-Device-Name", productName)
	req.Header.Set("X-Plex-Platform", runtime.GOOS)
}
