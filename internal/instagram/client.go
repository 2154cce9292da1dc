package instagram

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gauthierbraillon/crosspost/internal/httpx"
)

const (
	// GraphVersion is the Graph API version every request targets.
	GraphVersion = "v18.0"

	defaultBaseURL   = "https://graph.facebook.com/" + GraphVersion
	defaultDialogURL = "https://www.facebook.com/" + GraphVersion + "/dialog/oauth"

	MinCarouselItems = 2
	MaxCarouselItems = 10
)

// DefaultScopes cover page listing, page read, page publish and the two
// Instagram publishing grants.
var DefaultScopes = []string{
	"pages_show_list",
	"pages_read_engagement",
	"pages_manage_posts",
	"instagram_basic",
	"instagram_content_publish",
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient httpx.HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBaseURL sets the versioned Graph API base URL (useful for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithDialogURL sets the Facebook Login dialog URL.
func WithDialogURL(url string) ClientOption {
	return func(c *Client) {
		c.dialogURL = url
	}
}

// WithOrphanHook registers a callback for containers left unpublished by a
// partial failure. The default is no hook and no cleanup.
func WithOrphanHook(hook OrphanHook) ClientOption {
	return func(c *Client) {
		c.orphanHook = hook
	}
}

// WithChildConcurrency sets how many carousel children are created at once.
// The default of 1 creates them strictly in sequence.
func WithChildConcurrency(n int) ClientOption {
	return func(c *Client) {
		if n < 1 {
			n = 1
		}
		c.childConcurrency = n
	}
}

// Client is a Facebook Graph API client for Instagram publishing. It holds no
// credentials and is safe for concurrent use.
type Client struct {
	baseURL          string
	dialogURL        string
	httpClient       httpx.HTTPClient
	orphanHook       OrphanHook
	childConcurrency int
	now              func() time.Time
}

// NewClient creates a new Graph API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:          defaultBaseURL,
		dialogURL:        defaultDialogURL,
		httpClient:       &http.Client{},
		childConcurrency: 1,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) get(ctx context.Context, path string, query url.Values, op string, v any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")
	return httpx.DoJSON(ctx, c.httpClient, req, op, v)
}

func (c *Client) postForm(ctx context.Context, path string, fields map[string]any, op string, v any) error {
	req, err := httpx.NewFormRequest(ctx, http.MethodPost, c.baseURL+path, httpx.EncodeForm(fields))
	if err != nil {
		return err
	}
	return httpx.DoJSON(ctx, c.httpClient, req, op, v)
}

func nodePath(id string, edge string) string {
	p := "/" + url.PathEscape(id)
	if edge != "" {
		p += "/" + edge
	}
	return p
}
