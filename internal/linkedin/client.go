package linkedin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/gauthierbraillon/crosspost/internal/httpx"
	"github.com/gauthierbraillon/crosspost/pkg/oauth"
)

const (
	defaultBaseURL  = "https://api.linkedin.com"
	defaultOAuthURL = "https://www.linkedin.com"

	// DefaultScope is requested when AuthParams.Scope is empty.
	// w_member_social is the grant that allows publishing.
	DefaultScope = "openid profile w_member_social"
)

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient httpx.HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBaseURL sets the REST API base URL (useful for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithOAuthBaseURL sets the base URL of the authorization and token endpoints.
func WithOAuthBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.oauthURL = url
	}
}

// Client is a LinkedIn API client. It is safe for concurrent use.
type Client struct {
	baseURL    string
	oauthURL   string
	httpClient httpx.HTTPClient
	now        func() time.Time
}

// NewClient creates a new LinkedIn API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		oauthURL:   defaultOAuthURL,
		httpClient: &http.Client{},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AuthURL builds the OAuth authorization URL. No network call is made.
func (c *Client) AuthURL(p oauth.AuthParams) string {
	return oauth.BuildAuthURL(c.oauthURL+"/oauth/v2/authorization", p, DefaultScope)
}

// ExchangeCode exchanges an authorization code for a bearer token string.
func (c *Client) ExchangeCode(ctx context.Context, ex oauth.CodeExchange) (string, error) {
	token, err := c.ExchangeToken(ctx, ex)
	if err != nil {
		return "", err
	}
	return token.AccessToken, nil
}

// ExchangeToken is ExchangeCode returning the token with its lifetime.
func (c *Client) ExchangeToken(ctx context.Context, ex oauth.CodeExchange) (*oauth.Token, error) {
	const op = "LinkedIn token exchange"

	form := httpx.EncodeForm(map[string]any{
		"grant_type":    "authorization_code",
		"code":          ex.Code,
		"redirect_uri":  ex.RedirectURI,
		"client_id":     ex.ClientID,
		"client_secret": ex.ClientSecret,
	})
	req, err := httpx.NewFormRequest(ctx, http.MethodPost, c.oauthURL+"/oauth/v2/accessToken", form)
	if err != nil {
		return nil, err
	}

	var resp tokenResponse
	if err := httpx.DoJSON(ctx, c.httpClient, req, op, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, httpx.Protocol(op, "LinkedIn token exchange returned no `access_token`.")
	}

	return &oauth.Token{
		AccessToken: resp.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   resp.ExpiresIn,
		ObtainedAt:  c.now(),
	}, nil
}

// ResolveAuthorURN looks up the member behind accessToken via the OpenID
// userinfo endpoint and returns its urn:li:person URN.
func (c *Client) ResolveAuthorURN(ctx context.Context, accessToken string) (string, error) {
	const op = "LinkedIn userinfo"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v2/userinfo", nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	setBearer(req, accessToken)
	req.Header.Set("Cache-Control", "no-store")

	var info userInfoResponse
	if err := httpx.DoJSON(ctx, c.httpClient, req, op, &info); err != nil {
		return "", err
	}
	if info.Sub == "" {
		return "", httpx.Protocol(op, "LinkedIn userinfo missing `sub`.")
	}
	return PersonURN(info.Sub), nil
}

// PublishPost publishes post.Content as a public text UGC post.
//
// When authorURN is empty it is resolved first, which costs one extra round
// trip; callers that already know the member should pass it. The parsed
// response body is returned as-is. Nothing is retried.
func (c *Client) PublishPost(ctx context.Context, post Post, authorURN string) (map[string]any, error) {
	const op = "LinkedIn post"

	if authorURN == "" {
		urn, err := c.ResolveAuthorURN(ctx, post.AccessToken)
		if err != nil {
			return nil, err
		}
		authorURN = urn
	}

	req, err := httpx.NewJSONRequest(ctx, http.MethodPost, c.baseURL+"/v2/ugcPosts", newUGCPost(authorURN, post.Content))
	if err != nil {
		return nil, err
	}
	setBearer(req, post.AccessToken)
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")

	resp, err := httpx.Do(ctx, c.httpClient, req, op)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := httpx.CheckResponse(resp, op); err != nil {
		return nil, err
	}

	result, err := decodeResult(resp, op)
	if err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Info().Str("author", authorURN).Interface("id", result["id"]).Msg("Published LinkedIn post")
	return result, nil
}

// decodeResult parses the post response. LinkedIn may answer 201 with an
// empty body and the new post id only in the X-RestLi-Id header.
func decodeResult(resp *http.Response, op string) (map[string]any, error) {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &httpx.Error{Kind: httpx.KindTransport, Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		result := map[string]any{}
		if id := resp.Header.Get("X-RestLi-Id"); id != "" {
			result["id"] = id
		}
		return result, nil
	}

	var result map[string]any
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, &httpx.Error{Kind: httpx.KindUpstreamBody, Op: op, StatusCode: resp.StatusCode, Status: http.StatusText(resp.StatusCode), Body: string(raw), RawBody: raw, Err: err}
	}
	return result, nil
}

func setBearer(req *http.Request, accessToken string) {
	req.Header.Set("Authorization", "Bearer "+accessToken)
}
