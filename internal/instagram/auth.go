package instagram

import (
	"context"
	"net/url"
	"strings"

	"github.com/gauthierbraillon/crosspost/internal/httpx"
	"github.com/gauthierbraillon/crosspost/pkg/oauth"
)

// AuthURL builds the Facebook Login URL. Publishing to Instagram requires
// Facebook Login; Instagram Basic Display cannot publish.
func (c *Client) AuthURL(p oauth.AuthParams) string {
	return oauth.BuildAuthURL(c.dialogURL, p, strings.Join(DefaultScopes, ","))
}

// ExchangeCode exchanges an authorization code for a short-lived user token.
func (c *Client) ExchangeCode(ctx context.Context, ex oauth.CodeExchange) (*oauth.Token, error) {
	query := url.Values{}
	query.Set("client_id", ex.ClientID)
	query.Set("client_secret", ex.ClientSecret)
	query.Set("redirect_uri", ex.RedirectURI)
	query.Set("code", ex.Code)
	return c.accessToken(ctx, query, "Facebook token exchange")
}

// ExtendAccessToken exchanges a short-lived user token for a long-lived one.
// Do this before storing a token for later use.
func (c *Client) ExtendAccessToken(ctx context.Context, ext TokenExtension) (*oauth.Token, error) {
	query := url.Values{}
	query.Set("grant_type", "fb_exchange_token")
	query.Set("client_id", ext.ClientID)
	query.Set("client_secret", ext.ClientSecret)
	query.Set("fb_exchange_token", ext.ShortLivedToken)
	return c.accessToken(ctx, query, "Facebook extend token")
}

func (c *Client) accessToken(ctx context.Context, query url.Values, op string) (*oauth.Token, error) {
	var resp tokenResponse
	if err := c.get(ctx, "/oauth/access_token", query, op, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, httpx.Protocol(op, op+" returned no `access_token`.")
	}
	return &oauth.Token{
		AccessToken: resp.AccessToken,
		TokenType:   resp.TokenType,
		ExpiresIn:   resp.ExpiresIn,
		ObtainedAt:  c.now(),
	}, nil
}
