package instagram

import (
	"context"

	"github.com/gauthierbraillon/crosspost/internal/httpx"
)

const (
	postTextMessage = "PostText requires an Instagram user id and a public image URL. " +
		"Use PostSingleImage(ctx, ImagePost{IGUserID, AccessToken, ImageURL, Caption}) or PostCarousel(ctx, CarouselPost{...})."

	basicDisplayMessage = "Instagram Basic Display code exchange is read-only and cannot be used for publishing. " +
		"Use Facebook Login (Graph OAuth): ExchangeCode(...) instead."
)

// PostText always fails. Instagram cannot publish text alone: a post needs a
// public image URL and a resolved Instagram user id, neither of which a bare
// {AccessToken, Content} payload carries.
//
// Deprecated: use PostSingleImage or PostCarousel.
func (c *Client) PostText(_ context.Context, _ TextPost) error {
	return httpx.Validation("IG post text", postTextMessage)
}

// ExchangeBasicDisplayCode always fails. It exists so the read-only Instagram
// Basic Display OAuth flow is not wired up by mistake.
//
// Deprecated: use ExchangeCode with Facebook Login.
func (c *Client) ExchangeBasicDisplayCode(_ context.Context) error {
	return httpx.Validation("Instagram Basic Display code exchange", basicDisplayMessage)
}
