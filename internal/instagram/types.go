// Package instagram publishes to Instagram business accounts through the
// Facebook Graph API.
//
// Publishing needs an identity chain (user token -> managed pages -> the
// Instagram business account linked to a page) and then a media pipeline:
// create a container, optionally chain carousel children under a parent,
// then publish the container exactly once.
//
// A container that is created but never published stays on the Graph side.
// This package does not retry or clean up after a partial failure; register
// an OrphanHook to learn which containers were left behind.
package instagram

import "context"

// Page is a Facebook Page the user administers.
type Page struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	AccessToken string `json:"access_token,omitempty"` // #nosec G117 - page token returned by the Graph API
}

// TokenExtension carries the inputs for a short-lived to long-lived token exchange.
type TokenExtension struct {
	ClientID        string
	ClientSecret    string // #nosec G117 - OAuth app credential supplied by the caller
	ShortLivedToken string
}

// ImageContainer stages a single image. ImageURL must already be publicly
// fetchable by Instagram; it is not uploaded or validated here.
type ImageContainer struct {
	IGUserID    string
	AccessToken string
	ImageURL    string
	Caption     string
	// UserTags is an optional JSON-encoded user_tags value.
	UserTags string
}

// CarouselChild stages one image of a carousel.
type CarouselChild struct {
	IGUserID    string
	AccessToken string
	ImageURL    string
}

// CarouselContainer stages the parent of 2-10 child containers.
type CarouselContainer struct {
	IGUserID    string
	AccessToken string
	ChildIDs    []string
	Caption     string
}

// Publish publishes a staged container.
type Publish struct {
	IGUserID    string
	CreationID  string
	AccessToken string
}

// ImagePost is a single-image post.
type ImagePost struct {
	IGUserID    string `json:"ig_user_id"`
	AccessToken string `json:"access_token"` // #nosec G117 - caller-supplied bearer token
	ImageURL    string `json:"image_url"`
	Caption     string `json:"caption,omitempty"`
}

// CarouselPost is a multi-image post of 2-10 images, kept in order.
type CarouselPost struct {
	IGUserID    string   `json:"ig_user_id"`
	AccessToken string   `json:"access_token"` // #nosec G117 - caller-supplied bearer token
	ImageURLs   []string `json:"image_urls"`
	Caption     string   `json:"caption,omitempty"`
}

// TextPost is the legacy {accessToken, content} payload. Instagram cannot
// publish it; see PostText.
type TextPost struct {
	AccessToken string `json:"access_token"` // #nosec G117 - caller-supplied bearer token
	Content     string `json:"content"`
}

// Stage names the step of a multi-step publish that failed.
type Stage string

const (
	StageCarouselChild     Stage = "carousel_child"
	StageCarouselContainer Stage = "carousel_container"
	StagePublish           Stage = "publish"
)

// OrphanedContainers describes containers created upstream but never
// published because a later step failed.
type OrphanedContainers struct {
	IGUserID string
	// ContainerIDs lists the orphaned children in input order, followed by
	// the carousel parent when one was created.
	ContainerIDs []string
	Stage        Stage
	Err          error
}

// OrphanHook is called after a partial failure. It runs synchronously before
// the failing call returns and must not assume the ids can still be published.
type OrphanHook func(ctx context.Context, orphans OrphanedContainers)

// API response types

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type pagesResponse struct {
	Data []Page `json:"data"`
}

type pageResponse struct {
	InstagramBusinessAccount *struct {
		ID string `json:"id"`
	} `json:"instagram_business_account"`
}

type containerResponse struct {
	ID string `json:"id"`
}
