// Package crosspost publishes one piece of content to a selection of
// destinations, the way the post composer does: in a fixed order, one
// destination at a time, stopping at the first failure.
package crosspost

import (
	"context"

	"github.com/gauthierbraillon/crosspost/internal/instagram"
	"github.com/gauthierbraillon/crosspost/internal/linkedin"
)

// Destination is a publishing target.
type Destination string

const (
	DestinationLinkedIn  Destination = "linkedin"
	DestinationInstagram Destination = "instagram"
)

// order is the fixed publishing order, independent of request order.
var order = []Destination{DestinationLinkedIn, DestinationInstagram}

// Status is the outcome of one destination.
type Status string

const (
	StatusPublished Status = "published"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// LinkedInTarget holds the LinkedIn credentials for a request.
type LinkedInTarget struct {
	AccessToken string `json:"access_token"` // #nosec G117 - caller-supplied bearer token
	// AuthorURN saves a userinfo round trip when already known.
	AuthorURN string `json:"author_urn,omitempty"`
}

// InstagramTarget holds the Instagram account, credentials and images.
type InstagramTarget struct {
	AccessToken string   `json:"access_token"` // #nosec G117 - caller-supplied bearer token
	IGUserID    string   `json:"ig_user_id"`
	ImageURLs   []string `json:"image_urls,omitempty"`
}

// Request is one composer submission.
type Request struct {
	Content      string           `json:"content"`
	Destinations []Destination    `json:"destinations"`
	LinkedIn     *LinkedInTarget  `json:"linkedin,omitempty"`
	Instagram    *InstagramTarget `json:"instagram,omitempty"`
}

// Outcome reports what happened for one destination.
type Outcome struct {
	Destination Destination    `json:"destination"`
	Status      Status         `json:"status"`
	Result      map[string]any `json:"result,omitempty"`
	Error       string         `json:"error,omitempty"`
}

// Report lists outcomes in publishing order.
type Report struct {
	Outcomes []Outcome `json:"outcomes"`
}

// Published reports whether every selected destination was published.
func (r *Report) Published() bool {
	for _, o := range r.Outcomes {
		if o.Status != StatusPublished {
			return false
		}
	}
	return len(r.Outcomes) > 0
}

// LinkedInPublisher is the part of linkedin.Client used here.
type LinkedInPublisher interface {
	PublishPost(ctx context.Context, post linkedin.Post, authorURN string) (map[string]any, error)
}

// InstagramPublisher is the part of instagram.Client used here.
type InstagramPublisher interface {
	PostSingleImage(ctx context.Context, post instagram.ImagePost) (map[string]any, error)
	PostCarousel(ctx context.Context, post instagram.CarouselPost) (map[string]any, error)
	PostText(ctx context.Context, post instagram.TextPost) error
}
