package crosspost

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gauthierbraillon/crosspost/internal/httpx"
	"github.com/gauthierbraillon/crosspost/internal/instagram"
	"github.com/gauthierbraillon/crosspost/internal/linkedin"
	"github.com/gauthierbraillon/crosspost/internal/telemetry"
)

const op = "crosspost"

// Option configures a Publisher.
type Option func(*Publisher)

// WithMetrics records one publish metric per destination attempt.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(p *Publisher) {
		p.metrics = m
	}
}

// Publisher fans one request out to LinkedIn and Instagram.
type Publisher struct {
	linkedin  LinkedInPublisher
	instagram InstagramPublisher
	metrics   *telemetry.Metrics
}

// NewPublisher creates a Publisher over the given clients.
func NewPublisher(li LinkedInPublisher, ig InstagramPublisher, opts ...Option) *Publisher {
	p := &Publisher{linkedin: li, instagram: ig}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish validates req, then publishes to each selected destination in
// LinkedIn, Instagram order. The first failure stops the run: later
// destinations are reported as skipped and the failure is returned alongside
// the report. Destinations already published are not rolled back.
func (p *Publisher) Publish(ctx context.Context, req Request) (*Report, error) {
	selected, err := validate(req)
	if err != nil {
		return nil, err
	}

	log := zerolog.Ctx(ctx)
	report := &Report{Outcomes: make([]Outcome, 0, len(selected))}
	var failure error

	for _, dest := range selected {
		if failure != nil {
			report.Outcomes = append(report.Outcomes, Outcome{Destination: dest, Status: StatusSkipped})
			continue
		}

		start := time.Now()
		result, err := p.publishTo(ctx, dest, req)
		elapsed := time.Since(start).Seconds()

		if err != nil {
			failure = err
			p.metrics.RecordPublish(ctx, string(dest), string(StatusFailed), elapsed)
			log.Warn().Err(err).Str("destination", string(dest)).Msg("Cross-post failed")
			report.Outcomes = append(report.Outcomes, Outcome{Destination: dest, Status: StatusFailed, Error: err.Error()})
			continue
		}

		p.metrics.RecordPublish(ctx, string(dest), string(StatusPublished), elapsed)
		report.Outcomes = append(report.Outcomes, Outcome{Destination: dest, Status: StatusPublished, Result: result})
	}

	return report, failure
}

func (p *Publisher) publishTo(ctx context.Context, dest Destination, req Request) (map[string]any, error) {
	switch dest {
	case DestinationLinkedIn:
		return p.linkedin.PublishPost(ctx, linkedin.Post{
			AccessToken: req.LinkedIn.AccessToken,
			Content:     req.Content,
		}, req.LinkedIn.AuthorURN)

	case DestinationInstagram:
		target := req.Instagram
		switch len(target.ImageURLs) {
		case 0:
			return nil, p.instagram.PostText(ctx, instagram.TextPost{AccessToken: target.AccessToken, Content: req.Content})
		case 1:
			return p.instagram.PostSingleImage(ctx, instagram.ImagePost{
				IGUserID:    target.IGUserID,
				AccessToken: target.AccessToken,
				ImageURL:    target.ImageURLs[0],
				Caption:     req.Content,
			})
		default:
			return p.instagram.PostCarousel(ctx, instagram.CarouselPost{
				IGUserID:    target.IGUserID,
				AccessToken: target.AccessToken,
				ImageURLs:   target.ImageURLs,
				Caption:     req.Content,
			})
		}
	}
	return nil, httpx.Validation(op, fmt.Sprintf("unknown destination %q", dest))
}

// validate checks every selected destination before the first call, so a
// request the upstream clients would reject never leaves an earlier
// destination already published.
func validate(req Request) ([]Destination, error) {
	if len(req.Destinations) == 0 {
		return nil, httpx.Validation(op, "Select at least one destination.")
	}
	for _, d := range req.Destinations {
		if !slices.Contains(order, d) {
			return nil, httpx.Validation(op, fmt.Sprintf("Unknown destination %q: must be 'linkedin' or 'instagram'.", d))
		}
	}

	hasImages := req.Instagram != nil && len(req.Instagram.ImageURLs) > 0
	if strings.TrimSpace(req.Content) == "" && !hasImages {
		return nil, httpx.Validation(op, "Nothing to post: content is empty.")
	}

	selected := make([]Destination, 0, len(order))
	for _, d := range order {
		if !slices.Contains(req.Destinations, d) {
			continue
		}
		switch d {
		case DestinationLinkedIn:
			if req.LinkedIn == nil || req.LinkedIn.AccessToken == "" {
				return nil, httpx.Validation(op, "LinkedIn access token is required.")
			}
			if strings.TrimSpace(req.Content) == "" {
				return nil, httpx.Validation(op, "LinkedIn posts need text content.")
			}
			if req.LinkedIn.AuthorURN != "" && !linkedin.IsPersonURN(req.LinkedIn.AuthorURN) {
				return nil, httpx.Validation(op, fmt.Sprintf("Invalid LinkedIn author %q: expected urn:li:person:<id>.", req.LinkedIn.AuthorURN))
			}
		case DestinationInstagram:
			if req.Instagram == nil || req.Instagram.AccessToken == "" {
				return nil, httpx.Validation(op, "Instagram access token is required.")
			}
			images := len(req.Instagram.ImageURLs)
			if images > 0 && req.Instagram.IGUserID == "" {
				return nil, httpx.Validation(op, "Instagram business account id is required.")
			}
			if images > instagram.MaxCarouselItems {
				return nil, httpx.Validation(op, fmt.Sprintf("Carousel accepts at most %d image URLs.", instagram.MaxCarouselItems))
			}
		}
		selected = append(selected, d)
	}
	return selected, nil
}
