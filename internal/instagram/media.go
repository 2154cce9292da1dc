package instagram

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/gauthierbraillon/crosspost/internal/httpx"
)

// CreateImageContainer stages a single image and returns the container id.
func (c *Client) CreateImageContainer(ctx context.Context, in ImageContainer) (string, error) {
	var userTags any
	if in.UserTags != "" {
		userTags = in.UserTags
	}
	return c.createContainer(ctx, in.IGUserID, map[string]any{
		"image_url":    in.ImageURL,
		"caption":      in.Caption,
		"user_tags":    userTags,
		"access_token": in.AccessToken,
	}, "IG create image container")
}

// CreateCarouselChild stages one carousel item (is_carousel_item=true).
func (c *Client) CreateCarouselChild(ctx context.Context, in CarouselChild) (string, error) {
	return c.createContainer(ctx, in.IGUserID, map[string]any{
		"image_url":        in.ImageURL,
		"is_carousel_item": true,
		"access_token":     in.AccessToken,
	}, "IG create carousel child")
}

// CreateCarouselContainer stages the carousel parent. Children are referenced
// in the order given.
func (c *Client) CreateCarouselContainer(ctx context.Context, in CarouselContainer) (string, error) {
	const op = "IG create carousel container"
	if err := validateCarouselSize(op, len(in.ChildIDs), "child container ids"); err != nil {
		return "", err
	}
	return c.createContainer(ctx, in.IGUserID, map[string]any{
		"media_type":   "CAROUSEL",
		"children":     strings.Join(in.ChildIDs, ","),
		"caption":      in.Caption,
		"access_token": in.AccessToken,
	}, op)
}

// PublishMedia publishes a staged container and returns the raw Graph response.
func (c *Client) PublishMedia(ctx context.Context, in Publish) (map[string]any, error) {
	var result map[string]any
	err := c.postForm(ctx, nodePath(in.IGUserID, "media_publish"), map[string]any{
		"creation_id":  in.CreationID,
		"access_token": in.AccessToken,
	}, "IG publish", &result)
	if err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Info().Str("ig_user_id", in.IGUserID).Interface("id", result["id"]).Msg("Published Instagram media")
	return result, nil
}

// PostSingleImage creates an image container and publishes it. If publishing
// fails the container is left unpublished and reported to the OrphanHook.
func (c *Client) PostSingleImage(ctx context.Context, post ImagePost) (map[string]any, error) {
	containerID, err := c.CreateImageContainer(ctx, ImageContainer{
		IGUserID:    post.IGUserID,
		AccessToken: post.AccessToken,
		ImageURL:    post.ImageURL,
		Caption:     post.Caption,
	})
	if err != nil {
		return nil, err
	}

	result, err := c.PublishMedia(ctx, Publish{IGUserID: post.IGUserID, CreationID: containerID, AccessToken: post.AccessToken})
	if err != nil {
		c.reportOrphans(ctx, post.IGUserID, []string{containerID}, StagePublish, err)
		return nil, err
	}
	return result, nil
}

// PostCarousel publishes 2-10 images as one carousel: every child container,
// then the parent referencing them in input order, then the publish call.
// Invalid input fails before any request is made. A failure after the first
// child leaves the created containers unpublished; they are reported to the
// OrphanHook and not cleaned up.
func (c *Client) PostCarousel(ctx context.Context, post CarouselPost) (map[string]any, error) {
	const op = "IG carousel"
	if err := validateCarouselSize(op, len(post.ImageURLs), "image URLs"); err != nil {
		return nil, err
	}

	childIDs, err := c.createChildren(ctx, post)
	if err != nil {
		c.reportOrphans(ctx, post.IGUserID, childIDs, StageCarouselChild, err)
		return nil, err
	}

	parentID, err := c.CreateCarouselContainer(ctx, CarouselContainer{
		IGUserID:    post.IGUserID,
		AccessToken: post.AccessToken,
		ChildIDs:    childIDs,
		Caption:     post.Caption,
	})
	if err != nil {
		c.reportOrphans(ctx, post.IGUserID, childIDs, StageCarouselContainer, err)
		return nil, err
	}

	result, err := c.PublishMedia(ctx, Publish{IGUserID: post.IGUserID, CreationID: parentID, AccessToken: post.AccessToken})
	if err != nil {
		c.reportOrphans(ctx, post.IGUserID, append(childIDs, parentID), StagePublish, err)
		return nil, err
	}
	return result, nil
}

// createChildren returns the child ids in input order. On failure it returns
// the ids that were created before the error.
func (c *Client) createChildren(ctx context.Context, post CarouselPost) ([]string, error) {
	ids := make([]string, len(post.ImageURLs))

	if c.childConcurrency <= 1 {
		for i, imageURL := range post.ImageURLs {
			id, err := c.CreateCarouselChild(ctx, CarouselChild{IGUserID: post.IGUserID, AccessToken: post.AccessToken, ImageURL: imageURL})
			if err != nil {
				return ids[:i], err
			}
			ids[i] = id
		}
		return ids, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.childConcurrency)
	for i, imageURL := range post.ImageURLs {
		g.Go(func() error {
			id, err := c.CreateCarouselChild(gctx, CarouselChild{IGUserID: post.IGUserID, AccessToken: post.AccessToken, ImageURL: imageURL})
			if err != nil {
				return err
			}
			ids[i] = id
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		created := make([]string, 0, len(ids))
		for _, id := range ids {
			if id != "" {
				created = append(created, id)
			}
		}
		return created, err
	}
	return ids, nil
}

func (c *Client) createContainer(ctx context.Context, igUserID string, fields map[string]any, op string) (string, error) {
	var resp containerResponse
	if err := c.postForm(ctx, nodePath(igUserID, "media"), fields, op, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", httpx.Protocol(op, op+" returned no container `id`.")
	}
	return resp.ID, nil
}

func (c *Client) reportOrphans(ctx context.Context, igUserID string, ids []string, stage Stage, err error) {
	if len(ids) == 0 {
		return
	}
	zerolog.Ctx(ctx).Warn().
		Err(err).
		Str("ig_user_id", igUserID).
		Strs("container_ids", ids).
		Str("stage", string(stage)).
		Msg("Instagram containers left unpublished")
	if c.orphanHook != nil {
		c.orphanHook(ctx, OrphanedContainers{
			IGUserID:     igUserID,
			ContainerIDs: append([]string(nil), ids...),
			Stage:        stage,
			Err:          err,
		})
	}
}

func validateCarouselSize(op string, n int, what string) error {
	switch {
	case n < MinCarouselItems:
		return httpx.Validation(op, fmt.Sprintf("Carousel requires at least %d %s.", MinCarouselItems, what))
	case n > MaxCarouselItems:
		return httpx.Validation(op, fmt.Sprintf("Carousel accepts at most %d %s.", MaxCarouselItems, what))
	}
	return nil
}
