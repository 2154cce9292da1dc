package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gauthierbraillon/crosspost/internal/crosspost"
	"github.com/gauthierbraillon/crosspost/internal/display"
	"github.com/gauthierbraillon/crosspost/internal/instagram"
	"github.com/gauthierbraillon/crosspost/internal/linkedin"
	"github.com/gauthierbraillon/crosspost/internal/telemetry"
)

// newPostCmd creates the post subcommand.
func newPostCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Publish a post",
	}
	cmd.AddCommand(newPostLinkedInCmd(a))
	cmd.AddCommand(newPostInstagramCmd(a))
	return cmd
}

func newPostLinkedInCmd(a *app) *cobra.Command {
	var author string

	cmd := &cobra.Command{
		Use:   "linkedin <text>",
		Short: "Publish a text post to LinkedIn",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if author != "" && !linkedin.IsPersonURN(author) {
				return fmt.Errorf("invalid --author %q: expected urn:li:person:<id>", author)
			}
			token, err := a.loadToken("linkedin")
			if err != nil {
				return err
			}
			return a.publish(cmd, crosspost.Request{
				Content:      args[0],
				Destinations: []crosspost.Destination{crosspost.DestinationLinkedIn},
				LinkedIn:     &crosspost.LinkedInTarget{AccessToken: token.AccessToken, AuthorURN: author},
			})
		},
	}

	cmd.Flags().StringVar(&author, "author", "", "Author URN (resolved from the token when empty)")
	return cmd
}

func newPostInstagramCmd(a *app) *cobra.Command {
	var igUser, caption string
	var images []string
	var parallel int

	cmd := &cobra.Command{
		Use:   "instagram",
		Short: "Publish one image, or a carousel of 2-10 images, to Instagram",
		Long: "Publish to an Instagram business account. Image URLs must be publicly " +
			"reachable; Instagram fetches them itself.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := a.loadToken("facebook")
			if err != nil {
				return err
			}
			return a.publish(cmd, crosspost.Request{
				Content:      caption,
				Destinations: []crosspost.Destination{crosspost.DestinationInstagram},
				Instagram: &crosspost.InstagramTarget{
					AccessToken: token.AccessToken,
					IGUserID:    igUser,
					ImageURLs:   images,
				},
			}, instagram.WithChildConcurrency(parallel))
		},
	}

	cmd.Flags().StringVar(&igUser, "ig-user", "", "Instagram business account id (see 'crosspost pages')")
	cmd.Flags().StringArrayVar(&images, "image", nil, "Public image URL; repeat for a carousel")
	cmd.Flags().StringVar(&caption, "caption", "", "Post caption")
	cmd.Flags().IntVar(&parallel, "parallel", 1, "Carousel items to create at once")
	_ = cmd.MarkFlagRequired("ig-user")
	return cmd
}

// publish runs req through the composer flow and prints the report.
func (a *app) publish(cmd *cobra.Command, req crosspost.Request, igOpts ...instagram.ClientOption) error {
	ctx := cmd.Context()

	stop, err := a.startTelemetry(ctx)
	if err != nil {
		return err
	}
	defer stop()

	metrics, err := telemetry.NewMetrics()
	if err != nil {
		return err
	}

	igOpts = append(igOpts, instagram.WithOrphanHook(func(_ context.Context, o instagram.OrphanedContainers) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Left %d unpublished container(s) after %s failed: %v\n",
			len(o.ContainerIDs), o.Stage, o.ContainerIDs)
	}))
	publisher := crosspost.NewPublisher(a.linkedinClient(), a.instagramClient(igOpts...), crosspost.WithMetrics(metrics))

	report, err := publisher.Publish(ctx, req)
	if report != nil {
		fmt.Fprint(cmd.OutOrStdout(), display.NewTerminalFormatter().FormatReport(report))
	}
	return err
}
