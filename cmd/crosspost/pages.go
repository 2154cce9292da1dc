package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gauthierbraillon/crosspost/internal/display"
)

// newPagesCmd lists the Facebook Pages the user manages, with the Instagram
// business account behind each one.
func newPagesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pages",
		Short: "List managed Facebook Pages and their Instagram accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := a.loadToken("facebook")
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			client := a.instagramClient()
			pages, err := client.ListManagedPages(ctx, token.AccessToken)
			if err != nil {
				return err
			}

			lines := make([]display.PageLine, 0, len(pages))
			for _, p := range pages {
				pageToken := p.AccessToken
				if pageToken == "" {
					pageToken = token.AccessToken
				}
				igID, linked, err := client.ResolveBusinessAccountID(ctx, p.ID, pageToken)
				if err != nil {
					return fmt.Errorf("page %s: %w", p.ID, err)
				}
				line := display.PageLine{ID: p.ID, Name: p.Name}
				if linked {
					line.IGUserID = igID
				}
				lines = append(lines, line)
			}

			fmt.Fprint(cmd.OutOrStdout(), display.NewTerminalFormatter().FormatPages(lines))
			return nil
		},
	}
}
