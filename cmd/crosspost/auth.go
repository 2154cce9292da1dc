package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gauthierbraillon/crosspost/internal/display"
	"github.com/gauthierbraillon/crosspost/internal/instagram"
	"github.com/gauthierbraillon/crosspost/pkg/oauth"
)

// newAuthCmd creates the auth subcommand.
func newAuthCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with a provider (linkedin or facebook)",
		Long: "Build an authorization URL, then exchange the code LinkedIn or Facebook " +
			"redirects back with for an access token stored in the config directory.",
	}

	cmd.AddCommand(newAuthURLCmd(a))
	cmd.AddCommand(newAuthExchangeCmd(a))
	return cmd
}

func newAuthURLCmd(a *app) *cobra.Command {
	var open bool
	var state string

	cmd := &cobra.Command{
		Use:   "url <provider>",
		Short: "Print the authorization URL for a provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider := args[0]
			creds, err := a.cfg.CredentialsFor(provider)
			if err != nil {
				return err
			}
			if state == "" {
				state = oauth.NewState()
			}

			params := oauth.AuthParams{
				ClientID:    creds.ClientID,
				RedirectURI: a.cfg.RedirectURI,
				State:       state,
			}
			var authURL string
			if provider == "linkedin" {
				authURL = a.linkedinClient().AuthURL(params)
			} else {
				authURL = a.instagramClient().AuthURL(params)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n", authURL)
			fmt.Fprintf(out, "State: %s\n", state)

			if open {
				if err := a.open(authURL); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Could not open browser: %v\n", err)
				}
			}
			fmt.Fprintf(out, "After approving, run: crosspost auth exchange %s --code <code>\n", provider)
			return nil
		},
	}

	cmd.Flags().BoolVar(&open, "open", false, "Open the URL in the default browser")
	cmd.Flags().StringVar(&state, "state", "", "OAuth state value (generated when empty)")
	return cmd
}

func newAuthExchangeCmd(a *app) *cobra.Command {
	var code string
	var extend bool

	cmd := &cobra.Command{
		Use:   "exchange <provider>",
		Short: "Exchange an authorization code for an access token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider := args[0]
			creds, err := a.cfg.CredentialsFor(provider)
			if err != nil {
				return err
			}
			if extend && provider != "facebook" {
				return fmt.Errorf("--extend is only supported for facebook")
			}

			ctx := cmd.Context()
			ex := oauth.CodeExchange{
				ClientID:     creds.ClientID,
				ClientSecret: creds.ClientSecret,
				RedirectURI:  a.cfg.RedirectURI,
				Code:         code,
			}

			var token *oauth.Token
			if provider == "linkedin" {
				token, err = a.linkedinClient().ExchangeToken(ctx, ex)
			} else {
				client := a.instagramClient()
				token, err = client.ExchangeCode(ctx, ex)
				if err == nil && extend {
					token, err = client.ExtendAccessToken(ctx, instagram.TokenExtension{
						ClientID:        creds.ClientID,
						ClientSecret:    creds.ClientSecret,
						ShortLivedToken: token.AccessToken,
					})
				}
			}
			if err != nil {
				return fmt.Errorf("token exchange failed: %w", err)
			}

			if err := a.storage().Save(provider, token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, display.NewTerminalFormatter().FormatToken(provider, token))
			fmt.Fprintf(out, "Successfully authenticated with %s!\n", provider)
			fmt.Fprintf(out, "Token saved to: %s\n", a.cfg.ConfigDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "Authorization code from the redirect")
	cmd.Flags().BoolVar(&extend, "extend", false, "Trade the Facebook token for a long-lived one")
	_ = cmd.MarkFlagRequired("code")
	return cmd
}
