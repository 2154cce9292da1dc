// Package main provides the crosspost CLI entry point.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gauthierbraillon/crosspost/internal/config"
	"github.com/gauthierbraillon/crosspost/internal/instagram"
	"github.com/gauthierbraillon/crosspost/internal/linkedin"
	"github.com/gauthierbraillon/crosspost/internal/telemetry"
	"github.com/gauthierbraillon/crosspost/pkg/browser"
	"github.com/gauthierbraillon/crosspost/pkg/oauth"
)

// version is injected at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// resolveVersion prefers the ldflags version and falls back to the module
// version recorded by go install.
func resolveVersion(v string, info *debug.BuildInfo) string {
	if v != "dev" && v != "" {
		return v
	}
	if info == nil || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return "dev"
	}
	return info.Main.Version
}

func buildInfo() *debug.BuildInfo {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return nil
	}
	return info
}

// app carries what every command needs once the configuration is loaded.
type app struct {
	cfg     *config.Config
	log     zerolog.Logger
	verbose bool
	open    browser.Opener
}

// setup loads configuration and attaches the console logger to the command
// context so the API clients log through it.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := zerolog.InfoLevel
	if a.verbose || cfg.Verbose {
		level = zerolog.DebugLevel
	}
	a.log = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).
		Level(level).
		With().Timestamp().Logger()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(a.log.WithContext(ctx))
	return nil
}

func (a *app) httpClient() *http.Client {
	return &http.Client{Timeout: a.cfg.HTTPTimeout}
}

func (a *app) linkedinClient() *linkedin.Client {
	opts := []linkedin.ClientOption{linkedin.WithHTTPClient(a.httpClient())}
	if a.cfg.LinkedInAPIURL != "" {
		opts = append(opts, linkedin.WithBaseURL(a.cfg.LinkedInAPIURL))
	}
	if a.cfg.LinkedInOAuthURL != "" {
		opts = append(opts, linkedin.WithOAuthBaseURL(a.cfg.LinkedInOAuthURL))
	}
	return linkedin.NewClient(opts...)
}

func (a *app) instagramClient(extra ...instagram.ClientOption) *instagram.Client {
	opts := []instagram.ClientOption{instagram.WithHTTPClient(a.httpClient())}
	if a.cfg.GraphAPIURL != "" {
		opts = append(opts, instagram.WithBaseURL(a.cfg.GraphAPIURL))
	}
	return instagram.NewClient(append(opts, extra...)...)
}

func (a *app) storage() *oauth.TokenStorage {
	return oauth.NewTokenStorage(a.cfg.ConfigDir)
}

// loadToken returns a stored token, pointing at the auth command when absent.
func (a *app) loadToken(provider string) (*oauth.Token, error) {
	token, err := a.storage().Load(provider)
	if errors.Is(err, oauth.ErrTokenNotFound) {
		return nil, fmt.Errorf("not authenticated with %s (run 'crosspost auth url %s')", provider, provider)
	}
	if err != nil {
		return nil, err
	}
	if token.Expired(time.Now()) {
		a.log.Warn().Str("provider", provider).Msg("Stored token has expired; the request will likely be rejected")
	}
	return token, nil
}

// startTelemetry installs tracing when an OTLP endpoint is configured.
func (a *app) startTelemetry(ctx context.Context) (func(), error) {
	shutdown, err := telemetry.InitTracer(ctx, telemetry.TracerConfig{
		ServiceName:    "crosspost",
		ServiceVersion: resolveVersion(version, buildInfo()),
		Endpoint:       a.cfg.OTLPEndpoint,
		Insecure:       true,
		SampleRatio:    1,
	})
	if err != nil {
		return nil, err
	}
	return func() {
		if err := shutdown(context.Background()); err != nil {
			a.log.Warn().Err(err).Msg("Tracer shutdown failed")
		}
	}, nil
}

// newRootCmd creates the root command for crosspost CLI.
func newRootCmd() *cobra.Command {
	a := &app{open: browser.Open}

	rootCmd := &cobra.Command{
		Use:           "crosspost",
		Short:         "Publish posts to LinkedIn and Instagram",
		Long:          "Crosspost publishes text to LinkedIn and images to Instagram business accounts, and manages the OAuth tokens both need.",
		Version:       resolveVersion(version, buildInfo()),
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.SetVersionTemplate("crosspost version {{.Version}}\n")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log every upstream request")

	rootCmd.AddCommand(newAuthCmd(a))
	rootCmd.AddCommand(newPagesCmd(a))
	rootCmd.AddCommand(newPostCmd(a))
	rootCmd.AddCommand(newServeCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))

	return rootCmd
}

// newConfigCmd creates the config subcommand.
func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show configuration",
		Long:  "Show where crosspost keeps its tokens and which upstreams it talks to.",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config directory: %s\n", a.cfg.ConfigDir)
			fmt.Fprintf(out, "Redirect URI: %s\n", a.cfg.RedirectURI)
			fmt.Fprintf(out, "LinkedIn app configured: %t\n", a.cfg.LinkedIn.ClientID != "")
			fmt.Fprintf(out, "Facebook app configured: %t\n", a.cfg.Facebook.ClientID != "")
			return nil
		},
	}
}
