// Package server exposes the publishing and OAuth operations as a JSON API
// for the web composer.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/gauthierbraillon/crosspost/internal/config"
	"github.com/gauthierbraillon/crosspost/internal/crosspost"
	"github.com/gauthierbraillon/crosspost/internal/instagram"
	"github.com/gauthierbraillon/crosspost/pkg/oauth"
)

const serviceName = "crosspost"

// LinkedInAuth is the part of linkedin.Client the API needs.
type LinkedInAuth interface {
	AuthURL(p oauth.AuthParams) string
	ExchangeToken(ctx context.Context, ex oauth.CodeExchange) (*oauth.Token, error)
}

// Facebook is the part of instagram.Client the API needs.
type Facebook interface {
	AuthURL(p oauth.AuthParams) string
	ExchangeCode(ctx context.Context, ex oauth.CodeExchange) (*oauth.Token, error)
	ExtendAccessToken(ctx context.Context, ext instagram.TokenExtension) (*oauth.Token, error)
	ListManagedPages(ctx context.Context, userAccessToken string) ([]instagram.Page, error)
	ResolveBusinessAccountID(ctx context.Context, pageID, pageAccessToken string) (string, bool, error)
}

// Poster publishes a composer request.
type Poster interface {
	Publish(ctx context.Context, req crosspost.Request) (*crosspost.Report, error)
}

// Deps are the collaborators behind the API.
type Deps struct {
	LinkedIn  LinkedInAuth
	Facebook  Facebook
	Publisher Poster
	Config    *config.Config
	Logger    zerolog.Logger
}

// Server is the HTTP API.
type Server struct {
	deps   Deps
	router *gin.Engine
}

// New builds the router and its middleware chain.
func New(deps Deps) *Server {
	s := &Server{deps: deps}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestID())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(requestLogger(deps.Logger))
	router.Use(corsMiddleware(deps.Config.CORSOrigins))
	router.Use(rateLimit(deps.Config.RateLimit))

	router.GET("/healthz", s.health)

	api := router.Group("/api")
	api.GET("/auth/:provider/url", s.authURL)
	api.POST("/auth/:provider/token", s.exchangeToken)
	api.POST("/facebook/token/extend", s.extendToken)
	api.GET("/facebook/pages", s.listPages)
	api.POST("/posts", s.publish)

	s.router = router
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.deps.Logger.Info().Str("addr", addr).Msg("API server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	s.deps.Logger.Info().Msg("API server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
