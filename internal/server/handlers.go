package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gauthierbraillon/crosspost/internal/crosspost"
	"github.com/gauthierbraillon/crosspost/internal/httpx"
	"github.com/gauthierbraillon/crosspost/internal/instagram"
	"github.com/gauthierbraillon/crosspost/pkg/oauth"
)

// PageResponse is a managed page with its linked Instagram account, if any.
type PageResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	IGUserID string `json:"ig_user_id,omitempty"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) authURL(c *gin.Context) {
	provider := c.Param("provider")
	creds, err := s.deps.Config.CredentialsFor(provider)
	if err != nil {
		respondWithBadRequest(c, err.Error())
		return
	}

	state := c.Query("state")
	if state == "" {
		state = oauth.NewState()
	}
	params := oauth.AuthParams{
		ClientID:    creds.ClientID,
		RedirectURI: s.deps.Config.RedirectURI,
		State:       state,
	}

	var url string
	if provider == "linkedin" {
		url = s.deps.LinkedIn.AuthURL(params)
	} else {
		url = s.deps.Facebook.AuthURL(params)
	}
	c.JSON(http.StatusOK, gin.H{"url": url, "state": state})
}

type exchangeRequest struct {
	Code string `json:"code" binding:"required"`
}

func (s *Server) exchangeToken(c *gin.Context) {
	provider := c.Param("provider")
	creds, err := s.deps.Config.CredentialsFor(provider)
	if err != nil {
		respondWithBadRequest(c, err.Error())
		return
	}

	var req exchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBadRequest(c, "Request body must be {\"code\": \"...\"}.")
		return
	}

	ex := oauth.CodeExchange{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RedirectURI:  s.deps.Config.RedirectURI,
		Code:         req.Code,
	}

	var token *oauth.Token
	if provider == "linkedin" {
		token, err = s.deps.LinkedIn.ExchangeToken(c.Request.Context(), ex)
	} else {
		token, err = s.deps.Facebook.ExchangeCode(c.Request.Context(), ex)
	}
	if err != nil {
		respondWithUpstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, token)
}

type extendRequest struct {
	AccessToken string `json:"access_token" binding:"required"` // #nosec G117 - short-lived token supplied by the caller
}

func (s *Server) extendToken(c *gin.Context) {
	creds, err := s.deps.Config.CredentialsFor("facebook")
	if err != nil {
		respondWithBadRequest(c, err.Error())
		return
	}

	var req extendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBadRequest(c, "Request body must be {\"access_token\": \"...\"}.")
		return
	}

	token, err := s.deps.Facebook.ExtendAccessToken(c.Request.Context(), instagram.TokenExtension{
		ClientID:        creds.ClientID,
		ClientSecret:    creds.ClientSecret,
		ShortLivedToken: req.AccessToken,
	})
	if err != nil {
		respondWithUpstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, token)
}

func (s *Server) listPages(c *gin.Context) {
	userToken, ok := bearerToken(c)
	if !ok {
		respondWithError(c, http.StatusUnauthorized, "unauthorized", "Missing bearer token.", nil)
		return
	}

	ctx := c.Request.Context()
	pages, err := s.deps.Facebook.ListManagedPages(ctx, userToken)
	if err != nil {
		respondWithUpstreamError(c, err)
		return
	}

	out := make([]PageResponse, 0, len(pages))
	for _, p := range pages {
		resp := PageResponse{ID: p.ID, Name: p.Name}
		// Pages listed without their own token are looked up with the user token.
		token := p.AccessToken
		if token == "" {
			token = userToken
		}
		igID, linked, err := s.deps.Facebook.ResolveBusinessAccountID(ctx, p.ID, token)
		if err != nil {
			respondWithUpstreamError(c, err)
			return
		}
		if linked {
			resp.IGUserID = igID
		}
		out = append(out, resp)
	}
	c.JSON(http.StatusOK, gin.H{"pages": out})
}

func (s *Server) publish(c *gin.Context) {
	var req crosspost.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBadRequest(c, "Request body is not a valid post.")
		return
	}

	report, err := s.deps.Publisher.Publish(c.Request.Context(), req)
	if err == nil {
		c.JSON(http.StatusOK, report)
		return
	}
	if report == nil {
		respondWithUpstreamError(c, err)
		return
	}

	// Partial outcome: earlier destinations may already be live.
	status := http.StatusBadGateway
	var e *httpx.Error
	if errors.As(err, &e) && e.Kind == httpx.KindValidation {
		status = http.StatusBadRequest
	}
	respondWithError(c, status, "publish_failed", err.Error(), report)
}

func bearerToken(c *gin.Context) (string, bool) {
	token, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	token = strings.TrimSpace(token)
	return token, found && token != ""
}
