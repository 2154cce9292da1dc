package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gauthierbraillon/crosspost/internal/httpx"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
	Details   any    `json:"details,omitempty"`
}

func respondWithError(c *gin.Context, statusCode int, errorCode, message string, details any) {
	c.JSON(statusCode, ErrorResponse{
		ErrorCode: errorCode,
		Message:   message,
		Details:   details,
	})
}

func respondWithBadRequest(c *gin.Context, message string) {
	respondWithError(c, http.StatusBadRequest, "bad_request", message, nil)
}

// respondWithUpstreamError maps a client error onto an API status.
func respondWithUpstreamError(c *gin.Context, err error) {
	var e *httpx.Error
	if !errors.As(err, &e) {
		respondWithError(c, http.StatusInternalServerError, "internal_error", err.Error(), nil)
		return
	}

	switch e.Kind {
	case httpx.KindValidation:
		respondWithError(c, http.StatusBadRequest, "validation_failed", e.Error(), nil)
	case httpx.KindTransport:
		respondWithError(c, http.StatusGatewayTimeout, "upstream_unreachable", e.Error(), nil)
	case httpx.KindProtocol:
		respondWithError(c, http.StatusBadGateway, "upstream_protocol", e.Error(), nil)
	default:
		respondWithError(c, http.StatusBadGateway, "upstream_error", e.Error(), upstreamDetails(e))
	}
}

func upstreamDetails(e *httpx.Error) gin.H {
	details := gin.H{
		"op":              e.Op,
		"upstream_status": e.StatusCode,
		"body":            e.Body,
	}
	if e.Graph != nil {
		details["graph_error"] = e.Graph
	}
	return details
}
