// Package httpx holds the request plumbing shared by the upstream clients:
// form encoding, response validation, the typed Error, and traced execution
// of requests through an injectable HTTPClient.
package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/gauthierbraillon/crosspost/internal/httpx"

// HTTPClient interface for making HTTP requests (allows injection for testing).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

var redactedParams = []string{"access_token", "client_secret", "fb_exchange_token", "code"}

// NewFormRequest builds a request with an application/x-www-form-urlencoded body.
func NewFormRequest(ctx context.Context, method, rawURL string, form url.Values) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// NewJSONRequest builds a request with a JSON-encoded body.
func NewJSONRequest(ctx context.Context, method, rawURL string, payload any) (*http.Request, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// Do executes req inside a span named after op. Transport failures are
// returned as KindTransport errors; the response status is not checked.
func Do(ctx context.Context, client HTTPClient, req *http.Request, op string) (*http.Response, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("server.address", req.URL.Host),
			attribute.String("url.path", req.URL.Path),
		),
	)
	defer span.End()

	log := zerolog.Ctx(ctx).With().
		Str("op", op).
		Str("method", req.Method).
		Str("url", RedactURL(req.URL)).
		Logger()

	start := time.Now()
	resp, err := client.Do(req.WithContext(ctx))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport failure")
		log.Debug().Err(err).Dur("duration", time.Since(start)).Msg("Upstream request failed")
		return nil, &Error{Kind: KindTransport, Op: op, Err: err}
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if resp.StatusCode >= 400 {
		span.SetStatus(codes.Error, resp.Status)
	}
	log.Debug().Int("status", resp.StatusCode).Dur("duration", time.Since(start)).Msg("Upstream request completed")
	return resp, nil
}

// DoJSON executes req, checks the status and decodes the JSON body into v.
func DoJSON(ctx context.Context, client HTTPClient, req *http.Request, op string, v any) error {
	resp, err := Do(ctx, client, req, op)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := CheckResponse(resp, op); err != nil {
		return err
	}
	return DecodeJSON(resp, op, v)
}

// RedactURL renders u with credential-bearing query parameters masked.
func RedactURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	q := u.Query()
	changed := false
	for _, key := range redactedParams {
		if q.Has(key) {
			q.Set(key, "REDACTED")
			changed = true
		}
	}
	if !changed {
		return u.String()
	}
	clone := *u
	clone.RawQuery = q.Encode()
	return clone.String()
}
