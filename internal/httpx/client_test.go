package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type failingClient struct{ err error }

func (f failingClient) Do(*http.Request) (*http.Response, error) { return nil, f.err }

func TestDoJSON_DecodesSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "v", r.PostForm.Get("k"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1"}`))
	}))
	defer server.Close()

	req, err := NewFormRequest(context.Background(), http.MethodPost, server.URL, url.Values{"k": {"v"}})
	require.NoError(t, err)

	var out struct {
		ID string `json:"id"`
	}
	require.NoError(t, DoJSON(context.Background(), server.Client(), req, "create", &out))
	assert.Equal(t, "c1", out.ID)
}

func TestDoJSON_UpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Invalid access token"}`))
	}))
	defer server.Close()

	req, err := NewJSONRequest(context.Background(), http.MethodPost, server.URL, map[string]string{"a": "b"})
	require.NoError(t, err)

	var out map[string]any
	err = DoJSON(context.Background(), server.Client(), req, "LinkedIn post", &out)

	require.Error(t, err)
	assert.Equal(t, 401, StatusCode(err))
	assert.Contains(t, err.Error(), "LinkedIn post failed: 401 Unauthorized")
	assert.Contains(t, err.Error(), `"message": "Invalid access token"`)
}

func TestDo_TransportError(t *testing.T) {
	cause := errors.New("connection refused")
	req, err := http.NewRequest(http.MethodGet, "http://upstream.invalid/x", nil)
	require.NoError(t, err)

	_, err = Do(context.Background(), failingClient{err: cause}, req, "LinkedIn userinfo")

	require.Error(t, err)
	assert.Equal(t, KindTransport, KindOf(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "LinkedIn userinfo failed: connection refused", err.Error())
}

func TestDo_RecordsSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	req, err := http.NewRequest(http.MethodGet, server.URL+"/v2/userinfo", nil)
	require.NoError(t, err)
	resp, err := Do(context.Background(), server.Client(), req, "LinkedIn userinfo")
	require.NoError(t, err)
	_ = resp.Body.Close()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "LinkedIn userinfo", spans[0].Name())
}

func TestRedactURL(t *testing.T) {
	u, err := url.Parse("https://graph.facebook.com/v18.0/me/accounts?fields=id&access_token=secret")
	require.NoError(t, err)

	redacted := RedactURL(u)

	assert.NotContains(t, redacted, "secret")
	assert.Contains(t, redacted, "access_token=REDACTED")
	assert.Contains(t, redacted, "fields=id")
	assert.Equal(t, "", RedactURL(nil))
}
