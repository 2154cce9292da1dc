package instagram

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
)

type graphCall struct {
	Method string
	Path   string
	Query  url.Values
	Form   url.Values
}

// fakeGraph is an in-process Graph API that records every call in arrival order.
type fakeGraph struct {
	server *httptest.Server

	mu    sync.Mutex
	calls []graphCall
}

func newFakeGraph(t *testing.T, handle func(w http.ResponseWriter, call graphCall)) *fakeGraph {
	t.Helper()
	g := &fakeGraph{}
	g.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("bad form: %v", err)
		}
		call := graphCall{Method: r.Method, Path: r.URL.Path, Query: r.URL.Query(), Form: r.PostForm}
		g.mu.Lock()
		g.calls = append(g.calls, call)
		g.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		handle(w, call)
	}))
	t.Cleanup(g.server.Close)
	return g
}

func (g *fakeGraph) client(opts ...ClientOption) *Client {
	return NewClient(append([]ClientOption{WithBaseURL(g.server.URL), WithHTTPClient(g.server.Client())}, opts...)...)
}

func (g *fakeGraph) recorded() []graphCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]graphCall(nil), g.calls...)
}

func (g *fakeGraph) callsTo(path string) []graphCall {
	var out []graphCall
	for _, c := range g.recorded() {
		if c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
