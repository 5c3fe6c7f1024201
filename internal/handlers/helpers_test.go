package handlers_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"unreal-studio/internal/supabase"
)

type backendRequest struct {
	Method string
	URI    string
	Header http.Header
	Body   string
}

// backend stands in for the hosted data service. Responses are chosen per
// request path.
type backend struct {
	mu       sync.Mutex
	requests []backendRequest
	routes   map[string]func(w http.ResponseWriter)
	server   *httptest.Server
}

func newBackend(t *testing.T) *backend {
	t.Helper()
	b := &backend{routes: map[string]func(w http.ResponseWriter){}}
	b.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		b.mu.Lock()
		b.requests = append(b.requests, backendRequest{
			Method: r.Method,
			URI:    r.RequestURI,
			Header: r.Header.Clone(),
			Body:   string(body),
		})
		route := b.routes[r.URL.Path]
		b.mu.Unlock()

		if route == nil {
			w.WriteHeader(http.StatusOK)
			_, _ = io.WriteString(w, `[]`)
			return
		}
		route(w)
	}))
	t.Cleanup(b.server.Close)
	return b
}

func (b *backend) handle(path string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[path] = func(w http.ResponseWriter) {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func (b *backend) last(t *testing.T) backendRequest {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	require.NotEmpty(t, b.requests)
	return b.requests[len(b.requests)-1]
}

func (b *backend) client(t *testing.T) *supabase.Client {
	t.Helper()
	client, err := supabase.NewClient(supabase.ClientConfig{BaseURL: b.server.URL, PublicKey: "anon"})
	require.NoError(t, err)
	return client
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
