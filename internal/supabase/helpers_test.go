package supabase_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"unreal-studio/internal/supabase"
)

const testKey = "anon-key"

type recordedRequest struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// fakeBackend records every request and answers with the configured handler.
type fakeBackend struct {
	*httptest.Server

	mu       sync.Mutex
	requests []recordedRequest
}

func newFakeBackend(t *testing.T, handler http.HandlerFunc) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{}
	fb.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		fb.mu.Lock()
		fb.requests = append(fb.requests, recordedRequest{
			Method: r.Method,
			URL:    r.URL.RequestURI(),
			Header: r.Header.Clone(),
			Body:   body,
		})
		fb.mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(fb.Close)
	return fb
}

func (fb *fakeBackend) calls() []recordedRequest {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]recordedRequest(nil), fb.requests...)
}

func (fb *fakeBackend) last(t *testing.T) recordedRequest {
	t.Helper()
	calls := fb.calls()
	require.NotEmpty(t, calls, "no request reached the backend")
	return calls[len(calls)-1]
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func newTestClient(t *testing.T, fb *fakeBackend, opts ...supabase.Option) *supabase.Client {
	t.Helper()
	client, err := supabase.NewClient(supabase.ClientConfig{
		BaseURL:   fb.URL,
		PublicKey: testKey,
	}, opts...)
	require.NoError(t, err)
	return client
}
