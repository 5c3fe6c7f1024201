package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	Method string
	URI    string
	Auth   string
}

type fakeService struct {
	mu    sync.Mutex
	calls []recorded
	token string
}

func (f *fakeService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.calls = append(f.calls, recorded{Method: r.Method, URI: r.RequestURI, Auth: r.Header.Get("Authorization")})
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/auth/v1/token":
		_, _ = io.WriteString(w, `{"access_token":"`+f.token+`","token_type":"bearer","user":{"email":"staff@example.com"}}`)
	case "/auth/v1/user":
		if r.Header.Get("Authorization") != "Bearer "+f.token {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = io.WriteString(w, `{"id":"u-1","email":"staff@example.com"}`)
	default:
		_, _ = io.WriteString(w, `[{"id":1}]`)
	}
}

func (f *fakeService) last(t *testing.T) recorded {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.calls)
	return f.calls[len(f.calls)-1]
}

func setup(t *testing.T) *fakeService {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u-1", "role": "authenticated",
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	fake := &fakeService{token: token}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("SUPABASE_URL", server.URL)
	t.Setenv("SUPABASE_ANON_KEY", "anon")
	t.Setenv("SESSION_DB_PATH", filepath.Join(dir, "session.db"))
	t.Setenv("DATABASE_URL", "")
	return fake
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := newApp(&out).Run(append([]string{"sitectl"}, args...))
	return out.String(), err
}

func TestSession_PersistsAcrossInvocations(t *testing.T) {
	fake := setup(t)

	out, err := run(t, "whoami")
	assert.EqualError(t, err, "not signed in")
	assert.Empty(t, out)

	out, err = run(t, "login", "--email", "staff@example.com", "--password", "pw")
	require.NoError(t, err)
	assert.Equal(t, "Signed in as staff@example.com\n", out)

	out, err = run(t, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, `"email": "staff@example.com"`)
	assert.Contains(t, out, `"role": "authenticated"`)

	_, err = run(t, "select", "leads")
	require.NoError(t, err)
	assert.Equal(t, "Bearer "+fake.token, fake.last(t).Auth)

	out, err = run(t, "logout")
	require.NoError(t, err)
	assert.Equal(t, "Signed out\n", out)

	_, err = run(t, "select", "leads")
	require.NoError(t, err)
	assert.Equal(t, "Bearer anon", fake.last(t).Auth)
}

func TestSelect_BuildsQuery(t *testing.T) {
	fake := setup(t)

	out, err := run(t, "select",
		"--columns", "id", "--columns", "name",
		"--filter", "published=true",
		"--order", "sort_order.asc",
		"--limit", "5",
		"projects")
	require.NoError(t, err)

	assert.JSONEq(t, `[{"id":1}]`, out)
	assert.Equal(t, "/rest/v1/projects?select=id%2Cname&published=true&order=sort_order.asc&limit=5", fake.last(t).URI)
}

func TestWrites(t *testing.T) {
	fake := setup(t)

	_, err := run(t, "insert", "--data", `{"email":"a@b.com"}`, "leads")
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, fake.last(t).Method)

	_, err = run(t, "update", "--data", `{"published":true}`, "--filter", "id=eq.3", "projects")
	require.NoError(t, err)
	assert.Equal(t, "/rest/v1/projects?id=eq.3", fake.last(t).URI)

	_, err = run(t, "delete", "-f", "id=eq.4", "leads")
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, fake.last(t).Method)
}

func TestWrites_Rejected(t *testing.T) {
	fake := setup(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"delete without filter", []string{"delete", "leads"}, "at least one --filter is required"},
		{"update without filter", []string{"update", "--data", `{}`, "leads"}, "at least one --filter is required"},
		{"bad filter", []string{"delete", "--filter", "id", "leads"}, `invalid filter "id", expected column=value`},
		{"insert without data", []string{"insert", "leads"}, "--data is required"},
		{"insert bad json", []string{"insert", "--data", "{", "leads"}, "--data is not valid JSON"},
		{"missing table", []string{"select"}, "missing arguments, expected TABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			assert.EqualError(t, err, tt.want)
		})
	}
	assert.Empty(t, fake.calls)
}

func TestPublicURL(t *testing.T) {
	fake := setup(t)

	out, err := run(t, "public-url", "images", "uploads/a.jpg")
	require.NoError(t, err)

	assert.Contains(t, out, "/storage/v1/object/public/images/uploads/a.jpg")
	assert.Empty(t, fake.calls)
}

func TestMigrate(t *testing.T) {
	setup(t)

	out, err := run(t, "migrate", "--list")
	require.NoError(t, err)
	assert.Equal(t, "001_site_schema.sql\n002_row_level_security.sql\n", out)

	_, err = run(t, "migrate")
	assert.EqualError(t, err, "DATABASE_URL is required")
}
