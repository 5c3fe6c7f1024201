package handlers_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"unreal-studio/internal/config"
	"unreal-studio/internal/handlers"
	"unreal-studio/internal/middleware"
	"unreal-studio/internal/services"
)

const adminSecret = "admin-test-secret-key-long-enough-for-hs256"

func newAdminRouter(t *testing.T, b *backend) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{SupabaseJWTSecret: adminSecret}
	h := handlers.NewAdminHandler(services.NewAdminService(b.client(t), "images"))

	router := gin.New()
	admin := router.Group("/api/v1/admin", middleware.AuthMiddleware(cfg))
	admin.GET("/leads", h.ListLeads)
	admin.DELETE("/leads/:id", h.DeleteLead)
	admin.PATCH("/projects/:id", h.SetProjectPublished)
	admin.POST("/images", h.UploadImage)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "staff-1"}).
		SignedString([]byte(adminSecret))
	require.NoError(t, err)
	return router, token
}

func TestAdminHandler_RequiresToken(t *testing.T) {
	b := newBackend(t)
	router, _ := newAdminRouter(t, b)

	req, _ := http.NewRequest("GET", "/api/v1/admin/leads", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, b.requests)
}

func TestAdminHandler_ListLeads(t *testing.T) {
	b := newBackend(t)
	b.handle("/rest/v1/leads", http.StatusOK, `[{"id":1,"email":"a@b.com"}]`)
	router, token := newAdminRouter(t, b)

	req, _ := http.NewRequest("GET", "/api/v1/admin/leads?limit=10&offset=20", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"rows":[{"id":1,"email":"a@b.com"}]}`, w.Body.String())

	sent := b.last(t)
	assert.Equal(t, "/rest/v1/leads?order=created_at.desc&limit=10&offset=20", sent.URI)
	assert.Equal(t, "Bearer "+token, sent.Header.Get("Authorization"))
}

func TestAdminHandler_ListLeadsBadPaging(t *testing.T) {
	b := newBackend(t)
	router, token := newAdminRouter(t, b)

	for _, q := range []string{"limit=0", "limit=abc", "limit=501", "offset=-1"} {
		req, _ := http.NewRequest("GET", "/api/v1/admin/leads?"+q, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
	assert.Empty(t, b.requests)
}

func TestAdminHandler_BackendDenied(t *testing.T) {
	b := newBackend(t)
	b.handle("/rest/v1/leads", http.StatusForbidden, `{"message":"permission denied for table leads"}`)
	router, token := newAdminRouter(t, b)

	req, _ := http.NewRequest("DELETE", "/api/v1/admin/leads/4", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "permission denied for table leads")
	assert.Equal(t, "/rest/v1/leads?id=eq.4", b.last(t).URI)
}

func TestAdminHandler_SetProjectPublished(t *testing.T) {
	b := newBackend(t)
	b.handle("/rest/v1/projects", http.StatusOK, `[{"id":3,"published":false}]`)
	router, token := newAdminRouter(t, b)

	req, _ := http.NewRequest("PATCH", "/api/v1/admin/projects/3", strings.NewReader(`{"published":false}`))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	sent := b.last(t)
	assert.Equal(t, http.MethodPatch, sent.Method)
	assert.JSONEq(t, `{"published":false}`, sent.Body)

	req, _ = http.NewRequest("PATCH", "/api/v1/admin/projects/3", strings.NewReader(`{}`))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	req, _ = http.NewRequest("PATCH", "/api/v1/admin/projects/x", strings.NewReader(`{"published":true}`))
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminHandler_UploadImage(t *testing.T) {
	b := newBackend(t)
	router, token := newAdminRouter(t, b)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "render.jpg")
	require.NoError(t, err)
	_, _ = part.Write([]byte("jpeg bytes"))
	require.NoError(t, mw.Close())

	req, _ := http.NewRequest("POST", "/api/v1/admin/images", &buf)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "/storage/v1/object/public/images/uploads/")

	sent := b.last(t)
	assert.True(t, strings.HasPrefix(sent.URI, "/storage/v1/object/images/uploads/"))
	assert.Contains(t, sent.Body, "jpeg bytes")
}

func TestAdminHandler_UploadImageMissingFile(t *testing.T) {
	b := newBackend(t)
	router, token := newAdminRouter(t, b)

	req, _ := http.NewRequest("POST", "/api/v1/admin/images", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
