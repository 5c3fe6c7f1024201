package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"unreal-studio/internal/supabase"
)

// AdminService runs back-office operations on behalf of a signed-in staff
// member. Every call forwards the caller's access token so the backend's row
// level security decides what is allowed.
type AdminService struct {
	client *supabase.Client
	bucket string
}

func NewAdminService(client *supabase.Client, bucket string) *AdminService {
	return &AdminService{
		client: client,
		bucket: bucket,
	}
}

// ListLeads returns captured leads, newest first.
func (s *AdminService) ListLeads(ctx context.Context, token string, limit, offset int) (supabase.Response, error) {
	return s.client.WithAccessToken(token).Select(ctx, LeadsTable, supabase.QueryOptions{
		Order:  supabase.Desc("created_at"),
		Limit:  limit,
		Offset: offset,
	})
}

// DeleteLead removes one lead by id.
func (s *AdminService) DeleteLead(ctx context.Context, token string, id int) (supabase.Response, error) {
	return s.client.WithAccessToken(token).Delete(ctx, LeadsTable, []supabase.Filter{
		supabase.Eq("id", id),
	})
}

// SetProjectPublished shows or hides a project on the landing page.
func (s *AdminService) SetProjectPublished(ctx context.Context, token string, id int, published bool) (supabase.Response, error) {
	return s.client.WithAccessToken(token).Update(ctx, ProjectsTable,
		map[string]any{"published": published},
		[]supabase.Filter{supabase.Eq("id", id)},
	)
}

// UploadImage stores an image under a fresh name in the configured bucket
// and returns its object path and public URL.
func (s *AdminService) UploadImage(ctx context.Context, token, filename string, r io.Reader) (string, string, error) {
	ext := strings.ToLower(path.Ext(filename))
	objectPath := fmt.Sprintf("uploads/%s%s", uuid.New().String(), ext)

	if _, err := s.client.WithAccessToken(token).UploadFile(ctx, s.bucket, objectPath, r); err != nil {
		return "", "", err
	}
	return objectPath, s.client.PublicURL(s.bucket, objectPath), nil
}
