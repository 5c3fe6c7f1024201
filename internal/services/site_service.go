package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"unreal-studio/internal/content"
	"unreal-studio/internal/models"
	"unreal-studio/internal/supabase"
)

const (
	MetricsTable  = "metrics"
	ProjectsTable = "projects"
	PostsTable    = "blog_posts"
	LeadsTable    = "leads"

	// LeadSourceHome tags leads captured by the landing page form.
	LeadSourceHome = "LANDING_HOME"

	NoProjectsMessage = "No hay proyectos activos en este momento."
	DemoModeNotice    = "Mostrando contenido estático (Demo Mode)"
)

// DataClient is the part of the backend client the public pages need.
type DataClient interface {
	Select(ctx context.Context, table string, opts supabase.QueryOptions) (supabase.Response, error)
	Insert(ctx context.Context, table string, data any) (supabase.Response, error)
}

// SiteService loads landing page and blog content, falling back to static
// copy when the backend cannot serve it.
type SiteService struct {
	client   DataClient
	fallback *content.Fallback
	logger   *slog.Logger
	now      func() time.Time
}

func NewSiteService(client DataClient, logger *slog.Logger) (*SiteService, error) {
	fallback, err := content.LoadFallback(time.Time{})
	if err != nil {
		return nil, err
	}
	return &SiteService{
		client:   client,
		fallback: fallback,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Metrics returns the landing page counters.
func (s *SiteService) Metrics(ctx context.Context) models.MetricsResponse {
	resp, err := s.client.Select(ctx, MetricsTable, supabase.QueryOptions{
		Filters: []supabase.Filter{supabase.Eq("id", 1)},
	})

	var rows []models.Metrics
	if err == nil {
		err = resp.Decode(&rows)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Error fetching metrics", slog.Any("error", err))
	}

	if err != nil || len(rows) == 0 {
		return metricsResponse(s.fallback.Metrics, models.SourceStatic)
	}
	return metricsResponse(rows[0], models.SourceLive)
}

func metricsResponse(m models.Metrics, source string) models.MetricsResponse {
	return models.MetricsResponse{
		Units:   content.Units(m.UnitsDesigned),
		Capital: content.Capital(m.CapitalManaged),
		ROI:     content.ROI(m.AverageROI),
		Source:  source,
	}
}

// Projects returns the published projects in display order.
func (s *SiteService) Projects(ctx context.Context) models.ProjectsResponse {
	resp, err := s.client.Select(ctx, ProjectsTable, supabase.QueryOptions{
		Filters: []supabase.Filter{supabase.Eq("published", true)},
		Order:   supabase.Asc("sort_order"),
	})

	var projects []models.Project
	if err == nil {
		err = resp.Decode(&projects)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Error fetching projects", slog.Any("error", err))
		return models.ProjectsResponse{
			Projects: projectCards(s.fallback.Projects),
			Source:   models.SourceStatic,
		}
	}

	if len(projects) == 0 {
		return models.ProjectsResponse{
			Projects:     []models.ProjectCard{},
			EmptyMessage: NoProjectsMessage,
			Source:       models.SourceLive,
		}
	}
	return models.ProjectsResponse{
		Projects: projectCards(projects),
		Source:   models.SourceLive,
	}
}

func projectCards(projects []models.Project) []models.ProjectCard {
	cards := make([]models.ProjectCard, len(projects))
	for i, p := range projects {
		cards[i] = models.ProjectCard{
			ID:          p.ID,
			Name:        p.Name,
			Location:    p.Location,
			Image:       p.MainImage,
			Status:      p.Status,
			StatusLabel: content.StatusLabel(p.Status),
			PreSale:     content.IsPreSale(p.Status),
			Price:       content.EUR(p.PriceFrom),
		}
	}
	return cards
}

// BlogPosts returns published posts, newest first. A missing posts table
// yields the static demo posts; an empty one yields no posts.
func (s *SiteService) BlogPosts(ctx context.Context) models.BlogResponse {
	resp, err := s.client.Select(ctx, PostsTable, supabase.QueryOptions{
		Filters: []supabase.Filter{supabase.Eq("published", true)},
		Order:   supabase.Desc("created_at"),
	})

	var posts []models.BlogPost
	if err == nil {
		err = resp.Decode(&posts)
	}
	if err != nil {
		if supabase.IsMissingRelation(err) {
			s.logger.WarnContext(ctx, "Posts table missing, showing demo posts", slog.Any("error", err))
		} else {
			s.logger.ErrorContext(ctx, "Error fetching posts", slog.Any("error", err))
		}
		demo := postCards(s.fallback.BlogPosts)
		for i := range demo {
			demo[i].Date = s.now()
		}
		return models.BlogResponse{
			Posts:  demo,
			Notice: DemoModeNotice,
			Source: models.SourceStatic,
		}
	}

	return models.BlogResponse{
		Posts:  postCards(posts),
		Source: models.SourceLive,
	}
}

func postCards(posts []models.BlogPost) []models.PostCard {
	cards := make([]models.PostCard, len(posts))
	for i, p := range posts {
		card := models.PostCard{
			Title:    p.Title,
			Slug:     p.Slug,
			URL:      "blog-post.html?slug=" + url.QueryEscape(p.Slug),
			Category: p.Category,
			Excerpt:  p.Excerpt,
			Image:    p.FeaturedImage,
			Author:   p.Author,
			Date:     p.CreatedAt,
		}
		if card.Image == "" {
			card.Image = content.PlaceholderImage
		}
		if card.Category == "" {
			card.Category = content.DefaultCategory
		}
		if card.Author == "" {
			card.Author = content.DefaultAuthor
		}
		cards[i] = card
	}
	return cards
}

// SubmitLead records an email captured by a site form.
func (s *SiteService) SubmitLead(ctx context.Context, email, source string) error {
	if source == "" {
		source = LeadSourceHome
	}
	_, err := s.client.Insert(ctx, LeadsTable, map[string]string{
		"email":  email,
		"source": source,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Error submitting lead", slog.Any("error", err))
		return fmt.Errorf("failed to submit lead: %w", err)
	}
	return nil
}
