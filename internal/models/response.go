package models

import (
	"time"

	"unreal-studio/internal/supabase"
)

// Content sources reported to the page.
const (
	SourceLive   = "live"
	SourceStatic = "static"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type MetricsResponse struct {
	Units   string `json:"units"`
	Capital string `json:"capital"`
	ROI     string `json:"roi"`
	Source  string `json:"source"`
}

type ProjectCard struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Location    string `json:"location"`
	Image       string `json:"image"`
	Status      string `json:"status"`
	StatusLabel string `json:"status_label"`
	PreSale     bool   `json:"pre_sale"`
	Price       string `json:"price"`
}

type ProjectsResponse struct {
	Projects     []ProjectCard `json:"projects"`
	EmptyMessage string        `json:"empty_message,omitempty"`
	Source       string        `json:"source"`
}

type PostCard struct {
	Title    string    `json:"title"`
	Slug     string    `json:"slug"`
	URL      string    `json:"url"`
	Category string    `json:"category"`
	Excerpt  string    `json:"excerpt"`
	Image    string    `json:"image"`
	Author   string    `json:"author"`
	Date     time.Time `json:"date"`
}

type BlogResponse struct {
	Posts  []PostCard `json:"posts"`
	Notice string     `json:"notice,omitempty"`
	Source string     `json:"source"`
}

type LeadResponse struct {
	Message string `json:"message"`
}

type UploadResponse struct {
	Path      string `json:"path"`
	PublicURL string `json:"public_url"`
}

// RowsResponse wraps rows passed through from the backend untouched.
type RowsResponse struct {
	Rows supabase.Response `json:"rows"`
}
