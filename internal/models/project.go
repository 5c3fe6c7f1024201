package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Metrics is the single row of the metrics table shown on the landing page.
type Metrics struct {
	ID             int             `json:"id"`
	UnitsDesigned  int             `json:"units_designed"`
	CapitalManaged decimal.Decimal `json:"capital_managed"`
	AverageROI     decimal.Decimal `json:"average_roi"`
	FailedProjects int             `json:"failed_projects"`
}

type Project struct {
	ID        int             `json:"id"`
	Name      string          `json:"name"`
	Location  string          `json:"location"`
	Status    string          `json:"status"`
	MainImage string          `json:"main_image"`
	PriceFrom decimal.Decimal `json:"price_from"`
	Published bool            `json:"published"`
	SortOrder int             `json:"sort_order"`
}

type BlogPost struct {
	ID            int       `json:"id,omitempty"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Category      string    `json:"category"`
	Excerpt       string    `json:"excerpt"`
	FeaturedImage string    `json:"featured_image"`
	Author        string    `json:"author"`
	Published     bool      `json:"published"`
	CreatedAt     time.Time `json:"created_at"`
}
