// Package content holds the static copy shown when live data is unavailable
// and the formatting rules shared by the landing page and the blog.
package content

import (
	_ "embed"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
	"unreal-studio/internal/models"
)

//go:embed fallback.yaml
var fallbackYAML []byte

// Fallback is the static content set.
type Fallback struct {
	Metrics   models.Metrics
	Projects  []models.Project
	BlogPosts []models.BlogPost
}

type fallbackFile struct {
	Metrics struct {
		UnitsDesigned  int    `yaml:"units_designed"`
		CapitalManaged string `yaml:"capital_managed"`
		AverageROI     string `yaml:"average_roi"`
	} `yaml:"metrics"`

	Projects []struct {
		ID        int    `yaml:"id"`
		Name      string `yaml:"name"`
		Location  string `yaml:"location"`
		Status    string `yaml:"status"`
		MainImage string `yaml:"main_image"`
		PriceFrom string `yaml:"price_from"`
		SortOrder int    `yaml:"sort_order"`
	} `yaml:"projects"`

	BlogPosts []struct {
		Title         string `yaml:"title"`
		Slug          string `yaml:"slug"`
		Category      string `yaml:"category"`
		Excerpt       string `yaml:"excerpt"`
		FeaturedImage string `yaml:"featured_image"`
		Author        string `yaml:"author"`
	} `yaml:"blog_posts"`
}

// LoadFallback parses the embedded content. Blog posts are dated now.
func LoadFallback(now time.Time) (*Fallback, error) {
	return parseFallback(fallbackYAML, now)
}

func parseFallback(data []byte, now time.Time) (*Fallback, error) {
	var f fallbackFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fallback content: %w", err)
	}

	fb := &Fallback{}

	capital, err := decimal.NewFromString(f.Metrics.CapitalManaged)
	if err != nil {
		return nil, fmt.Errorf("invalid capital_managed: %w", err)
	}
	roi, err := decimal.NewFromString(f.Metrics.AverageROI)
	if err != nil {
		return nil, fmt.Errorf("invalid average_roi: %w", err)
	}
	fb.Metrics = models.Metrics{
		ID:             1,
		UnitsDesigned:  f.Metrics.UnitsDesigned,
		CapitalManaged: capital,
		AverageROI:     roi,
	}

	for _, p := range f.Projects {
		price, err := decimal.NewFromString(p.PriceFrom)
		if err != nil {
			return nil, fmt.Errorf("invalid price_from for %s: %w", p.Name, err)
		}
		fb.Projects = append(fb.Projects, models.Project{
			ID:        p.ID,
			Name:      p.Name,
			Location:  p.Location,
			Status:    p.Status,
			MainImage: p.MainImage,
			PriceFrom: price,
			Published: true,
			SortOrder: p.SortOrder,
		})
	}

	for _, p := range f.BlogPosts {
		fb.BlogPosts = append(fb.BlogPosts, models.BlogPost{
			Title:         p.Title,
			Slug:          p.Slug,
			Category:      p.Category,
			Excerpt:       p.Excerpt,
			FeaturedImage: p.FeaturedImage,
			Author:        p.Author,
			Published:     true,
			CreatedAt:     now,
		})
	}

	return fb, nil
}
