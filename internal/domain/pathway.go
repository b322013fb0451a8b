package domain

import (
	"context"
	"time"
)

// CoverageState is the red/amber/green signal for a category's published
// content coverage.
type CoverageState string

const (
	CoverageRed   CoverageState = "red"
	CoverageAmber CoverageState = "amber"
	CoverageGreen CoverageState = "green"
)

// Theme is the top grouping of the Learning Pathway.
type Theme struct {
	ID         string
	Name       string
	Position   int
	Categories []*Category
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Category groups subsections under a theme and rolls up card counts.
type Category struct {
	ID             string
	ThemeID        string
	Name           string
	Position       int
	Subsections    []*Subsection
	TotalCards     int
	PublishedCards int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Subsection is the leaf grouping cards attach to.
type Subsection struct {
	ID             string
	CategoryID     string
	Name           string
	Position       int
	TotalCards     int
	PublishedCards int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Validate validates the category
func (c *Category) Validate() error {
	if c.ThemeID == "" {
		return NewInvalidInputError("theme ID is required")
	}
	if c.Name == "" {
		return NewInvalidInputError("name is required")
	}
	return nil
}

// Coverage computes the category's coverage state. A category with no
// subsections is always red regardless of card counts. Green requires every
// subsection to carry at least one published card; any partial coverage is
// amber.
func (c *Category) Coverage() CoverageState {
	if len(c.Subsections) == 0 {
		return CoverageRed
	}
	covered := 0
	for _, sub := range c.Subsections {
		if sub.PublishedCards > 0 {
			covered++
		}
	}
	switch covered {
	case 0:
		return CoverageRed
	case len(c.Subsections):
		return CoverageGreen
	default:
		return CoverageAmber
	}
}

// Rollup recomputes the category's card counts from its subsections.
func (c *Category) Rollup() {
	c.TotalCards = 0
	c.PublishedCards = 0
	for _, sub := range c.Subsections {
		c.TotalCards += sub.TotalCards
		c.PublishedCards += sub.PublishedCards
	}
}

// PathwayRepository is the persistence port for the theme/category/subsection
// hierarchy.
type PathwayRepository interface {
	ListThemes(ctx context.Context) ([]*Theme, error)
	GetSubsectionByID(ctx context.Context, id string) (*Subsection, error)
	ListSubsectionsByCategory(ctx context.Context, categoryID string) ([]*Subsection, error)
	SaveTheme(ctx context.Context, theme *Theme) error
	SaveCategory(ctx context.Context, category *Category) error
	SaveSubsection(ctx context.Context, subsection *Subsection) error
}
