package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"dailydose/internal/domain"
	"dailydose/internal/repository/models"
	"dailydose/internal/util"

	"github.com/jmoiron/sqlx"
)

// PathwayDatabaseAdapter implements domain.PathwayRepository using sqlx.DB
type PathwayDatabaseAdapter struct {
	db *sqlx.DB
}

// NewPathwayDatabaseAdapter creates a new instance of PathwayDatabaseAdapter
func NewPathwayDatabaseAdapter(db *sqlx.DB) domain.PathwayRepository {
	return &PathwayDatabaseAdapter{db: db}
}

// ListThemes implements domain.PathwayRepository. Themes come back with their
// categories and subsections attached, ordered by position.
func (a *PathwayDatabaseAdapter) ListThemes(ctx context.Context) ([]*domain.Theme, error) {
	executor := GetExecutor(ctx, a.db)

	var modelThemes []models.Theme
	themeQuery := `SELECT
		id "id", name "name", position "position",
		created_at "created_at", updated_at "updated_at", deleted_at "deleted_at"
	FROM themes
	WHERE deleted_at IS NULL
	ORDER BY position ASC`
	if err := executor.SelectContext(ctx, &modelThemes, themeQuery); err != nil {
		return nil, fmt.Errorf("failed to list themes: %w", err)
	}

	var modelCategories []models.Category
	categoryQuery := `SELECT
		id "id", theme_id "theme_id", name "name", position "position",
		created_at "created_at", updated_at "updated_at", deleted_at "deleted_at"
	FROM categories
	WHERE deleted_at IS NULL
	ORDER BY position ASC`
	if err := executor.SelectContext(ctx, &modelCategories, categoryQuery); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	var modelSubsections []models.Subsection
	subsectionQuery := `SELECT
		id "id", category_id "category_id", name "name", position "position",
		created_at "created_at", updated_at "updated_at", deleted_at "deleted_at"
	FROM subsections
	WHERE deleted_at IS NULL
	ORDER BY position ASC`
	if err := executor.SelectContext(ctx, &modelSubsections, subsectionQuery); err != nil {
		return nil, fmt.Errorf("failed to list subsections: %w", err)
	}

	categoriesByTheme := make(map[string][]*domain.Category)
	categoryIndex := make(map[string]*domain.Category)
	for i := range modelCategories {
		category := toDomainCategory(&modelCategories[i])
		categoriesByTheme[category.ThemeID] = append(categoriesByTheme[category.ThemeID], category)
		categoryIndex[category.ID] = category
	}
	for i := range modelSubsections {
		subsection := toDomainSubsection(&modelSubsections[i])
		if category, ok := categoryIndex[subsection.CategoryID]; ok {
			category.Subsections = append(category.Subsections, subsection)
		}
	}

	themes := make([]*domain.Theme, 0, len(modelThemes))
	for i := range modelThemes {
		m := &modelThemes[i]
		themes = append(themes, &domain.Theme{
			ID:         m.ID,
			Name:       m.Name,
			Position:   m.Position,
			Categories: categoriesByTheme[m.ID],
			CreatedAt:  m.CreatedAt,
			UpdatedAt:  m.UpdatedAt,
		})
	}
	return themes, nil
}

// GetSubsectionByID implements domain.PathwayRepository
func (a *PathwayDatabaseAdapter) GetSubsectionByID(ctx context.Context, id string) (*domain.Subsection, error) {
	var modelSubsection models.Subsection
	query := `SELECT
		id "id", category_id "category_id", name "name", position "position",
		created_at "created_at", updated_at "updated_at", deleted_at "deleted_at"
	FROM subsections
	WHERE id = :1
	AND deleted_at IS NULL`

	err := GetExecutor(ctx, a.db).GetContext(ctx, &modelSubsection, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get subsection by ID %s: %w", id, err)
	}
	return toDomainSubsection(&modelSubsection), nil
}

// ListSubsectionsByCategory implements domain.PathwayRepository
func (a *PathwayDatabaseAdapter) ListSubsectionsByCategory(ctx context.Context, categoryID string) ([]*domain.Subsection, error) {
	var modelSubsections []models.Subsection
	query := `SELECT
		id "id", category_id "category_id", name "name", position "position",
		created_at "created_at", updated_at "updated_at", deleted_at "deleted_at"
	FROM subsections
	WHERE category_id = :1
	AND deleted_at IS NULL
	ORDER BY position ASC`

	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &modelSubsections, query, categoryID); err != nil {
		return nil, fmt.Errorf("failed to list subsections for category %s: %w", categoryID, err)
	}

	subsections := make([]*domain.Subsection, 0, len(modelSubsections))
	for i := range modelSubsections {
		subsections = append(subsections, toDomainSubsection(&modelSubsections[i]))
	}
	return subsections, nil
}

// SaveTheme implements domain.PathwayRepository
func (a *PathwayDatabaseAdapter) SaveTheme(ctx context.Context, theme *domain.Theme) error {
	theme.ID = util.NewULID()
	now := time.Now()
	query := `INSERT INTO themes (id, name, position, created_at, updated_at)
	VALUES (:1, :2, :3, :4, :5)`

	_, err := GetExecutor(ctx, a.db).ExecContext(ctx, query, theme.ID, theme.Name, theme.Position, now, now)
	if err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}
	theme.CreatedAt = now
	theme.UpdatedAt = now
	return nil
}

// SaveCategory implements domain.PathwayRepository
func (a *PathwayDatabaseAdapter) SaveCategory(ctx context.Context, category *domain.Category) error {
	if err := category.Validate(); err != nil {
		return err
	}
	category.ID = util.NewULID()
	now := time.Now()
	query := `INSERT INTO categories (id, theme_id, name, position, created_at, updated_at)
	VALUES (:1, :2, :3, :4, :5, :6)`

	_, err := GetExecutor(ctx, a.db).ExecContext(ctx, query,
		category.ID, category.ThemeID, category.Name, category.Position, now, now)
	if err != nil {
		return fmt.Errorf("failed to save category: %w", err)
	}
	category.CreatedAt = now
	category.UpdatedAt = now
	return nil
}

// SaveSubsection implements domain.PathwayRepository
func (a *PathwayDatabaseAdapter) SaveSubsection(ctx context.Context, subsection *domain.Subsection) error {
	if subsection.CategoryID == "" {
		return domain.NewInvalidInputError("category ID is required")
	}
	if subsection.Name == "" {
		return domain.NewInvalidInputError("name is required")
	}
	subsection.ID = util.NewULID()
	now := time.Now()
	query := `INSERT INTO subsections (id, category_id, name, position, created_at, updated_at)
	VALUES (:1, :2, :3, :4, :5, :6)`

	_, err := GetExecutor(ctx, a.db).ExecContext(ctx, query,
		subsection.ID, subsection.CategoryID, subsection.Name, subsection.Position, now, now)
	if err != nil {
		return fmt.Errorf("failed to save subsection: %w", err)
	}
	subsection.CreatedAt = now
	subsection.UpdatedAt = now
	return nil
}

func toDomainCategory(m *models.Category) *domain.Category {
	return &domain.Category{
		ID:        m.ID,
		ThemeID:   m.ThemeID,
		Name:      m.Name,
		Position:  m.Position,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toDomainSubsection(m *models.Subsection) *domain.Subsection {
	return &domain.Subsection{
		ID:         m.ID,
		CategoryID: m.CategoryID,
		Name:       m.Name,
		Position:   m.Position,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
