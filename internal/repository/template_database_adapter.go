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

const templateColumns = `id "id", name "name", body "body",
	created_at "created_at", updated_at "updated_at", deleted_at "deleted_at"`

// TemplateDatabaseAdapter implements domain.TemplateRepository using sqlx.DB
type TemplateDatabaseAdapter struct {
	db *sqlx.DB
}

// NewTemplateDatabaseAdapter creates a new instance of TemplateDatabaseAdapter
func NewTemplateDatabaseAdapter(db *sqlx.DB) domain.TemplateRepository {
	return &TemplateDatabaseAdapter{db: db}
}

// ListTemplates implements domain.TemplateRepository
func (a *TemplateDatabaseAdapter) ListTemplates(ctx context.Context) ([]*domain.PromptTemplate, error) {
	var modelTemplates []models.PromptTemplate
	query := `SELECT ` + templateColumns + `
	FROM prompt_templates
	WHERE deleted_at IS NULL
	ORDER BY name ASC`

	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &modelTemplates, query); err != nil {
		return nil, fmt.Errorf("failed to list prompt templates: %w", err)
	}

	templates := make([]*domain.PromptTemplate, 0, len(modelTemplates))
	for i := range modelTemplates {
		templates = append(templates, toDomainTemplate(&modelTemplates[i]))
	}
	return templates, nil
}

// GetTemplateByID implements domain.TemplateRepository
func (a *TemplateDatabaseAdapter) GetTemplateByID(ctx context.Context, id string) (*domain.PromptTemplate, error) {
	var modelTemplate models.PromptTemplate
	query := `SELECT ` + templateColumns + `
	FROM prompt_templates
	WHERE id = :1
	AND deleted_at IS NULL`

	err := GetExecutor(ctx, a.db).GetContext(ctx, &modelTemplate, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get prompt template by ID %s: %w", id, err)
	}
	return toDomainTemplate(&modelTemplate), nil
}

// SaveTemplate implements domain.TemplateRepository
func (a *TemplateDatabaseAdapter) SaveTemplate(ctx context.Context, template *domain.PromptTemplate) error {
	if err := template.Validate(); err != nil {
		return err
	}
	template.ID = util.NewULID()
	now := time.Now()
	query := `INSERT INTO prompt_templates (id, name, body, created_at, updated_at)
	VALUES (:1, :2, :3, :4, :5)`

	_, err := GetExecutor(ctx, a.db).ExecContext(ctx, query,
		template.ID, template.Name, template.Body, now, now)
	if err != nil {
		return fmt.Errorf("failed to save prompt template: %w", err)
	}
	template.CreatedAt = now
	template.UpdatedAt = now
	return nil
}

// UpdateTemplate implements domain.TemplateRepository
func (a *TemplateDatabaseAdapter) UpdateTemplate(ctx context.Context, template *domain.PromptTemplate) error {
	if err := template.Validate(); err != nil {
		return err
	}
	now := time.Now()
	query := `UPDATE prompt_templates
	SET name = :1, body = :2, updated_at = :3
	WHERE id = :4 AND deleted_at IS NULL`

	result, err := GetExecutor(ctx, a.db).ExecContext(ctx, query,
		template.Name, template.Body, now, template.ID)
	if err != nil {
		return fmt.Errorf("failed to update prompt template %s: %w", template.ID, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for template update: %w", err)
	}
	if rows == 0 {
		return domain.NewNotFoundError("prompt template not found: " + template.ID)
	}
	template.UpdatedAt = now
	return nil
}

// DeleteTemplate implements domain.TemplateRepository
func (a *TemplateDatabaseAdapter) DeleteTemplate(ctx context.Context, id string) error {
	query := `UPDATE prompt_templates SET deleted_at = :1 WHERE id = :2 AND deleted_at IS NULL`

	result, err := GetExecutor(ctx, a.db).ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete prompt template %s: %w", id, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for template delete: %w", err)
	}
	if rows == 0 {
		return domain.NewNotFoundError("prompt template not found: " + id)
	}
	return nil
}

func toDomainTemplate(m *models.PromptTemplate) *domain.PromptTemplate {
	return &domain.PromptTemplate{
		ID:        m.ID,
		Name:      m.Name,
		Body:      m.Body,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
