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

// TagDatabaseAdapter implements domain.TagRepository using sqlx.DB
type TagDatabaseAdapter struct {
	db *sqlx.DB
}

// NewTagDatabaseAdapter creates a new instance of TagDatabaseAdapter
func NewTagDatabaseAdapter(db *sqlx.DB) domain.TagRepository {
	return &TagDatabaseAdapter{db: db}
}

// ListTags implements domain.TagRepository. Each tag carries the count of
// cards referencing it; card tags live in a JSON array column, so the count
// matches the quoted tag name inside the document.
func (a *TagDatabaseAdapter) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	executor := GetExecutor(ctx, a.db)

	var modelTags []models.Tag
	query := `SELECT
		id "id", name "name",
		created_at "created_at", updated_at "updated_at", deleted_at "deleted_at"
	FROM tags
	WHERE deleted_at IS NULL
	ORDER BY name ASC`
	if err := executor.SelectContext(ctx, &modelTags, query); err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}

	tags := make([]*domain.Tag, 0, len(modelTags))
	for i := range modelTags {
		tag := toDomainTag(&modelTags[i])
		count, err := a.countUsage(ctx, tag.Name)
		if err != nil {
			return nil, err
		}
		tag.UsageCount = count
		tags = append(tags, tag)
	}
	return tags, nil
}

// GetTagByID implements domain.TagRepository
func (a *TagDatabaseAdapter) GetTagByID(ctx context.Context, id string) (*domain.Tag, error) {
	var modelTag models.Tag
	query := `SELECT
		id "id", name "name",
		created_at "created_at", updated_at "updated_at", deleted_at "deleted_at"
	FROM tags
	WHERE id = :1
	AND deleted_at IS NULL`

	err := GetExecutor(ctx, a.db).GetContext(ctx, &modelTag, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get tag by ID %s: %w", id, err)
	}

	tag := toDomainTag(&modelTag)
	count, err := a.countUsage(ctx, tag.Name)
	if err != nil {
		return nil, err
	}
	tag.UsageCount = count
	return tag, nil
}

// SaveTag implements domain.TagRepository
func (a *TagDatabaseAdapter) SaveTag(ctx context.Context, tag *domain.Tag) error {
	if err := tag.Validate(); err != nil {
		return err
	}
	tag.ID = util.NewULID()
	now := time.Now()
	query := `INSERT INTO tags (id, name, created_at, updated_at)
	VALUES (:1, :2, :3, :4)`

	_, err := GetExecutor(ctx, a.db).ExecContext(ctx, query, tag.ID, tag.Name, now, now)
	if err != nil {
		return fmt.Errorf("failed to save tag: %w", err)
	}
	tag.CreatedAt = now
	tag.UpdatedAt = now
	return nil
}

// DeleteTag implements domain.TagRepository
func (a *TagDatabaseAdapter) DeleteTag(ctx context.Context, id string) error {
	query := `UPDATE tags SET deleted_at = :1 WHERE id = :2 AND deleted_at IS NULL`

	result, err := GetExecutor(ctx, a.db).ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete tag %s: %w", id, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for tag delete: %w", err)
	}
	if rows == 0 {
		return domain.NewNotFoundError("tag not found: " + id)
	}
	return nil
}

func (a *TagDatabaseAdapter) countUsage(ctx context.Context, name string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM cards WHERE deleted_at IS NULL AND tags LIKE :1`
	pattern := `%"` + name + `"%`
	err := GetExecutor(ctx, a.db).GetContext(ctx, &count, query, pattern)
	if err != nil {
		return 0, fmt.Errorf("failed to count usage for tag %s: %w", name, err)
	}
	return count, nil
}

func toDomainTag(m *models.Tag) *domain.Tag {
	return &domain.Tag{
		ID:        m.ID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
