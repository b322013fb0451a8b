package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"dailydose/internal/domain"
	"dailydose/internal/repository/models"
	"dailydose/internal/util"

	"github.com/jmoiron/sqlx"
)

const batchColumns = `
		id "id",
		template_id "template_id",
		topic "topic",
		prompt "prompt",
		quiz "quiz",
		active_card_id "active_card_id",
		created_at "created_at",
		updated_at "updated_at",
		deleted_at "deleted_at"`

// BatchDatabaseAdapter implements domain.BatchRepository using sqlx.DB
type BatchDatabaseAdapter struct {
	db *sqlx.DB
}

// NewBatchDatabaseAdapter creates a new instance of BatchDatabaseAdapter
func NewBatchDatabaseAdapter(db *sqlx.DB) domain.BatchRepository {
	return &BatchDatabaseAdapter{db: db}
}

// GetBatchByID implements domain.BatchRepository
func (a *BatchDatabaseAdapter) GetBatchByID(ctx context.Context, id string) (*domain.Batch, error) {
	var modelBatch models.Batch
	query := `SELECT ` + batchColumns + `
	FROM batches
	WHERE id = :1
	AND deleted_at IS NULL`

	err := GetExecutor(ctx, a.db).GetContext(ctx, &modelBatch, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get batch by ID %s: %w", id, err)
	}
	return toDomainBatch(&modelBatch)
}

// ListBatches implements domain.BatchRepository
func (a *BatchDatabaseAdapter) ListBatches(ctx context.Context, limit, offset int) ([]*domain.Batch, error) {
	query := `SELECT ` + batchColumns + `
	FROM batches
	WHERE deleted_at IS NULL
	ORDER BY created_at DESC
	OFFSET :1 ROWS FETCH NEXT :2 ROWS ONLY`

	var modelBatches []models.Batch
	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &modelBatches, query, offset, limit); err != nil {
		return nil, fmt.Errorf("failed to list batches: %w", err)
	}

	batches := make([]*domain.Batch, 0, len(modelBatches))
	for i := range modelBatches {
		batch, err := toDomainBatch(&modelBatches[i])
		if err != nil {
			return nil, err
		}
		batches = append(batches, batch)
	}
	return batches, nil
}

// SaveBatch implements domain.BatchRepository
func (a *BatchDatabaseAdapter) SaveBatch(ctx context.Context, batch *domain.Batch) error {
	modelBatch, err := toModelBatch(batch)
	if err != nil {
		return err
	}
	modelBatch.ID = util.NewULID()
	modelBatch.CreatedAt = time.Now()
	modelBatch.UpdatedAt = modelBatch.CreatedAt

	query := `INSERT INTO batches (
		id, template_id, topic, prompt, quiz, active_card_id, created_at, updated_at
	) VALUES (
		:1, :2, :3, :4, :5, :6, :7, :8
	)`

	_, err = GetExecutor(ctx, a.db).ExecContext(ctx, query,
		modelBatch.ID,
		modelBatch.TemplateID,
		modelBatch.Topic,
		modelBatch.Prompt,
		modelBatch.Quiz,
		modelBatch.ActiveCardID,
		modelBatch.CreatedAt,
		modelBatch.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save batch: %w", err)
	}

	batch.ID = modelBatch.ID
	batch.CreatedAt = modelBatch.CreatedAt
	batch.UpdatedAt = modelBatch.UpdatedAt
	return nil
}

// UpdateBatch implements domain.BatchRepository
func (a *BatchDatabaseAdapter) UpdateBatch(ctx context.Context, batch *domain.Batch) error {
	if batch.ID == "" {
		return fmt.Errorf("cannot update batch with empty ID")
	}
	modelBatch, err := toModelBatch(batch)
	if err != nil {
		return err
	}
	modelBatch.UpdatedAt = time.Now()

	query := `UPDATE batches SET
		topic = :1,
		quiz = :2,
		active_card_id = :3,
		updated_at = :4
	WHERE id = :5
	AND deleted_at IS NULL`

	result, err := GetExecutor(ctx, a.db).ExecContext(ctx, query,
		modelBatch.Topic,
		modelBatch.Quiz,
		modelBatch.ActiveCardID,
		modelBatch.UpdatedAt,
		batch.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update batch: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("batch with ID %s not found or not updated", batch.ID)
	}
	batch.UpdatedAt = modelBatch.UpdatedAt
	return nil
}

// DeleteBatch implements domain.BatchRepository with a soft delete.
func (a *BatchDatabaseAdapter) DeleteBatch(ctx context.Context, id string) error {
	query := `UPDATE batches SET deleted_at = :1, updated_at = :1 WHERE id = :2 AND deleted_at IS NULL`

	result, err := GetExecutor(ctx, a.db).ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete batch: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.NewBatchNotFoundError(id)
	}
	return nil
}

func toDomainBatch(m *models.Batch) (*domain.Batch, error) {
	batch := &domain.Batch{
		ID:           m.ID,
		TemplateID:   m.TemplateID.String,
		Topic:        m.Topic,
		Prompt:       m.Prompt,
		ActiveCardID: m.ActiveCardID.String,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.Quiz.Valid && m.Quiz.String != "" {
		if err := unmarshalColumn(m.Quiz.String, &batch.Quiz); err != nil {
			return nil, fmt.Errorf("failed to decode quiz for batch %s: %w", m.ID, err)
		}
	}
	return batch, nil
}

func toModelBatch(batch *domain.Batch) (*models.Batch, error) {
	if batch == nil {
		return nil, fmt.Errorf("cannot map nil batch")
	}
	m := &models.Batch{
		ID:           batch.ID,
		TemplateID:   util.StringToNullString(batch.TemplateID),
		Topic:        batch.Topic,
		Prompt:       batch.Prompt,
		ActiveCardID: util.StringToNullString(batch.ActiveCardID),
		CreatedAt:    batch.CreatedAt,
		UpdatedAt:    batch.UpdatedAt,
	}
	if len(batch.Quiz) > 0 {
		data, err := json.Marshal(batch.Quiz)
		if err != nil {
			return nil, fmt.Errorf("failed to encode quiz: %w", err)
		}
		m.Quiz = sql.NullString{String: string(data), Valid: true}
	}
	return m, nil
}
