package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"dailydose/internal/domain"
	"dailydose/internal/repository/models"
	"dailydose/internal/util"

	"github.com/jmoiron/sqlx"
)

const attemptColumns = `id "id", session_id "session_id", subsection_id "subsection_id",
	card_ids "card_ids", correct_count "correct_count", answered_count "answered_count",
	total_questions "total_questions", results "results",
	submitted_at "submitted_at", created_at "created_at"`

// AttemptDatabaseAdapter implements domain.AttemptRepository using sqlx.DB
type AttemptDatabaseAdapter struct {
	db *sqlx.DB
}

// NewAttemptDatabaseAdapter creates a new instance of AttemptDatabaseAdapter
func NewAttemptDatabaseAdapter(db *sqlx.DB) domain.AttemptRepository {
	return &AttemptDatabaseAdapter{db: db}
}

// SaveAttempt implements domain.AttemptRepository
func (a *AttemptDatabaseAdapter) SaveAttempt(ctx context.Context, attempt *domain.SessionAttempt) error {
	attempt.ID = util.NewULID()
	now := time.Now()

	cardIDs, err := json.Marshal(attempt.CardIDs)
	if err != nil {
		return fmt.Errorf("failed to marshal attempt card IDs: %w", err)
	}
	results, err := json.Marshal(attempt.Results)
	if err != nil {
		return fmt.Errorf("failed to marshal attempt results: %w", err)
	}

	query := `INSERT INTO session_attempts
	(id, session_id, subsection_id, card_ids, correct_count, answered_count, total_questions, results, submitted_at, created_at)
	VALUES (:1, :2, :3, :4, :5, :6, :7, :8, :9, :10)`

	_, err = GetExecutor(ctx, a.db).ExecContext(ctx, query,
		attempt.ID, attempt.SessionID, attempt.SubsectionID,
		string(cardIDs), attempt.Correct, attempt.Answered, attempt.TotalQuestions,
		string(results), attempt.SubmittedAt, now)
	if err != nil {
		return fmt.Errorf("failed to save session attempt: %w", err)
	}
	attempt.CreatedAt = now
	return nil
}

// ListAttemptsBySubsection implements domain.AttemptRepository
func (a *AttemptDatabaseAdapter) ListAttemptsBySubsection(ctx context.Context, subsectionID string, limit int) ([]*domain.SessionAttempt, error) {
	var modelAttempts []models.SessionAttempt
	query := `SELECT ` + attemptColumns + `
	FROM session_attempts
	WHERE subsection_id = :1
	ORDER BY submitted_at DESC
	FETCH NEXT :2 ROWS ONLY`

	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &modelAttempts, query, subsectionID, limit); err != nil {
		return nil, fmt.Errorf("failed to list attempts for subsection %s: %w", subsectionID, err)
	}

	attempts := make([]*domain.SessionAttempt, 0, len(modelAttempts))
	for i := range modelAttempts {
		attempt, err := toDomainAttempt(&modelAttempts[i])
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, attempt)
	}
	return attempts, nil
}

// CountAttemptsBySubsection implements domain.AttemptRepository
func (a *AttemptDatabaseAdapter) CountAttemptsBySubsection(ctx context.Context, subsectionID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM session_attempts WHERE subsection_id = :1`
	if err := GetExecutor(ctx, a.db).GetContext(ctx, &count, query, subsectionID); err != nil {
		return 0, fmt.Errorf("failed to count attempts for subsection %s: %w", subsectionID, err)
	}
	return count, nil
}

func toDomainAttempt(m *models.SessionAttempt) (*domain.SessionAttempt, error) {
	attempt := &domain.SessionAttempt{
		ID:             m.ID,
		SessionID:      m.SessionID,
		SubsectionID:   m.SubsectionID,
		Correct:        m.CorrectCount,
		Answered:       m.AnsweredCount,
		TotalQuestions: m.TotalQuestions,
		SubmittedAt:    m.SubmittedAt,
		CreatedAt:      m.CreatedAt,
	}
	if err := unmarshalColumn(m.CardIDs, &attempt.CardIDs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal attempt card IDs: %w", err)
	}
	if err := unmarshalColumn(m.Results, &attempt.Results); err != nil {
		return nil, fmt.Errorf("failed to unmarshal attempt results: %w", err)
	}
	return attempt, nil
}
