package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"dailydose/internal/domain"
	"dailydose/internal/repository/models"
	"dailydose/internal/util"

	"github.com/jmoiron/sqlx"
)

const cardColumns = `
		id "id",
		batch_id "batch_id",
		subsection_id "subsection_id",
		title "title",
		risk "risk",
		target_role "target_role",
		blocks "blocks",
		questions "questions",
		supplement "supplement",
		sources "sources",
		safety_netting "safety_netting",
		tags "tags",
		needs_sourcing "needs_sourcing",
		review_by "review_by",
		status "status",
		approved_by "approved_by",
		approval_note "approval_note",
		approved_at "approved_at",
		created_at "created_at",
		updated_at "updated_at",
		deleted_at "deleted_at"`

// CardDatabaseAdapter implements domain.CardRepository using sqlx.DB
type CardDatabaseAdapter struct {
	db *sqlx.DB
}

// NewCardDatabaseAdapter creates a new instance of CardDatabaseAdapter
func NewCardDatabaseAdapter(db *sqlx.DB) domain.CardRepository {
	return &CardDatabaseAdapter{db: db}
}

// GetCardByID implements domain.CardRepository
func (a *CardDatabaseAdapter) GetCardByID(ctx context.Context, id string) (*domain.Card, error) {
	var modelCard models.Card
	query := `SELECT ` + cardColumns + `
	FROM cards
	WHERE id = :1
	AND deleted_at IS NULL`

	err := GetExecutor(ctx, a.db).GetContext(ctx, &modelCard, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get card by ID %s: %w", id, err)
	}
	return toDomainCard(&modelCard)
}

// ListCards implements domain.CardRepository
func (a *CardDatabaseAdapter) ListCards(ctx context.Context, filters domain.CardFilters, limit, offset int) ([]*domain.Card, error) {
	conditions := []string{"deleted_at IS NULL"}
	args := []interface{}{}
	bind := 1

	if filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = :%d", bind))
		args = append(args, string(filters.Status))
		bind++
	}
	if filters.Risk != "" {
		conditions = append(conditions, fmt.Sprintf("risk = :%d", bind))
		args = append(args, string(filters.Risk))
		bind++
	}
	if filters.SubsectionID != "" {
		conditions = append(conditions, fmt.Sprintf("subsection_id = :%d", bind))
		args = append(args, filters.SubsectionID)
		bind++
	}
	if filters.Tag != "" {
		// Tags live in a JSON array column; match the quoted element.
		conditions = append(conditions, fmt.Sprintf("tags LIKE :%d", bind))
		args = append(args, `%"`+filters.Tag+`"%`)
		bind++
	}

	query := `SELECT ` + cardColumns + `
	FROM cards
	WHERE ` + strings.Join(conditions, " AND ") + `
	ORDER BY updated_at DESC
	OFFSET :` + fmt.Sprint(bind) + ` ROWS FETCH NEXT :` + fmt.Sprint(bind+1) + ` ROWS ONLY`
	args = append(args, offset, limit)

	var modelCards []models.Card
	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &modelCards, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	return toDomainCards(modelCards)
}

// ListCardsByBatch implements domain.CardRepository
func (a *CardDatabaseAdapter) ListCardsByBatch(ctx context.Context, batchID string) ([]*domain.Card, error) {
	query := `SELECT ` + cardColumns + `
	FROM cards
	WHERE batch_id = :1
	AND deleted_at IS NULL
	ORDER BY created_at ASC`

	var modelCards []models.Card
	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &modelCards, query, batchID); err != nil {
		return nil, fmt.Errorf("failed to list cards for batch %s: %w", batchID, err)
	}
	return toDomainCards(modelCards)
}

// ListReviewDueCards implements domain.CardRepository
func (a *CardDatabaseAdapter) ListReviewDueCards(ctx context.Context, before time.Time) ([]*domain.Card, error) {
	query := `SELECT ` + cardColumns + `
	FROM cards
	WHERE review_by IS NOT NULL
	AND review_by <= :1
	AND status != :2
	AND deleted_at IS NULL
	ORDER BY review_by ASC`

	var modelCards []models.Card
	err := GetExecutor(ctx, a.db).SelectContext(ctx, &modelCards, query, before, string(domain.StatusArchived))
	if err != nil {
		return nil, fmt.Errorf("failed to list review-due cards: %w", err)
	}
	return toDomainCards(modelCards)
}

// ListPublishedBySubsection implements domain.CardRepository. Rows come back
// in random order so repeated sessions see varied card selections.
func (a *CardDatabaseAdapter) ListPublishedBySubsection(ctx context.Context, subsectionID string, limit int) ([]*domain.Card, error) {
	query := `SELECT ` + cardColumns + `
	FROM cards
	WHERE subsection_id = :1
	AND status = :2
	AND deleted_at IS NULL
	ORDER BY DBMS_RANDOM.VALUE
	FETCH FIRST :3 ROWS ONLY`

	var modelCards []models.Card
	err := GetExecutor(ctx, a.db).SelectContext(ctx, &modelCards, query, subsectionID, string(domain.StatusPublished), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list published cards for subsection %s: %w", subsectionID, err)
	}
	return toDomainCards(modelCards)
}

// SaveCard implements domain.CardRepository
func (a *CardDatabaseAdapter) SaveCard(ctx context.Context, card *domain.Card) error {
	modelCard, err := toModelCard(card)
	if err != nil {
		return err
	}
	modelCard.ID = util.NewULID()
	modelCard.CreatedAt = time.Now()
	modelCard.UpdatedAt = modelCard.CreatedAt

	query := `INSERT INTO cards (
		id, batch_id, subsection_id, title, risk, target_role,
		blocks, questions, supplement, sources, safety_netting, tags,
		needs_sourcing, review_by, status, approved_by, approval_note, approved_at,
		created_at, updated_at
	) VALUES (
		:1, :2, :3, :4, :5, :6, :7, :8, :9, :10, :11, :12, :13, :14, :15, :16, :17, :18, :19, :20
	)`

	_, err = GetExecutor(ctx, a.db).ExecContext(ctx, query,
		modelCard.ID,
		modelCard.BatchID,
		modelCard.SubsectionID,
		modelCard.Title,
		modelCard.Risk,
		modelCard.TargetRole,
		modelCard.Blocks,
		modelCard.Questions,
		modelCard.Supplement,
		modelCard.Sources,
		modelCard.SafetyNetting,
		modelCard.Tags,
		modelCard.NeedsSourcing,
		modelCard.ReviewBy,
		modelCard.Status,
		modelCard.ApprovedBy,
		modelCard.ApprovalNote,
		modelCard.ApprovedAt,
		modelCard.CreatedAt,
		modelCard.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save card: %w", err)
	}

	card.ID = modelCard.ID
	card.CreatedAt = modelCard.CreatedAt
	card.UpdatedAt = modelCard.UpdatedAt
	return nil
}

// UpdateCard implements domain.CardRepository
func (a *CardDatabaseAdapter) UpdateCard(ctx context.Context, card *domain.Card) error {
	if card.ID == "" {
		return fmt.Errorf("cannot update card with empty ID")
	}
	modelCard, err := toModelCard(card)
	if err != nil {
		return err
	}
	modelCard.UpdatedAt = time.Now()

	query := `UPDATE cards SET
		batch_id = :1,
		subsection_id = :2,
		title = :3,
		risk = :4,
		target_role = :5,
		blocks = :6,
		questions = :7,
		supplement = :8,
		sources = :9,
		safety_netting = :10,
		tags = :11,
		needs_sourcing = :12,
		review_by = :13,
		status = :14,
		approved_by = :15,
		approval_note = :16,
		approved_at = :17,
		updated_at = :18
	WHERE id = :19
	AND deleted_at IS NULL`

	result, err := GetExecutor(ctx, a.db).ExecContext(ctx, query,
		modelCard.BatchID,
		modelCard.SubsectionID,
		modelCard.Title,
		modelCard.Risk,
		modelCard.TargetRole,
		modelCard.Blocks,
		modelCard.Questions,
		modelCard.Supplement,
		modelCard.Sources,
		modelCard.SafetyNetting,
		modelCard.Tags,
		modelCard.NeedsSourcing,
		modelCard.ReviewBy,
		modelCard.Status,
		modelCard.ApprovedBy,
		modelCard.ApprovalNote,
		modelCard.ApprovedAt,
		modelCard.UpdatedAt,
		card.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update card: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("card with ID %s not found or not updated", card.ID)
	}
	card.UpdatedAt = modelCard.UpdatedAt
	return nil
}

// DeleteCard implements domain.CardRepository with a soft delete.
func (a *CardDatabaseAdapter) DeleteCard(ctx context.Context, id string) error {
	query := `UPDATE cards SET deleted_at = :1, updated_at = :1 WHERE id = :2 AND deleted_at IS NULL`

	result, err := GetExecutor(ctx, a.db).ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.NewCardNotFoundError(id)
	}
	return nil
}

// CountCardsBySubsection implements domain.CardRepository
func (a *CardDatabaseAdapter) CountCardsBySubsection(ctx context.Context, subsectionID string) (int, int, error) {
	var counts struct {
		Total     int `db:"total"`
		Published int `db:"published"`
	}
	query := `SELECT
		COUNT(*) "total",
		COALESCE(SUM(CASE WHEN status = :1 THEN 1 ELSE 0 END), 0) "published"
	FROM cards
	WHERE subsection_id = :2
	AND deleted_at IS NULL`

	err := GetExecutor(ctx, a.db).GetContext(ctx, &counts, query, string(domain.StatusPublished), subsectionID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count cards for subsection %s: %w", subsectionID, err)
	}
	return counts.Total, counts.Published, nil
}

func toDomainCards(modelCards []models.Card) ([]*domain.Card, error) {
	cards := make([]*domain.Card, 0, len(modelCards))
	for i := range modelCards {
		card, err := toDomainCard(&modelCards[i])
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}

func toDomainCard(m *models.Card) (*domain.Card, error) {
	card := &domain.Card{
		ID:            m.ID,
		BatchID:       m.BatchID.String,
		SubsectionID:  m.SubsectionID.String,
		Title:         m.Title,
		Risk:          domain.RiskLevel(m.Risk),
		TargetRole:    m.TargetRole.String,
		SafetyNetting: m.SafetyNetting.String,
		NeedsSourcing: m.NeedsSourcing != 0,
		ReviewBy:      util.NullTimeToTime(m.ReviewBy),
		Status:        domain.CardStatus(m.Status),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}

	if err := unmarshalColumn(m.Blocks, &card.Blocks); err != nil {
		return nil, fmt.Errorf("failed to decode blocks for card %s: %w", m.ID, err)
	}
	if err := unmarshalColumn(m.Questions, &card.Questions); err != nil {
		return nil, fmt.Errorf("failed to decode questions for card %s: %w", m.ID, err)
	}
	if err := unmarshalColumn(m.Sources, &card.Sources); err != nil {
		return nil, fmt.Errorf("failed to decode sources for card %s: %w", m.ID, err)
	}
	if err := unmarshalColumn(m.Tags, &card.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags for card %s: %w", m.ID, err)
	}
	if m.Supplement.Valid && m.Supplement.String != "" {
		var supplement domain.ContentBlock
		if err := json.Unmarshal([]byte(m.Supplement.String), &supplement); err != nil {
			return nil, fmt.Errorf("failed to decode supplement for card %s: %w", m.ID, err)
		}
		card.Supplement = &supplement
	}
	if m.ApprovedBy.Valid && m.ApprovedAt.Valid {
		card.Approval = &domain.ClinicianApproval{
			ApprovedBy: m.ApprovedBy.String,
			Note:       m.ApprovalNote.String,
			ApprovedAt: m.ApprovedAt.Time,
		}
	}
	return card, nil
}

func toModelCard(card *domain.Card) (*models.Card, error) {
	if card == nil {
		return nil, fmt.Errorf("cannot map nil card")
	}

	blocks, err := marshalColumn(card.Blocks)
	if err != nil {
		return nil, fmt.Errorf("failed to encode blocks: %w", err)
	}
	questions, err := marshalColumn(card.Questions)
	if err != nil {
		return nil, fmt.Errorf("failed to encode questions: %w", err)
	}
	sources, err := marshalColumn(card.Sources)
	if err != nil {
		return nil, fmt.Errorf("failed to encode sources: %w", err)
	}
	tags, err := marshalColumn(card.Tags)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tags: %w", err)
	}

	m := &models.Card{
		ID:            card.ID,
		BatchID:       util.StringToNullString(card.BatchID),
		SubsectionID:  util.StringToNullString(card.SubsectionID),
		Title:         card.Title,
		Risk:          string(card.Risk),
		TargetRole:    util.StringToNullString(card.TargetRole),
		Blocks:        blocks,
		Questions:     questions,
		Sources:       sources,
		SafetyNetting: util.StringToNullString(card.SafetyNetting),
		Tags:          tags,
		ReviewBy:      util.TimeToNullTime(card.ReviewBy),
		Status:        string(card.Status),
		CreatedAt:     card.CreatedAt,
		UpdatedAt:     card.UpdatedAt,
	}
	if card.NeedsSourcing {
		m.NeedsSourcing = 1
	}
	if card.Supplement != nil {
		data, err := json.Marshal(card.Supplement)
		if err != nil {
			return nil, fmt.Errorf("failed to encode supplement: %w", err)
		}
		m.Supplement = sql.NullString{String: string(data), Valid: true}
	}
	if card.Approval != nil {
		m.ApprovedBy = util.StringToNullString(card.Approval.ApprovedBy)
		m.ApprovalNote = util.StringToNullString(card.Approval.Note)
		m.ApprovedAt = util.TimeToNullTime(card.Approval.ApprovedAt)
	}
	return m, nil
}

// marshalColumn encodes a slice for a JSON CLOB column. Nil slices are stored
// as an empty JSON array so readers never see SQL NULL.
func marshalColumn(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	s := string(data)
	if s == "null" {
		s = "[]"
	}
	return s, nil
}

func unmarshalColumn(raw string, dest interface{}) error {
	if raw == "" || raw == "null" {
		return nil
	}
	return json.Unmarshal([]byte(raw), dest)
}
