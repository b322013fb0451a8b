package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"dailydose/internal/domain"
	"dailydose/internal/util"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
)

func setupCardTestDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	sqlxDB := sqlx.NewDb(mockDB, "sqlmock")
	return sqlxDB, mock
}

func cardRowColumns() []string {
	return []string{
		"id", "batch_id", "subsection_id", "title", "risk", "target_role",
		"blocks", "questions", "supplement", "sources", "safety_netting", "tags",
		"needs_sourcing", "review_by", "status", "approved_by", "approval_note", "approved_at",
		"created_at", "updated_at", "deleted_at",
	}
}

func TestGetCardByID(t *testing.T) {
	db, mock := setupCardTestDB(t)
	repo := NewCardDatabaseAdapter(db)

	cardID := util.NewULID()
	now := time.Now()
	reviewBy := now.AddDate(0, 6, 0)

	rows := sqlmock.NewRows(cardRowColumns()).AddRow(
		cardID, nil, "SUB01", "Sepsis red flags", "HIGH", "NURSE",
		`[{"type":"text","body":"Recognise early sepsis."}]`,
		`[{"id":"q1","type":"mcq","prompt":"First action?","options":[{"id":"o1","text":"Escalate","correct":true},{"id":"o2","text":"Wait","correct":false}]}]`,
		nil,
		`[{"title":"NICE NG51","url":"https://example.org","verified":true}]`,
		"Escalate immediately if deteriorating",
		`["sepsis"]`,
		0, reviewBy, "DRAFT", nil, nil, nil,
		now, now, nil,
	)

	mock.ExpectQuery(`SELECT(.|\n)+FROM cards(.|\n)+WHERE id = :1`).
		WithArgs(cardID).
		WillReturnRows(rows)

	card, err := repo.GetCardByID(context.Background(), cardID)

	assert.NoError(t, err)
	assert.NotNil(t, card)
	assert.Equal(t, cardID, card.ID)
	assert.Equal(t, domain.RiskHigh, card.Risk)
	assert.Len(t, card.Blocks, 1)
	assert.Len(t, card.Questions, 1)
	assert.Len(t, card.Sources, 1)
	assert.True(t, card.Sources[0].Verified)
	assert.Equal(t, []string{"sepsis"}, card.Tags)
	assert.False(t, card.NeedsSourcing)
	assert.Nil(t, card.Approval)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCardByID_NotFound(t *testing.T) {
	db, mock := setupCardTestDB(t)
	repo := NewCardDatabaseAdapter(db)

	cardID := util.NewULID()
	mock.ExpectQuery(`SELECT(.|\n)+FROM cards(.|\n)+WHERE id = :1`).
		WithArgs(cardID).
		WillReturnRows(sqlmock.NewRows(cardRowColumns()))

	card, err := repo.GetCardByID(context.Background(), cardID)

	assert.NoError(t, err)
	assert.Nil(t, card)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCardByID_WithApproval(t *testing.T) {
	db, mock := setupCardTestDB(t)
	repo := NewCardDatabaseAdapter(db)

	cardID := util.NewULID()
	now := time.Now()

	rows := sqlmock.NewRows(cardRowColumns()).AddRow(
		cardID, nil, "SUB01", "Anticoagulant counselling", "HIGH", nil,
		`[]`, `[]`, nil, `[]`, nil, `[]`,
		0, now, "APPROVED", "Dr Patel", "Reviewed against local formulary", now,
		now, now, nil,
	)

	mock.ExpectQuery(`SELECT(.|\n)+FROM cards(.|\n)+WHERE id = :1`).
		WithArgs(cardID).
		WillReturnRows(rows)

	card, err := repo.GetCardByID(context.Background(), cardID)

	assert.NoError(t, err)
	assert.NotNil(t, card)
	assert.NotNil(t, card.Approval)
	assert.Equal(t, "Dr Patel", card.Approval.ApprovedBy)
	assert.Equal(t, "Reviewed against local formulary", card.Approval.Note)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListCards_StatusFilter(t *testing.T) {
	db, mock := setupCardTestDB(t)
	repo := NewCardDatabaseAdapter(db)

	now := time.Now()
	rows := sqlmock.NewRows(cardRowColumns()).AddRow(
		util.NewULID(), nil, "SUB01", "Card A", "LOW", nil,
		`[]`, `[]`, nil, `[]`, nil, `[]`,
		0, nil, "PUBLISHED", nil, nil, nil,
		now, now, nil,
	)

	mock.ExpectQuery(`SELECT(.|\n)+FROM cards(.|\n)+status = :1`).
		WithArgs("PUBLISHED", 0, 20).
		WillReturnRows(rows)

	cards, err := repo.ListCards(context.Background(), domain.CardFilters{Status: domain.StatusPublished}, 20, 0)

	assert.NoError(t, err)
	assert.Len(t, cards, 1)
	assert.Equal(t, domain.StatusPublished, cards[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListCards_TagFilter(t *testing.T) {
	db, mock := setupCardTestDB(t)
	repo := NewCardDatabaseAdapter(db)

	mock.ExpectQuery(`SELECT(.|\n)+FROM cards(.|\n)+tags LIKE :1`).
		WithArgs(`%"sepsis"%`, 0, 20).
		WillReturnRows(sqlmock.NewRows(cardRowColumns()))

	cards, err := repo.ListCards(context.Background(), domain.CardFilters{Tag: "sepsis"}, 20, 0)

	assert.NoError(t, err)
	assert.Len(t, cards, 0)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveCard(t *testing.T) {
	db, mock := setupCardTestDB(t)
	repo := NewCardDatabaseAdapter(db)

	card := &domain.Card{
		SubsectionID: "SUB01",
		Title:        "Hand hygiene moments",
		Risk:         domain.RiskLow,
		Status:       domain.StatusDraft,
		Blocks: []domain.ContentBlock{
			{Type: domain.BlockText, Body: "The five moments."},
		},
		Tags: []string{"infection-control"},
	}

	mock.ExpectExec(`INSERT INTO cards`).
		WithArgs(
			sqlmock.AnyArg(), // id
			nil,              // batch_id
			"SUB01",
			card.Title,
			"LOW",
			nil, // target_role
			sqlmock.AnyArg(), // blocks
			"[]",             // questions
			nil,              // supplement
			"[]",             // sources
			nil,              // safety_netting
			`["infection-control"]`,
			0,
			nil, // review_by
			"DRAFT",
			nil, nil, nil,
			sqlmock.AnyArg(), sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SaveCard(context.Background(), card)

	assert.NoError(t, err)
	assert.NotEmpty(t, card.ID)
	assert.NotZero(t, card.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCard(t *testing.T) {
	db, mock := setupCardTestDB(t)
	repo := NewCardDatabaseAdapter(db)

	cardID := util.NewULID()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE cards SET deleted_at = :1, updated_at = :1 WHERE id = :2 AND deleted_at IS NULL`)).
		WithArgs(sqlmock.AnyArg(), cardID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.DeleteCard(context.Background(), cardID)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCard_NotFound(t *testing.T) {
	db, mock := setupCardTestDB(t)
	repo := NewCardDatabaseAdapter(db)

	cardID := util.NewULID()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE cards SET deleted_at = :1, updated_at = :1 WHERE id = :2 AND deleted_at IS NULL`)).
		WithArgs(sqlmock.AnyArg(), cardID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteCard(context.Background(), cardID)

	assert.Error(t, err)
	var domainErr *domain.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeCardNotFound, domainErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountCardsBySubsection(t *testing.T) {
	db, mock := setupCardTestDB(t)
	repo := NewCardDatabaseAdapter(db)

	rows := sqlmock.NewRows([]string{"total", "published"}).AddRow(7, 3)
	mock.ExpectQuery(`SELECT(.|\n)+FROM cards(.|\n)+WHERE subsection_id = :2`).
		WithArgs("PUBLISHED", "SUB01").
		WillReturnRows(rows)

	total, published, err := repo.CountCardsBySubsection(context.Background(), "SUB01")

	assert.NoError(t, err)
	assert.Equal(t, 7, total)
	assert.Equal(t, 3, published)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardModelRoundTrip(t *testing.T) {
	now := time.Now()
	card := &domain.Card{
		ID:           util.NewULID(),
		SubsectionID: "SUB01",
		Title:        "Pressure area care",
		Risk:         domain.RiskMed,
		Status:       domain.StatusApproved,
		Blocks: []domain.ContentBlock{
			{Type: domain.BlockText, Body: "Reposition every two hours."},
		},
		Sources: []domain.Source{
			{Title: "Local policy v4", Verified: true},
		},
		Tags:     []string{"tissue-viability"},
		ReviewBy: now.AddDate(1, 0, 0),
		Approval: &domain.ClinicianApproval{
			ApprovedBy: "Sr Okafor",
			ApprovedAt: now,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	model, err := toModelCard(card)
	assert.NoError(t, err)
	assert.NotNil(t, model)

	back, err := toDomainCard(model)
	assert.NoError(t, err)
	assert.Equal(t, card.ID, back.ID)
	assert.Equal(t, card.Title, back.Title)
	assert.Equal(t, card.Risk, back.Risk)
	assert.Equal(t, card.Status, back.Status)
	assert.Equal(t, card.Blocks, back.Blocks)
	assert.Equal(t, card.Sources, back.Sources)
	assert.Equal(t, card.Tags, back.Tags)
	assert.NotNil(t, back.Approval)
	assert.Equal(t, card.Approval.ApprovedBy, back.Approval.ApprovedBy)
}
