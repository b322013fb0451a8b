package repository

import (
	"context"
	"testing"
	"time"

	"dailydose/internal/domain"
	"dailydose/internal/util"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
)

func setupAttemptTestDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	sqlxDB := sqlx.NewDb(mockDB, "sqlmock")
	return sqlxDB, mock
}

func TestSaveAttempt(t *testing.T) {
	db, mock := setupAttemptTestDB(t)
	repo := NewAttemptDatabaseAdapter(db)

	attempt := &domain.SessionAttempt{
		SessionID:      util.NewULID(),
		SubsectionID:   "SUB01",
		CardIDs:        []string{"card-a", "card-b"},
		Correct:        5,
		Answered:       6,
		TotalQuestions: 8,
		Results: []domain.QuestionResult{
			{StepKey: "quiz_question:sess:q1", SelectedOptionID: "o1", Correct: true},
		},
		SubmittedAt: time.Now(),
	}

	mock.ExpectExec(`INSERT INTO session_attempts`).
		WithArgs(
			sqlmock.AnyArg(), // id
			attempt.SessionID,
			attempt.SubsectionID,
			`["card-a","card-b"]`,
			5, 6, 8,
			sqlmock.AnyArg(), // results JSON
			sqlmock.AnyArg(), // submitted_at
			sqlmock.AnyArg(), // created_at
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SaveAttempt(context.Background(), attempt)

	assert.NoError(t, err)
	assert.NotEmpty(t, attempt.ID)
	assert.NotZero(t, attempt.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAttemptsBySubsection(t *testing.T) {
	db, mock := setupAttemptTestDB(t)
	repo := NewAttemptDatabaseAdapter(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "session_id", "subsection_id", "card_ids", "correct_count",
		"answered_count", "total_questions", "results", "submitted_at", "created_at",
	}).AddRow(
		util.NewULID(), util.NewULID(), "SUB01", `["card-a"]`, 3, 4, 5,
		`[{"step_key":"quiz_question:sess:q1","selected_option_id":"o1","correct":true}]`, now, now,
	)

	mock.ExpectQuery(`SELECT(.|\n)+FROM session_attempts(.|\n)+WHERE subsection_id = :1`).
		WithArgs("SUB01", 10).
		WillReturnRows(rows)

	attempts, err := repo.ListAttemptsBySubsection(context.Background(), "SUB01", 10)

	assert.NoError(t, err)
	assert.Len(t, attempts, 1)
	assert.Equal(t, []string{"card-a"}, attempts[0].CardIDs)
	assert.Equal(t, 3, attempts[0].Correct)
	assert.Len(t, attempts[0].Results, 1)
	assert.True(t, attempts[0].Results[0].Correct)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountAttemptsBySubsection(t *testing.T) {
	db, mock := setupAttemptTestDB(t)
	repo := NewAttemptDatabaseAdapter(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM session_attempts WHERE subsection_id = :1`).
		WithArgs("SUB01").
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(12))

	count, err := repo.CountAttemptsBySubsection(context.Background(), "SUB01")

	assert.NoError(t, err)
	assert.Equal(t, 12, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
