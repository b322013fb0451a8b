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

func setupPathwayTestDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	sqlxDB := sqlx.NewDb(mockDB, "sqlmock")
	return sqlxDB, mock
}

func TestListThemes(t *testing.T) {
	db, mock := setupPathwayTestDB(t)
	repo := NewPathwayDatabaseAdapter(db)

	now := time.Now()
	themeID := util.NewULID()
	categoryID := util.NewULID()
	subsectionID := util.NewULID()

	themeRows := sqlmock.NewRows([]string{"id", "name", "position", "created_at", "updated_at", "deleted_at"}).
		AddRow(themeID, "Clinical Safety", 1, now, now, nil)
	mock.ExpectQuery(`SELECT(.|\n)+FROM themes`).WillReturnRows(themeRows)

	categoryRows := sqlmock.NewRows([]string{"id", "theme_id", "name", "position", "created_at", "updated_at", "deleted_at"}).
		AddRow(categoryID, themeID, "Medicines Management", 1, now, now, nil)
	mock.ExpectQuery(`SELECT(.|\n)+FROM categories`).WillReturnRows(categoryRows)

	subsectionRows := sqlmock.NewRows([]string{"id", "category_id", "name", "position", "created_at", "updated_at", "deleted_at"}).
		AddRow(subsectionID, categoryID, "Anticoagulants", 1, now, now, nil)
	mock.ExpectQuery(`SELECT(.|\n)+FROM subsections`).WillReturnRows(subsectionRows)

	themes, err := repo.ListThemes(context.Background())

	assert.NoError(t, err)
	assert.Len(t, themes, 1)
	assert.Equal(t, "Clinical Safety", themes[0].Name)
	assert.Len(t, themes[0].Categories, 1)
	assert.Equal(t, "Medicines Management", themes[0].Categories[0].Name)
	assert.Len(t, themes[0].Categories[0].Subsections, 1)
	assert.Equal(t, "Anticoagulants", themes[0].Categories[0].Subsections[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListThemes_OrphanSubsectionSkipped(t *testing.T) {
	db, mock := setupPathwayTestDB(t)
	repo := NewPathwayDatabaseAdapter(db)

	now := time.Now()
	themeID := util.NewULID()

	themeRows := sqlmock.NewRows([]string{"id", "name", "position", "created_at", "updated_at", "deleted_at"}).
		AddRow(themeID, "Clinical Safety", 1, now, now, nil)
	mock.ExpectQuery(`SELECT(.|\n)+FROM themes`).WillReturnRows(themeRows)

	mock.ExpectQuery(`SELECT(.|\n)+FROM categories`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "theme_id", "name", "position", "created_at", "updated_at", "deleted_at"}))

	subsectionRows := sqlmock.NewRows([]string{"id", "category_id", "name", "position", "created_at", "updated_at", "deleted_at"}).
		AddRow(util.NewULID(), util.NewULID(), "Dangling", 1, now, now, nil)
	mock.ExpectQuery(`SELECT(.|\n)+FROM subsections`).WillReturnRows(subsectionRows)

	themes, err := repo.ListThemes(context.Background())

	assert.NoError(t, err)
	assert.Len(t, themes, 1)
	assert.Len(t, themes[0].Categories, 0)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSubsectionByID(t *testing.T) {
	db, mock := setupPathwayTestDB(t)
	repo := NewPathwayDatabaseAdapter(db)

	now := time.Now()
	subsectionID := util.NewULID()
	categoryID := util.NewULID()

	rows := sqlmock.NewRows([]string{"id", "category_id", "name", "position", "created_at", "updated_at", "deleted_at"}).
		AddRow(subsectionID, categoryID, "Anticoagulants", 2, now, now, nil)
	mock.ExpectQuery(`SELECT(.|\n)+FROM subsections(.|\n)+WHERE id = :1`).
		WithArgs(subsectionID).
		WillReturnRows(rows)

	subsection, err := repo.GetSubsectionByID(context.Background(), subsectionID)

	assert.NoError(t, err)
	assert.NotNil(t, subsection)
	assert.Equal(t, subsectionID, subsection.ID)
	assert.Equal(t, categoryID, subsection.CategoryID)
	assert.Equal(t, 2, subsection.Position)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSubsectionByID_NotFound(t *testing.T) {
	db, mock := setupPathwayTestDB(t)
	repo := NewPathwayDatabaseAdapter(db)

	subsectionID := util.NewULID()
	mock.ExpectQuery(`SELECT(.|\n)+FROM subsections(.|\n)+WHERE id = :1`).
		WithArgs(subsectionID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "category_id", "name", "position", "created_at", "updated_at", "deleted_at"}))

	subsection, err := repo.GetSubsectionByID(context.Background(), subsectionID)

	assert.NoError(t, err)
	assert.Nil(t, subsection)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveTheme(t *testing.T) {
	db, mock := setupPathwayTestDB(t)
	repo := NewPathwayDatabaseAdapter(db)

	theme := &domain.Theme{Name: "Clinical Safety", Position: 1}
	mock.ExpectExec(`INSERT INTO themes`).
		WithArgs(sqlmock.AnyArg(), theme.Name, theme.Position, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SaveTheme(context.Background(), theme)

	assert.NoError(t, err)
	assert.NotEmpty(t, theme.ID)
	assert.NotZero(t, theme.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveCategory_RequiresTheme(t *testing.T) {
	db, _ := setupPathwayTestDB(t)
	repo := NewPathwayDatabaseAdapter(db)

	err := repo.SaveCategory(context.Background(), &domain.Category{Name: "Medicines Management"})

	assert.Error(t, err)
}

func TestSaveSubsection(t *testing.T) {
	db, mock := setupPathwayTestDB(t)
	repo := NewPathwayDatabaseAdapter(db)

	subsection := &domain.Subsection{CategoryID: util.NewULID(), Name: "Anticoagulants", Position: 3}
	mock.ExpectExec(`INSERT INTO subsections`).
		WithArgs(sqlmock.AnyArg(), subsection.CategoryID, subsection.Name, subsection.Position, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SaveSubsection(context.Background(), subsection)

	assert.NoError(t, err)
	assert.NotEmpty(t, subsection.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
