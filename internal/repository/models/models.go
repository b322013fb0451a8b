package models

import (
	"database/sql"
	"time"
)

// Card is the cards table row. Blocks, questions, supplement, sources and
// tags are JSON documents in CLOB columns.
type Card struct {
	ID            string         `db:"id"`
	BatchID       sql.NullString `db:"batch_id"`
	SubsectionID  sql.NullString `db:"subsection_id"`
	Title         string         `db:"title"`
	Risk          string         `db:"risk"`
	TargetRole    sql.NullString `db:"target_role"`
	Blocks        string         `db:"blocks"`
	Questions     string         `db:"questions"`
	Supplement    sql.NullString `db:"supplement"`
	Sources       string         `db:"sources"`
	SafetyNetting sql.NullString `db:"safety_netting"`
	Tags          string         `db:"tags"`
	NeedsSourcing int            `db:"needs_sourcing"`
	ReviewBy      sql.NullTime   `db:"review_by"`
	Status        string         `db:"status"`
	ApprovedBy    sql.NullString `db:"approved_by"`
	ApprovalNote  sql.NullString `db:"approval_note"`
	ApprovedAt    sql.NullTime   `db:"approved_at"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
	DeletedAt     sql.NullTime   `db:"deleted_at"`
}

// Batch is the batches table row. Quiz is a JSON document in a CLOB column.
type Batch struct {
	ID           string         `db:"id"`
	TemplateID   sql.NullString `db:"template_id"`
	Topic        string         `db:"topic"`
	Prompt       string         `db:"prompt"`
	Quiz         sql.NullString `db:"quiz"`
	ActiveCardID sql.NullString `db:"active_card_id"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
	DeletedAt    sql.NullTime   `db:"deleted_at"`
}

// Theme is the themes table row.
type Theme struct {
	ID        string       `db:"id"`
	Name      string       `db:"name"`
	Position  int          `db:"position"`
	CreatedAt time.Time    `db:"created_at"`
	UpdatedAt time.Time    `db:"updated_at"`
	DeletedAt sql.NullTime `db:"deleted_at"`
}

// Category is the categories table row.
type Category struct {
	ID        string       `db:"id"`
	ThemeID   string       `db:"theme_id"`
	Name      string       `db:"name"`
	Position  int          `db:"position"`
	CreatedAt time.Time    `db:"created_at"`
	UpdatedAt time.Time    `db:"updated_at"`
	DeletedAt sql.NullTime `db:"deleted_at"`
}

// Subsection is the subsections table row.
type Subsection struct {
	ID         string       `db:"id"`
	CategoryID string       `db:"category_id"`
	Name       string       `db:"name"`
	Position   int          `db:"position"`
	CreatedAt  time.Time    `db:"created_at"`
	UpdatedAt  time.Time    `db:"updated_at"`
	DeletedAt  sql.NullTime `db:"deleted_at"`
}

// Tag is the tags table row.
type Tag struct {
	ID        string       `db:"id"`
	Name      string       `db:"name"`
	CreatedAt time.Time    `db:"created_at"`
	UpdatedAt time.Time    `db:"updated_at"`
	DeletedAt sql.NullTime `db:"deleted_at"`
}

// PromptTemplate is the prompt_templates table row.
type PromptTemplate struct {
	ID        string       `db:"id"`
	Name      string       `db:"name"`
	Body      string       `db:"body"`
	CreatedAt time.Time    `db:"created_at"`
	UpdatedAt time.Time    `db:"updated_at"`
	DeletedAt sql.NullTime `db:"deleted_at"`
}

// SessionAttempt is the session_attempts table row. CardIDs and Results are
// JSON documents in CLOB columns.
type SessionAttempt struct {
	ID             string    `db:"id"`
	SessionID      string    `db:"session_id"`
	SubsectionID   string    `db:"subsection_id"`
	CardIDs        string    `db:"card_ids"`
	CorrectCount   int       `db:"correct_count"`
	AnsweredCount  int       `db:"answered_count"`
	TotalQuestions int       `db:"total_questions"`
	Results        string    `db:"results"`
	SubmittedAt    time.Time `db:"submitted_at"`
	CreatedAt      time.Time `db:"created_at"`
}
