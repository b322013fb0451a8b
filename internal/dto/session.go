package dto

import (
	"time"

	"dailydose/internal/domain"
)

// QuestionOptionView is a learner-facing option without the correct flag.
type QuestionOptionView struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// QuestionView is a learner-facing question. Correctness and explanation are
// withheld until the step is answered.
type QuestionView struct {
	ID      string               `json:"id"`
	Type    string               `json:"type"`
	Prompt  string               `json:"prompt"`
	Options []QuestionOptionView `json:"options"`
}

// NewQuestionView strips answer data from a question for the session player.
func NewQuestionView(q *domain.Question) *QuestionView {
	if q == nil {
		return nil
	}
	options := make([]QuestionOptionView, 0, len(q.Options))
	for _, opt := range q.Options {
		options = append(options, QuestionOptionView{ID: opt.ID, Text: opt.Text})
	}
	return &QuestionView{
		ID:      q.ID,
		Type:    string(q.Type),
		Prompt:  q.Prompt,
		Options: options,
	}
}

// StepView is one step of the session player. Result is present only once
// the step has been answered, which switches it into feedback mode.
type StepView struct {
	Key        string                 `json:"key"`
	Kind       string                 `json:"kind"`
	CardID     string                 `json:"card_id,omitempty"`
	Question   *QuestionView          `json:"question,omitempty"`
	Supplement *domain.ContentBlock   `json:"supplement,omitempty"`
	Answered   bool                   `json:"answered"`
	Result     *domain.QuestionResult `json:"result,omitempty"`
}

// StartSessionRequest selects the subsection a session draws cards from.
type StartSessionRequest struct {
	SubsectionID string `json:"subsection_id" validate:"required,len=26"`
}

// SessionResponse is the full session state for the player.
type SessionResponse struct {
	ID            string     `json:"id"`
	SubsectionID  string     `json:"subsection_id"`
	Phase         string     `json:"phase"`
	Index         int        `json:"index"`
	CurrentCardID string     `json:"current_card_id,omitempty"`
	Steps         []StepView `json:"steps"`
	CardIDs       []string   `json:"card_ids"`
	CreatedAt     time.Time  `json:"created_at"`
}

// AnswerStepRequest submits a selection for one step.
type AnswerStepRequest struct {
	StepKey          string `json:"step_key" validate:"required"`
	SelectedOptionID string `json:"selected_option_id" validate:"required"`
}

// AnswerStepResponse is the feedback for an answered step.
type AnswerStepResponse struct {
	StepKey          string    `json:"step_key"`
	Correct          bool      `json:"correct"`
	SelectedOptionID string    `json:"selected_option_id"`
	CorrectOptionID  string    `json:"correct_option_id"`
	Explanation      string    `json:"explanation,omitempty"`
	AnsweredAt       time.Time `json:"answered_at"`
}

// SeekRequest moves the session's navigation index.
type SeekRequest struct {
	Index int `json:"index" validate:"min=0"`
}

// SubmitSessionResponse summarizes a submitted session.
type SubmitSessionResponse struct {
	AttemptID      string `json:"attempt_id"`
	Correct        int    `json:"correct"`
	Answered       int    `json:"answered"`
	TotalQuestions int    `json:"total_questions"`
}

// PathwaySubsection is the leaf view of the pathway dashboard.
type PathwaySubsection struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	TotalCards     int    `json:"total_cards"`
	PublishedCards int    `json:"published_cards"`
	Attempts       int    `json:"attempts"`
}

// PathwayCategory carries per-category counts and the coverage color.
type PathwayCategory struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	TotalCards     int                 `json:"total_cards"`
	PublishedCards int                 `json:"published_cards"`
	Coverage       string              `json:"coverage"`
	Subsections    []PathwaySubsection `json:"subsections"`
}

// PathwayTheme groups categories on the dashboard.
type PathwayTheme struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Categories []PathwayCategory `json:"categories"`
}

// PathwayResponse is the Learning Pathway dashboard payload.
type PathwayResponse struct {
	Themes []PathwayTheme `json:"themes"`
}
