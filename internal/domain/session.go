package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// StepKind identifies what a session step renders.
type StepKind string

const (
	StepWarmupQuestion StepKind = "warmup_question"
	StepCardQuestion   StepKind = "card_question"
	StepSupplement     StepKind = "supplement"
	StepQuizQuestion   StepKind = "quiz_question"
)

// SessionPhase is the explicit enum-tagged progress state of a session. It is
// always derived from the current step's own tags, never by scanning
// backwards through the step list.
type SessionPhase string

const (
	PhaseWarmup   SessionPhase = "warmup"
	PhaseCards    SessionPhase = "cards"
	PhaseQuiz     SessionPhase = "quiz"
	PhaseComplete SessionPhase = "complete"
)

// Step is one entry of the flattened session sequence. Every step carries its
// owning card ID explicitly (empty for warm-up and quiz steps).
type Step struct {
	Key        string        `json:"key"`
	Kind       StepKind      `json:"kind"`
	CardID     string        `json:"card_id,omitempty"`
	Question   *Question     `json:"question,omitempty"`
	Supplement *ContentBlock `json:"supplement,omitempty"`
}

// StepKey builds the composite key a step's result is stored under:
// "<kind>:<scope>:<item>". Warm-up and quiz steps use the session scope in
// place of a card ID.
func StepKey(kind StepKind, scopeID, itemID string) string {
	return strings.Join([]string{string(kind), scopeID, itemID}, ":")
}

// BuildSteps flattens a session payload into the ordered step list: warm-up
// question steps, then per card its interaction questions, its content-block
// questions, and a supplementary-content step if present, then the final quiz
// question steps. The list is built once by concatenation; navigation is an
// index into it.
func BuildSteps(sessionID string, warmup []Question, cards []*Card, quiz []Question) []Step {
	steps := make([]Step, 0, len(warmup)+len(quiz))

	for i := range warmup {
		q := warmup[i]
		steps = append(steps, Step{
			Key:      StepKey(StepWarmupQuestion, sessionID, q.ID),
			Kind:     StepWarmupQuestion,
			Question: &q,
		})
	}

	for _, card := range cards {
		questions := card.AllQuestions()
		for i := range questions {
			q := questions[i]
			steps = append(steps, Step{
				Key:      StepKey(StepCardQuestion, card.ID, q.ID),
				Kind:     StepCardQuestion,
				CardID:   card.ID,
				Question: &q,
			})
		}
		if card.Supplement != nil {
			supplement := *card.Supplement
			steps = append(steps, Step{
				Key:        StepKey(StepSupplement, card.ID, "supplement"),
				Kind:       StepSupplement,
				CardID:     card.ID,
				Supplement: &supplement,
			})
		}
	}

	for i := range quiz {
		q := quiz[i]
		steps = append(steps, Step{
			Key:      StepKey(StepQuizQuestion, sessionID, q.ID),
			Kind:     StepQuizQuestion,
			Question: &q,
		})
	}

	return steps
}

// QuestionResult is one answered question, keyed by its step key. A step with
// a stored result re-renders in feedback mode.
type QuestionResult struct {
	StepKey          string    `json:"step_key"`
	SelectedOptionID string    `json:"selected_option_id"`
	CorrectOptionID  string    `json:"correct_option_id"`
	Correct          bool      `json:"correct"`
	Explanation      string    `json:"explanation,omitempty"`
	AnsweredAt       time.Time `json:"answered_at"`
}

// Session is one learner's ephemeral run through warm-up, cards and quiz.
type Session struct {
	ID           string                    `json:"id"`
	SubsectionID string                    `json:"subsection_id"`
	CardIDs      []string                  `json:"card_ids"`
	Steps        []Step                    `json:"steps"`
	Index        int                       `json:"index"`
	Results      map[string]QuestionResult `json:"results"`
	CreatedAt    time.Time                 `json:"created_at"`
}

// NewSession assembles a session and flattens its step list.
func NewSession(id, subsectionID string, warmup []Question, cards []*Card, quiz []Question) *Session {
	cardIDs := make([]string, 0, len(cards))
	for _, c := range cards {
		cardIDs = append(cardIDs, c.ID)
	}
	return &Session{
		ID:           id,
		SubsectionID: subsectionID,
		CardIDs:      cardIDs,
		Steps:        BuildSteps(id, warmup, cards, quiz),
		Results:      make(map[string]QuestionResult),
		CreatedAt:    time.Now(),
	}
}

// CurrentStep returns the step at the navigation index, or nil past the end.
func (s *Session) CurrentStep() *Step {
	if s.Index < 0 || s.Index >= len(s.Steps) {
		return nil
	}
	return &s.Steps[s.Index]
}

// Phase reports the session's progress state from the current step's own
// kind tag.
func (s *Session) Phase() SessionPhase {
	step := s.CurrentStep()
	if step == nil {
		return PhaseComplete
	}
	switch step.Kind {
	case StepWarmupQuestion:
		return PhaseWarmup
	case StepQuizQuestion:
		return PhaseQuiz
	default:
		return PhaseCards
	}
}

// CurrentCardID returns the card the current step belongs to, or "" for
// warm-up and quiz steps.
func (s *Session) CurrentCardID() string {
	step := s.CurrentStep()
	if step == nil {
		return ""
	}
	return step.CardID
}

// StepByKey looks up a step by its composite key.
func (s *Session) StepByKey(key string) (*Step, error) {
	for i := range s.Steps {
		if s.Steps[i].Key == key {
			return &s.Steps[i], nil
		}
	}
	return nil, NewError(CodeInvalidStep, fmt.Sprintf("No step with key: %s", key), nil)
}

// Answer evaluates a selection against the step's question and stores the
// result under the step key. Re-answering an already answered step is
// rejected; the stored result keeps the step in feedback mode.
func (s *Session) Answer(stepKey, selectedOptionID string) (QuestionResult, error) {
	step, err := s.StepByKey(stepKey)
	if err != nil {
		return QuestionResult{}, err
	}
	if step.Question == nil {
		return QuestionResult{}, NewError(CodeInvalidStep,
			fmt.Sprintf("Step %s has no question to answer", stepKey), nil)
	}
	if _, answered := s.Results[stepKey]; answered {
		return QuestionResult{}, NewInvalidInputError("step has already been answered")
	}

	correctID := step.Question.CorrectOptionID()
	result := QuestionResult{
		StepKey:          stepKey,
		SelectedOptionID: selectedOptionID,
		CorrectOptionID:  correctID,
		Correct:          selectedOptionID == correctID,
		Explanation:      step.Question.Explanation,
		AnsweredAt:       time.Now(),
	}
	s.Results[stepKey] = result
	return result, nil
}

// Answered reports whether the step should render in feedback mode.
func (s *Session) Answered(stepKey string) bool {
	_, ok := s.Results[stepKey]
	return ok
}

// Seek moves the navigation index. Seeking to len(Steps) marks the session
// complete.
func (s *Session) Seek(index int) error {
	if index < 0 || index > len(s.Steps) {
		return NewInvalidInputError(fmt.Sprintf("step index %d out of range", index))
	}
	s.Index = index
	return nil
}

// Score tallies the accumulated results.
func (s *Session) Score() (correct int, answered int) {
	for _, r := range s.Results {
		answered++
		if r.Correct {
			correct++
		}
	}
	return correct, answered
}

// QuestionSteps counts the steps that expect an answer.
func (s *Session) QuestionSteps() int {
	n := 0
	for _, step := range s.Steps {
		if step.Question != nil {
			n++
		}
	}
	return n
}

// SessionAttempt is the persisted summary of a submitted session.
type SessionAttempt struct {
	ID             string
	SessionID      string
	SubsectionID   string
	CardIDs        []string
	Correct        int
	Answered       int
	TotalQuestions int
	Results        []QuestionResult
	SubmittedAt    time.Time
	CreatedAt      time.Time
}

// AttemptRepository is the persistence port for submitted session summaries.
type AttemptRepository interface {
	SaveAttempt(ctx context.Context, attempt *SessionAttempt) error
	ListAttemptsBySubsection(ctx context.Context, subsectionID string, limit int) ([]*SessionAttempt, error)
	CountAttemptsBySubsection(ctx context.Context, subsectionID string) (int, error)
}
