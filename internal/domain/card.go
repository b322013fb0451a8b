package domain

import (
	"context"
	"strings"
	"time"
)

// RiskLevel classifies a card's clinical risk and drives approval strictness.
type RiskLevel string

const (
	RiskLow  RiskLevel = "LOW"
	RiskMed  RiskLevel = "MED"
	RiskHigh RiskLevel = "HIGH"
)

// ParseRiskLevel normalizes a client-supplied risk string, defaulting to LOW.
func ParseRiskLevel(s string) RiskLevel {
	switch strings.ToUpper(s) {
	case "HIGH":
		return RiskHigh
	case "MED", "MEDIUM":
		return RiskMed
	default:
		return RiskLow
	}
}

// CardStatus is one of the four linear workflow statuses.
type CardStatus string

const (
	StatusDraft     CardStatus = "DRAFT"
	StatusApproved  CardStatus = "APPROVED"
	StatusPublished CardStatus = "PUBLISHED"
	StatusArchived  CardStatus = "ARCHIVED"
)

// BlockType identifies a content block layout.
type BlockType string

const (
	BlockText    BlockType = "text"
	BlockCallout BlockType = "callout"
	BlockSteps   BlockType = "steps"
	BlockDoDont  BlockType = "do_dont"
)

// QuestionType identifies an interactive question format.
type QuestionType string

const (
	QuestionMCQ          QuestionType = "mcq"
	QuestionTrueFalse    QuestionType = "true_false"
	QuestionChooseAction QuestionType = "choose_action"
)

// QuestionOption is one selectable answer of a question.
type QuestionOption struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// Question is an interactive question embedded in a card, a warm-up, or a quiz.
type Question struct {
	ID          string           `json:"id"`
	Type        QuestionType     `json:"type"`
	Prompt      string           `json:"prompt"`
	Options     []QuestionOption `json:"options"`
	Explanation string           `json:"explanation,omitempty"`
}

// CorrectOptionID returns the ID of the first correct option, or "".
func (q *Question) CorrectOptionID() string {
	for _, opt := range q.Options {
		if opt.Correct {
			return opt.ID
		}
	}
	return ""
}

// Validate validates the question
func (q *Question) Validate() error {
	if q.Prompt == "" {
		return NewInvalidInputError("question prompt is required")
	}
	if len(q.Options) < 2 {
		return NewInvalidInputError("question requires at least two options")
	}
	if q.CorrectOptionID() == "" {
		return NewInvalidInputError("question requires a correct option")
	}
	return nil
}

// ContentBlock is one block of card body content. A block may embed its own
// question (a "content-block question" as opposed to a card interaction).
type ContentBlock struct {
	Type     BlockType `json:"type"`
	Heading  string    `json:"heading,omitempty"`
	Body     string    `json:"body,omitempty"`
	Items    []string  `json:"items,omitempty"`
	Question *Question `json:"question,omitempty"`
}

// Source is a reference backing a card's content.
type Source struct {
	Title    string `json:"title"`
	URL      string `json:"url,omitempty"`
	Verified bool   `json:"verified"`
}

// ClinicianApproval is the sign-off stamp required before a HIGH risk card
// can be published.
type ClinicianApproval struct {
	ApprovedBy string    `json:"approved_by"`
	Note       string    `json:"note,omitempty"`
	ApprovedAt time.Time `json:"approved_at"`
}

// Card is a single unit of learning content.
type Card struct {
	ID            string
	BatchID       string
	SubsectionID  string
	Title         string
	Risk          RiskLevel
	TargetRole    string
	Blocks        []ContentBlock
	Questions     []Question
	Supplement    *ContentBlock
	Sources       []Source
	SafetyNetting string
	Tags          []string
	NeedsSourcing bool
	ReviewBy      time.Time
	Status        CardStatus
	Approval      *ClinicianApproval
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewCard creates a draft card.
func NewCard(title string, risk RiskLevel, targetRole string) *Card {
	now := time.Now()
	return &Card{
		Title:      title,
		Risk:       risk,
		TargetRole: targetRole,
		Status:     StatusDraft,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Validate validates the card
func (c *Card) Validate() error {
	if c.Title == "" {
		return NewInvalidInputError("title is required")
	}
	switch c.Risk {
	case RiskLow, RiskMed, RiskHigh:
	default:
		return NewInvalidInputError("risk must be one of LOW, MED, HIGH")
	}
	return nil
}

// ApprovalChecklist is the set of boolean conditions gating approval. It is
// recomputed from the card on demand, never stored.
type ApprovalChecklist struct {
	HasSources      bool `json:"has_sources"`
	SourcesVerified bool `json:"sources_verified"`
	HasInteractions bool `json:"has_interactions"`
	HasReviewDate   bool `json:"has_review_date"`
}

// CanApprove is the readiness predicate: every checklist item must hold.
func (cl ApprovalChecklist) CanApprove() bool {
	return cl.HasSources && cl.SourcesVerified && cl.HasInteractions && cl.HasReviewDate
}

// Checklist computes the approval readiness checklist for the card.
// SourcesVerified requires every source to be marked verified and the
// needs-sourcing flag to be cleared.
func (c *Card) Checklist() ApprovalChecklist {
	verified := len(c.Sources) > 0 && !c.NeedsSourcing
	for _, s := range c.Sources {
		if !s.Verified {
			verified = false
			break
		}
	}
	return ApprovalChecklist{
		HasSources:      len(c.Sources) > 0,
		SourcesVerified: verified,
		HasInteractions: c.QuestionCount() > 0,
		HasReviewDate:   !c.ReviewBy.IsZero(),
	}
}

// CanApprove reports whether the card satisfies the readiness checklist.
func (c *Card) CanApprove() bool {
	return c.Checklist().CanApprove()
}

// CanPublish reports whether an approved card may be published. HIGH risk
// cards additionally require a recorded clinician approval.
func (c *Card) CanPublish() bool {
	if c.Status != StatusApproved {
		return false
	}
	if c.Risk == RiskHigh && c.Approval == nil {
		return false
	}
	return true
}

// AllQuestions returns the card's interaction questions followed by its
// content-block questions, in declaration order.
func (c *Card) AllQuestions() []Question {
	questions := make([]Question, 0, len(c.Questions))
	questions = append(questions, c.Questions...)
	for _, b := range c.Blocks {
		if b.Question != nil {
			questions = append(questions, *b.Question)
		}
	}
	return questions
}

// QuestionCount counts interaction questions plus content-block questions.
func (c *Card) QuestionCount() int {
	n := len(c.Questions)
	for _, b := range c.Blocks {
		if b.Question != nil {
			n++
		}
	}
	return n
}

// Approve transitions DRAFT -> APPROVED, enforcing the readiness checklist.
func (c *Card) Approve() error {
	if c.Status != StatusDraft {
		return NewInvalidTransitionError(c.Status, StatusApproved)
	}
	if checklist := c.Checklist(); !checklist.CanApprove() {
		return NewApprovalBlockedError(checklist)
	}
	c.Status = StatusApproved
	c.UpdatedAt = time.Now()
	return nil
}

// Publish transitions APPROVED -> PUBLISHED, enforcing the HIGH risk
// clinician-approval gate.
func (c *Card) Publish() error {
	if c.Status != StatusApproved {
		return NewInvalidTransitionError(c.Status, StatusPublished)
	}
	if !c.CanPublish() {
		return NewPublishBlockedError("HIGH risk card requires a clinician approval before publish")
	}
	c.Status = StatusPublished
	c.UpdatedAt = time.Now()
	return nil
}

// Archive transitions PUBLISHED -> ARCHIVED.
func (c *Card) Archive() error {
	if c.Status != StatusPublished {
		return NewInvalidTransitionError(c.Status, StatusArchived)
	}
	c.Status = StatusArchived
	c.UpdatedAt = time.Now()
	return nil
}

// RecordClinicianApproval stamps the card with a clinician sign-off.
func (c *Card) RecordClinicianApproval(approvedBy, note string) error {
	if approvedBy == "" {
		return NewInvalidInputError("approved_by is required")
	}
	c.Approval = &ClinicianApproval{
		ApprovedBy: approvedBy,
		Note:       note,
		ApprovedAt: time.Now(),
	}
	c.UpdatedAt = time.Now()
	return nil
}

// CardFilters narrows card list queries.
type CardFilters struct {
	Status       CardStatus
	Risk         RiskLevel
	SubsectionID string
	Tag          string
}

// CardRepository is the persistence port for cards.
type CardRepository interface {
	GetCardByID(ctx context.Context, id string) (*Card, error)
	ListCards(ctx context.Context, filters CardFilters, limit, offset int) ([]*Card, error)
	ListCardsByBatch(ctx context.Context, batchID string) ([]*Card, error)
	ListReviewDueCards(ctx context.Context, before time.Time) ([]*Card, error)
	ListPublishedBySubsection(ctx context.Context, subsectionID string, limit int) ([]*Card, error)
	SaveCard(ctx context.Context, card *Card) error
	UpdateCard(ctx context.Context, card *Card) error
	DeleteCard(ctx context.Context, id string) error
	CountCardsBySubsection(ctx context.Context, subsectionID string) (total int, published int, err error)
}
