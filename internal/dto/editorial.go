package dto

import (
	"time"

	"dailydose/internal/domain"
)

// CreateCardRequest is the authoring payload for a new draft card.
type CreateCardRequest struct {
	Title         string                `json:"title" validate:"required,max=200"`
	Risk          string                `json:"risk" validate:"omitempty,oneof=LOW MED HIGH"`
	TargetRole    string                `json:"target_role" validate:"omitempty,max=100"`
	SubsectionID  string                `json:"subsection_id" validate:"omitempty,len=26"`
	BatchID       string                `json:"batch_id" validate:"omitempty,len=26"`
	Blocks        []domain.ContentBlock `json:"blocks"`
	Questions     []domain.Question     `json:"questions"`
	Supplement    *domain.ContentBlock  `json:"supplement,omitempty"`
	Sources       []domain.Source       `json:"sources"`
	SafetyNetting string                `json:"safety_netting"`
	Tags          []string              `json:"tags"`
	NeedsSourcing bool                  `json:"needs_sourcing"`
	ReviewBy      *time.Time            `json:"review_by,omitempty"`
}

// UpdateCardRequest mirrors CreateCardRequest for full-card saves.
type UpdateCardRequest struct {
	Title         string                `json:"title" validate:"required,max=200"`
	Risk          string                `json:"risk" validate:"omitempty,oneof=LOW MED HIGH"`
	TargetRole    string                `json:"target_role" validate:"omitempty,max=100"`
	SubsectionID  string                `json:"subsection_id" validate:"omitempty,len=26"`
	Blocks        []domain.ContentBlock `json:"blocks"`
	Questions     []domain.Question     `json:"questions"`
	Supplement    *domain.ContentBlock  `json:"supplement,omitempty"`
	Sources       []domain.Source       `json:"sources"`
	SafetyNetting string                `json:"safety_netting"`
	Tags          []string              `json:"tags"`
	NeedsSourcing bool                  `json:"needs_sourcing"`
	ReviewBy      *time.Time            `json:"review_by,omitempty"`
}

// CardResponse is the full card view for the authoring workspace.
type CardResponse struct {
	ID            string                    `json:"id"`
	BatchID       string                    `json:"batch_id,omitempty"`
	SubsectionID  string                    `json:"subsection_id,omitempty"`
	Title         string                    `json:"title"`
	Risk          string                    `json:"risk"`
	TargetRole    string                    `json:"target_role,omitempty"`
	Status        string                    `json:"status"`
	Blocks        []domain.ContentBlock     `json:"blocks"`
	Questions     []domain.Question         `json:"questions"`
	Supplement    *domain.ContentBlock      `json:"supplement,omitempty"`
	Sources       []domain.Source           `json:"sources"`
	SafetyNetting string                    `json:"safety_netting,omitempty"`
	Tags          []string                  `json:"tags"`
	NeedsSourcing bool                      `json:"needs_sourcing"`
	ReviewBy      *time.Time                `json:"review_by,omitempty"`
	Approval      *domain.ClinicianApproval `json:"clinician_approval,omitempty"`
	Checklist     domain.ApprovalChecklist  `json:"checklist"`
	CanApprove    bool                      `json:"can_approve"`
	CanPublish    bool                      `json:"can_publish"`
	CreatedAt     time.Time                 `json:"created_at"`
	UpdatedAt     time.Time                 `json:"updated_at"`
}

// CardSummary is the compact card view for list screens.
type CardSummary struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Risk      string     `json:"risk"`
	Status    string     `json:"status"`
	Tags      []string   `json:"tags,omitempty"`
	ReviewBy  *time.Time `json:"review_by,omitempty"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CardListResponse wraps a page of card summaries.
type CardListResponse struct {
	Cards []CardSummary `json:"cards"`
}

// ReadinessResponse reports the approval gate for one card.
type ReadinessResponse struct {
	CardID     string                   `json:"card_id"`
	CanApprove bool                     `json:"can_approve"`
	CanPublish bool                     `json:"can_publish"`
	Checklist  domain.ApprovalChecklist `json:"checklist"`
}

// ClinicianApprovalRequest records a HIGH risk sign-off.
type ClinicianApprovalRequest struct {
	ApprovedBy string `json:"approved_by" validate:"required,max=100"`
	Note       string `json:"note" validate:"omitempty,max=500"`
}

// BulkDeleteRequest names the cards to delete.
type BulkDeleteRequest struct {
	CardIDs []string `json:"card_ids" validate:"required,min=1,dive,len=26"`
}

// BulkDeleteResponse reports the partial-success count of a bulk delete.
type BulkDeleteResponse struct {
	Requested int      `json:"requested"`
	Deleted   int      `json:"deleted"`
	FailedIDs []string `json:"failed_ids,omitempty"`
}

// GenerateBatchRequest triggers LLM card generation from a prompt template.
type GenerateBatchRequest struct {
	TemplateID   string `json:"template_id" validate:"required,len=26"`
	Topic        string `json:"topic" validate:"required,max=200"`
	SubsectionID string `json:"subsection_id" validate:"required,len=26"`
	NumCards     int    `json:"num_cards" validate:"omitempty,min=1,max=10"`
}

// BatchResponse is one generation batch with its cards.
type BatchResponse struct {
	ID           string            `json:"id"`
	TemplateID   string            `json:"template_id,omitempty"`
	Topic        string            `json:"topic"`
	Quiz         []domain.Question `json:"quiz,omitempty"`
	ActiveCardID string            `json:"active_card_id,omitempty"`
	Cards        []CardSummary     `json:"cards"`
	CreatedAt    time.Time         `json:"created_at"`
}

// BatchListResponse wraps a page of batches.
type BatchListResponse struct {
	Batches []BatchResponse `json:"batches"`
}

// ErrorBody is the inner object of the error envelope.
type ErrorBody struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ErrorResponse is the uniform error envelope: {"error": {...}}.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}
