package domain

import (
	"context"
	"time"
)

// Batch is a group of cards produced together from one AI prompt, with an
// optional end-of-session quiz. ActiveCardID tracks the card currently open
// in the authoring workspace.
type Batch struct {
	ID           string
	TemplateID   string
	Topic        string
	Prompt       string
	Quiz         []Question
	ActiveCardID string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewBatch creates a batch shell before generated cards are attached.
func NewBatch(templateID, topic, prompt string) *Batch {
	now := time.Now()
	return &Batch{
		TemplateID: templateID,
		Topic:      topic,
		Prompt:     prompt,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Validate validates the batch
func (b *Batch) Validate() error {
	if b.Topic == "" {
		return NewInvalidInputError("topic is required")
	}
	if b.Prompt == "" {
		return NewInvalidInputError("prompt is required")
	}
	return nil
}

// BatchRepository is the persistence port for generation batches.
type BatchRepository interface {
	GetBatchByID(ctx context.Context, id string) (*Batch, error)
	ListBatches(ctx context.Context, limit, offset int) ([]*Batch, error)
	SaveBatch(ctx context.Context, batch *Batch) error
	UpdateBatch(ctx context.Context, batch *Batch) error
	DeleteBatch(ctx context.Context, id string) error
}

// TransactionManager runs a function inside a database transaction carried
// through the context.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
