package domain

import "context"

// NewCardData is one card candidate returned by the LLM.
type NewCardData struct {
	Title         string         `json:"title"`
	Risk          string         `json:"risk"`
	TargetRole    string         `json:"target_role"`
	Blocks        []ContentBlock `json:"blocks"`
	Questions     []Question     `json:"questions"`
	Supplement    *ContentBlock  `json:"supplement,omitempty"`
	SafetyNetting string         `json:"safety_netting,omitempty"`
	Tags          []string       `json:"tags,omitempty"`
}

// GeneratedBatchData is the full payload of one generation call: the card
// candidates plus an optional end-of-session quiz.
type GeneratedBatchData struct {
	Cards []NewCardData `json:"cards"`
	Quiz  []Question    `json:"quiz,omitempty"`
}

// CardGenerationService defines the interface for generating card batches
// from a rendered prompt.
type CardGenerationService interface {
	GenerateCardBatch(ctx context.Context, prompt string, numCards int) (*GeneratedBatchData, error)
}

// EmbeddingService defines the interface for generating text embeddings.
type EmbeddingService interface {
	Generate(ctx context.Context, text string) ([]float32, error)
}
