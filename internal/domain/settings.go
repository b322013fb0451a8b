package domain

import (
	"context"
	"time"
)

// Tag is a global label cards reference by name.
type Tag struct {
	ID         string
	Name       string
	UsageCount int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Validate validates the tag
func (t *Tag) Validate() error {
	if t.Name == "" {
		return NewInvalidInputError("name is required")
	}
	return nil
}

// PromptTemplate is a reusable generation prompt edited via the settings
// screens. Body may contain a {{topic}} placeholder.
type PromptTemplate struct {
	ID        string
	Name      string
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate validates the prompt template
func (p *PromptTemplate) Validate() error {
	if p.Name == "" {
		return NewInvalidInputError("name is required")
	}
	if p.Body == "" {
		return NewInvalidInputError("body is required")
	}
	return nil
}

// TagRepository is the persistence port for tags.
type TagRepository interface {
	ListTags(ctx context.Context) ([]*Tag, error)
	GetTagByID(ctx context.Context, id string) (*Tag, error)
	SaveTag(ctx context.Context, tag *Tag) error
	DeleteTag(ctx context.Context, id string) error
}

// TemplateRepository is the persistence port for prompt templates.
type TemplateRepository interface {
	ListTemplates(ctx context.Context) ([]*PromptTemplate, error)
	GetTemplateByID(ctx context.Context, id string) (*PromptTemplate, error)
	SaveTemplate(ctx context.Context, template *PromptTemplate) error
	UpdateTemplate(ctx context.Context, template *PromptTemplate) error
	DeleteTemplate(ctx context.Context, id string) error
}
