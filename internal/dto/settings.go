package dto

import "time"

// TagResponse is one global tag with its usage count.
type TagResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	UsageCount int       `json:"usage_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// TagListResponse wraps the tag settings screen payload.
type TagListResponse struct {
	Tags []TagResponse `json:"tags"`
}

// CreateTagRequest adds a global tag.
type CreateTagRequest struct {
	Name string `json:"name" validate:"required,max=60"`
}

// TemplateResponse is one prompt template.
type TemplateResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TemplateListResponse wraps the prompt template settings payload.
type TemplateListResponse struct {
	Templates []TemplateResponse `json:"templates"`
}

// SaveTemplateRequest creates or updates a prompt template.
type SaveTemplateRequest struct {
	Name string `json:"name" validate:"required,max=100"`
	Body string `json:"body" validate:"required"`
}
