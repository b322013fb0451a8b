package service

import (
	"context"

	"dailydose/internal/domain"
	"dailydose/internal/dto"
)

// SettingsService defines the interface for tag and prompt template settings
type SettingsService interface {
	ListTags(ctx context.Context) (*dto.TagListResponse, error)
	CreateTag(ctx context.Context, req *dto.CreateTagRequest) (*dto.TagResponse, error)
	DeleteTag(ctx context.Context, id string) error
	ListTemplates(ctx context.Context) (*dto.TemplateListResponse, error)
	GetTemplate(ctx context.Context, id string) (*dto.TemplateResponse, error)
	CreateTemplate(ctx context.Context, req *dto.SaveTemplateRequest) (*dto.TemplateResponse, error)
	UpdateTemplate(ctx context.Context, id string, req *dto.SaveTemplateRequest) (*dto.TemplateResponse, error)
	DeleteTemplate(ctx context.Context, id string) error
}

// settingsService implements SettingsService
type settingsService struct {
	tagRepo      domain.TagRepository
	templateRepo domain.TemplateRepository
}

// NewSettingsService creates a new instance of settingsService
func NewSettingsService(tagRepo domain.TagRepository, templateRepo domain.TemplateRepository) SettingsService {
	return &settingsService{tagRepo: tagRepo, templateRepo: templateRepo}
}

// ListTags implements SettingsService
func (s *settingsService) ListTags(ctx context.Context) (*dto.TagListResponse, error) {
	tags, err := s.tagRepo.ListTags(ctx)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list tags", err)
	}

	views := make([]dto.TagResponse, 0, len(tags))
	for _, tag := range tags {
		views = append(views, toTagResponse(tag))
	}
	return &dto.TagListResponse{Tags: views}, nil
}

// CreateTag implements SettingsService
func (s *settingsService) CreateTag(ctx context.Context, req *dto.CreateTagRequest) (*dto.TagResponse, error) {
	tag := &domain.Tag{Name: req.Name}
	if err := s.tagRepo.SaveTag(ctx, tag); err != nil {
		return nil, err
	}
	resp := toTagResponse(tag)
	return &resp, nil
}

// DeleteTag implements SettingsService
func (s *settingsService) DeleteTag(ctx context.Context, id string) error {
	return s.tagRepo.DeleteTag(ctx, id)
}

// ListTemplates implements SettingsService
func (s *settingsService) ListTemplates(ctx context.Context) (*dto.TemplateListResponse, error) {
	templates, err := s.templateRepo.ListTemplates(ctx)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list prompt templates", err)
	}

	views := make([]dto.TemplateResponse, 0, len(templates))
	for _, template := range templates {
		views = append(views, toTemplateResponse(template))
	}
	return &dto.TemplateListResponse{Templates: views}, nil
}

// GetTemplate implements SettingsService
func (s *settingsService) GetTemplate(ctx context.Context, id string) (*dto.TemplateResponse, error) {
	template, err := s.templateRepo.GetTemplateByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get prompt template", err)
	}
	if template == nil {
		return nil, domain.NewNotFoundError("prompt template not found: " + id)
	}
	resp := toTemplateResponse(template)
	return &resp, nil
}

// CreateTemplate implements SettingsService
func (s *settingsService) CreateTemplate(ctx context.Context, req *dto.SaveTemplateRequest) (*dto.TemplateResponse, error) {
	template := &domain.PromptTemplate{Name: req.Name, Body: req.Body}
	if err := s.templateRepo.SaveTemplate(ctx, template); err != nil {
		return nil, err
	}
	resp := toTemplateResponse(template)
	return &resp, nil
}

// UpdateTemplate implements SettingsService
func (s *settingsService) UpdateTemplate(ctx context.Context, id string, req *dto.SaveTemplateRequest) (*dto.TemplateResponse, error) {
	template := &domain.PromptTemplate{ID: id, Name: req.Name, Body: req.Body}
	if err := s.templateRepo.UpdateTemplate(ctx, template); err != nil {
		return nil, err
	}
	resp := toTemplateResponse(template)
	return &resp, nil
}

// DeleteTemplate implements SettingsService
func (s *settingsService) DeleteTemplate(ctx context.Context, id string) error {
	return s.templateRepo.DeleteTemplate(ctx, id)
}

func toTagResponse(tag *domain.Tag) dto.TagResponse {
	return dto.TagResponse{
		ID:         tag.ID,
		Name:       tag.Name,
		UsageCount: tag.UsageCount,
		CreatedAt:  tag.CreatedAt,
	}
}

func toTemplateResponse(template *domain.PromptTemplate) dto.TemplateResponse {
	return dto.TemplateResponse{
		ID:        template.ID,
		Name:      template.Name,
		Body:      template.Body,
		CreatedAt: template.CreatedAt,
		UpdatedAt: template.UpdatedAt,
	}
}
