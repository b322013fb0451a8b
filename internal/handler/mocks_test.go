package handler_test

import (
	"context"

	"dailydose/internal/domain"
	"dailydose/internal/dto"
)

// --- Manual Mocks ---

// MockCardService
type MockCardService struct {
	CreateCardFunc              func(ctx context.Context, req *dto.CreateCardRequest) (*dto.CardResponse, error)
	GetCardFunc                 func(ctx context.Context, id string) (*dto.CardResponse, error)
	ListCardsFunc               func(ctx context.Context, filters domain.CardFilters, limit, offset int) (*dto.CardListResponse, error)
	UpdateCardFunc              func(ctx context.Context, id string, req *dto.UpdateCardRequest) (*dto.CardResponse, error)
	DeleteCardFunc              func(ctx context.Context, id string) error
	BulkDeleteCardsFunc         func(ctx context.Context, req *dto.BulkDeleteRequest) (*dto.BulkDeleteResponse, error)
	GetReadinessFunc            func(ctx context.Context, id string) (*dto.ReadinessResponse, error)
	ApproveCardFunc             func(ctx context.Context, id string) (*dto.CardResponse, error)
	PublishCardFunc             func(ctx context.Context, id string) (*dto.CardResponse, error)
	ArchiveCardFunc             func(ctx context.Context, id string) (*dto.CardResponse, error)
	RecordClinicianApprovalFunc func(ctx context.Context, id string, req *dto.ClinicianApprovalRequest) (*dto.CardResponse, error)
	ListReviewDueCardsFunc      func(ctx context.Context) (*dto.CardListResponse, error)
}

func (m *MockCardService) CreateCard(ctx context.Context, req *dto.CreateCardRequest) (*dto.CardResponse, error) {
	if m.CreateCardFunc != nil {
		return m.CreateCardFunc(ctx, req)
	}
	panic("MockCardService.CreateCardFunc not implemented")
}
func (m *MockCardService) GetCard(ctx context.Context, id string) (*dto.CardResponse, error) {
	if m.GetCardFunc != nil {
		return m.GetCardFunc(ctx, id)
	}
	panic("MockCardService.GetCardFunc not implemented")
}
func (m *MockCardService) ListCards(ctx context.Context, filters domain.CardFilters, limit, offset int) (*dto.CardListResponse, error) {
	if m.ListCardsFunc != nil {
		return m.ListCardsFunc(ctx, filters, limit, offset)
	}
	panic("MockCardService.ListCardsFunc not implemented")
}
func (m *MockCardService) UpdateCard(ctx context.Context, id string, req *dto.UpdateCardRequest) (*dto.CardResponse, error) {
	if m.UpdateCardFunc != nil {
		return m.UpdateCardFunc(ctx, id, req)
	}
	panic("MockCardService.UpdateCardFunc not implemented")
}
func (m *MockCardService) DeleteCard(ctx context.Context, id string) error {
	if m.DeleteCardFunc != nil {
		return m.DeleteCardFunc(ctx, id)
	}
	panic("MockCardService.DeleteCardFunc not implemented")
}
func (m *MockCardService) BulkDeleteCards(ctx context.Context, req *dto.BulkDeleteRequest) (*dto.BulkDeleteResponse, error) {
	if m.BulkDeleteCardsFunc != nil {
		return m.BulkDeleteCardsFunc(ctx, req)
	}
	panic("MockCardService.BulkDeleteCardsFunc not implemented")
}
func (m *MockCardService) GetReadiness(ctx context.Context, id string) (*dto.ReadinessResponse, error) {
	if m.GetReadinessFunc != nil {
		return m.GetReadinessFunc(ctx, id)
	}
	panic("MockCardService.GetReadinessFunc not implemented")
}
func (m *MockCardService) ApproveCard(ctx context.Context, id string) (*dto.CardResponse, error) {
	if m.ApproveCardFunc != nil {
		return m.ApproveCardFunc(ctx, id)
	}
	panic("MockCardService.ApproveCardFunc not implemented")
}
func (m *MockCardService) PublishCard(ctx context.Context, id string) (*dto.CardResponse, error) {
	if m.PublishCardFunc != nil {
		return m.PublishCardFunc(ctx, id)
	}
	panic("MockCardService.PublishCardFunc not implemented")
}
func (m *MockCardService) ArchiveCard(ctx context.Context, id string) (*dto.CardResponse, error) {
	if m.ArchiveCardFunc != nil {
		return m.ArchiveCardFunc(ctx, id)
	}
	panic("MockCardService.ArchiveCardFunc not implemented")
}
func (m *MockCardService) RecordClinicianApproval(ctx context.Context, id string, req *dto.ClinicianApprovalRequest) (*dto.CardResponse, error) {
	if m.RecordClinicianApprovalFunc != nil {
		return m.RecordClinicianApprovalFunc(ctx, id, req)
	}
	panic("MockCardService.RecordClinicianApprovalFunc not implemented")
}
func (m *MockCardService) ListReviewDueCards(ctx context.Context) (*dto.CardListResponse, error) {
	if m.ListReviewDueCardsFunc != nil {
		return m.ListReviewDueCardsFunc(ctx)
	}
	panic("MockCardService.ListReviewDueCardsFunc not implemented")
}

// MockBatchService
type MockBatchService struct {
	GenerateBatchFunc       func(ctx context.Context, req *dto.GenerateBatchRequest) (*dto.BatchResponse, error)
	GetBatchFunc            func(ctx context.Context, id string) (*dto.BatchResponse, error)
	ListBatchesFunc         func(ctx context.Context, limit, offset int) (*dto.BatchListResponse, error)
	DeleteCardFromBatchFunc func(ctx context.Context, batchID, cardID string) (*dto.BatchResponse, error)
	SetActiveCardFunc       func(ctx context.Context, batchID, cardID string) (*dto.BatchResponse, error)
}

func (m *MockBatchService) GenerateBatch(ctx context.Context, req *dto.GenerateBatchRequest) (*dto.BatchResponse, error) {
	if m.GenerateBatchFunc != nil {
		return m.GenerateBatchFunc(ctx, req)
	}
	panic("MockBatchService.GenerateBatchFunc not implemented")
}
func (m *MockBatchService) GetBatch(ctx context.Context, id string) (*dto.BatchResponse, error) {
	if m.GetBatchFunc != nil {
		return m.GetBatchFunc(ctx, id)
	}
	panic("MockBatchService.GetBatchFunc not implemented")
}
func (m *MockBatchService) ListBatches(ctx context.Context, limit, offset int) (*dto.BatchListResponse, error) {
	if m.ListBatchesFunc != nil {
		return m.ListBatchesFunc(ctx, limit, offset)
	}
	panic("MockBatchService.ListBatchesFunc not implemented")
}
func (m *MockBatchService) DeleteCardFromBatch(ctx context.Context, batchID, cardID string) (*dto.BatchResponse, error) {
	if m.DeleteCardFromBatchFunc != nil {
		return m.DeleteCardFromBatchFunc(ctx, batchID, cardID)
	}
	panic("MockBatchService.DeleteCardFromBatchFunc not implemented")
}
func (m *MockBatchService) SetActiveCard(ctx context.Context, batchID, cardID string) (*dto.BatchResponse, error) {
	if m.SetActiveCardFunc != nil {
		return m.SetActiveCardFunc(ctx, batchID, cardID)
	}
	panic("MockBatchService.SetActiveCardFunc not implemented")
}

// MockSettingsService
type MockSettingsService struct {
	ListTagsFunc       func(ctx context.Context) (*dto.TagListResponse, error)
	CreateTagFunc      func(ctx context.Context, req *dto.CreateTagRequest) (*dto.TagResponse, error)
	DeleteTagFunc      func(ctx context.Context, id string) error
	ListTemplatesFunc  func(ctx context.Context) (*dto.TemplateListResponse, error)
	GetTemplateFunc    func(ctx context.Context, id string) (*dto.TemplateResponse, error)
	CreateTemplateFunc func(ctx context.Context, req *dto.SaveTemplateRequest) (*dto.TemplateResponse, error)
	UpdateTemplateFunc func(ctx context.Context, id string, req *dto.SaveTemplateRequest) (*dto.TemplateResponse, error)
	DeleteTemplateFunc func(ctx context.Context, id string) error
}

func (m *MockSettingsService) ListTags(ctx context.Context) (*dto.TagListResponse, error) {
	if m.ListTagsFunc != nil {
		return m.ListTagsFunc(ctx)
	}
	panic("MockSettingsService.ListTagsFunc not implemented")
}
func (m *MockSettingsService) CreateTag(ctx context.Context, req *dto.CreateTagRequest) (*dto.TagResponse, error) {
	if m.CreateTagFunc != nil {
		return m.CreateTagFunc(ctx, req)
	}
	panic("MockSettingsService.CreateTagFunc not implemented")
}
func (m *MockSettingsService) DeleteTag(ctx context.Context, id string) error {
	if m.DeleteTagFunc != nil {
		return m.DeleteTagFunc(ctx, id)
	}
	panic("MockSettingsService.DeleteTagFunc not implemented")
}
func (m *MockSettingsService) ListTemplates(ctx context.Context) (*dto.TemplateListResponse, error) {
	if m.ListTemplatesFunc != nil {
		return m.ListTemplatesFunc(ctx)
	}
	panic("MockSettingsService.ListTemplatesFunc not implemented")
}
func (m *MockSettingsService) GetTemplate(ctx context.Context, id string) (*dto.TemplateResponse, error) {
	if m.GetTemplateFunc != nil {
		return m.GetTemplateFunc(ctx, id)
	}
	panic("MockSettingsService.GetTemplateFunc not implemented")
}
func (m *MockSettingsService) CreateTemplate(ctx context.Context, req *dto.SaveTemplateRequest) (*dto.TemplateResponse, error) {
	if m.CreateTemplateFunc != nil {
		return m.CreateTemplateFunc(ctx, req)
	}
	panic("MockSettingsService.CreateTemplateFunc not implemented")
}
func (m *MockSettingsService) UpdateTemplate(ctx context.Context, id string, req *dto.SaveTemplateRequest) (*dto.TemplateResponse, error) {
	if m.UpdateTemplateFunc != nil {
		return m.UpdateTemplateFunc(ctx, id, req)
	}
	panic("MockSettingsService.UpdateTemplateFunc not implemented")
}
func (m *MockSettingsService) DeleteTemplate(ctx context.Context, id string) error {
	if m.DeleteTemplateFunc != nil {
		return m.DeleteTemplateFunc(ctx, id)
	}
	panic("MockSettingsService.DeleteTemplateFunc not implemented")
}

// MockPathwayService
type MockPathwayService struct {
	GetPathwayFunc             func(ctx context.Context) (*dto.PathwayResponse, error)
	InvalidatePathwayCacheFunc func(ctx context.Context) error
	InvalidateCalls            int
}

func (m *MockPathwayService) GetPathway(ctx context.Context) (*dto.PathwayResponse, error) {
	if m.GetPathwayFunc != nil {
		return m.GetPathwayFunc(ctx)
	}
	panic("MockPathwayService.GetPathwayFunc not implemented")
}
func (m *MockPathwayService) InvalidatePathwayCache(ctx context.Context) error {
	m.InvalidateCalls++
	if m.InvalidatePathwayCacheFunc != nil {
		return m.InvalidatePathwayCacheFunc(ctx)
	}
	return nil
}

// MockSessionService
type MockSessionService struct {
	StartSessionFunc  func(ctx context.Context, req *dto.StartSessionRequest) (*dto.SessionResponse, error)
	GetSessionFunc    func(ctx context.Context, sessionID string) (*dto.SessionResponse, error)
	AnswerStepFunc    func(ctx context.Context, sessionID string, req *dto.AnswerStepRequest) (*dto.AnswerStepResponse, error)
	SeekFunc          func(ctx context.Context, sessionID string, req *dto.SeekRequest) (*dto.SessionResponse, error)
	SubmitSessionFunc func(ctx context.Context, sessionID string) (*dto.SubmitSessionResponse, error)
}

func (m *MockSessionService) StartSession(ctx context.Context, req *dto.StartSessionRequest) (*dto.SessionResponse, error) {
	if m.StartSessionFunc != nil {
		return m.StartSessionFunc(ctx, req)
	}
	panic("MockSessionService.StartSessionFunc not implemented")
}
func (m *MockSessionService) GetSession(ctx context.Context, sessionID string) (*dto.SessionResponse, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(ctx, sessionID)
	}
	panic("MockSessionService.GetSessionFunc not implemented")
}
func (m *MockSessionService) AnswerStep(ctx context.Context, sessionID string, req *dto.AnswerStepRequest) (*dto.AnswerStepResponse, error) {
	if m.AnswerStepFunc != nil {
		return m.AnswerStepFunc(ctx, sessionID, req)
	}
	panic("MockSessionService.AnswerStepFunc not implemented")
}
func (m *MockSessionService) Seek(ctx context.Context, sessionID string, req *dto.SeekRequest) (*dto.SessionResponse, error) {
	if m.SeekFunc != nil {
		return m.SeekFunc(ctx, sessionID, req)
	}
	panic("MockSessionService.SeekFunc not implemented")
}
func (m *MockSessionService) SubmitSession(ctx context.Context, sessionID string) (*dto.SubmitSessionResponse, error) {
	if m.SubmitSessionFunc != nil {
		return m.SubmitSessionFunc(ctx, sessionID)
	}
	panic("MockSessionService.SubmitSessionFunc not implemented")
}
