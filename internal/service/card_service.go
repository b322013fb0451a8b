package service

import (
	"context"
	"time"

	"dailydose/internal/domain"
	"dailydose/internal/dto"
	"dailydose/internal/logger"

	"go.uber.org/zap"
)

// CardService defines the interface for editorial card operations
type CardService interface {
	CreateCard(ctx context.Context, req *dto.CreateCardRequest) (*dto.CardResponse, error)
	GetCard(ctx context.Context, id string) (*dto.CardResponse, error)
	ListCards(ctx context.Context, filters domain.CardFilters, limit, offset int) (*dto.CardListResponse, error)
	UpdateCard(ctx context.Context, id string, req *dto.UpdateCardRequest) (*dto.CardResponse, error)
	DeleteCard(ctx context.Context, id string) error
	BulkDeleteCards(ctx context.Context, req *dto.BulkDeleteRequest) (*dto.BulkDeleteResponse, error)
	GetReadiness(ctx context.Context, id string) (*dto.ReadinessResponse, error)
	ApproveCard(ctx context.Context, id string) (*dto.CardResponse, error)
	PublishCard(ctx context.Context, id string) (*dto.CardResponse, error)
	ArchiveCard(ctx context.Context, id string) (*dto.CardResponse, error)
	RecordClinicianApproval(ctx context.Context, id string, req *dto.ClinicianApprovalRequest) (*dto.CardResponse, error)
	ListReviewDueCards(ctx context.Context) (*dto.CardListResponse, error)
}

// cardService implements CardService
type cardService struct {
	cardRepo domain.CardRepository
}

// NewCardService creates a new instance of cardService
func NewCardService(cardRepo domain.CardRepository) CardService {
	return &cardService{cardRepo: cardRepo}
}

// CreateCard implements CardService
func (s *cardService) CreateCard(ctx context.Context, req *dto.CreateCardRequest) (*dto.CardResponse, error) {
	card := domain.NewCard(req.Title, domain.ParseRiskLevel(req.Risk), req.TargetRole)
	card.SubsectionID = req.SubsectionID
	card.BatchID = req.BatchID
	applyCardContent(card, req.Blocks, req.Questions, req.Supplement, req.Sources,
		req.SafetyNetting, req.Tags, req.NeedsSourcing, req.ReviewBy)

	if err := card.Validate(); err != nil {
		return nil, err
	}
	if err := s.cardRepo.SaveCard(ctx, card); err != nil {
		return nil, domain.NewInternalError("Failed to save card", err)
	}

	logger.Get().Info("Card created",
		zap.String("card_id", card.ID),
		zap.String("risk", string(card.Risk)))
	return toCardResponse(card), nil
}

// GetCard implements CardService
func (s *cardService) GetCard(ctx context.Context, id string) (*dto.CardResponse, error) {
	card, err := s.getCard(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCardResponse(card), nil
}

// ListCards implements CardService
func (s *cardService) ListCards(ctx context.Context, filters domain.CardFilters, limit, offset int) (*dto.CardListResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	cards, err := s.cardRepo.ListCards(ctx, filters, limit, offset)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list cards", err)
	}
	return toCardListResponse(cards), nil
}

// UpdateCard implements CardService
func (s *cardService) UpdateCard(ctx context.Context, id string, req *dto.UpdateCardRequest) (*dto.CardResponse, error) {
	card, err := s.getCard(ctx, id)
	if err != nil {
		return nil, err
	}

	card.Title = req.Title
	if req.Risk != "" {
		card.Risk = domain.ParseRiskLevel(req.Risk)
	}
	card.TargetRole = req.TargetRole
	if req.SubsectionID != "" {
		card.SubsectionID = req.SubsectionID
	}
	applyCardContent(card, req.Blocks, req.Questions, req.Supplement, req.Sources,
		req.SafetyNetting, req.Tags, req.NeedsSourcing, req.ReviewBy)

	if err := card.Validate(); err != nil {
		return nil, err
	}
	if err := s.cardRepo.UpdateCard(ctx, card); err != nil {
		return nil, domain.NewInternalError("Failed to update card", err)
	}
	return toCardResponse(card), nil
}

// DeleteCard implements CardService
func (s *cardService) DeleteCard(ctx context.Context, id string) error {
	return s.cardRepo.DeleteCard(ctx, id)
}

// BulkDeleteCards implements CardService. Deletion continues past individual
// failures; the response reports the partial-success count.
func (s *cardService) BulkDeleteCards(ctx context.Context, req *dto.BulkDeleteRequest) (*dto.BulkDeleteResponse, error) {
	resp := &dto.BulkDeleteResponse{Requested: len(req.CardIDs)}
	for _, id := range req.CardIDs {
		if err := s.cardRepo.DeleteCard(ctx, id); err != nil {
			logger.Get().Warn("Bulk delete: failed to delete card",
				zap.String("card_id", id),
				zap.Error(err))
			resp.FailedIDs = append(resp.FailedIDs, id)
			continue
		}
		resp.Deleted++
	}
	return resp, nil
}

// GetReadiness implements CardService
func (s *cardService) GetReadiness(ctx context.Context, id string) (*dto.ReadinessResponse, error) {
	card, err := s.getCard(ctx, id)
	if err != nil {
		return nil, err
	}
	checklist := card.Checklist()
	return &dto.ReadinessResponse{
		CardID:     card.ID,
		CanApprove: checklist.CanApprove(),
		CanPublish: card.CanPublish(),
		Checklist:  checklist,
	}, nil
}

// ApproveCard implements CardService
func (s *cardService) ApproveCard(ctx context.Context, id string) (*dto.CardResponse, error) {
	return s.transition(ctx, id, (*domain.Card).Approve)
}

// PublishCard implements CardService
func (s *cardService) PublishCard(ctx context.Context, id string) (*dto.CardResponse, error) {
	return s.transition(ctx, id, (*domain.Card).Publish)
}

// ArchiveCard implements CardService
func (s *cardService) ArchiveCard(ctx context.Context, id string) (*dto.CardResponse, error) {
	return s.transition(ctx, id, (*domain.Card).Archive)
}

// RecordClinicianApproval implements CardService
func (s *cardService) RecordClinicianApproval(ctx context.Context, id string, req *dto.ClinicianApprovalRequest) (*dto.CardResponse, error) {
	card, err := s.getCard(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := card.RecordClinicianApproval(req.ApprovedBy, req.Note); err != nil {
		return nil, err
	}
	if err := s.cardRepo.UpdateCard(ctx, card); err != nil {
		return nil, domain.NewInternalError("Failed to update card", err)
	}
	logger.Get().Info("Clinician approval recorded",
		zap.String("card_id", card.ID),
		zap.String("approved_by", req.ApprovedBy))
	return toCardResponse(card), nil
}

// ListReviewDueCards implements CardService
func (s *cardService) ListReviewDueCards(ctx context.Context) (*dto.CardListResponse, error) {
	cards, err := s.cardRepo.ListReviewDueCards(ctx, time.Now())
	if err != nil {
		return nil, domain.NewInternalError("Failed to list review-due cards", err)
	}
	return toCardListResponse(cards), nil
}

func (s *cardService) getCard(ctx context.Context, id string) (*domain.Card, error) {
	card, err := s.cardRepo.GetCardByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get card", err)
	}
	if card == nil {
		return nil, domain.NewCardNotFoundError(id)
	}
	return card, nil
}

func (s *cardService) transition(ctx context.Context, id string, op func(*domain.Card) error) (*dto.CardResponse, error) {
	card, err := s.getCard(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := op(card); err != nil {
		return nil, err
	}
	if err := s.cardRepo.UpdateCard(ctx, card); err != nil {
		return nil, domain.NewInternalError("Failed to update card", err)
	}
	logger.Get().Info("Card status changed",
		zap.String("card_id", card.ID),
		zap.String("status", string(card.Status)))
	return toCardResponse(card), nil
}

func applyCardContent(card *domain.Card, blocks []domain.ContentBlock, questions []domain.Question,
	supplement *domain.ContentBlock, sources []domain.Source, safetyNetting string,
	tags []string, needsSourcing bool, reviewBy *time.Time) {
	card.Blocks = blocks
	card.Questions = questions
	card.Supplement = supplement
	card.Sources = sources
	card.SafetyNetting = safetyNetting
	card.Tags = tags
	card.NeedsSourcing = needsSourcing
	if reviewBy != nil {
		card.ReviewBy = *reviewBy
	} else {
		card.ReviewBy = time.Time{}
	}
	card.UpdatedAt = time.Now()
}

func toCardResponse(card *domain.Card) *dto.CardResponse {
	checklist := card.Checklist()
	resp := &dto.CardResponse{
		ID:            card.ID,
		BatchID:       card.BatchID,
		SubsectionID:  card.SubsectionID,
		Title:         card.Title,
		Risk:          string(card.Risk),
		TargetRole:    card.TargetRole,
		Status:        string(card.Status),
		Blocks:        card.Blocks,
		Questions:     card.Questions,
		Supplement:    card.Supplement,
		Sources:       card.Sources,
		SafetyNetting: card.SafetyNetting,
		Tags:          card.Tags,
		NeedsSourcing: card.NeedsSourcing,
		Approval:      card.Approval,
		Checklist:     checklist,
		CanApprove:    checklist.CanApprove(),
		CanPublish:    card.CanPublish(),
		CreatedAt:     card.CreatedAt,
		UpdatedAt:     card.UpdatedAt,
	}
	if !card.ReviewBy.IsZero() {
		reviewBy := card.ReviewBy
		resp.ReviewBy = &reviewBy
	}
	return resp
}

func toCardSummary(card *domain.Card) dto.CardSummary {
	summary := dto.CardSummary{
		ID:        card.ID,
		Title:     card.Title,
		Risk:      string(card.Risk),
		Status:    string(card.Status),
		Tags:      card.Tags,
		UpdatedAt: card.UpdatedAt,
	}
	if !card.ReviewBy.IsZero() {
		reviewBy := card.ReviewBy
		summary.ReviewBy = &reviewBy
	}
	return summary
}

func toCardListResponse(cards []*domain.Card) *dto.CardListResponse {
	summaries := make([]dto.CardSummary, 0, len(cards))
	for _, card := range cards {
		summaries = append(summaries, toCardSummary(card))
	}
	return &dto.CardListResponse{Cards: summaries}
}
