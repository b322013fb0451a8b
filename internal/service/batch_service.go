package service

import (
	"context"
	"strings"

	"dailydose/internal/config"
	"dailydose/internal/domain"
	"dailydose/internal/dto"
	"dailydose/internal/util"

	"go.uber.org/zap"
)

// BatchService defines the interface for AI generation batch operations
type BatchService interface {
	GenerateBatch(ctx context.Context, req *dto.GenerateBatchRequest) (*dto.BatchResponse, error)
	GetBatch(ctx context.Context, id string) (*dto.BatchResponse, error)
	ListBatches(ctx context.Context, limit, offset int) (*dto.BatchListResponse, error)
	DeleteCardFromBatch(ctx context.Context, batchID, cardID string) (*dto.BatchResponse, error)
	SetActiveCard(ctx context.Context, batchID, cardID string) (*dto.BatchResponse, error)
}

// batchService implements BatchService
type batchService struct {
	batchRepo    domain.BatchRepository
	cardRepo     domain.CardRepository
	templateRepo domain.TemplateRepository
	cardGenSvc   domain.CardGenerationService
	embeddingSvc domain.EmbeddingService
	txManager    domain.TransactionManager
	cfg          *config.Config
	logger       *zap.Logger
}

// NewBatchService creates a new instance of batchService
func NewBatchService(
	batchRepo domain.BatchRepository,
	cardRepo domain.CardRepository,
	templateRepo domain.TemplateRepository,
	cardGenSvc domain.CardGenerationService,
	embeddingSvc domain.EmbeddingService,
	txManager domain.TransactionManager,
	cfg *config.Config,
	logger *zap.Logger,
) BatchService {
	return &batchService{
		batchRepo:    batchRepo,
		cardRepo:     cardRepo,
		templateRepo: templateRepo,
		cardGenSvc:   cardGenSvc,
		embeddingSvc: embeddingSvc,
		txManager:    txManager,
		cfg:          cfg,
		logger:       logger,
	}
}

// GenerateBatch implements BatchService. It renders the prompt template,
// requests card candidates from the LLM, drops candidates too similar to
// existing cards in the target subsection, and persists the batch with its
// surviving cards in one transaction.
func (s *batchService) GenerateBatch(ctx context.Context, req *dto.GenerateBatchRequest) (*dto.BatchResponse, error) {
	template, err := s.templateRepo.GetTemplateByID(ctx, req.TemplateID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get prompt template", err)
	}
	if template == nil {
		return nil, domain.NewNotFoundError("prompt template not found: " + req.TemplateID)
	}

	prompt := strings.ReplaceAll(template.Body, "{{topic}}", req.Topic)

	numCards := req.NumCards
	if numCards <= 0 {
		numCards = s.cfg.Batch.CardsPerBatch
	}

	s.logger.Info("Generating card batch",
		zap.String("template_id", template.ID),
		zap.String("topic", req.Topic),
		zap.Int("num_cards", numCards))

	generated, err := s.cardGenSvc.GenerateCardBatch(ctx, prompt, numCards)
	if err != nil {
		return nil, err
	}

	candidates := s.filterNearDuplicates(ctx, req.SubsectionID, generated.Cards)
	if len(candidates) == 0 {
		return nil, domain.NewError(domain.CodeLLMServiceError,
			"All generated cards were near-duplicates of existing content", nil)
	}

	batch := domain.NewBatch(template.ID, req.Topic, prompt)
	batch.Quiz = generated.Quiz

	var cards []*domain.Card
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.batchRepo.SaveBatch(txCtx, batch); err != nil {
			return err
		}
		for i := range candidates {
			card := candidateToCard(&candidates[i], batch.ID, req.SubsectionID)
			if err := s.cardRepo.SaveCard(txCtx, card); err != nil {
				return err
			}
			cards = append(cards, card)
		}
		batch.ActiveCardID = cards[0].ID
		return s.batchRepo.UpdateBatch(txCtx, batch)
	})
	if err != nil {
		return nil, domain.NewInternalError("Failed to save generated batch", err)
	}

	s.logger.Info("Card batch generated",
		zap.String("batch_id", batch.ID),
		zap.Int("num_cards", len(cards)),
		zap.Int("num_dropped", len(generated.Cards)-len(cards)))
	return toBatchResponse(batch, cards), nil
}

// GetBatch implements BatchService
func (s *batchService) GetBatch(ctx context.Context, id string) (*dto.BatchResponse, error) {
	batch, err := s.getBatch(ctx, id)
	if err != nil {
		return nil, err
	}
	cards, err := s.cardRepo.ListCardsByBatch(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list batch cards", err)
	}
	return toBatchResponse(batch, cards), nil
}

// ListBatches implements BatchService
func (s *batchService) ListBatches(ctx context.Context, limit, offset int) (*dto.BatchListResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	batches, err := s.batchRepo.ListBatches(ctx, limit, offset)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list batches", err)
	}

	responses := make([]dto.BatchResponse, 0, len(batches))
	for _, batch := range batches {
		cards, err := s.cardRepo.ListCardsByBatch(ctx, batch.ID)
		if err != nil {
			return nil, domain.NewInternalError("Failed to list batch cards", err)
		}
		responses = append(responses, *toBatchResponse(batch, cards))
	}
	return &dto.BatchListResponse{Batches: responses}, nil
}

// DeleteCardFromBatch implements BatchService. Deleting the last remaining
// card clears the batch's active selection so no dangling reference survives.
func (s *batchService) DeleteCardFromBatch(ctx context.Context, batchID, cardID string) (*dto.BatchResponse, error) {
	batch, err := s.getBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	cards, err := s.cardRepo.ListCardsByBatch(ctx, batchID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list batch cards", err)
	}
	if !containsCard(cards, cardID) {
		return nil, domain.NewCardNotFoundError(cardID)
	}

	var remaining []*domain.Card
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.cardRepo.DeleteCard(txCtx, cardID); err != nil {
			return err
		}
		for _, card := range cards {
			if card.ID != cardID {
				remaining = append(remaining, card)
			}
		}
		if batch.ActiveCardID == cardID {
			batch.ActiveCardID = ""
			if len(remaining) > 0 {
				batch.ActiveCardID = remaining[0].ID
			}
		}
		if len(remaining) == 0 {
			batch.ActiveCardID = ""
		}
		return s.batchRepo.UpdateBatch(txCtx, batch)
	})
	if err != nil {
		return nil, domain.NewInternalError("Failed to delete card from batch", err)
	}
	return toBatchResponse(batch, remaining), nil
}

// SetActiveCard implements BatchService
func (s *batchService) SetActiveCard(ctx context.Context, batchID, cardID string) (*dto.BatchResponse, error) {
	batch, err := s.getBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	cards, err := s.cardRepo.ListCardsByBatch(ctx, batchID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list batch cards", err)
	}
	if !containsCard(cards, cardID) {
		return nil, domain.NewCardNotFoundError(cardID)
	}

	batch.ActiveCardID = cardID
	if err := s.batchRepo.UpdateBatch(ctx, batch); err != nil {
		return nil, domain.NewInternalError("Failed to update batch", err)
	}
	return toBatchResponse(batch, cards), nil
}

func (s *batchService) getBatch(ctx context.Context, id string) (*domain.Batch, error) {
	batch, err := s.batchRepo.GetBatchByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get batch", err)
	}
	if batch == nil {
		return nil, domain.NewBatchNotFoundError(id)
	}
	return batch, nil
}

// filterNearDuplicates drops candidates whose title embedding is too close to
// an existing card in the same subsection. Embedding failures never block
// generation; a candidate that cannot be compared is kept.
func (s *batchService) filterNearDuplicates(ctx context.Context, subsectionID string, candidates []domain.NewCardData) []domain.NewCardData {
	if s.embeddingSvc == nil || subsectionID == "" {
		return candidates
	}

	existing, err := s.cardRepo.ListCards(ctx, domain.CardFilters{SubsectionID: subsectionID}, 100, 0)
	if err != nil {
		s.logger.Warn("Failed to list existing cards for duplicate check, keeping all candidates",
			zap.String("subsection_id", subsectionID),
			zap.Error(err))
		return candidates
	}
	if len(existing) == 0 {
		return candidates
	}

	existingEmbeddings := make(map[string][]float32)
	kept := make([]domain.NewCardData, 0, len(candidates))

	for i := range candidates {
		candidate := candidates[i]
		candidateEmbedding, err := s.embeddingSvc.Generate(ctx, candidate.Title)
		if err != nil {
			s.logger.Warn("Failed to embed candidate title, keeping candidate",
				zap.String("title", candidate.Title),
				zap.Error(err))
			kept = append(kept, candidate)
			continue
		}

		isDuplicate := false
		for _, existingCard := range existing {
			existingEmbedding, found := existingEmbeddings[existingCard.ID]
			if !found {
				existingEmbedding, err = s.embeddingSvc.Generate(ctx, existingCard.Title)
				if err != nil {
					s.logger.Warn("Failed to embed existing card title",
						zap.String("card_id", existingCard.ID),
						zap.Error(err))
					continue
				}
				existingEmbeddings[existingCard.ID] = existingEmbedding
			}

			similarity, err := util.CosineSimilarity(candidateEmbedding, existingEmbedding)
			if err != nil {
				continue
			}
			if similarity >= s.cfg.Batch.SimilarityThreshold {
				s.logger.Info("Dropping near-duplicate generated card",
					zap.String("candidate_title", candidate.Title),
					zap.String("existing_card_id", existingCard.ID),
					zap.Float64("similarity", similarity))
				isDuplicate = true
				break
			}
		}
		if !isDuplicate {
			kept = append(kept, candidate)
		}
	}
	return kept
}

// candidateToCard maps an LLM candidate onto a draft card. Generated cards
// start with the needs-sourcing flag set: the LLM provides no verifiable
// sources, so the approval gate stays closed until an editor adds them.
func candidateToCard(data *domain.NewCardData, batchID, subsectionID string) *domain.Card {
	card := domain.NewCard(data.Title, domain.ParseRiskLevel(data.Risk), data.TargetRole)
	card.BatchID = batchID
	card.SubsectionID = subsectionID
	card.Blocks = data.Blocks
	card.Questions = data.Questions
	card.Supplement = data.Supplement
	card.SafetyNetting = data.SafetyNetting
	card.Tags = data.Tags
	card.NeedsSourcing = true
	return card
}

func containsCard(cards []*domain.Card, cardID string) bool {
	for _, card := range cards {
		if card.ID == cardID {
			return true
		}
	}
	return false
}

func toBatchResponse(batch *domain.Batch, cards []*domain.Card) *dto.BatchResponse {
	summaries := make([]dto.CardSummary, 0, len(cards))
	for _, card := range cards {
		summaries = append(summaries, toCardSummary(card))
	}
	return &dto.BatchResponse{
		ID:           batch.ID,
		TemplateID:   batch.TemplateID,
		Topic:        batch.Topic,
		Quiz:         batch.Quiz,
		ActiveCardID: batch.ActiveCardID,
		Cards:        summaries,
		CreatedAt:    batch.CreatedAt,
	}
}
