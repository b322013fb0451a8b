package service

import (
	"context"
	"time"

	"dailydose/internal/config"
	"dailydose/internal/domain"
	"dailydose/internal/dto"
	"dailydose/internal/logger"
	"dailydose/internal/util"

	"go.uber.org/zap"
)

// SessionService defines the interface for learner session operations
type SessionService interface {
	StartSession(ctx context.Context, req *dto.StartSessionRequest) (*dto.SessionResponse, error)
	GetSession(ctx context.Context, sessionID string) (*dto.SessionResponse, error)
	AnswerStep(ctx context.Context, sessionID string, req *dto.AnswerStepRequest) (*dto.AnswerStepResponse, error)
	Seek(ctx context.Context, sessionID string, req *dto.SeekRequest) (*dto.SessionResponse, error)
	SubmitSession(ctx context.Context, sessionID string) (*dto.SubmitSessionResponse, error)
}

// sessionService implements SessionService
type sessionService struct {
	cardRepo    domain.CardRepository
	batchRepo   domain.BatchRepository
	pathwayRepo domain.PathwayRepository
	attemptRepo domain.AttemptRepository
	store       SessionStore
	cfg         *config.Config
}

// NewSessionService creates a new instance of sessionService
func NewSessionService(
	cardRepo domain.CardRepository,
	batchRepo domain.BatchRepository,
	pathwayRepo domain.PathwayRepository,
	attemptRepo domain.AttemptRepository,
	store SessionStore,
	cfg *config.Config,
) SessionService {
	return &sessionService{
		cardRepo:    cardRepo,
		batchRepo:   batchRepo,
		pathwayRepo: pathwayRepo,
		attemptRepo: attemptRepo,
		store:       store,
		cfg:         cfg,
	}
}

// StartSession implements SessionService. It draws published cards for the
// subsection, assembles warm-up and quiz questions, flattens the step list
// once and stores the session under its TTL.
func (s *sessionService) StartSession(ctx context.Context, req *dto.StartSessionRequest) (*dto.SessionResponse, error) {
	subsection, err := s.pathwayRepo.GetSubsectionByID(ctx, req.SubsectionID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get subsection", err)
	}
	if subsection == nil {
		return nil, domain.NewNotFoundError("subsection not found: " + req.SubsectionID)
	}

	cards, err := s.cardRepo.ListPublishedBySubsection(ctx, req.SubsectionID, s.cfg.Session.MaxCards)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list published cards", err)
	}
	if len(cards) < s.cfg.Session.MinCards {
		return nil, domain.NewInvalidInputError("subsection does not have enough published cards for a session")
	}

	warmup := s.buildWarmup(cards)
	quiz := s.buildQuiz(ctx, cards)

	session := domain.NewSession(util.NewULID(), req.SubsectionID, warmup, cards, quiz)
	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}

	logger.Get().Info("Session started",
		zap.String("session_id", session.ID),
		zap.String("subsection_id", req.SubsectionID),
		zap.Int("num_cards", len(cards)),
		zap.Int("num_steps", len(session.Steps)))
	return toSessionResponse(session), nil
}

// GetSession implements SessionService
func (s *sessionService) GetSession(ctx context.Context, sessionID string) (*dto.SessionResponse, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return toSessionResponse(session), nil
}

// AnswerStep implements SessionService
func (s *sessionService) AnswerStep(ctx context.Context, sessionID string, req *dto.AnswerStepRequest) (*dto.AnswerStepResponse, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	result, err := session.Answer(req.StepKey, req.SelectedOptionID)
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}

	return &dto.AnswerStepResponse{
		StepKey:          result.StepKey,
		Correct:          result.Correct,
		SelectedOptionID: result.SelectedOptionID,
		CorrectOptionID:  result.CorrectOptionID,
		Explanation:      result.Explanation,
		AnsweredAt:       result.AnsweredAt,
	}, nil
}

// Seek implements SessionService
func (s *sessionService) Seek(ctx context.Context, sessionID string, req *dto.SeekRequest) (*dto.SessionResponse, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := session.Seek(req.Index); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}
	return toSessionResponse(session), nil
}

// SubmitSession implements SessionService. The accumulated results are
// persisted as one attempt row and the ephemeral state is removed.
func (s *sessionService) SubmitSession(ctx context.Context, sessionID string) (*dto.SubmitSessionResponse, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	correct, answered := session.Score()
	results := make([]domain.QuestionResult, 0, len(session.Results))
	for _, step := range session.Steps {
		if result, ok := session.Results[step.Key]; ok {
			results = append(results, result)
		}
	}

	attempt := &domain.SessionAttempt{
		SessionID:      session.ID,
		SubsectionID:   session.SubsectionID,
		CardIDs:        session.CardIDs,
		Correct:        correct,
		Answered:       answered,
		TotalQuestions: session.QuestionSteps(),
		Results:        results,
		SubmittedAt:    time.Now(),
	}
	if err := s.attemptRepo.SaveAttempt(ctx, attempt); err != nil {
		return nil, domain.NewInternalError("Failed to save session attempt", err)
	}

	if err := s.store.Delete(ctx, sessionID); err != nil {
		logger.Get().Warn("Failed to remove submitted session state",
			zap.String("session_id", sessionID),
			zap.Error(err))
	}

	logger.Get().Info("Session submitted",
		zap.String("session_id", sessionID),
		zap.String("attempt_id", attempt.ID),
		zap.Int("correct", correct),
		zap.Int("answered", answered))
	return &dto.SubmitSessionResponse{
		AttemptID:      attempt.ID,
		Correct:        correct,
		Answered:       answered,
		TotalQuestions: attempt.TotalQuestions,
	}, nil
}

// buildWarmup previews one question per selected card, up to the configured
// warm-up count. Warm-up steps carry their own step kind so the same question
// later appearing as a card step does not collide.
func (s *sessionService) buildWarmup(cards []*domain.Card) []domain.Question {
	warmup := make([]domain.Question, 0, s.cfg.Session.WarmupCount)
	for _, card := range cards {
		if len(warmup) >= s.cfg.Session.WarmupCount {
			break
		}
		questions := card.AllQuestions()
		if len(questions) > 0 {
			warmup = append(warmup, questions[0])
		}
	}
	return warmup
}

// buildQuiz collects the end-of-session quiz from the batches the selected
// cards were generated in. Cards without a batch contribute nothing; a failed
// batch lookup degrades to a session without those quiz questions.
func (s *sessionService) buildQuiz(ctx context.Context, cards []*domain.Card) []domain.Question {
	var quiz []domain.Question
	seenBatches := make(map[string]bool)
	seenQuestions := make(map[string]bool)

	for _, card := range cards {
		if card.BatchID == "" || seenBatches[card.BatchID] {
			continue
		}
		seenBatches[card.BatchID] = true

		batch, err := s.batchRepo.GetBatchByID(ctx, card.BatchID)
		if err != nil {
			logger.Get().Warn("Failed to load batch quiz for session",
				zap.String("batch_id", card.BatchID),
				zap.Error(err))
			continue
		}
		if batch == nil {
			continue
		}
		for _, q := range batch.Quiz {
			if seenQuestions[q.ID] {
				continue
			}
			seenQuestions[q.ID] = true
			quiz = append(quiz, q)
		}
	}
	return quiz
}

func toSessionResponse(session *domain.Session) *dto.SessionResponse {
	steps := make([]dto.StepView, 0, len(session.Steps))
	for i := range session.Steps {
		step := session.Steps[i]
		view := dto.StepView{
			Key:        step.Key,
			Kind:       string(step.Kind),
			CardID:     step.CardID,
			Question:   dto.NewQuestionView(step.Question),
			Supplement: step.Supplement,
			Answered:   session.Answered(step.Key),
		}
		if result, ok := session.Results[step.Key]; ok {
			resultCopy := result
			view.Result = &resultCopy
		}
		steps = append(steps, view)
	}

	return &dto.SessionResponse{
		ID:            session.ID,
		SubsectionID:  session.SubsectionID,
		Phase:         string(session.Phase()),
		Index:         session.Index,
		CurrentCardID: session.CurrentCardID(),
		Steps:         steps,
		CardIDs:       session.CardIDs,
		CreatedAt:     session.CreatedAt,
	}
}
