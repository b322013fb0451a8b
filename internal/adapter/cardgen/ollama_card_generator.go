package cardgen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"dailydose/internal/domain"
	"dailydose/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"go.uber.org/zap"
)

// llmCaller is the subset of the ollama client the generator needs.
type llmCaller interface {
	Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error)
}

// ollamaCardGenerator implements domain.CardGenerationService
type ollamaCardGenerator struct {
	llmClient llmCaller
	timeout   time.Duration
}

// NewOllamaCardGenerator creates a new instance of ollamaCardGenerator
func NewOllamaCardGenerator(llm *ollama.LLM, timeout time.Duration) domain.CardGenerationService {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &ollamaCardGenerator{
		llmClient: llm,
		timeout:   timeout,
	}
}

// GenerateCardBatch implements domain.CardGenerationService. The rendered
// prompt already carries the topic; this wraps it with the output contract the
// parser expects.
func (g *ollamaCardGenerator) GenerateCardBatch(ctx context.Context, prompt string, numCards int) (*domain.GeneratedBatchData, error) {
	l := logger.Get()
	l.Info("Generating card batch with LLM", zap.Int("num_cards", numCards))

	fullPrompt := fmt.Sprintf(`You are an author of short clinical training content for care home staff.

%s

Produce exactly %d training cards plus a short end-of-session quiz of 2-3 questions.
Respond with ONLY a JSON object in the following format:
{
  "cards": [
    {
      "title": "card title",
      "risk": "LOW|MED|HIGH",
      "target_role": "NURSE",
      "blocks": [
        {"type": "text", "heading": "optional", "body": "paragraph text"},
        {"type": "steps", "heading": "optional", "items": ["step one", "step two"]}
      ],
      "questions": [
        {
          "id": "q1",
          "type": "mcq",
          "prompt": "question text",
          "options": [
            {"id": "o1", "text": "option text", "correct": true},
            {"id": "o2", "text": "option text", "correct": false}
          ],
          "explanation": "why the correct answer is correct"
        }
      ],
      "supplement": {"type": "callout", "body": "optional further reading"},
      "safety_netting": "when to escalate",
      "tags": ["topic-tag"]
    }
  ],
  "quiz": [
    {
      "id": "z1",
      "type": "mcq",
      "prompt": "quiz question",
      "options": [
        {"id": "o1", "text": "option", "correct": true},
        {"id": "o2", "text": "option", "correct": false}
      ]
    }
  ]
}

Rules:
1. Every question must have exactly one correct option
2. Block type must be one of: text, callout, steps, do_dont
3. Question type must be one of: mcq, true_false, choose_action
4. Keep card bodies under 120 words`, prompt, numCards)

	rawResponse, err := g.callLLM(ctx, fullPrompt)
	if err != nil {
		l.Error("callLLM failed during card generation", zap.Error(err))
		return nil, domain.NewLLMServiceError(fmt.Errorf("callLLM failed: %w", err))
	}

	l.Debug("Raw LLM response received", zap.String("raw_response", rawResponse))

	cleaned := strings.TrimSpace(rawResponse)
	if thinkStart := strings.Index(cleaned, "<think>"); thinkStart != -1 {
		if thinkEnd := strings.Index(cleaned, "</think>"); thinkEnd != -1 && thinkEnd > thinkStart {
			cleaned = cleaned[:thinkStart] + cleaned[thinkEnd+len("</think>"):]
			cleaned = strings.TrimSpace(cleaned)
		}
	}

	jsonStart := strings.Index(cleaned, "{")
	jsonEnd := strings.LastIndex(cleaned, "}")
	if jsonStart == -1 || jsonEnd <= jsonStart {
		l.Error("Could not find JSON object delimiters in LLM response",
			zap.String("cleaned_response", cleaned))
		return nil, domain.NewLLMServiceError(fmt.Errorf("no JSON object found in LLM response: %s", cleaned))
	}

	extracted := cleaned[jsonStart : jsonEnd+1]
	var batchData domain.GeneratedBatchData
	if errUnmarshal := json.Unmarshal([]byte(extracted), &batchData); errUnmarshal != nil {
		l.Error("Failed to unmarshal extracted JSON from LLM response",
			zap.Error(errUnmarshal),
			zap.String("json_string_tried_to_parse", extracted))
		return nil, domain.NewLLMServiceError(fmt.Errorf("failed to unmarshal JSON from LLM: %w", errUnmarshal))
	}

	valid := batchData.Cards[:0]
	for i := range batchData.Cards {
		card := batchData.Cards[i]
		if card.Title == "" || len(card.Blocks) == 0 {
			l.Warn("LLM generated incomplete card data, skipping", zap.String("title", card.Title))
			continue
		}
		valid = append(valid, card)
	}
	batchData.Cards = valid

	if len(batchData.Cards) == 0 {
		return nil, domain.NewLLMServiceError(fmt.Errorf("LLM returned no usable cards"))
	}

	l.Info("Successfully parsed LLM card batch",
		zap.Int("num_cards", len(batchData.Cards)),
		zap.Int("num_quiz_questions", len(batchData.Quiz)))
	return &batchData, nil
}

func (g *ollamaCardGenerator) callLLM(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	response, err := g.llmClient.Call(ctx, prompt, llms.WithTemperature(0.3))
	if err != nil {
		if err == context.DeadlineExceeded {
			return "", fmt.Errorf("LLM request timed out: %w", err)
		}
		return "", fmt.Errorf("LLM call failed: %w", err)
	}
	return response, nil
}

var _ domain.CardGenerationService = (*ollamaCardGenerator)(nil)
