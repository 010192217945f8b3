package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/GustavoCremonez/backend/internal/domain/entities"
	"github.com/GustavoCremonez/backend/internal/domain/services"
	"github.com/GustavoCremonez/backend/internal/usecase/deadline"
	"github.com/GustavoCremonez/backend/pkg/ai"
)

// Extractor delegates task extraction to a language model
type Extractor struct {
	client     services.LLM
	normalizer *deadline.Normalizer
	logger     *zap.Logger
}

// NewExtractor creates an LLM-backed extractor
func NewExtractor(client services.LLM, normalizer *deadline.Normalizer, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{client: client, normalizer: normalizer, logger: logger}
}

// Extract prompts the model with transcript and normalizes the deadlines it returns
func (e *Extractor) Extract(ctx context.Context, transcript string) ([]entities.PersonRecord, error) {
	return e.ExtractAt(ctx, transcript, e.normalizer.Now())
}

// ExtractAt is Extract with an explicit base date for deadline resolution.
// Dates proposed by the model are discarded and recomputed from the
// deadline expressions.
func (e *Extractor) ExtractAt(ctx context.Context, transcript string, base time.Time) ([]entities.PersonRecord, error) {
	if strings.TrimSpace(transcript) == "" {
		return []entities.PersonRecord{}, nil
	}

	e.logger.Info("🤖 Sending transcript to LLM", zap.Int("transcript_length", len(transcript)))

	answer, err := e.client.GenerateContent(ctx, BuildPrompt(transcript))
	if err != nil {
		return nil, mapClientError(err)
	}

	records, err := ParseResponse(answer)
	if err != nil {
		e.logger.Error("❌ Failed to parse LLM answer",
			zap.Int("answer_length", len(answer)),
			zap.Error(err),
		)
		return nil, err
	}

	records, err = e.normalizer.NormalizeDeadlinesAt(records, base)
	if err != nil {
		return nil, err
	}

	e.logger.Info("✅ LLM extraction finished", zap.Int("person_count", len(records)))
	return records, nil
}

func mapClientError(err error) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, ai.ErrQuotaExceeded):
		return fmt.Errorf("%w: %v", entities.ErrLLMQuotaExceeded, err)
	case errors.Is(err, ai.ErrEmptyResponse):
		return fmt.Errorf("%w: %v", entities.ErrLLMResponseInvalid, err)
	default:
		return fmt.Errorf("%w: %v", entities.ErrLLMUnavailable, err)
	}
}
