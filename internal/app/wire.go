// Package app assembles the extraction pipeline shared by the API server and the CLI.
package app

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/GustavoCremonez/backend/internal/domain/entities"
	"github.com/GustavoCremonez/backend/internal/domain/services"
	remotenlp "github.com/GustavoCremonez/backend/internal/infrastructure/external/nlp"
	"github.com/GustavoCremonez/backend/internal/infrastructure/nlp"
	"github.com/GustavoCremonez/backend/internal/usecase/deadline"
	"github.com/GustavoCremonez/backend/internal/usecase/extraction"
	"github.com/GustavoCremonez/backend/internal/usecase/heuristic"
	"github.com/GustavoCremonez/backend/internal/usecase/llm"
	"github.com/GustavoCremonez/backend/pkg/ai"
	"github.com/GustavoCremonez/backend/pkg/config"
	"github.com/GustavoCremonez/backend/pkg/dateresolver"
)

// Pipeline holds the extraction strategies and what they are built from
type Pipeline struct {
	Lexicon    *heuristic.Lexicon
	Annotator  services.Annotator
	Normalizer *deadline.Normalizer
	Strategies map[entities.ExtractionProvider]extraction.Strategy
}

// BuildPipeline wires lexicon, annotator, normalizer and strategies from cfg.
// The gemini strategy is registered only when an API key is configured.
func BuildPipeline(cfg *config.Config, logger *zap.Logger, now func() time.Time) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	lex, err := heuristic.LoadLexicon(cfg.Extraction.LexiconPath)
	if err != nil {
		return nil, fmt.Errorf("load lexicon: %w", err)
	}

	annotator, err := newAnnotator(cfg, lex, logger)
	if err != nil {
		return nil, err
	}

	resolver := dateresolver.New(dateresolver.Options{
		Preference: dateresolver.PreferFuture,
		Order:      dateresolver.OrderDMY,
	})
	normalizer := deadline.NewNormalizer(resolver, now)

	strategies := map[entities.ExtractionProvider]extraction.Strategy{
		entities.ProviderHeuristic: heuristic.New(lex, annotator, normalizer, logger.Named("heuristic")),
	}

	gemini := ai.NewGeminiClient(&cfg.Gemini, logger.Named("gemini"))
	if gemini.Configured() {
		strategies[entities.ProviderGemini] = llm.NewExtractor(gemini, normalizer, logger.Named("llm"))
	} else {
		logger.Info("⚠️  Gemini API key not set, gemini provider disabled")
	}

	return &Pipeline{
		Lexicon:    lex,
		Annotator:  annotator,
		Normalizer: normalizer,
		Strategies: strategies,
	}, nil
}

func newAnnotator(cfg *config.Config, lex *heuristic.Lexicon, logger *zap.Logger) (services.Annotator, error) {
	switch cfg.NLP.Provider {
	case "remote":
		logger.Info("🔗 Using remote NLP annotator", zap.String("url", cfg.NLP.RemoteURL))
		return remotenlp.NewClient(&cfg.NLP, lex.EntityRules(), logger.Named("nlp")), nil
	case "", "local":
		annotator, err := nlp.NewLocalAnnotator(nlp.LocalOptions{
			Rules:  lex.EntityRules(),
			People: lex.TeamNames(),
		})
		if err != nil {
			return nil, fmt.Errorf("build local annotator: %w", err)
		}
		return annotator, nil
	default:
		return nil, fmt.Errorf("unknown NLP provider %q", cfg.NLP.Provider)
	}
}
