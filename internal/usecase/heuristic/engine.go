package heuristic

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/GustavoCremonez/backend/internal/domain/entities"
	"github.com/GustavoCremonez/backend/internal/domain/services"
	"github.com/GustavoCremonez/backend/internal/usecase/deadline"
)

// Engine is the rule-based task extractor. It holds no per-call state and
// is safe for concurrent use when its Annotator is.
type Engine struct {
	lex        *Lexicon
	annotator  services.Annotator
	normalizer *deadline.Normalizer
	segmenter  *Segmenter
	splitter   *ClauseSplitter
	patterns   *PatternClassifier
	tense      *TenseClassifier
	logger     *zap.Logger
}

// New creates an engine
func New(lex *Lexicon, annotator services.Annotator, normalizer *deadline.Normalizer, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		lex:        lex,
		annotator:  annotator,
		normalizer: normalizer,
		segmenter:  NewSegmenter(logger),
		splitter:   NewClauseSplitter(lex),
		patterns:   NewPatternClassifier(lex),
		tense:      NewTenseClassifier(lex),
		logger:     logger,
	}
}

// Extract groups the done and pending work found in transcript by person
func (e *Engine) Extract(ctx context.Context, transcript string) ([]entities.PersonRecord, error) {
	return e.ExtractAt(ctx, transcript, e.normalizer.Now())
}

// ExtractAt is Extract with an explicit base date for deadline resolution
func (e *Engine) ExtractAt(ctx context.Context, transcript string, base time.Time) ([]entities.PersonRecord, error) {
	agg := newAggregator()
	lastSpeaker := ""

	for _, turn := range e.segmenter.Segment(transcript) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		speaker := e.lex.NormalizeName(turn.RawSpeakerLabel)
		agg.register(speaker)

		if err := e.processTurn(ctx, agg, turn, speaker, lastSpeaker, base); err != nil {
			return nil, err
		}
		lastSpeaker = speaker
	}

	records, err := e.normalizer.NormalizeDeadlinesAt(agg.result(), base)
	if err != nil {
		return nil, err
	}

	done, pending := entities.CountItems(records)
	if done == 0 && pending == 0 {
		e.logger.Warn("heuristic.extract.empty",
			zap.Int("transcript_length", len(transcript)),
			zap.Int("person_count", len(records)),
		)
	} else {
		e.logger.Debug("heuristic.extract.done",
			zap.Int("person_count", len(records)),
			zap.Int("done_count", done),
			zap.Int("pending_count", pending),
		)
	}
	return records, nil
}

func (e *Engine) processTurn(ctx context.Context, agg *aggregator, turn entities.SpeakerTurn, speaker, lastSpeaker string, base time.Time) error {
	if turn.Utterance == "" {
		return nil
	}
	doc, err := e.annotate(ctx, turn.Utterance)
	if err != nil {
		return err
	}

	for _, sentence := range doc.SentenceTexts() {
		for _, text := range e.splitter.Split(sentence) {
			clause := entities.Clause{Text: text, Speaker: speaker}
			outcome, err := e.classify(ctx, clause, base)
			if err != nil {
				return err
			}
			responsible := ResolveResponsible(e.lex, clause.Text, speaker, lastSpeaker)
			agg.add(responsible, outcome)

			e.logger.Debug("heuristic.clause",
				zap.String("speaker", responsible),
				zap.String("outcome", outcome.Kind.String()),
			)
		}
	}
	return nil
}

// classify runs the pattern categories first, then the tense rules
func (e *Engine) classify(ctx context.Context, clause entities.Clause, base time.Time) (entities.ClauseOutcome, error) {
	if outcome, ok := e.patterns.Classify(clause); ok {
		return outcome, nil
	}

	doc, err := e.annotate(ctx, clause.Text)
	if err != nil {
		return entities.NoOutcome(), err
	}

	if e.tense.IsPast(clause.Text, doc) {
		return entities.DoneOutcome(clause.Text), nil
	}
	if !e.tense.IsFuture(clause.Text, doc) {
		return entities.NoOutcome(), nil
	}

	expr := ExtractDeadline(e.lex, clause.Text, doc)
	date, err := e.normalizer.NormalizeAt(expr, base)
	if err != nil {
		return entities.NoOutcome(), err
	}
	return entities.PendingOutcome(entities.PendingItem{
		Task:         clause.Text,
		DeadlineExpr: expr,
		DeadlineDate: date,
	}), nil
}

func (e *Engine) annotate(ctx context.Context, text string) (*entities.Document, error) {
	if e.annotator == nil {
		return nil, fmt.Errorf("%w: no annotator configured", entities.ErrAnalysisUnavailable)
	}
	doc, err := e.annotator.Annotate(ctx, text)
	if err != nil {
		if errors.Is(err, entities.ErrAnalysisUnavailable) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", entities.ErrAnalysisUnavailable, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: annotator returned no document", entities.ErrAnalysisUnavailable)
	}
	return doc, nil
}
