package extraction

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/GustavoCremonez/backend/internal/domain/entities"
	"github.com/GustavoCremonez/backend/internal/domain/repositories"
	"github.com/GustavoCremonez/backend/internal/domain/services"
	"github.com/GustavoCremonez/backend/internal/infrastructure/metrics"
	"github.com/GustavoCremonez/backend/pkg/jobcontext"
)

// Strategy turns a transcript into per-person records. Both the heuristic
// engine and the LLM extractor satisfy it.
type Strategy interface {
	ExtractAt(ctx context.Context, transcript string, base time.Time) ([]entities.PersonRecord, error)
}

// Request is one extraction call. Transcript wins over ObjectKey when both are set.
type Request struct {
	Transcript string
	ObjectKey  string
	Provider   entities.ExtractionProvider
	// BaseDate overrides the clock for deadline resolution
	BaseDate time.Time
	// BaseDay is a YYYY-MM-DD calendar day read in the service's zone. It wins over BaseDate.
	BaseDay string
}

// Result is the outcome of an extraction
type Result struct {
	RunID    *uuid.UUID
	Provider entities.ExtractionProvider
	Records  []entities.PersonRecord
	Cached   bool
}

// Dependencies wires the service. Only Strategies is required.
type Dependencies struct {
	Strategies      map[entities.ExtractionProvider]Strategy
	DefaultProvider entities.ExtractionProvider
	Store           services.TranscriptStore
	Cache           services.ResultCache
	Runs            repositories.ExtractionRepository
	Metrics         *metrics.Metrics
	Location        *time.Location
	Now             func() time.Time
	// Timeout bounds a single strategy run; zero means no bound
	Timeout time.Duration
}

// Service runs extractions and keeps their history
type Service struct {
	strategies      map[entities.ExtractionProvider]Strategy
	defaultProvider entities.ExtractionProvider
	store           services.TranscriptStore
	cache           services.ResultCache
	runs            repositories.ExtractionRepository
	metrics         *metrics.Metrics
	loc             *time.Location
	now             func() time.Time
	timeout         time.Duration
	logger          *zap.Logger
}

// NewService creates the extraction service
func NewService(deps Dependencies, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Location == nil {
		deps.Location = time.Local
	}
	if deps.DefaultProvider == "" {
		deps.DefaultProvider = entities.ProviderHeuristic
	}
	strategies := make(map[entities.ExtractionProvider]Strategy, len(deps.Strategies))
	for p, s := range deps.Strategies {
		if s != nil {
			strategies[p.Canonical()] = s
		}
	}
	return &Service{
		strategies:      strategies,
		defaultProvider: deps.DefaultProvider,
		store:           deps.Store,
		cache:           deps.Cache,
		runs:            deps.Runs,
		metrics:         deps.Metrics,
		loc:             deps.Location,
		now:             deps.Now,
		timeout:         deps.Timeout,
		logger:          logger,
	}
}

// Providers lists the canonical providers that can serve requests
func (s *Service) Providers() []entities.ExtractionProvider {
	out := make([]entities.ExtractionProvider, 0, len(s.strategies))
	for _, p := range []entities.ExtractionProvider{entities.ProviderHeuristic, entities.ProviderGemini} {
		if _, ok := s.strategies[p]; ok {
			out = append(out, p)
		}
	}
	return out
}

// HistoryEnabled reports whether runs are persisted
func (s *Service) HistoryEnabled() bool {
	return s.runs != nil
}

// Extract resolves the transcript, runs the selected strategy and records the run
func (s *Service) Extract(ctx context.Context, req Request) (*Result, error) {
	provider, strategy, err := s.strategyFor(req.Provider)
	if err != nil {
		return nil, err
	}

	transcript, err := s.loadTranscript(ctx, req)
	if err != nil {
		return nil, err
	}

	base, err := s.baseFor(req)
	if err != nil {
		return nil, err
	}

	key := cacheKey(provider, base, transcript)
	if records, ok := s.lookup(ctx, key); ok {
		return &Result{Provider: provider, Records: records, Cached: true}, nil
	}

	runCtx, cancel := jobcontext.Begin(ctx, uuid.New(), string(provider), s.timeout)
	defer cancel()

	var records []entities.PersonRecord
	err = jobcontext.Run(runCtx, func(ctx context.Context) error {
		var runErr error
		records, runErr = strategy.ExtractAt(ctx, transcript, base)
		return runErr
	})
	elapsed := jobcontext.Elapsed(runCtx)
	done, pending := entities.CountItems(records)
	s.metrics.ObserveExtraction(string(provider), elapsed, done, pending, err)
	if err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			err = fmt.Errorf("extraction exceeded %s: %w", s.timeout, context.DeadlineExceeded)
		}
		s.logger.Error("❌ Extraction failed", append(jobcontext.Fields(runCtx),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)...)
		return nil, err
	}
	if records == nil {
		records = []entities.PersonRecord{}
	}

	s.logger.Info("✅ Extraction finished", append(jobcontext.Fields(runCtx),
		zap.Int("person_count", len(records)),
		zap.Int("done_count", done),
		zap.Int("pending_count", pending),
		zap.Duration("elapsed", elapsed),
	)...)

	payload, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encode records: %w", err)
	}
	s.remember(ctx, key, payload)

	result := &Result{Provider: provider, Records: records}
	if id, ok := s.persist(runCtx, req, transcript, payload, records, elapsed); ok {
		result.RunID = &id
	}
	return result, nil
}

// GetRun returns a stored run
func (s *Service) GetRun(ctx context.Context, id uuid.UUID) (*entities.ExtractionRun, error) {
	if s.runs == nil {
		return nil, entities.ErrHistoryDisabled
	}
	run, err := s.runs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, entities.ErrRunNotFound
	}
	return run, nil
}

// ListRuns returns the most recent runs, newest first
func (s *Service) ListRuns(ctx context.Context, limit int) ([]entities.ExtractionRun, error) {
	if s.runs == nil {
		return nil, entities.ErrHistoryDisabled
	}
	runs, err := s.runs.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	if runs == nil {
		runs = []entities.ExtractionRun{}
	}
	return runs, nil
}

func (s *Service) strategyFor(p entities.ExtractionProvider) (entities.ExtractionProvider, Strategy, error) {
	if p == "" {
		p = s.defaultProvider
	}
	if !p.IsValid() {
		return "", nil, fmt.Errorf("%w: %q", entities.ErrUnknownProvider, p)
	}
	p = p.Canonical()
	strategy, ok := s.strategies[p]
	if !ok {
		return "", nil, fmt.Errorf("%w: %s", entities.ErrProviderUnavailable, p)
	}
	return p, strategy, nil
}

// baseFor picks the reference time for relative deadlines, in the service's zone
func (s *Service) baseFor(req Request) (time.Time, error) {
	if req.BaseDay != "" {
		day, err := time.ParseInLocation("2006-01-02", req.BaseDay, s.loc)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", entities.ErrInvalidBaseDate, req.BaseDay)
		}
		// noon keeps the day under DST shifts at midnight
		return day.Add(12 * time.Hour), nil
	}
	base := req.BaseDate
	if base.IsZero() {
		base = s.now()
	}
	return base.In(s.loc), nil
}

func (s *Service) loadTranscript(ctx context.Context, req Request) (string, error) {
	if req.Transcript != "" {
		return req.Transcript, nil
	}
	key := strings.TrimSpace(req.ObjectKey)
	if key == "" {
		return "", entities.ErrTranscriptEmpty
	}
	if s.store == nil {
		return "", entities.ErrStorageDisabled
	}
	transcript, err := s.store.GetTranscript(ctx, key)
	if err != nil {
		if errors.Is(err, entities.ErrTranscriptMissing) || ctx.Err() != nil {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", entities.ErrStorageFailure, err)
	}
	s.logger.Debug("extraction.transcript.loaded",
		zap.String("object_key", key),
		zap.Int("transcript_length", len(transcript)),
	)
	return transcript, nil
}

// lookup reads a cached result. Cache failures degrade to a miss.
func (s *Service) lookup(ctx context.Context, key string) ([]entities.PersonRecord, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, found, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("⚠️ Result cache read failed", zap.Error(err))
		return nil, false
	}
	s.metrics.ObserveCache(found)
	if !found {
		return nil, false
	}
	var records []entities.PersonRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		s.logger.Warn("⚠️ Discarding unreadable cache entry", zap.Error(err))
		return nil, false
	}
	return records, true
}

func (s *Service) remember(ctx context.Context, key string, payload []byte) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, payload); err != nil {
		s.logger.Warn("⚠️ Result cache write failed", zap.Error(err))
	}
}

// persist stores the run. Failures are logged and never fail the request.
func (s *Service) persist(ctx context.Context, req Request, transcript string, payload []byte, records []entities.PersonRecord, elapsed time.Duration) (uuid.UUID, bool) {
	if s.runs == nil {
		return uuid.Nil, false
	}
	md := jobcontext.GetRunMetadata(ctx)
	done, pending := entities.CountItems(records)
	run := &entities.ExtractionRun{
		ID:             md.RunID,
		Provider:       entities.ExtractionProvider(md.Provider),
		TranscriptHash: hashTranscript(transcript),
		Transcript:     transcript,
		Result:         datatypes.JSON(payload),
		PersonCount:    len(records),
		DoneCount:      done,
		PendingCount:   pending,
		DurationMs:     elapsed.Milliseconds(),
	}
	if req.Transcript == "" && req.ObjectKey != "" {
		key := strings.TrimSpace(req.ObjectKey)
		run.ObjectKey = &key
	}
	if err := s.runs.Create(ctx, run); err != nil {
		s.metrics.ObservePersistFailure()
		s.logger.Error("❌ Failed to store extraction run", append(jobcontext.Fields(ctx), zap.Error(err))...)
		return uuid.Nil, false
	}
	return run.ID, true
}

func hashTranscript(transcript string) string {
	sum := sha256.Sum256([]byte(transcript))
	return hex.EncodeToString(sum[:])
}

// cacheKey scopes results by provider and calendar day, since relative
// deadlines resolve differently on another day
func cacheKey(provider entities.ExtractionProvider, base time.Time, transcript string) string {
	return fmt.Sprintf("%s:%s:%s", provider, base.Format("2006-01-02"), hashTranscript(transcript))
}
