package services

import (
	"context"

	"github.com/GustavoCremonez/backend/internal/domain/entities"
)

// Annotator produces sentences, tokens and named entities for a piece of text.
// Implementations report failures wrapping entities.ErrAnalysisUnavailable.
type Annotator interface {
	Annotate(ctx context.Context, text string) (*entities.Document, error)
}

// LLM sends a prompt to a language model and returns its raw text answer
type LLM interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// TranscriptStore loads transcripts previously uploaded to object storage
type TranscriptStore interface {
	GetTranscript(ctx context.Context, objectKey string) (string, error)
}

// ResultCache stores serialized extraction results by key.
// Get returns found=false on a miss.
type ResultCache interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
}
