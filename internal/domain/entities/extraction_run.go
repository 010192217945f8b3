package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ExtractionProvider names the backend that produced a result
type ExtractionProvider string

const (
	ProviderHeuristic ExtractionProvider = "heuristic" // Rule-based local pipeline
	ProviderSpacy     ExtractionProvider = "spacy"     // Legacy alias for heuristic
	ProviderGemini    ExtractionProvider = "gemini"    // LLM-backed extraction
)

// Canonical folds aliases into the provider that actually runs
func (p ExtractionProvider) Canonical() ExtractionProvider {
	if p == ProviderSpacy {
		return ProviderHeuristic
	}
	return p
}

// IsValid reports whether the provider is known
func (p ExtractionProvider) IsValid() bool {
	switch p {
	case ProviderHeuristic, ProviderSpacy, ProviderGemini:
		return true
	}
	return false
}

// ExtractionRun is one persisted extraction request and its result
type ExtractionRun struct {
	ID             uuid.UUID          `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Provider       ExtractionProvider `json:"provider" gorm:"type:varchar(32);not null;index"`
	TranscriptHash string             `json:"transcript_hash" gorm:"type:char(64);not null;index"`
	ObjectKey      *string            `json:"object_key,omitempty" gorm:"type:text"`
	Transcript     string             `json:"-" gorm:"type:text;not null"`
	Result         datatypes.JSON     `json:"result" gorm:"type:jsonb;not null"`

	PersonCount  int   `json:"person_count" gorm:"type:integer;not null;default:0"`
	DoneCount    int   `json:"done_count" gorm:"type:integer;not null;default:0"`
	PendingCount int   `json:"pending_count" gorm:"type:integer;not null;default:0"`
	DurationMs   int64 `json:"duration_ms" gorm:"type:bigint;not null;default:0"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName returns the table name for GORM
func (ExtractionRun) TableName() string {
	return "extraction_runs"
}
