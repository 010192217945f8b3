package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/GustavoCremonez/backend/internal/domain/entities"
)

// ExtractionRepository defines persistence operations for extraction runs
type ExtractionRepository interface {
	Create(ctx context.Context, run *entities.ExtractionRun) error
	// GetByID returns nil, nil when the run does not exist
	GetByID(ctx context.Context, id uuid.UUID) (*entities.ExtractionRun, error)
	ListRecent(ctx context.Context, limit int) ([]entities.ExtractionRun, error)
}
