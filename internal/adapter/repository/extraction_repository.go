package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/GustavoCremonez/backend/internal/domain/entities"
	"github.com/GustavoCremonez/backend/internal/domain/repositories"
)

// maxListLimit caps ListRecent page sizes
const maxListLimit = 100

// extractionRepository implements the ExtractionRepository interface
type extractionRepository struct {
	db *gorm.DB
}

// NewExtractionRepository creates a new extraction run repository
func NewExtractionRepository(db *gorm.DB) repositories.ExtractionRepository {
	return &extractionRepository{db: db}
}

// Create stores a new extraction run
func (r *extractionRepository) Create(ctx context.Context, run *entities.ExtractionRun) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(run).Error
}

// GetByID retrieves a run by its ID; nil when it does not exist
func (r *extractionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.ExtractionRun, error) {
	var run entities.ExtractionRun
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&run).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// ListRecent returns the newest runs first
func (r *extractionRepository) ListRecent(ctx context.Context, limit int) ([]entities.ExtractionRun, error) {
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}
	var runs []entities.ExtractionRun
	err := r.db.WithContext(ctx).
		Omit("transcript").
		Order("created_at DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, err
	}
	return runs, nil
}
