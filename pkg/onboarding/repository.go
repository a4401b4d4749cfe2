package onboarding

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&StepResponse{})
}

// SaveStepResponse upserts the stored answers for one wizard step.
func (r *Repository) SaveStepResponse(ctx context.Context, userID uuid.UUID, step int, response map[string]interface{}) error {
	var existing StepResponse
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND step = ?", userID, step).
		First(&existing)

	now := time.Now().UTC()
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		record := StepResponse{
			ID:        uuid.New(),
			UserID:    userID,
			Step:      step,
			Response:  datatypes.JSONMap(response),
			CreatedAt: now,
			UpdatedAt: now,
		}
		return r.db.WithContext(ctx).Create(&record).Error
	}
	if result.Error != nil {
		return result.Error
	}

	existing.Response = datatypes.JSONMap(response)
	existing.UpdatedAt = now
	return r.db.WithContext(ctx).Save(&existing).Error
}

func (r *Repository) ListStepResponses(ctx context.Context, userID uuid.UUID) ([]StepResponse, error) {
	var responses []StepResponse
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("step ASC").
		Find(&responses)
	return responses, result.Error
}
