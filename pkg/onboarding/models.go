package onboarding

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// StepResponse stores the raw answers of one onboarding wizard step, so
// earlier answers survive a restart of the wizard.
type StepResponse struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID         `gorm:"type:uuid;index:idx_onboarding_user_step,unique"`
	Step      int               `gorm:"index:idx_onboarding_user_step,unique"`
	Response  datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (StepResponse) TableName() string {
	return "onboarding_step_responses"
}
