package onboarding

import (
	"context"

	"github.com/google/uuid"
	"github.com/we4us/platform/pkg/common/models"
	"github.com/we4us/platform/pkg/users"
)

type Service struct {
	repo  *Repository
	users *users.Service
}

func NewService(repo *Repository, userService *users.Service) *Service {
	return &Service{repo: repo, users: userService}
}

// SaveStepResponse stores the step's raw answers and advances the progress
// marker.
func (s *Service) SaveStepResponse(ctx context.Context, userID uuid.UUID, step int, response map[string]interface{}) error {
	if err := s.repo.SaveStepResponse(ctx, userID, step, response); err != nil {
		return err
	}
	return s.users.SetOnboardingStep(ctx, userID, step)
}

func (s *Service) Status(ctx context.Context, userID uuid.UUID) (models.OnboardingStatus, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return models.OnboardingStatus{}, err
	}

	status := models.OnboardingStatus{
		CurrentStep:       user.OnboardingStep,
		Completed:         user.OnboardingCompleted,
		Archetype:         user.Archetype,
		FirstName:         user.FirstName,
		LastName:          user.LastName,
		DisplayName:       user.DisplayName,
		Age:               user.Age,
		Gender:            user.Gender,
		DiagnosisTimeline: user.DiagnosisTimeline,
	}
	if user.Username != nil {
		status.Username = *user.Username
	}
	return status, nil
}

func (s *Service) Complete(ctx context.Context, userID uuid.UUID, req models.CompleteOnboardingRequest) (models.UserSummary, error) {
	user, err := s.users.CompleteOnboarding(ctx, userID, req)
	if err != nil {
		return models.UserSummary{}, err
	}
	return s.users.Sanitize(user), nil
}
